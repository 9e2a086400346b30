package pipeline

import (
	"context"

	"wandlung/internal/preflight"
)

// Health runs the preflight checks against the current settings. A settings
// read failure is reported as a failed check rather than an error.
func (p *Pipeline) Health(ctx context.Context, checkReachability bool) []preflight.Result {
	creds := preflight.Credentials{CheckReachability: checkReachability}
	settings, err := p.Settings(ctx)
	if err == nil {
		creds.Present = true
		creds.TranscriptionKey = settings.OpenAIAPIKey != ""
		creds.TranslationKey = settings.AnthropicAPIKey != ""
		creds.UseHighEfficiency = settings.UseHEAACv2
	}
	results := preflight.RunAll(ctx, p.cfg, creds)
	if err != nil {
		results = append(results, preflight.Result{Name: "Settings", Detail: err.Error()})
	}
	if err := p.store.Ping(ctx); err != nil {
		results = append(results, preflight.Result{Name: "Database", Detail: err.Error()})
	} else {
		results = append(results, preflight.Result{Name: "Database", Passed: true, Detail: p.store.Path()})
	}
	return results
}
