package preflight

import (
	"context"

	"wandlung/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name     string `json:"name" yaml:"name"`
	Passed   bool   `json:"passed" yaml:"passed"`
	Optional bool   `json:"optional,omitempty" yaml:"optional,omitempty"`
	Detail   string `json:"detail" yaml:"detail"`
}

// Credentials summarizes the provider keys and codec choice held in the
// settings row.
type Credentials struct {
	Present           bool
	TranscriptionKey  bool
	TranslationKey    bool
	UseHighEfficiency bool
	CheckReachability bool
}

// RunAll executes the checks applicable to cfg and creds.
func RunAll(ctx context.Context, cfg *config.Config, creds Credentials) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Staging directory", cfg.Paths.StagingDir),
		CheckDirectoryAccess("Data directory", cfg.Paths.DataDir),
	}
	if cfg.Storage.Backend == config.StorageLocal {
		results = append(results, CheckDirectoryAccess("Media directory", cfg.Storage.LocalDir))
	}
	results = append(results, CheckTools(ctx, cfg)...)
	results = append(results, CheckAudioEncoder(ctx, cfg.Tools.FFmpeg, creds.UseHighEfficiency))
	results = append(results, CheckCredentials(creds)...)
	if creds.CheckReachability {
		results = append(results,
			CheckEndpoint(ctx, "Transcription API", cfg.Transcription.BaseURL),
			CheckEndpoint(ctx, "Translation API", cfg.Translation.BaseURL),
		)
	}
	return results
}

// Failed returns the non-optional checks that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed && !r.Optional {
			failed = append(failed, r)
		}
	}
	return failed
}
