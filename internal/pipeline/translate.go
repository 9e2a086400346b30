package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"wandlung/internal/language"
	"wandlung/internal/logging"
	"wandlung/internal/notifications"
	"wandlung/internal/services"
	"wandlung/internal/store"
	"wandlung/internal/translation"
)

// TranslateRequest selects the target language of a translation.
type TranslateRequest struct {
	TargetLanguage string   `json:"target_language"`
	Temperature    *float64 `json:"temperature,omitempty"`
}

// Translation is the stored track plus how the exchange ended.
type Translation struct {
	Track   Track               `json:"track" yaml:"track"`
	Turns   int                 `json:"turns" yaml:"turns"`
	Outcome translation.Outcome `json:"outcome" yaml:"outcome"`
}

// Translate translates a track and stores the result as a new track of the
// same video. The source track is never modified and no track is written
// when any step fails.
func (p *Pipeline) Translate(ctx context.Context, subtitleID int64, req TranslateRequest) (*Translation, error) {
	result, err := p.translate(ctx, subtitleID, req)
	if err != nil {
		p.notifyFailure(ctx, "translate", fmt.Sprintf("subtitle %d", subtitleID), err)
		return nil, err
	}
	p.notify(ctx, notifications.EventTranslationCompleted, notifications.Payload{
		"title":    result.Track.VideoTitle,
		"language": result.Track.Language,
		"cues":     result.Track.Cues,
	})
	return result, nil
}

func (p *Pipeline) translate(ctx context.Context, subtitleID int64, req TranslateRequest) (*Translation, error) {
	ctx, logger := p.begin(services.WithSubtitleID(ctx, subtitleID), "translate")
	settings, err := p.Settings(ctx)
	if err != nil {
		return nil, err
	}
	apiKey := strings.TrimSpace(settings.AnthropicAPIKey)
	if apiKey == "" {
		return nil, services.Wrap(services.ErrCredentialMissing, "translate", "settings", "Anthropic API key not set", nil)
	}

	target := language.DisplayName(req.TargetLanguage)
	if target == "" {
		return nil, services.Wrap(services.ErrValidation, "translate", "request", "target language required", nil)
	}
	source, err := p.requireSubtitle(ctx, subtitleID)
	if err != nil {
		return nil, err
	}
	ctx = services.WithAssetID(ctx, source.VideoID)
	logger = logging.WithContext(ctx, p.logger)

	if existing, err := p.store.FindSubtitle(ctx, source.VideoID, target); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, services.Wrap(services.ErrDuplicateTrack, "translate", "check",
			fmt.Sprintf("%s already has a %s track (id %d)", source.VideoID, target, existing.ID), nil)
	}

	release, err := p.acquire(logger, source.VideoID)
	if err != nil {
		return nil, err
	}
	defer release()

	started := time.Now()
	engine := translation.NewEngine(p.claude.WithAPIKey(apiKey), p.translationOptions(), p.logger)
	result, err := engine.Translate(ctx, translation.Request{
		Source:         source.Content,
		TargetLanguage: target,
		Temperature:    req.Temperature,
	})
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(result.Text) == "" {
		return nil, services.Wrap(services.ErrProtocolViolation, "translate", "collect",
			fmt.Sprintf("model returned no translated text after %d turns", result.Turns), nil)
	}

	sub, err := p.store.CreateSubtitle(ctx, store.Subtitle{
		VideoID:       source.VideoID,
		Language:      target,
		IsTranscribed: false,
		Content:       result.Text,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("translation stored",
		logging.Int64("source_subtitle_id", source.ID),
		logging.SubtitleID(sub.ID),
		logging.String("language", target),
		logging.Int("turns", result.Turns),
		logging.String("outcome", string(result.Outcome)),
		logging.Duration("elapsed", time.Since(started)),
	)

	asset, err := p.store.GetAsset(ctx, sub.VideoID)
	if err != nil {
		return nil, err
	}
	return &Translation{Track: trackView(sub, asset), Turns: result.Turns, Outcome: result.Outcome}, nil
}

func (p *Pipeline) requireSubtitle(ctx context.Context, id int64) (*store.Subtitle, error) {
	sub, err := p.store.GetSubtitle(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, services.Wrap(services.ErrNotFound, "subtitle", "lookup", fmt.Sprintf("subtitle %d", id), nil)
	}
	return sub, nil
}
