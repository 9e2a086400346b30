package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"wandlung/internal/fileutil"
	"wandlung/internal/logging"
	"wandlung/internal/notifications"
	"wandlung/internal/services"
	"wandlung/internal/staging"
	"wandlung/internal/store"
	"wandlung/internal/subtitles"
)

// Transcribe turns the asset's audio into the transcribed subtitle track. The
// detected language names the track; a second transcription into the same
// language fails with services.ErrDuplicateTrack.
func (p *Pipeline) Transcribe(ctx context.Context, videoID string) (*Track, error) {
	track, err := p.transcribe(ctx, videoID)
	if err != nil {
		p.notifyFailure(ctx, "transcribe", videoID, err)
		return nil, err
	}
	p.notify(ctx, notifications.EventTranscriptionCompleted, notifications.Payload{
		"title":    track.VideoTitle,
		"language": track.Language,
		"cues":     track.Cues,
	})
	return track, nil
}

func (p *Pipeline) transcribe(ctx context.Context, videoID string) (*Track, error) {
	ctx, logger := p.begin(services.WithAssetID(ctx, videoID), "transcribe")
	settings, err := p.Settings(ctx)
	if err != nil {
		return nil, err
	}
	apiKey := strings.TrimSpace(settings.OpenAIAPIKey)
	if apiKey == "" {
		return nil, services.Wrap(services.ErrCredentialMissing, "transcribe", "settings", "OpenAI API key not set", nil)
	}

	asset, err := p.requireAsset(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if !asset.HasAudio() {
		return nil, services.Wrap(services.ErrValidation, "transcribe", "asset", videoID+" has no audio track", nil)
	}

	release, err := p.acquire(logger, asset.VideoID)
	if err != nil {
		return nil, err
	}
	defer release()

	work, err := staging.NewWorkDir(p.cfg.Paths.StagingDir, asset.VideoID+"-transcribe")
	if err != nil {
		return nil, services.Wrap(services.ErrTranscription, "transcribe", "prepare", "create work dir", err)
	}
	defer func() { _ = work.Remove() }()

	audioPath := filepath.Join(work.Path, filepath.Base(asset.AudioKey))
	if err := p.download(ctx, asset.AudioKey, audioPath); err != nil {
		return nil, services.Wrap(services.ErrTranscription, "transcribe", "load audio", asset.AudioKey, err)
	}

	started := time.Now()
	transcript, err := p.whisper.Transcribe(ctx, apiKey, audioPath)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, services.Wrap(services.ErrTranscription, "transcribe", "provider", videoID, err)
	}

	sub, err := p.store.CreateSubtitle(ctx, store.Subtitle{
		VideoID:       asset.VideoID,
		Language:      transcript.Language,
		IsTranscribed: true,
		Content:       transcript.SRT,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("transcription stored",
		logging.SubtitleID(sub.ID),
		logging.String("language", sub.Language),
		logging.Int("cues", subtitles.CountCues(sub.Content)),
		logging.Duration("elapsed", time.Since(started)),
	)
	track := trackView(sub, asset)
	return &track, nil
}

func (p *Pipeline) requireAsset(ctx context.Context, videoID string) (*store.Asset, error) {
	asset, err := p.store.GetAsset(ctx, strings.TrimSpace(videoID))
	if err != nil {
		return nil, err
	}
	if asset == nil {
		return nil, services.Wrap(services.ErrNotFound, "asset", "lookup", fmt.Sprintf("video %q", videoID), nil)
	}
	return asset, nil
}

func (p *Pipeline) download(ctx context.Context, key, target string) error {
	rc, err := p.blobs.Open(ctx, key)
	if err != nil {
		return err
	}
	defer rc.Close()
	if _, err := fileutil.CopyToFile(rc, target); err != nil {
		return err
	}
	return nil
}
