package pipeline

import (
	"context"
	"log/slog"
	"time"

	"wandlung/internal/audio"
	"wandlung/internal/blob"
	"wandlung/internal/fetcher"
	"wandlung/internal/logging"
	"wandlung/internal/notifications"
	"wandlung/internal/services"
	"wandlung/internal/staging"
	"wandlung/internal/store"
)

// Download fetches url, extracts its audio and stores the asset. The asset row
// is written only after all three blobs are uploaded; on any failure the
// uploaded blobs are deleted again and nothing is persisted.
func (p *Pipeline) Download(ctx context.Context, url string) (*Video, error) {
	video, err := p.fetchAsset(ctx, url)
	if err != nil {
		p.notifyFailure(ctx, "download", url, err)
		return nil, err
	}
	p.notify(ctx, notifications.EventVideoDownloaded, notifications.Payload{"title": video.Title, "video_id": video.VideoID})
	return video, nil
}

func (p *Pipeline) fetchAsset(ctx context.Context, url string) (*Video, error) {
	ctx, logger := p.begin(ctx, "download")
	settings, err := p.Settings(ctx)
	if err != nil {
		return nil, err
	}

	work, err := staging.NewWorkDir(p.cfg.Paths.StagingDir, "fetch")
	if err != nil {
		return nil, services.Wrap(services.ErrFetch, "download", "prepare", "create work dir", err)
	}
	defer func() {
		if err := work.Remove(); err != nil {
			logger.Warn("work dir cleanup failed", logging.String("path", work.Path), logging.Error(err))
		}
	}()

	started := time.Now()
	fetched, err := p.fetcher.Fetch(ctx, url, settings.MaxVideoHeight, work.Path)
	if err != nil {
		return nil, err
	}
	ctx = services.WithAssetID(ctx, fetched.VideoID)
	logger = logging.WithContext(ctx, p.logger)

	release, err := p.acquire(logger, fetched.VideoID)
	if err != nil {
		return nil, err
	}
	defer release()

	existing, err := p.store.GetAsset(ctx, fetched.VideoID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, services.Wrap(services.ErrDuplicateAsset, "download", "check", fetched.VideoID+" already downloaded", nil)
	}

	profile := audio.ProfileFor(settings.UseHEAACv2)
	audioPath, err := p.audio.Extract(ctx, fetched.VideoPath, fetched.VideoID, work.Path, profile)
	if err != nil {
		return nil, err
	}

	asset, err := p.persistAsset(ctx, logger, fetched, audioPath)
	if err != nil {
		return nil, err
	}
	logger.Info("asset stored",
		logging.String("title", asset.Title),
		logging.String("audio_profile", profile.Name),
		logging.Duration("elapsed", time.Since(started)),
	)
	view := p.videoView(ctx, asset, nil)
	return &view, nil
}

func (p *Pipeline) persistAsset(ctx context.Context, logger *slog.Logger, fetched fetcher.Result, audioPath string) (*store.Asset, error) {
	uploads := []struct{ key, path string }{
		{blob.VideoKey(fetched.VideoID), fetched.VideoPath},
		{blob.ThumbnailKey(fetched.VideoID), fetched.ThumbnailPath},
		{blob.AudioKey(fetched.VideoID), audioPath},
	}
	var uploaded []string
	rollback := func() {
		p.deleteBlobs(context.WithoutCancel(ctx), logger, uploaded...)
	}
	for _, u := range uploads {
		if err := blob.PutFile(ctx, p.blobs, u.key, u.path); err != nil {
			rollback()
			return nil, services.Wrap(services.ErrFetch, "download", "upload", u.key, err)
		}
		uploaded = append(uploaded, u.key)
	}

	asset, err := p.store.CreateAsset(ctx, store.Asset{
		VideoID:      fetched.VideoID,
		Title:        fetched.Title,
		SourceURL:    fetched.SourceURL,
		Duration:     fetched.Duration,
		Width:        fetched.Width,
		Height:       fetched.Height,
		VideoKey:     uploads[0].key,
		ThumbnailKey: uploads[1].key,
		AudioKey:     uploads[2].key,
	})
	if err != nil {
		rollback()
		return nil, err
	}
	return asset, nil
}

func (p *Pipeline) deleteBlobs(ctx context.Context, logger *slog.Logger, keys ...string) {
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := p.blobs.Delete(ctx, key); err != nil {
			logging.WarnWithContext(logger, "blob delete failed", "blob_delete_failed",
				logging.String("key", key),
				logging.Error(err),
				logging.String(logging.FieldImpact, "orphaned object left in storage"),
				logging.String(logging.FieldErrorHint, "remove the object manually"),
			)
		}
	}
}
