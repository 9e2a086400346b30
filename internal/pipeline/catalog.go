package pipeline

import (
	"context"
	"fmt"
	"strings"

	"wandlung/internal/logging"
	"wandlung/internal/services"
	"wandlung/internal/store"
	"wandlung/internal/subtitles"
)

// RecentLimit caps the recent-videos listing.
const RecentLimit = 10

// ListVideos returns assets newest first. A zero limit returns all of them.
func (p *Pipeline) ListVideos(ctx context.Context, limit int) ([]Video, error) {
	assets, err := p.store.ListAssets(ctx, limit)
	if err != nil {
		return nil, err
	}
	views := make([]Video, 0, len(assets))
	for _, asset := range assets {
		views = append(views, p.videoView(ctx, asset, nil))
	}
	return views, nil
}

// RecentVideos returns the newest RecentLimit assets.
func (p *Pipeline) RecentVideos(ctx context.Context) ([]Video, error) {
	return p.ListVideos(ctx, RecentLimit)
}

// GetVideo returns one asset with its track summaries.
func (p *Pipeline) GetVideo(ctx context.Context, videoID string) (*Video, error) {
	asset, err := p.requireAsset(ctx, videoID)
	if err != nil {
		return nil, err
	}
	tracks, err := p.store.ListSubtitlesForAsset(ctx, asset.VideoID)
	if err != nil {
		return nil, err
	}
	view := p.videoView(ctx, asset, tracks)
	return &view, nil
}

// DeleteVideo removes an asset, its tracks and its blobs.
func (p *Pipeline) DeleteVideo(ctx context.Context, videoID string) error {
	ctx, logger := p.begin(services.WithAssetID(ctx, videoID), "delete")
	asset, err := p.requireAsset(ctx, videoID)
	if err != nil {
		return err
	}
	release, err := p.acquire(logger, asset.VideoID)
	if err != nil {
		return err
	}
	defer release()

	removed, err := p.store.DeleteAsset(ctx, asset.VideoID)
	if err != nil {
		return err
	}
	if !removed {
		return services.Wrap(services.ErrNotFound, "delete", "asset", fmt.Sprintf("video %q", videoID), nil)
	}
	p.deleteBlobs(context.WithoutCancel(ctx), logger, asset.VideoKey, asset.ThumbnailKey, asset.AudioKey)
	logger.Info("asset deleted")
	return nil
}

// ListTracks returns one page of subtitle tracks, newest first.
func (p *Pipeline) ListTracks(ctx context.Context, page store.Page) (*TrackPage, error) {
	page = page.Normalized()
	subs, total, err := p.store.ListSubtitles(ctx, page)
	if err != nil {
		return nil, err
	}
	result := &TrackPage{Items: make([]TrackSummary, 0, len(subs)), Count: total, Page: page.Number, PageSize: page.Size}
	thumbs := make(map[string]string)
	for _, sub := range subs {
		thumb, ok := thumbs[sub.VideoID]
		if !ok {
			if asset, err := p.store.GetAsset(ctx, sub.VideoID); err == nil && asset != nil {
				thumb = p.signedURL(ctx, asset.ThumbnailKey)
			}
			thumbs[sub.VideoID] = thumb
		}
		result.Items = append(result.Items, summarize(sub, thumb))
	}
	return result, nil
}

// GetTrack returns one subtitle track with its content.
func (p *Pipeline) GetTrack(ctx context.Context, id int64) (*Track, error) {
	sub, err := p.requireSubtitle(ctx, id)
	if err != nil {
		return nil, err
	}
	asset, err := p.store.GetAsset(ctx, sub.VideoID)
	if err != nil {
		return nil, err
	}
	track := trackView(sub, asset)
	return &track, nil
}

// WebVTT returns a track converted to WebVTT.
func (p *Pipeline) WebVTT(ctx context.Context, id int64) (string, error) {
	sub, err := p.requireSubtitle(ctx, id)
	if err != nil {
		return "", err
	}
	return subtitles.ToWebVTT(sub.Content), nil
}

// UpdateTrack replaces the content of a track. Content that does not parse
// as SRT is still stored; the problems are logged.
func (p *Pipeline) UpdateTrack(ctx context.Context, id int64, content string) (*Track, error) {
	ctx, logger := p.begin(services.WithSubtitleID(ctx, id), "edit")
	if strings.TrimSpace(content) == "" {
		return nil, services.Wrap(services.ErrValidation, "edit", "content", "subtitle content is empty", nil)
	}
	sub, err := p.store.UpdateSubtitleContent(ctx, id, content)
	if err != nil {
		return nil, err
	}
	if problems := subtitles.Validate(content); len(problems) > 0 {
		logging.WarnWithContext(logger, "edited subtitle has problems", "subtitle_invalid",
			logging.Int("problems", len(problems)),
			logging.String("first_problem", problems[0]),
			logging.String(logging.FieldImpact, "WebVTT output and burn-in may skip cues"),
			logging.String(logging.FieldErrorHint, "fix the reported cue timing"),
		)
	}
	asset, err := p.store.GetAsset(ctx, sub.VideoID)
	if err != nil {
		return nil, err
	}
	track := trackView(sub, asset)
	return &track, nil
}

// DeleteTrack removes a subtitle track.
func (p *Pipeline) DeleteTrack(ctx context.Context, id int64) error {
	removed, err := p.store.DeleteSubtitle(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		return services.Wrap(services.ErrNotFound, "subtitle", "delete", fmt.Sprintf("subtitle %d", id), nil)
	}
	return nil
}
