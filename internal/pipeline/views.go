package pipeline

import (
	"context"
	"time"

	"wandlung/internal/logging"
	"wandlung/internal/store"
	"wandlung/internal/subtitles"
)

// Video is an asset as shown to callers, with signed links to its blobs.
type Video struct {
	VideoID      string         `json:"video_id" yaml:"video_id"`
	Title        string         `json:"title" yaml:"title"`
	SourceURL    string         `json:"source_url,omitempty" yaml:"source_url,omitempty"`
	Duration     float64        `json:"duration" yaml:"duration"`
	Width        int            `json:"width" yaml:"width"`
	Height       int            `json:"height" yaml:"height"`
	VideoURL     string         `json:"video_url,omitempty" yaml:"video_url,omitempty"`
	ThumbnailURL string         `json:"thumbnail_url,omitempty" yaml:"thumbnail_url,omitempty"`
	AudioURL     string         `json:"audio_url,omitempty" yaml:"audio_url,omitempty"`
	CreatedAt    time.Time      `json:"created_at" yaml:"created_at"`
	Subtitles    []TrackSummary `json:"subtitles,omitempty" yaml:"subtitles,omitempty"`
}

// TrackSummary is a subtitle track without its content.
type TrackSummary struct {
	ID                int64  `json:"id" yaml:"id"`
	VideoID           string `json:"video_id" yaml:"video_id"`
	VideoThumbnailURL string `json:"video_thumbnail_url,omitempty" yaml:"video_thumbnail_url,omitempty"`
	Language          string `json:"language" yaml:"language"`
	IsTranscribed     bool   `json:"is_transcribed" yaml:"is_transcribed"`
	Cues              int    `json:"cues" yaml:"cues"`
}

// Track is a subtitle track with its content and owning video.
type Track struct {
	ID            int64     `json:"id" yaml:"id"`
	VideoID       string    `json:"video_id" yaml:"video_id"`
	VideoTitle    string    `json:"video_title" yaml:"video_title"`
	Language      string    `json:"language" yaml:"language"`
	IsTranscribed bool      `json:"is_transcribed" yaml:"is_transcribed"`
	Content       string    `json:"content" yaml:"content"`
	Cues          int       `json:"cues" yaml:"cues"`
	CreatedAt     time.Time `json:"created" yaml:"created"`
	UpdatedAt     time.Time `json:"updated" yaml:"updated"`
}

// TrackPage is one page of the track listing.
type TrackPage struct {
	Items    []TrackSummary `json:"items" yaml:"items"`
	Count    int            `json:"count" yaml:"count"`
	Page     int            `json:"page" yaml:"page"`
	PageSize int            `json:"page_size" yaml:"page_size"`
}

// signedURL returns "" when signing fails; a listing should still render.
func (p *Pipeline) signedURL(ctx context.Context, key string) string {
	if key == "" {
		return ""
	}
	url, err := p.blobs.SignedURL(ctx, key, p.urlTTL)
	if err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, p.logger), "sign blob url failed", "blob_sign_failed",
			logging.String("key", key),
			logging.Error(err),
			logging.String(logging.FieldImpact, "link omitted from response"),
			logging.String(logging.FieldErrorHint, "check storage backend configuration"),
		)
		return ""
	}
	return url
}

func (p *Pipeline) videoView(ctx context.Context, asset *store.Asset, tracks []*store.Subtitle) Video {
	view := Video{
		VideoID:      asset.VideoID,
		Title:        asset.Title,
		SourceURL:    asset.SourceURL,
		Duration:     asset.Duration,
		Width:        asset.Width,
		Height:       asset.Height,
		VideoURL:     p.signedURL(ctx, asset.VideoKey),
		ThumbnailURL: p.signedURL(ctx, asset.ThumbnailKey),
		AudioURL:     p.signedURL(ctx, asset.AudioKey),
		CreatedAt:    asset.CreatedAt,
	}
	for _, track := range tracks {
		view.Subtitles = append(view.Subtitles, summarize(track, ""))
	}
	return view
}

func summarize(sub *store.Subtitle, thumbnailURL string) TrackSummary {
	return TrackSummary{
		ID:                sub.ID,
		VideoID:           sub.VideoID,
		VideoThumbnailURL: thumbnailURL,
		Language:          sub.Language,
		IsTranscribed:     sub.IsTranscribed,
		Cues:              subtitles.CountCues(sub.Content),
	}
}

func trackView(sub *store.Subtitle, asset *store.Asset) Track {
	track := Track{
		ID:            sub.ID,
		VideoID:       sub.VideoID,
		Language:      sub.Language,
		IsTranscribed: sub.IsTranscribed,
		Content:       sub.Content,
		Cues:          subtitles.CountCues(sub.Content),
		CreatedAt:     sub.CreatedAt,
		UpdatedAt:     sub.UpdatedAt,
	}
	if asset != nil {
		track.VideoTitle = asset.Title
	}
	return track
}
