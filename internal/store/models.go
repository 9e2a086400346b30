package store

import (
	"slices"
	"strings"
	"time"
)

// Asset is a fetched video together with its derived blobs.
type Asset struct {
	VideoID      string    `json:"video_id"`
	Title        string    `json:"title"`
	SourceURL    string    `json:"source_url,omitempty"`
	Duration     float64   `json:"duration"`
	Width        int       `json:"width"`
	Height       int       `json:"height"`
	VideoKey     string    `json:"video_key"`
	ThumbnailKey string    `json:"thumbnail_key"`
	AudioKey     string    `json:"audio_key,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// HasAudio reports whether an extracted audio track is stored for the asset.
func (a *Asset) HasAudio() bool {
	return a != nil && strings.TrimSpace(a.AudioKey) != ""
}

// Subtitle is one language track for an asset.
type Subtitle struct {
	ID            int64     `json:"id"`
	VideoID       string    `json:"video_id"`
	Language      string    `json:"language"`
	IsTranscribed bool      `json:"is_transcribed"`
	Content       string    `json:"content"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Settings is the singleton pipeline configuration record.
type Settings struct {
	OpenAIAPIKey    string    `json:"openai_api_key,omitempty"`
	AnthropicAPIKey string    `json:"anthropic_api_key,omitempty"`
	MaxVideoHeight  int       `json:"max_video_height"`
	UseHEAACv2      bool      `json:"use_he_aac_v2"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// VideoHeights lists the accepted MaxVideoHeight values in ascending order.
var VideoHeights = []int{240, 360, 480, 720, 1080}

// DefaultMaxVideoHeight is applied when settings are created without a height.
const DefaultMaxVideoHeight = 720

// ValidVideoHeight reports whether height is one of VideoHeights.
func ValidVideoHeight(height int) bool {
	return slices.Contains(VideoHeights, height)
}

// DefaultSettings returns the settings record created on first use.
func DefaultSettings() Settings {
	return Settings{MaxVideoHeight: DefaultMaxVideoHeight, UseHEAACv2: true}
}

// Page selects a window of a listing. Number is 1-based.
type Page struct {
	Number int
	Size   int
}

const (
	defaultPageSize = 20
	maxPageSize     = 200
)

// Normalized clamps the page to valid bounds.
func (p Page) Normalized() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Size <= 0 {
		p.Size = defaultPageSize
	}
	if p.Size > maxPageSize {
		p.Size = maxPageSize
	}
	return p
}

func (p Page) offset() int {
	return (p.Number - 1) * p.Size
}
