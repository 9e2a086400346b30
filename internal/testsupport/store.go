package testsupport

import (
	"context"
	"testing"

	"wandlung/internal/config"
	"wandlung/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// NewAsset inserts an asset with placeholder blob keys.
func NewAsset(t testing.TB, st *store.Store, videoID string) *store.Asset {
	t.Helper()

	asset, err := st.CreateAsset(context.Background(), store.Asset{
		VideoID:      videoID,
		Title:        "Video " + videoID,
		Duration:     42,
		Width:        1280,
		Height:       720,
		VideoKey:     "videos/" + videoID + ".mp4",
		ThumbnailKey: "thumbnails/" + videoID + ".jpg",
		AudioKey:     "audio/" + videoID + ".m4a",
	})
	if err != nil {
		t.Fatalf("store.CreateAsset: %v", err)
	}
	return asset
}

// NewSettings creates the settings record with both provider keys set.
func NewSettings(t testing.TB, st *store.Store) *store.Settings {
	t.Helper()

	settings := store.DefaultSettings()
	settings.OpenAIAPIKey = "sk-openai-test"
	settings.AnthropicAPIKey = "sk-anthropic-test"
	created, err := st.CreateSettings(context.Background(), settings)
	if err != nil {
		t.Fatalf("store.CreateSettings: %v", err)
	}
	return created
}
