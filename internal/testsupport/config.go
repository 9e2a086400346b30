// Package testsupport builds isolated configurations and stores for tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"wandlung/internal/config"
)

// ConfigOption adjusts the configuration returned by NewConfig.
type ConfigOption func(*config.Config)

// NewConfig returns the default configuration with every directory placed
// under a fresh t.TempDir, local blob storage, and a fixed signing key.
// Logging to files is off.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	root := t.TempDir()
	cfg := config.Default()
	cfg.Paths.StagingDir = filepath.Join(root, "staging")
	cfg.Paths.DataDir = filepath.Join(root, "data")
	cfg.Paths.LogDir = ""
	cfg.Paths.APIBind = "127.0.0.1:0"
	cfg.Storage.Backend = config.StorageLocal
	cfg.Storage.LocalDir = filepath.Join(root, "media")
	cfg.Storage.SigningKey = "test-signing-key"
	cfg.Storage.PublicBaseURL = "http://media.test"
	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// BaseDir returns the temp directory NewConfig placed everything under.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StagingDir)
}

// WithTranslationBatch sets the cue batch size and the iteration ceiling of
// the translation loop.
func WithTranslationBatch(batchSize, maxIterations int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Translation.BatchSize = batchSize
		cfg.Translation.MaxIterations = maxIterations
	}
}

// WithProviderURLs points the provider clients at test servers. Empty values
// keep the defaults.
func WithProviderURLs(transcription, translation string) ConfigOption {
	return func(cfg *config.Config) {
		if transcription != "" {
			cfg.Transcription.BaseURL = transcription
		}
		if translation != "" {
			cfg.Translation.BaseURL = translation
		}
	}
}
