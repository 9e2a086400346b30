package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"wandlung/internal/staging"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and bind address configuration.
type Paths struct {
	StagingDir string `toml:"staging_dir"`
	DataDir    string `toml:"data_dir"`
	LogDir     string `toml:"log_dir"`
	APIBind    string `toml:"api_bind"`
}

// Storage selects and configures the blob backend for videos, thumbnails and audio.
type Storage struct {
	Backend       string `toml:"backend"`
	LocalDir      string `toml:"local_dir"`
	SigningKey    string `toml:"signing_key"`
	PublicBaseURL string `toml:"public_base_url"`
	URLTTLSeconds int    `toml:"url_ttl_seconds"`

	S3Endpoint  string `toml:"s3_endpoint"`
	S3Bucket    string `toml:"s3_bucket"`
	S3AccessKey string `toml:"s3_access_key"`
	S3SecretKey string `toml:"s3_secret_key"`
	S3Region    string `toml:"s3_region"`
	S3UseSSL    bool   `toml:"s3_use_ssl"`
}

// Tools names the external binaries and their wall-clock limits.
type Tools struct {
	YtDlp                string `toml:"ytdlp"`
	FFmpeg               string `toml:"ffmpeg"`
	FFprobe              string `toml:"ffprobe"`
	FetchTimeoutSeconds  int    `toml:"fetch_timeout_seconds"`
	FFmpegTimeoutSeconds int    `toml:"ffmpeg_timeout_seconds"`
	ThumbnailMaxBytes    int64  `toml:"thumbnail_max_bytes"`
}

// Transcription configures the speech-to-text provider.
type Transcription struct {
	BaseURL         string `toml:"base_url"`
	Model           string `toml:"model"`
	TimeoutSeconds  int    `toml:"timeout_seconds"`
	DefaultLanguage string `toml:"default_language"`
}

// Translation configures the chunked translation engine and its provider.
type Translation struct {
	BaseURL           string `toml:"base_url"`
	Model             string `toml:"model"`
	APIVersion        string `toml:"api_version"`
	BatchSize         int    `toml:"batch_size"`
	MaxIterations     int    `toml:"max_iterations"`
	MaxTokens         int    `toml:"max_tokens"`
	Protocol          string `toml:"protocol"`
	RequestsPerMinute int    `toml:"requests_per_minute"`
	TimeoutSeconds    int    `toml:"timeout_seconds"`
}

// Burn configures subtitle rendering.
type Burn struct {
	ForceStyle string `toml:"force_style"`
	VideoCodec string `toml:"video_codec"`
}

// Notifications configures optional ntfy push messages for pipeline events.
type Notifications struct {
	NtfyTopic             string `toml:"ntfy_topic"`
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all static configuration values for wandlung.
//
// Provider credentials and per-run media choices are not part of this file;
// they live in the persisted settings record.
type Config struct {
	Paths         Paths         `toml:"paths"`
	Storage       Storage       `toml:"storage"`
	Tools         Tools         `toml:"tools"`
	Transcription Transcription `toml:"transcription"`
	Translation   Translation   `toml:"translation"`
	Burn          Burn          `toml:"burn"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/wandlung/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	// A missing .env is the common case.
	_ = godotenv.Load()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("wandlung.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the service writes into.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.StagingDir, c.Paths.DataDir, c.Paths.LogDir}
	if c.Storage.Backend == StorageLocal {
		dirs = append(dirs, c.Storage.LocalDir)
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// DatabasePath returns the SQLite database location.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Paths.DataDir, "wandlung.db")
}

// LockDir returns the directory holding per-asset lock files.
func (c *Config) LockDir() string {
	return filepath.Join(c.Paths.StagingDir, staging.LockDirName)
}

// SignedURLTTL returns how long signed media links stay valid.
func (c *Config) SignedURLTTL() time.Duration {
	return time.Duration(c.Storage.URLTTLSeconds) * time.Second
}

// FetchTimeout bounds a single yt-dlp run.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.Tools.FetchTimeoutSeconds) * time.Second
}

// FFmpegTimeout bounds a single ffmpeg run.
func (c *Config) FFmpegTimeout() time.Duration {
	return time.Duration(c.Tools.FFmpegTimeoutSeconds) * time.Second
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
