package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeStorage(); err != nil {
		return err
	}
	c.normalizeTools()
	c.normalizeTranscription()
	c.normalizeTranslation()
	c.normalizeBurn()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StagingDir) == "" {
		c.Paths.StagingDir = defaultStagingDir
	}
	if c.Paths.StagingDir, err = expandPath(c.Paths.StagingDir); err != nil {
		return fmt.Errorf("paths.staging_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	return nil
}

func (c *Config) normalizeStorage() error {
	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	if c.Storage.Backend == "" {
		c.Storage.Backend = defaultStorageBackend
	}
	if strings.TrimSpace(c.Storage.LocalDir) == "" {
		c.Storage.LocalDir = defaultLocalStorageDir
	}
	var err error
	if c.Storage.LocalDir, err = expandPath(c.Storage.LocalDir); err != nil {
		return fmt.Errorf("storage.local_dir: %w", err)
	}
	c.Storage.SigningKey = strings.TrimSpace(c.Storage.SigningKey)
	if c.Storage.SigningKey == "" {
		if value, ok := os.LookupEnv("WANDLUNG_SIGNING_KEY"); ok {
			c.Storage.SigningKey = strings.TrimSpace(value)
		}
	}
	c.Storage.PublicBaseURL = strings.TrimRight(strings.TrimSpace(c.Storage.PublicBaseURL), "/")
	if c.Storage.PublicBaseURL == "" {
		c.Storage.PublicBaseURL = "http://" + c.Paths.APIBind
	}
	if c.Storage.URLTTLSeconds <= 0 {
		c.Storage.URLTTLSeconds = defaultURLTTLSeconds
	}
	c.Storage.S3Endpoint = strings.TrimSpace(c.Storage.S3Endpoint)
	c.Storage.S3Bucket = strings.TrimSpace(c.Storage.S3Bucket)
	if c.Storage.S3AccessKey == "" {
		if value, ok := os.LookupEnv("S3_ACCESS_KEY"); ok {
			c.Storage.S3AccessKey = value
		}
	}
	if c.Storage.S3SecretKey == "" {
		if value, ok := os.LookupEnv("S3_SECRET_KEY"); ok {
			c.Storage.S3SecretKey = value
		}
	}
	c.Storage.S3AccessKey = strings.TrimSpace(c.Storage.S3AccessKey)
	c.Storage.S3SecretKey = strings.TrimSpace(c.Storage.S3SecretKey)
	if strings.TrimSpace(c.Storage.S3Region) == "" {
		c.Storage.S3Region = defaultS3Region
	}
	return nil
}

func (c *Config) normalizeTools() {
	c.Tools.YtDlp = fallback(c.Tools.YtDlp, defaultYtDlpBinary)
	c.Tools.FFmpeg = fallback(c.Tools.FFmpeg, defaultFFmpegBinary)
	c.Tools.FFprobe = fallback(c.Tools.FFprobe, defaultFFprobeBinary)
	if c.Tools.FetchTimeoutSeconds <= 0 {
		c.Tools.FetchTimeoutSeconds = defaultFetchTimeoutSeconds
	}
	if c.Tools.FFmpegTimeoutSeconds <= 0 {
		c.Tools.FFmpegTimeoutSeconds = defaultFFmpegTimeoutSeconds
	}
	if c.Tools.ThumbnailMaxBytes <= 0 {
		c.Tools.ThumbnailMaxBytes = defaultThumbnailMaxBytes
	}
}

func (c *Config) normalizeTranscription() {
	c.Transcription.BaseURL = strings.TrimRight(fallback(c.Transcription.BaseURL, defaultTranscriptionBaseURL), "/")
	c.Transcription.Model = fallback(c.Transcription.Model, defaultTranscriptionModel)
	c.Transcription.DefaultLanguage = fallback(c.Transcription.DefaultLanguage, defaultTranscriptionLanguage)
	if c.Transcription.TimeoutSeconds <= 0 {
		c.Transcription.TimeoutSeconds = defaultTranscriptionTimeout
	}
}

func (c *Config) normalizeTranslation() {
	c.Translation.BaseURL = strings.TrimRight(fallback(c.Translation.BaseURL, defaultTranslationBaseURL), "/")
	c.Translation.Model = fallback(c.Translation.Model, defaultTranslationModel)
	c.Translation.APIVersion = fallback(c.Translation.APIVersion, defaultTranslationAPIVersion)
	c.Translation.Protocol = strings.ToLower(fallback(c.Translation.Protocol, defaultTranslationProtocol))
	if c.Translation.BatchSize <= 0 {
		c.Translation.BatchSize = defaultTranslationBatchSize
	}
	if c.Translation.MaxIterations <= 0 {
		c.Translation.MaxIterations = defaultTranslationIterations
	}
	if c.Translation.MaxTokens <= 0 {
		c.Translation.MaxTokens = defaultTranslationMaxTokens
	}
	if c.Translation.RequestsPerMinute < 0 {
		c.Translation.RequestsPerMinute = 0
	}
	if c.Translation.TimeoutSeconds <= 0 {
		c.Translation.TimeoutSeconds = defaultTranslationTimeout
	}
}

func (c *Config) normalizeBurn() {
	c.Burn.ForceStyle = fallback(c.Burn.ForceStyle, defaultBurnForceStyle)
	c.Burn.VideoCodec = fallback(c.Burn.VideoCodec, defaultBurnVideoCodec)
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.NtfyTopic == "" {
		if value, ok := os.LookupEnv("WANDLUNG_NTFY_TOPIC"); ok {
			c.Notifications.NtfyTopic = strings.TrimSpace(value)
		}
	}
	if c.Notifications.RequestTimeoutSeconds <= 0 {
		c.Notifications.RequestTimeoutSeconds = defaultNtfyTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func fallback(value, def string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return def
}
