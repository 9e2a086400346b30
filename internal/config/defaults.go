package config

const (
	StorageLocal = "local"
	StorageS3    = "s3"

	ProtocolStructured = "structured"
	ProtocolMarker     = "marker"
)

const (
	defaultStagingDir            = "~/.local/share/wandlung/staging"
	defaultDataDir               = "~/.local/share/wandlung"
	defaultLogDir                = "~/.local/share/wandlung/logs"
	defaultAPIBind               = "127.0.0.1:8484"
	defaultStorageBackend        = StorageLocal
	defaultLocalStorageDir       = "~/.local/share/wandlung/media"
	defaultPublicBaseURL         = "http://127.0.0.1:8484"
	defaultURLTTLSeconds         = 300
	defaultS3Region              = "us-east-1"
	defaultYtDlpBinary           = "yt-dlp"
	defaultFFmpegBinary          = "ffmpeg"
	defaultFFprobeBinary         = "ffprobe"
	defaultFetchTimeoutSeconds   = 1800
	defaultFFmpegTimeoutSeconds  = 3600
	defaultThumbnailMaxBytes     = 10 << 20
	defaultTranscriptionBaseURL  = "https://api.openai.com/v1"
	defaultTranscriptionModel    = "whisper-1"
	defaultTranscriptionTimeout  = 600
	defaultTranscriptionLanguage = "English"
	defaultTranslationBaseURL    = "https://api.anthropic.com/v1"
	defaultTranslationModel      = "claude-3-5-sonnet-latest"
	defaultTranslationAPIVersion = "2023-06-01"
	defaultTranslationBatchSize  = 20
	defaultTranslationIterations = 100
	defaultTranslationMaxTokens  = 4096
	defaultTranslationProtocol   = ProtocolStructured
	defaultTranslationRPM        = 50
	defaultTranslationTimeout    = 120
	defaultBurnForceStyle        = "FontSize=22"
	defaultBurnVideoCodec        = "libx264"
	defaultNtfyTimeout           = 10
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StagingDir: defaultStagingDir,
			DataDir:    defaultDataDir,
			LogDir:     defaultLogDir,
			APIBind:    defaultAPIBind,
		},
		Storage: Storage{
			Backend:       defaultStorageBackend,
			LocalDir:      defaultLocalStorageDir,
			PublicBaseURL: defaultPublicBaseURL,
			URLTTLSeconds: defaultURLTTLSeconds,
			S3Region:      defaultS3Region,
			S3UseSSL:      true,
		},
		Tools: Tools{
			YtDlp:                defaultYtDlpBinary,
			FFmpeg:               defaultFFmpegBinary,
			FFprobe:              defaultFFprobeBinary,
			FetchTimeoutSeconds:  defaultFetchTimeoutSeconds,
			FFmpegTimeoutSeconds: defaultFFmpegTimeoutSeconds,
			ThumbnailMaxBytes:    defaultThumbnailMaxBytes,
		},
		Transcription: Transcription{
			BaseURL:         defaultTranscriptionBaseURL,
			Model:           defaultTranscriptionModel,
			TimeoutSeconds:  defaultTranscriptionTimeout,
			DefaultLanguage: defaultTranscriptionLanguage,
		},
		Translation: Translation{
			BaseURL:           defaultTranslationBaseURL,
			Model:             defaultTranslationModel,
			APIVersion:        defaultTranslationAPIVersion,
			BatchSize:         defaultTranslationBatchSize,
			MaxIterations:     defaultTranslationIterations,
			MaxTokens:         defaultTranslationMaxTokens,
			Protocol:          defaultTranslationProtocol,
			RequestsPerMinute: defaultTranslationRPM,
			TimeoutSeconds:    defaultTranslationTimeout,
		},
		Burn: Burn{
			ForceStyle: defaultBurnForceStyle,
			VideoCodec: defaultBurnVideoCodec,
		},
		Notifications: Notifications{
			RequestTimeoutSeconds: defaultNtfyTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
