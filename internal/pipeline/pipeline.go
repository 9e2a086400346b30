package pipeline

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"wandlung/internal/assetlock"
	"wandlung/internal/audio"
	"wandlung/internal/blob"
	"wandlung/internal/burn"
	"wandlung/internal/config"
	"wandlung/internal/fetcher"
	"wandlung/internal/logging"
	"wandlung/internal/media"
	"wandlung/internal/notifications"
	"wandlung/internal/services"
	"wandlung/internal/services/anthropic"
	"wandlung/internal/services/whisper"
	"wandlung/internal/store"
	"wandlung/internal/translation"
)

const defaultURLTTL = 300 * time.Second

// Pipeline wires the stages to persistence and blob storage.
type Pipeline struct {
	cfg      *config.Config
	store    *store.Store
	blobs    blob.Provider
	locks    *assetlock.Locker
	fetcher  *fetcher.Fetcher
	audio    *audio.Extractor
	whisper  *whisper.Client
	claude   *anthropic.Client
	burner   *burn.Burner
	notifier notifications.Service
	seed     store.Settings
	urlTTL   time.Duration
	logger   *slog.Logger
}

// Option customizes a Pipeline.
type Option func(*options)

type options struct {
	executor   media.Executor
	httpClient *http.Client
	seed       *store.Settings
	notifier   notifications.Service
}

// WithExecutor replaces the process runner used for yt-dlp and ffmpeg.
func WithExecutor(executor media.Executor) Option {
	return func(o *options) { o.executor = executor }
}

// WithHTTPClient replaces the HTTP client used for thumbnails and providers.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) { o.httpClient = client }
}

// WithSeedSettings sets the record created when no settings exist yet.
// Without it the seed is store.DefaultSettings plus the provider keys found
// in OPENAI_API_KEY and ANTHROPIC_API_KEY.
func WithSeedSettings(settings store.Settings) Option {
	return func(o *options) { o.seed = &settings }
}

// WithNotifier replaces the ntfy service built from the configuration.
func WithNotifier(notifier notifications.Service) Option {
	return func(o *options) { o.notifier = notifier }
}

// New builds a Pipeline.
func New(cfg *config.Config, st *store.Store, blobs blob.Provider, logger *slog.Logger, opts ...Option) *Pipeline {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	ffmpegTimeout := cfg.FFmpegTimeout()
	seed := seedFromEnv()
	if o.seed != nil {
		seed = *o.seed
	}

	var whisperOpts []whisper.Option
	var claudeOpts []anthropic.Option
	if o.httpClient != nil {
		whisperOpts = append(whisperOpts, whisper.WithHTTPClient(o.httpClient))
		claudeOpts = append(claudeOpts, anthropic.WithHTTPClient(o.httpClient))
	}

	notifier := o.notifier
	if notifier == nil {
		notifier = notifications.NewService(cfg)
	}

	ttl := cfg.SignedURLTTL()
	if ttl <= 0 {
		ttl = defaultURLTTL
	}

	return &Pipeline{
		cfg:   cfg,
		store: st,
		blobs: blobs,
		locks: assetlock.New(cfg.LockDir()),
		fetcher: fetcher.New(fetcher.Options{
			Binary:            cfg.Tools.YtDlp,
			FFprobe:           cfg.Tools.FFprobe,
			Timeout:           cfg.FetchTimeout(),
			ThumbnailMaxBytes: cfg.Tools.ThumbnailMaxBytes,
			HTTPClient:        o.httpClient,
			Executor:          o.executor,
			Logger:            logger,
		}),
		audio: audio.New(audio.Options{
			FFmpeg:   cfg.Tools.FFmpeg,
			Timeout:  ffmpegTimeout,
			Executor: o.executor,
			Logger:   logger,
		}),
		whisper: whisper.New(whisper.Config{
			BaseURL:         cfg.Transcription.BaseURL,
			Model:           cfg.Transcription.Model,
			TimeoutSeconds:  cfg.Transcription.TimeoutSeconds,
			DefaultLanguage: cfg.Transcription.DefaultLanguage,
		}, whisperOpts...),
		claude: anthropic.New(anthropic.Config{
			BaseURL:           cfg.Translation.BaseURL,
			Model:             cfg.Translation.Model,
			APIVersion:        cfg.Translation.APIVersion,
			TimeoutSeconds:    cfg.Translation.TimeoutSeconds,
			RequestsPerMinute: cfg.Translation.RequestsPerMinute,
		}, claudeOpts...),
		burner: burn.New(burn.Options{
			FFmpeg:     cfg.Tools.FFmpeg,
			FFprobe:    cfg.Tools.FFprobe,
			ForceStyle: cfg.Burn.ForceStyle,
			VideoCodec: cfg.Burn.VideoCodec,
			WorkRoot:   cfg.Paths.StagingDir,
			Timeout:    ffmpegTimeout,
			Executor:   o.executor,
			Logger:     logger,
		}),
		notifier: notifier,
		seed:     seed,
		urlTTL:   ttl,
		logger:   logging.NewComponentLogger(logger, "pipeline"),
	}
}

// Settings returns the settings record, creating it from the seed on first use.
func (p *Pipeline) Settings(ctx context.Context) (*store.Settings, error) {
	return p.store.EnsureSettings(ctx, p.seed)
}

// SettingsUpdate carries the fields to change. Nil fields keep their value;
// an empty key string clears the key.
type SettingsUpdate struct {
	OpenAIAPIKey    *string `json:"openai_api_key,omitempty" yaml:"openai_api_key,omitempty"`
	AnthropicAPIKey *string `json:"anthropic_api_key,omitempty" yaml:"anthropic_api_key,omitempty"`
	MaxVideoHeight  *int    `json:"max_video_height,omitempty" yaml:"max_video_height,omitempty"`
	UseHEAACv2      *bool   `json:"use_he_aac_v2,omitempty" yaml:"use_he_aac_v2,omitempty"`
}

// UpdateSettings applies update to the settings record, creating the record
// first when it does not exist.
func (p *Pipeline) UpdateSettings(ctx context.Context, update SettingsUpdate) (*store.Settings, error) {
	current, err := p.Settings(ctx)
	if err != nil {
		return nil, err
	}
	next := *current
	if update.OpenAIAPIKey != nil {
		next.OpenAIAPIKey = *update.OpenAIAPIKey
	}
	if update.AnthropicAPIKey != nil {
		next.AnthropicAPIKey = *update.AnthropicAPIKey
	}
	if update.MaxVideoHeight != nil {
		next.MaxVideoHeight = *update.MaxVideoHeight
	}
	if update.UseHEAACv2 != nil {
		next.UseHEAACv2 = *update.UseHEAACv2
	}
	updated, err := p.store.UpdateSettings(ctx, next)
	if err != nil {
		return nil, err
	}
	p.logger.Info("settings updated",
		logging.Int("max_video_height", updated.MaxVideoHeight),
		logging.Bool("use_he_aac_v2", updated.UseHEAACv2),
		logging.Bool("openai_key_set", updated.OpenAIAPIKey != ""),
		logging.Bool("anthropic_key_set", updated.AnthropicAPIKey != ""),
	)
	return updated, nil
}

func (p *Pipeline) translationOptions() translation.Options {
	return translation.Options{
		BatchSize:     p.cfg.Translation.BatchSize,
		MaxIterations: p.cfg.Translation.MaxIterations,
		MaxTokens:     p.cfg.Translation.MaxTokens,
		Protocol:      p.cfg.Translation.Protocol,
	}
}

// begin tags ctx with a correlation id and stage and returns the matching logger.
func (p *Pipeline) begin(ctx context.Context, stage string) (context.Context, *slog.Logger) {
	if _, ok := services.RequestIDFromContext(ctx); !ok {
		ctx = services.WithRequestID(ctx, uuid.NewString())
	}
	ctx = services.WithStage(ctx, stage)
	return ctx, logging.WithContext(ctx, p.logger)
}

func (p *Pipeline) acquire(logger *slog.Logger, videoID string) (func(), error) {
	release, err := p.locks.TryAcquire(videoID)
	if err != nil {
		logger.Info("asset busy", logging.AssetID(videoID), logging.Error(err))
		return nil, err
	}
	return release, nil
}

func seedFromEnv() store.Settings {
	settings := store.DefaultSettings()
	settings.OpenAIAPIKey = strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	settings.AnthropicAPIKey = strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY"))
	return settings
}
