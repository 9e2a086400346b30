package fetcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"wandlung/internal/logging"
	"wandlung/internal/media"
	"wandlung/internal/media/ffprobe"
	"wandlung/internal/services"
)

const (
	defaultBinary            = "yt-dlp"
	defaultThumbnailMaxBytes = 10 << 20
	defaultThumbnailTimeout  = 30 * time.Second
)

// Options configures a Fetcher.
type Options struct {
	Binary            string
	FFprobe           string
	Timeout           time.Duration
	ThumbnailMaxBytes int64
	HTTPClient        *http.Client
	Executor          media.Executor
	Logger            *slog.Logger
}

// Result describes a downloaded video.
type Result struct {
	VideoID       string
	Title         string
	SourceURL     string
	Duration      float64
	Width         int
	Height        int
	VideoPath     string
	ThumbnailPath string
}

// Fetcher runs yt-dlp.
type Fetcher struct {
	binary       string
	timeout      time.Duration
	maxThumbnail int64
	httpClient   *http.Client
	exec         media.Executor
	probe        func(ctx context.Context, path string) (ffprobe.Result, error)
	logger       *slog.Logger
}

// New constructs a Fetcher.
func New(opts Options) *Fetcher {
	binary := strings.TrimSpace(opts.Binary)
	if binary == "" {
		binary = defaultBinary
	}
	maxThumb := opts.ThumbnailMaxBytes
	if maxThumb <= 0 {
		maxThumb = defaultThumbnailMaxBytes
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultThumbnailTimeout}
	}
	executor := opts.Executor
	if executor == nil {
		executor = media.CommandExecutor{}
	}
	ffprobeBinary := opts.FFprobe
	return &Fetcher{
		binary:       binary,
		timeout:      opts.Timeout,
		maxThumbnail: maxThumb,
		httpClient:   client,
		exec:         executor,
		probe: func(ctx context.Context, path string) (ffprobe.Result, error) {
			return ffprobe.Inspect(ctx, ffprobeBinary, path)
		},
		logger: logging.NewComponentLogger(opts.Logger, "fetcher"),
	}
}

// FormatSelector returns the yt-dlp format expression for maxHeight.
func FormatSelector(maxHeight int) string {
	h := strconv.Itoa(maxHeight)
	return "bestvideo[height<=" + h + "]+bestaudio/best[height<=" + h + "]/best"
}

func (f *Fetcher) args(url string, maxHeight int, workDir string) []string {
	return []string{
		"-f", FormatSelector(maxHeight),
		"--merge-output-format", "mp4",
		"-o", filepath.Join(workDir, "%(id)s.%(ext)s"),
		"--no-simulate",
		"--dump-single-json",
		"--no-progress",
		"--no-playlist",
		"--", url,
	}
}

type videoInfo struct {
	ID                 string  `json:"id"`
	Title              string  `json:"title"`
	Duration           float64 `json:"duration"`
	Width              int     `json:"width"`
	Height             int     `json:"height"`
	Thumbnail          string  `json:"thumbnail"`
	WebpageURL         string  `json:"webpage_url"`
	Filename           string  `json:"_filename"`
	LegacyFilename     string  `json:"filename"`
	RequestedDownloads []struct {
		Filepath string `json:"filepath"`
	} `json:"requested_downloads"`
}

// Fetch downloads url into workDir.
func (f *Fetcher) Fetch(ctx context.Context, url string, maxHeight int, workDir string) (Result, error) {
	var empty Result
	url = strings.TrimSpace(url)
	if url == "" {
		return empty, services.Wrap(services.ErrValidation, "fetch", "validate", "url required", nil)
	}
	if maxHeight <= 0 {
		return empty, services.Wrap(services.ErrValidation, "fetch", "validate", "max height must be positive", nil)
	}
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return empty, services.Wrap(services.ErrFetch, "fetch", "prepare", "create work dir", err)
	}

	logger := logging.WithContext(ctx, f.logger)
	started := time.Now()
	runCtx, cancel := media.WithTimeout(ctx, f.timeout)
	output, err := f.exec.Run(runCtx, f.binary, f.args(url, maxHeight, workDir))
	cancel()
	if err != nil {
		return empty, services.Wrap(services.ErrFetch, "fetch", "yt-dlp", url, err)
	}

	info, err := decodeInfo(output)
	if err != nil {
		return empty, services.Wrap(services.ErrFetch, "fetch", "parse metadata", url, err)
	}
	videoPath, err := locateVideo(info, workDir)
	if err != nil {
		return empty, services.Wrap(services.ErrFetch, "fetch", "locate video", info.ID, err)
	}

	result := Result{
		VideoID:   info.ID,
		Title:     strings.TrimSpace(info.Title),
		SourceURL: firstNonEmpty(info.WebpageURL, url),
		Duration:  info.Duration,
		Width:     info.Width,
		Height:    info.Height,
		VideoPath: videoPath,
	}
	if result.Width <= 0 || result.Height <= 0 || result.Duration <= 0 {
		f.fillFromProbe(ctx, logger, &result)
	}

	thumbPath := filepath.Join(workDir, info.ID+".jpg")
	if err := f.downloadThumbnail(ctx, info.Thumbnail, thumbPath); err != nil {
		return empty, services.Wrap(services.ErrFetch, "fetch", "thumbnail", info.ID, err)
	}
	result.ThumbnailPath = thumbPath

	logger.Info("video downloaded",
		logging.AssetID(result.VideoID),
		logging.Int("width", result.Width),
		logging.Int("height", result.Height),
		logging.Float64("duration_seconds", result.Duration),
		logging.Duration("elapsed", time.Since(started)),
	)
	return result, nil
}

func (f *Fetcher) fillFromProbe(ctx context.Context, logger *slog.Logger, result *Result) {
	probed, err := f.probe(ctx, result.VideoPath)
	if err != nil {
		logging.WarnWithContext(logger, "ffprobe fallback failed", "probe_failed",
			logging.AssetID(result.VideoID),
			logging.Error(err),
			logging.String(logging.FieldImpact, "video metadata may be incomplete"),
			logging.String(logging.FieldErrorHint, "verify ffprobe is installed"),
		)
		return
	}
	if result.Width <= 0 || result.Height <= 0 {
		result.Width, result.Height = probed.Dimensions()
	}
	if result.Duration <= 0 {
		result.Duration = probed.DurationSeconds()
	}
}

func decodeInfo(output []byte) (videoInfo, error) {
	var info videoInfo
	trimmed := strings.TrimSpace(string(output))
	// yt-dlp prints one JSON document; warnings go to stderr but some
	// extractors leak lines to stdout first.
	if idx := strings.Index(trimmed, "{"); idx > 0 {
		trimmed = trimmed[idx:]
	}
	if err := json.Unmarshal([]byte(trimmed), &info); err != nil {
		return info, fmt.Errorf("decode yt-dlp json: %w", err)
	}
	info.ID = strings.TrimSpace(info.ID)
	if info.ID == "" {
		return info, errors.New("yt-dlp reported no video id")
	}
	if strings.ContainsAny(info.ID, `/\`) || info.ID == "." || info.ID == ".." {
		return info, fmt.Errorf("unsafe video id %q", info.ID)
	}
	return info, nil
}

func locateVideo(info videoInfo, workDir string) (string, error) {
	candidates := make([]string, 0, len(info.RequestedDownloads)+2)
	for _, d := range info.RequestedDownloads {
		candidates = append(candidates, d.Filepath)
	}
	candidates = append(candidates, info.Filename, info.LegacyFilename)
	for _, candidate := range candidates {
		if candidate = strings.TrimSpace(candidate); candidate == "" {
			continue
		}
		if stat, err := os.Stat(candidate); err == nil && stat.Mode().IsRegular() && stat.Size() > 0 {
			return candidate, nil
		}
	}
	matches, err := filepath.Glob(filepath.Join(workDir, info.ID+".*"))
	if err != nil {
		return "", err
	}
	for _, match := range matches {
		ext := strings.ToLower(filepath.Ext(match))
		if ext == ".part" || ext == ".ytdl" || ext == ".jpg" {
			continue
		}
		if stat, err := os.Stat(match); err == nil && stat.Mode().IsRegular() && stat.Size() > 0 {
			return match, nil
		}
	}
	return "", errors.New("downloaded file not found")
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
