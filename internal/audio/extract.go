// Package audio extracts an audio-only track from a downloaded video with
// ffmpeg, using one of two AAC profiles.
package audio

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"wandlung/internal/fileutil"
	"wandlung/internal/logging"
	"wandlung/internal/media"
	"wandlung/internal/services"
)

// Profile selects codec parameters for extraction.
type Profile struct {
	Name    string
	Codec   string
	Profile string
	Bitrate string
}

var (
	// HEAACv2 is the low-bitrate high-efficiency profile.
	HEAACv2 = Profile{Name: "he-aac-v2", Codec: "libfdk_aac", Profile: "aac_he_v2", Bitrate: "24k"}
	// AAC is the standard profile.
	AAC = Profile{Name: "aac", Codec: "aac", Bitrate: "128k"}
)

// ProfileFor maps the settings flag to a profile.
func ProfileFor(useHEAACv2 bool) Profile {
	if useHEAACv2 {
		return HEAACv2
	}
	return AAC
}

// Options configures an Extractor.
type Options struct {
	FFmpeg   string
	Timeout  time.Duration
	Executor media.Executor
	Logger   *slog.Logger
}

// Extractor runs ffmpeg.
type Extractor struct {
	binary  string
	timeout time.Duration
	exec    media.Executor
	logger  *slog.Logger
}

// New constructs an Extractor.
func New(opts Options) *Extractor {
	binary := strings.TrimSpace(opts.FFmpeg)
	if binary == "" {
		binary = "ffmpeg"
	}
	executor := opts.Executor
	if executor == nil {
		executor = media.CommandExecutor{}
	}
	return &Extractor{
		binary:  binary,
		timeout: opts.Timeout,
		exec:    executor,
		logger:  logging.NewComponentLogger(opts.Logger, "audio"),
	}
}

// Args builds the ffmpeg argument list for profile.
func Args(videoPath, outputPath string, profile Profile) []string {
	args := []string{"-y", "-hide_banner", "-loglevel", "error", "-i", videoPath, "-vn", "-c:a", profile.Codec}
	if profile.Profile != "" {
		args = append(args, "-profile:a", profile.Profile)
	}
	return append(args, "-b:a", profile.Bitrate, outputPath)
}

// Extract writes <workDir>/<videoID>.m4a and returns its path. A non-zero
// exit or a missing/empty output is reported as services.ErrTranscode and
// any partial output is removed.
func (e *Extractor) Extract(ctx context.Context, videoPath, videoID, workDir string, profile Profile) (string, error) {
	output := filepath.Join(workDir, videoID+".m4a")
	logger := logging.WithContext(ctx, e.logger)

	runCtx, cancel := media.WithTimeout(ctx, e.timeout)
	defer cancel()
	started := time.Now()
	if _, err := e.exec.Run(runCtx, e.binary, Args(videoPath, output, profile)); err != nil {
		_ = os.Remove(output)
		return "", services.Wrap(services.ErrTranscode, "audio", "ffmpeg", profile.Name, err)
	}
	size, err := fileutil.RequireNonEmpty(output)
	if err != nil {
		_ = os.Remove(output)
		return "", services.Wrap(services.ErrTranscode, "audio", "verify output", profile.Name, err)
	}
	logger.Info("audio extracted",
		logging.String("profile", profile.Name),
		logging.Int64("bytes", size),
		logging.Duration("elapsed", time.Since(started)),
	)
	return output, nil
}
