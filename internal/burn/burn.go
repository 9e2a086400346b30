package burn

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"wandlung/internal/fileutil"
	"wandlung/internal/logging"
	"wandlung/internal/media"
	"wandlung/internal/media/ffprobe"
	"wandlung/internal/services"
)

const (
	DefaultForceStyle = "FontSize=22"
	DefaultVideoCodec = "libx264"
)

// Options configures a Burner.
type Options struct {
	FFmpeg     string
	FFprobe    string
	ForceStyle string
	VideoCodec string
	WorkRoot   string
	Timeout    time.Duration
	Executor   media.Executor
	Logger     *slog.Logger
}

// Request describes one burn.
type Request struct {
	// Name is the base name of the produced file, without extension.
	Name     string
	Video    io.Reader
	Subtitle string
	Start    *float64
	End      *float64
	// Duration of the source video in seconds; used as the default end.
	Duration float64
}

// Burner runs ffmpeg.
type Burner struct {
	binary     string
	forceStyle string
	codec      string
	workRoot   string
	timeout    time.Duration
	exec       media.Executor
	probe      func(ctx context.Context, path string) (ffprobe.Result, error)
	logger     *slog.Logger
}

// New constructs a Burner.
func New(opts Options) *Burner {
	binary := strings.TrimSpace(opts.FFmpeg)
	if binary == "" {
		binary = "ffmpeg"
	}
	style := strings.TrimSpace(opts.ForceStyle)
	if style == "" {
		style = DefaultForceStyle
	}
	codec := strings.TrimSpace(opts.VideoCodec)
	if codec == "" {
		codec = DefaultVideoCodec
	}
	executor := opts.Executor
	if executor == nil {
		executor = media.CommandExecutor{}
	}
	ffprobeBinary := opts.FFprobe
	return &Burner{
		binary:     binary,
		forceStyle: style,
		codec:      codec,
		workRoot:   opts.WorkRoot,
		timeout:    opts.Timeout,
		exec:       executor,
		probe: func(ctx context.Context, path string) (ffprobe.Result, error) {
			return ffprobe.Inspect(ctx, ffprobeBinary, path)
		},
		logger: logging.NewComponentLogger(opts.Logger, "burn"),
	}
}

// Window resolves the trim points. Start defaults to 0 and end to duration.
func Window(start, end *float64, duration float64) (float64, float64, error) {
	from := 0.0
	if start != nil {
		from = *start
	}
	to := duration
	if end != nil {
		to = *end
	}
	if from < 0 {
		return 0, 0, fmt.Errorf("start %.3fs is negative", from)
	}
	if to <= from {
		return 0, 0, fmt.Errorf("end %.3fs must be after start %.3fs", to, from)
	}
	return from, to, nil
}

// Args builds the ffmpeg command line.
func Args(videoPath, srtPath, outputPath, forceStyle, codec string, start, end float64) []string {
	filter := "subtitles=filename=" + quoteFilterValue(srtPath) + ":force_style=" + quoteFilterValue(forceStyle)
	return []string{
		"-y", "-hide_banner", "-loglevel", "error",
		"-i", videoPath,
		"-c:a", "copy",
		"-vf", filter,
		"-c:v", codec,
		"-ss", formatSeconds(start),
		"-to", formatSeconds(end),
		outputPath,
	}
}

// Burn renders req and returns the result stream. The caller must Close it.
func (b *Burner) Burn(ctx context.Context, req Request) (out *Output, err error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || strings.ContainsAny(name, `/\`) {
		return nil, services.Wrap(services.ErrValidation, "burn", "validate", fmt.Sprintf("invalid output name %q", req.Name), nil)
	}
	if req.Video == nil {
		return nil, services.Wrap(services.ErrValidation, "burn", "validate", "video source required", nil)
	}
	if strings.TrimSpace(req.Subtitle) == "" {
		return nil, services.Wrap(services.ErrValidation, "burn", "validate", "subtitle is empty", nil)
	}
	if req.Start != nil && req.End != nil {
		if _, _, err := Window(req.Start, req.End, req.Duration); err != nil {
			return nil, services.Wrap(services.ErrValidation, "burn", "validate", err.Error(), nil)
		}
	}

	if b.workRoot != "" {
		if err := os.MkdirAll(b.workRoot, 0o755); err != nil {
			return nil, services.Wrap(services.ErrBurn, "burn", "prepare", "create work root", err)
		}
	}
	workDir, err := os.MkdirTemp(b.workRoot, name+"-burn-")
	if err != nil {
		return nil, services.Wrap(services.ErrBurn, "burn", "prepare", "create work dir", err)
	}
	defer func() {
		if err != nil {
			_ = os.RemoveAll(workDir)
		}
	}()

	videoPath := filepath.Join(workDir, "source.mp4")
	srtPath := filepath.Join(workDir, "subtitle.srt")
	outputPath := filepath.Join(workDir, name+".mp4")
	defer func() {
		_ = os.Remove(videoPath)
		_ = os.Remove(srtPath)
	}()

	if _, err := fileutil.CopyToFile(req.Video, videoPath); err != nil {
		return nil, services.Wrap(services.ErrBurn, "burn", "materialize video", name, err)
	}
	if err := os.WriteFile(srtPath, []byte(req.Subtitle), 0o644); err != nil {
		return nil, services.Wrap(services.ErrBurn, "burn", "materialize subtitle", name, err)
	}

	duration := req.Duration
	if duration <= 0 && req.End == nil {
		probed, probeErr := b.probe(ctx, videoPath)
		if probeErr != nil {
			return nil, services.Wrap(services.ErrBurn, "burn", "probe duration", name, probeErr)
		}
		duration = probed.DurationSeconds()
	}
	start, end, err := Window(req.Start, req.End, duration)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "burn", "validate", err.Error(), nil)
	}

	logger := logging.WithContext(ctx, b.logger)
	runCtx, cancel := media.WithTimeout(ctx, b.timeout)
	defer cancel()
	started := time.Now()
	if _, err := b.exec.Run(runCtx, b.binary, Args(videoPath, srtPath, outputPath, b.forceStyle, b.codec, start, end)); err != nil {
		return nil, services.Wrap(services.ErrBurn, "burn", "ffmpeg", name, err)
	}
	size, err := fileutil.RequireNonEmpty(outputPath)
	if err != nil {
		return nil, services.Wrap(services.ErrBurn, "burn", "verify output", name, err)
	}
	file, err := os.Open(outputPath)
	if err != nil {
		return nil, services.Wrap(services.ErrBurn, "burn", "open output", name, err)
	}

	logger.Info("subtitles burned",
		logging.Float64("start_seconds", start),
		logging.Float64("end_seconds", end),
		logging.Int64("bytes", size),
		logging.Duration("elapsed", time.Since(started)),
	)
	return &Output{Name: name + ".mp4", Size: size, file: file, dir: workDir}, nil
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// quoteFilterValue single-quotes a filter option value, escaping quotes and
// backslashes.
func quoteFilterValue(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + replacer.Replace(value) + "'"
}
