// Package media holds the process plumbing shared by the external media
// tools (yt-dlp, ffmpeg, ffprobe). Subpackages wrap individual tools.
package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// stderrTail bounds how much diagnostic output is attached to errors.
const stderrTail = 2048

// Executor abstracts command execution so stages can be tested without the
// real binaries.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) ([]byte, error)
}

// CommandExecutor runs commands with os/exec and returns stdout.
type CommandExecutor struct{}

// Run executes binary. On failure the error carries the exit status and the
// tail of stderr.
func (CommandExecutor) Run(ctx context.Context, binary string, args []string) ([]byte, error) {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	cmd.Stderr = &stderr
	output, err := cmd.Output()
	if err == nil {
		return output, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return output, fmt.Errorf("%s: %w", binary, ctxErr)
	}
	detail := tail(stderr.String())
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if detail != "" {
			return output, fmt.Errorf("%s failed (exit status %d): %s: %w", binary, exitErr.ExitCode(), detail, err)
		}
		return output, fmt.Errorf("%s failed (exit status %d): %w", binary, exitErr.ExitCode(), err)
	}
	return output, fmt.Errorf("%s: %w", binary, err)
}

// WithTimeout derives a context bounded by timeout. A non-positive timeout
// leaves ctx unbounded.
func WithTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

func tail(value string) string {
	value = strings.TrimSpace(value)
	if len(value) <= stderrTail {
		return value
	}
	return "..." + value[len(value)-stderrTail:]
}
