package deps

import (
	"bufio"
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"
)

const probeTimeout = 5 * time.Second

// Version returns the first line printed by binary with args, or "" when the
// binary cannot be run.
func Version(ctx context.Context, binary string, args ...string) string {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	output, err := exec.CommandContext(ctx, binary, args...).Output() //nolint:gosec
	if err != nil {
		return ""
	}
	line, _, _ := strings.Cut(strings.TrimSpace(string(output)), "\n")
	return strings.TrimSpace(line)
}

// HasEncoder reports whether ffmpeg lists encoder (for example libfdk_aac,
// which the high-efficiency audio profile needs and many builds omit).
func HasEncoder(ctx context.Context, ffmpeg, encoder string) bool {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	output, err := exec.CommandContext(ctx, ffmpeg, "-hide_banner", "-encoders").Output() //nolint:gosec
	if err != nil {
		return false
	}
	return listsEncoder(output, encoder)
}

func listsEncoder(output []byte, encoder string) bool {
	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) >= 2 && fields[1] == encoder {
			return true
		}
	}
	return false
}
