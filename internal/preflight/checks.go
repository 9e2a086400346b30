package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"wandlung/internal/config"
	"wandlung/internal/deps"
)

const endpointTimeout = 5 * time.Second

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckTools locates the external binaries the pipeline runs.
func CheckTools(ctx context.Context, cfg *config.Config) []Result {
	found := deps.Probe(ctx, []deps.Tool{
		{Name: "yt-dlp", Binary: cfg.Tools.YtDlp, Purpose: "video download", VersionArgs: []string{"--version"}},
		{Name: "FFmpeg", Binary: cfg.Tools.FFmpeg, Purpose: "audio extraction and burn-in"},
		{Name: "FFprobe", Binary: cfg.Tools.FFprobe, Purpose: "missing video metadata", Optional: true},
	})
	results := make([]Result, 0, len(found))
	for _, tool := range found {
		results = append(results, Result{Name: tool.Name, Passed: tool.Found(), Optional: tool.Optional, Detail: tool.Summary()})
	}
	return results
}

// CheckAudioEncoder reports whether ffmpeg can produce the selected audio
// profile. Only the high-efficiency profile needs a non-default encoder.
func CheckAudioEncoder(ctx context.Context, ffmpeg string, highEfficiency bool) Result {
	const name = "Audio encoder"
	if !highEfficiency {
		return Result{Name: name, Passed: true, Detail: "aac (built in)"}
	}
	if deps.HasEncoder(ctx, ffmpeg, "libfdk_aac") {
		return Result{Name: name, Passed: true, Detail: "libfdk_aac"}
	}
	return Result{Name: name, Detail: "libfdk_aac not available; disable HE-AAC v2 in settings or install an ffmpeg built with it"}
}

// CheckCredentials reports on the settings row and its provider keys.
func CheckCredentials(creds Credentials) []Result {
	if !creds.Present {
		return []Result{{Name: "Settings", Detail: "not created yet (created with defaults on first use)", Optional: true}}
	}
	return []Result{
		keyResult("Transcription key", creds.TranscriptionKey),
		keyResult("Translation key", creds.TranslationKey),
	}
}

func keyResult(name string, present bool) Result {
	if present {
		return Result{Name: name, Passed: true, Detail: "configured"}
	}
	return Result{Name: name, Detail: "missing"}
}

// CheckEndpoint verifies that baseURL answers HTTP at all. Any status code
// counts as reachable; authentication is not exercised.
func CheckEndpoint(ctx context.Context, name, baseURL string) Result {
	base := strings.TrimSpace(baseURL)
	if base == "" {
		return Result{Name: name, Detail: "missing url"}
	}
	checkCtx, cancel := context.WithTimeout(ctx, endpointTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(checkCtx, http.MethodGet, base, nil)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("invalid url (%v)", err)}
	}
	resp, err := (&http.Client{Timeout: endpointTimeout}).Do(req)
	if err != nil {
		return Result{Name: name, Detail: summarizeError(err)}
	}
	resp.Body.Close()
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("reachable (%d)", resp.StatusCode)}
}

func summarizeError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "timed out"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "timed out"
	}
	return err.Error()
}
