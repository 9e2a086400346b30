package deps

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func writeStub(t *testing.T, name, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func TestProbe(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs")
	}
	ytdlp := writeStub(t, "yt-dlp", "#!/bin/sh\necho 2025.06.30\n")
	ffprobe := writeStub(t, "ffprobe", "#!/bin/sh\nexit 0\n")

	results := Probe(context.Background(), []Tool{
		{Name: "yt-dlp", Binary: ytdlp, VersionArgs: []string{"--version"}},
		{Name: "FFprobe", Binary: " " + ffprobe + " ", Optional: true},
		{Name: "FFmpeg", Binary: "clearly-not-present-binary"},
		{Name: "Unset"},
	})
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}

	if !results[0].Found() || results[0].Version != "2025.06.30" {
		t.Fatalf("unexpected yt-dlp result %#v", results[0])
	}
	if got, want := results[0].Summary(), ytdlp+" (2025.06.30)"; got != want {
		t.Fatalf("Summary = %q, want %q", got, want)
	}
	if !results[1].Found() || results[1].Version != "" || results[1].Summary() != ffprobe {
		t.Fatalf("unexpected ffprobe result %#v", results[1])
	}
	if !results[1].Optional {
		t.Fatal("optional flag should carry through")
	}
	if results[2].Found() || results[2].Summary() != `binary "clearly-not-present-binary" not found` {
		t.Fatalf("unexpected missing result %#v", results[2])
	}
	if results[3].Found() || results[3].Problem != "command not configured" {
		t.Fatalf("unexpected unset result %#v", results[3])
	}
}

func TestHasEncoder(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs")
	}
	ffmpeg := writeStub(t, "ffmpeg", "#!/bin/sh\ncat <<'EOF'\nEncoders:\n ------\n A....D aac                  AAC (Advanced Audio Coding)\n A....D libfdk_aac           Fraunhofer FDK AAC\nEOF\n")
	if !HasEncoder(context.Background(), ffmpeg, "libfdk_aac") {
		t.Fatal("expected libfdk_aac to be detected")
	}
	if HasEncoder(context.Background(), ffmpeg, "libopus") {
		t.Fatal("libopus should not be detected")
	}
	if HasEncoder(context.Background(), filepath.Join(t.TempDir(), "missing"), "aac") {
		t.Fatal("missing binary should report false")
	}
}

func TestVersion(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs")
	}
	tool := writeStub(t, "yt-dlp", "#!/bin/sh\necho 2025.01.15\necho extra\n")
	if got := Version(context.Background(), tool, "--version"); got != "2025.01.15" {
		t.Fatalf("Version = %q", got)
	}
	if got := Version(context.Background(), "clearly-not-present-binary"); got != "" {
		t.Fatalf("expected empty version, got %q", got)
	}
}
