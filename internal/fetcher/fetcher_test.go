package fetcher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"wandlung/internal/media/ffprobe"
	"wandlung/internal/services"
)

type fakeYtDlp struct {
	args   []string
	info   map[string]any
	write  bool
	err    error
	output []byte
}

func (f *fakeYtDlp) Run(_ context.Context, _ string, args []string) ([]byte, error) {
	f.args = args
	if f.err != nil {
		return nil, f.err
	}
	outIdx := slices.Index(args, "-o")
	workDir := filepath.Dir(args[outIdx+1])
	if f.write {
		path := filepath.Join(workDir, f.info["id"].(string)+".mp4")
		if err := os.WriteFile(path, []byte("video"), 0o644); err != nil {
			return nil, err
		}
		f.info["requested_downloads"] = []any{map[string]any{"filepath": path}}
	}
	if f.output != nil {
		return f.output, nil
	}
	return json.Marshal(f.info)
}

func pngServer(t *testing.T) *httptest.Server {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/thumb.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(buf.Bytes())
	}))
	t.Cleanup(server.Close)
	return server
}

func TestFetchDownloadsVideoAndThumbnail(t *testing.T) {
	server := pngServer(t)
	fake := &fakeYtDlp{write: true, info: map[string]any{
		"id":          "abc123",
		"title":       " Demo ",
		"duration":    61.5,
		"width":       1280,
		"height":      720,
		"thumbnail":   server.URL + "/thumb.png",
		"webpage_url": "https://videos.example/watch?v=abc123",
	}}
	f := New(Options{Executor: fake})
	workDir := t.TempDir()

	result, err := f.Fetch(context.Background(), "https://videos.example/watch?v=abc123", 480, workDir)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	wantArgs := []string{
		"-f", "bestvideo[height<=480]+bestaudio/best[height<=480]/best",
		"--merge-output-format", "mp4",
		"-o", filepath.Join(workDir, "%(id)s.%(ext)s"),
		"--no-simulate", "--dump-single-json", "--no-progress", "--no-playlist",
		"--", "https://videos.example/watch?v=abc123",
	}
	if !slices.Equal(fake.args, wantArgs) {
		t.Fatalf("args = %q\nwant %q", fake.args, wantArgs)
	}
	if result.VideoID != "abc123" || result.Title != "Demo" || result.Duration != 61.5 {
		t.Fatalf("unexpected result %+v", result)
	}
	if result.VideoPath != filepath.Join(workDir, "abc123.mp4") {
		t.Fatalf("video path = %s", result.VideoPath)
	}
	if result.ThumbnailPath != filepath.Join(workDir, "abc123.jpg") {
		t.Fatalf("thumbnail path = %s", result.ThumbnailPath)
	}
	thumb, err := os.Open(result.ThumbnailPath)
	if err != nil {
		t.Fatalf("open thumbnail: %v", err)
	}
	defer thumb.Close()
	cfg, format, err := image.DecodeConfig(thumb)
	if err != nil {
		t.Fatalf("decode thumbnail: %v", err)
	}
	if format != "jpeg" || cfg.Width != 4 || cfg.Height != 3 {
		t.Fatalf("unexpected thumbnail %s %dx%d", format, cfg.Width, cfg.Height)
	}
}

func TestFetchProbesMissingMetadata(t *testing.T) {
	server := pngServer(t)
	fake := &fakeYtDlp{write: true, info: map[string]any{
		"id":        "noinfo",
		"thumbnail": server.URL + "/thumb.png",
	}}
	f := New(Options{Executor: fake})
	f.probe = func(context.Context, string) (ffprobe.Result, error) {
		return ffprobe.Result{
			Streams: []ffprobe.Stream{{CodecType: "video", Width: 640, Height: 360}},
			Format:  ffprobe.Format{Duration: "9.5"},
		}, nil
	}
	result, err := f.Fetch(context.Background(), "https://videos.example/x", 360, t.TempDir())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if result.Width != 640 || result.Height != 360 || result.Duration != 9.5 {
		t.Fatalf("probe fallback not applied: %+v", result)
	}
	if result.SourceURL != "https://videos.example/x" {
		t.Fatalf("source url = %q", result.SourceURL)
	}
}

func TestFetchFailures(t *testing.T) {
	server := pngServer(t)
	tests := []struct {
		name string
		fake *fakeYtDlp
	}{
		{name: "process error", fake: &fakeYtDlp{err: errors.New("exit status 1")}},
		{name: "bad json", fake: &fakeYtDlp{output: []byte("not json")}},
		{name: "no file", fake: &fakeYtDlp{info: map[string]any{"id": "gone", "thumbnail": server.URL + "/thumb.png"}}},
		{name: "unsafe id", fake: &fakeYtDlp{info: map[string]any{"id": "../evil"}}},
		{name: "thumbnail 404", fake: &fakeYtDlp{write: true, info: map[string]any{"id": "a", "duration": 1.0, "width": 1, "height": 1, "thumbnail": server.URL + "/missing.png"}}},
		{name: "no thumbnail", fake: &fakeYtDlp{write: true, info: map[string]any{"id": "b", "duration": 1.0, "width": 1, "height": 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := New(Options{Executor: tt.fake})
			_, err := f.Fetch(context.Background(), "https://videos.example/x", 720, t.TempDir())
			if !errors.Is(err, services.ErrFetch) {
				t.Fatalf("expected ErrFetch, got %v", err)
			}
		})
	}
}

func TestFetchRejectsOversizedThumbnail(t *testing.T) {
	server := pngServer(t)
	fake := &fakeYtDlp{write: true, info: map[string]any{
		"id": "big", "duration": 1.0, "width": 1, "height": 1,
		"thumbnail": server.URL + "/thumb.png",
	}}
	f := New(Options{Executor: fake, ThumbnailMaxBytes: 8})
	_, err := f.Fetch(context.Background(), "https://videos.example/x", 720, t.TempDir())
	if !errors.Is(err, services.ErrFetch) {
		t.Fatalf("expected ErrFetch, got %v", err)
	}
}

func TestFetchValidatesInput(t *testing.T) {
	f := New(Options{Executor: &fakeYtDlp{}})
	if _, err := f.Fetch(context.Background(), " ", 720, t.TempDir()); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := f.Fetch(context.Background(), "https://x", 0, t.TempDir()); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
