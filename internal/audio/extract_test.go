package audio

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"wandlung/internal/services"
)

type fakeFFmpeg struct {
	args    []string
	content []byte
	err     error
}

func (f *fakeFFmpeg) Run(_ context.Context, _ string, args []string) ([]byte, error) {
	f.args = args
	out := args[len(args)-1]
	if f.content != nil {
		if err := os.WriteFile(out, f.content, 0o644); err != nil {
			return nil, err
		}
	}
	return nil, f.err
}

func TestProfileArgs(t *testing.T) {
	he := Args("in.mp4", "out.m4a", ProfileFor(true))
	wantHE := []string{"-y", "-hide_banner", "-loglevel", "error", "-i", "in.mp4", "-vn", "-c:a", "libfdk_aac", "-profile:a", "aac_he_v2", "-b:a", "24k", "out.m4a"}
	if !slices.Equal(he, wantHE) {
		t.Fatalf("he-aac args = %q", he)
	}
	std := Args("in.mp4", "out.m4a", ProfileFor(false))
	wantStd := []string{"-y", "-hide_banner", "-loglevel", "error", "-i", "in.mp4", "-vn", "-c:a", "aac", "-b:a", "128k", "out.m4a"}
	if !slices.Equal(std, wantStd) {
		t.Fatalf("aac args = %q", std)
	}
}

func TestExtractWritesOutput(t *testing.T) {
	workDir := t.TempDir()
	fake := &fakeFFmpeg{content: []byte("audio")}
	path, err := New(Options{Executor: fake}).Extract(context.Background(), "v.mp4", "vid", workDir, AAC)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if path != filepath.Join(workDir, "vid.m4a") {
		t.Fatalf("path = %s", path)
	}
}

func TestExtractFailures(t *testing.T) {
	tests := []struct {
		name string
		fake *fakeFFmpeg
	}{
		{name: "non-zero exit", fake: &fakeFFmpeg{content: []byte("partial"), err: errors.New("exit status 1")}},
		{name: "missing output", fake: &fakeFFmpeg{}},
		{name: "empty output", fake: &fakeFFmpeg{content: []byte{}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			workDir := t.TempDir()
			_, err := New(Options{Executor: tt.fake}).Extract(context.Background(), "v.mp4", "vid", workDir, HEAACv2)
			if !errors.Is(err, services.ErrTranscode) {
				t.Fatalf("expected ErrTranscode, got %v", err)
			}
			if _, statErr := os.Stat(filepath.Join(workDir, "vid.m4a")); !errors.Is(statErr, os.ErrNotExist) {
				t.Fatalf("expected output removed, stat err = %v", statErr)
			}
		})
	}
}
