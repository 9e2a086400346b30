package staging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWorkDir(t *testing.T) {
	root := filepath.Join(t.TempDir(), "staging")
	first, err := NewWorkDir(root, "abc-transcribe")
	if err != nil {
		t.Fatalf("NewWorkDir: %v", err)
	}
	second, err := NewWorkDir(root, "abc-transcribe")
	if err != nil {
		t.Fatalf("NewWorkDir: %v", err)
	}
	if first.Path == second.Path {
		t.Fatal("expected distinct work dirs")
	}
	if filepath.Dir(first.Path) != root || !strings.HasPrefix(filepath.Base(first.Path), "abc-transcribe-") {
		t.Fatalf("unexpected path %s", first.Path)
	}
	if err := os.WriteFile(filepath.Join(first.Path, "x.m4a"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := first.Remove(); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := os.Stat(first.Path); !os.IsNotExist(err) {
		t.Fatal("work dir should be gone")
	}
	if _, err := NewWorkDir(root, "../escape"); err == nil {
		t.Fatal("expected invalid prefix error")
	}
	var nilDir *WorkDir
	if err := nilDir.Remove(); err != nil {
		t.Fatalf("nil Remove: %v", err)
	}
}
