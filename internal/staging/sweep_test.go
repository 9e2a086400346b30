package staging

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func ageDir(t *testing.T, path string, age time.Duration) {
	t.Helper()
	when := time.Now().Add(-age)
	if err := os.Chtimes(path, when, when); err != nil {
		t.Fatalf("chtimes %s: %v", path, err)
	}
}

func TestSweepNothingToDo(t *testing.T) {
	for _, dir := range []string{"", "   ", filepath.Join(t.TempDir(), "missing")} {
		report := Sweep(context.Background(), dir, time.Hour)
		if len(report.Removed) != 0 || len(report.Failures) != 0 {
			t.Errorf("expected empty report for %q, got %+v", dir, report)
		}
	}
}

func TestSweepRemovesAbandonedWorkDirs(t *testing.T) {
	root := t.TempDir()

	old := filepath.Join(root, "abc-transcribe-123")
	if err := os.MkdirAll(filepath.Join(old, "nested"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(old, "audio.m4a"), []byte("12345"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(old, "nested", "part"), []byte("678"), 0o644); err != nil {
		t.Fatal(err)
	}
	ageDir(t, old, 3*time.Hour)

	fresh := filepath.Join(root, "fetch-456")
	if err := os.Mkdir(fresh, 0o755); err != nil {
		t.Fatal(err)
	}

	locks := filepath.Join(root, LockDirName)
	if err := os.Mkdir(locks, 0o755); err != nil {
		t.Fatal(err)
	}
	ageDir(t, locks, 48*time.Hour)

	file := filepath.Join(root, "stray.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	ageDir(t, file, 48*time.Hour)

	report := Sweep(context.Background(), root, time.Hour)
	if len(report.Failures) != 0 {
		t.Fatalf("unexpected failures %+v", report.Failures)
	}
	if len(report.Removed) != 1 {
		t.Fatalf("expected one removal, got %+v", report.Removed)
	}
	got := report.Removed[0]
	if got.Path != old || got.Bytes != 8 || got.Age < 2*time.Hour {
		t.Fatalf("unexpected removal %+v", got)
	}
	if report.Freed() != 8 {
		t.Fatalf("Freed = %d", report.Freed())
	}
	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Fatal("old work dir should be gone")
	}
	for _, keep := range []string{fresh, locks, file} {
		if _, err := os.Stat(keep); err != nil {
			t.Fatalf("%s should survive: %v", keep, err)
		}
	}
}

func TestSweepStopsWhenCancelled(t *testing.T) {
	root := t.TempDir()
	old := filepath.Join(root, "fetch-1")
	if err := os.Mkdir(old, 0o755); err != nil {
		t.Fatal(err)
	}
	ageDir(t, old, 3*time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if report := Sweep(ctx, root, time.Hour); len(report.Removed) != 0 {
		t.Fatalf("cancelled sweep removed %+v", report.Removed)
	}
	if _, err := os.Stat(old); err != nil {
		t.Fatal("work dir should survive a cancelled sweep")
	}
}
