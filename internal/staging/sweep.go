package staging

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LockDirName is the staging subdirectory holding per-asset lock files.
const LockDirName = "locks"

// Removal describes one work directory Sweep deleted.
type Removal struct {
	Path  string
	Age   time.Duration
	Bytes int64
}

// Failure pairs a path with the error that kept Sweep from handling it.
type Failure struct {
	Path string
	Err  error
}

// Report is the outcome of one Sweep.
type Report struct {
	Removed  []Removal
	Failures []Failure
}

// Freed sums the bytes of every removed directory.
func (r Report) Freed() int64 {
	var total int64
	for _, rm := range r.Removed {
		total += rm.Bytes
	}
	return total
}

// Sweep deletes work directories under stagingDir whose modification time is
// older than maxAge. Plain files and the lock directory are left alone. A
// missing staging directory is not an error. Cancelling ctx stops the sweep
// between entries.
func Sweep(ctx context.Context, stagingDir string, maxAge time.Duration) Report {
	var report Report
	stagingDir = strings.TrimSpace(stagingDir)
	if stagingDir == "" {
		return report
	}
	entries, err := os.ReadDir(stagingDir)
	if err != nil {
		if !os.IsNotExist(err) {
			report.Failures = append(report.Failures, Failure{Path: stagingDir, Err: err})
		}
		return report
	}

	now := time.Now()
	for _, entry := range entries {
		if ctx.Err() != nil {
			break
		}
		if !entry.IsDir() || entry.Name() == LockDirName {
			continue
		}
		path := filepath.Join(stagingDir, entry.Name())
		info, err := entry.Info()
		if err != nil {
			report.Failures = append(report.Failures, Failure{Path: path, Err: err})
			continue
		}
		age := now.Sub(info.ModTime())
		if age <= maxAge {
			continue
		}
		size := treeSize(path)
		if err := os.RemoveAll(path); err != nil {
			report.Failures = append(report.Failures, Failure{Path: path, Err: err})
			continue
		}
		report.Removed = append(report.Removed, Removal{Path: path, Age: age, Bytes: size})
	}
	return report
}

// treeSize is best effort; unreadable entries count as zero.
func treeSize(root string) int64 {
	var size int64
	_ = filepath.WalkDir(root, func(_ string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if info, err := d.Info(); err == nil {
			size += info.Size()
		}
		return nil
	})
	return size
}
