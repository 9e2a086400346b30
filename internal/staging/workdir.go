// Package staging manages the scratch directories pipeline stages work in.
package staging

import (
	"fmt"
	"os"
	"strings"
)

// WorkDir is a private scratch directory for one pipeline stage.
type WorkDir struct {
	Path string
}

// NewWorkDir creates <stagingDir>/<prefix>-<random>. The random suffix keeps
// retried operations on the same asset from reusing a half-cleaned directory.
func NewWorkDir(stagingDir, prefix string) (*WorkDir, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" || strings.ContainsAny(prefix, `/\`) {
		return nil, fmt.Errorf("invalid work dir prefix %q", prefix)
	}
	if err := os.MkdirAll(stagingDir, 0o755); err != nil {
		return nil, fmt.Errorf("create staging dir: %w", err)
	}
	path, err := os.MkdirTemp(stagingDir, prefix+"-")
	if err != nil {
		return nil, fmt.Errorf("create work dir: %w", err)
	}
	return &WorkDir{Path: path}, nil
}

// Remove deletes the directory and everything in it.
func (w *WorkDir) Remove() error {
	if w == nil || w.Path == "" {
		return nil
	}
	return os.RemoveAll(w.Path)
}
