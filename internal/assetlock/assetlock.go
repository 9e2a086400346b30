// Package assetlock serializes pipeline operations per video id.
//
// Transient files are named after the video id, so two operations on the
// same asset would trample each other. A Locker combines an in-process set
// with a gofrs/flock lock file per id, which also covers a CLI invocation
// running beside the HTTP server.
package assetlock

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/flock"

	"wandlung/internal/services"
)

// Locker hands out per-id locks.
type Locker struct {
	dir string

	mu   sync.Mutex
	held map[string]*flock.Flock
}

// New returns a Locker that keeps lock files in dir.
func New(dir string) *Locker {
	return &Locker{dir: dir, held: make(map[string]*flock.Flock)}
}

// TryAcquire takes the lock for id without waiting. When another operation
// holds it the error wraps services.ErrBusy. The returned release func is
// safe to call more than once.
func (l *Locker) TryAcquire(id string) (func(), error) {
	id = strings.TrimSpace(id)
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return nil, services.Wrap(services.ErrValidation, "lock", "acquire", fmt.Sprintf("invalid id %q", id), nil)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, busy := l.held[id]; busy {
		return nil, services.Wrap(services.ErrBusy, "lock", "acquire", fmt.Sprintf("%s is being processed", id), nil)
	}
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create lock dir: %w", err)
	}
	fl := flock.New(filepath.Join(l.dir, id+".lock"))
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", id, err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrBusy, "lock", "acquire", fmt.Sprintf("%s is being processed by another process", id), nil)
	}
	l.held[id] = fl

	var once sync.Once
	return func() {
		once.Do(func() { l.release(id, fl) })
	}, nil
}

// Held reports whether this process currently holds the lock for id.
func (l *Locker) Held(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.held[id]
	return ok
}

func (l *Locker) release(id string, fl *flock.Flock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	_ = fl.Unlock()
	if l.held[id] == fl {
		delete(l.held, id)
	}
}
