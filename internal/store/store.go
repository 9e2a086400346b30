package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"wandlung/internal/config"
)

// Store manages asset, subtitle and settings persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond

	// Extended result codes reported by modernc.org/sqlite.
	sqliteConstraintPrimaryKey = 1555
	sqliteConstraintUnique     = 2067
	sqliteConstraintTrigger    = 1811
)

// Open initializes or connects to the database configured in cfg.
func Open(cfg *config.Config) (*Store, error) {
	if cfg == nil {
		return nil, errors.New("open store: config required")
	}
	return OpenPath(cfg.DatabasePath())
}

// OpenPath initializes or connects to the database at path.
func OpenPath(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure database directory: %w", err)
		}
	}
	// modernc applies _pragma parameters to every new connection.
	dsn := "file:" + path + "?" + url.Values{"_pragma": {
		"journal_mode(WAL)",
		"foreign_keys(1)",
		"busy_timeout(5000)",
	}}.Encode()
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect %s: %w", path, err)
	}

	store := &Store{db: db, path: path}
	if err := store.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Ping verifies the database connection is usable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ensureContext(ctx))
}

func ensureContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

// failure classifies driver errors the store reacts to.
type failure int

const (
	failureOther failure = iota
	failureBusy
	failureUnique
	failureTrigger
)

func classify(err error) failure {
	if err == nil {
		return failureOther
	}
	var coded interface{ Code() int }
	if errors.As(err, &coded) {
		switch code := coded.Code(); {
		case code&0xff == sqliteBusyCode:
			return failureBusy
		case code == sqliteConstraintUnique, code == sqliteConstraintPrimaryKey:
			return failureUnique
		case code == sqliteConstraintTrigger:
			return failureTrigger
		}
	}
	// Wrapped errors can lose the code; fall back to the driver's messages.
	msg := err.Error()
	switch {
	case strings.Contains(msg, "database is locked"), strings.Contains(msg, "SQLITE_BUSY"):
		return failureBusy
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return failureUnique
	case strings.Contains(msg, "cannot be deleted"):
		return failureTrigger
	}
	return failureOther
}

func isUniqueViolation(err error) bool { return classify(err) == failureUnique }

func isTriggerAbort(err error) bool { return classify(err) == failureTrigger }

// execWithRetry runs a write, backing off while another connection holds
// the database lock.
func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) (sql.Result, error) {
	ctx = ensureContext(ctx)
	delay := busyRetryInitialBackoff
	for attempt := 1; ; attempt++ {
		res, err := s.db.ExecContext(ctx, query, args...)
		if err == nil {
			return res, nil
		}
		if classify(err) != failureBusy || attempt == busyRetryAttempts {
			return nil, err
		}
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
		delay = min(delay*2, busyRetryMaxBackoff)
	}
}
