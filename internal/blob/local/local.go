// Package local is a filesystem blob backend. Signed URLs point at the HTTP
// API's /media route and carry an HS256 token bound to the object key.
package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"wandlung/internal/services"
)

// MediaPrefix is the URL path under which signed objects are served.
const MediaPrefix = "/media/"

// Store keeps objects as files below root.
type Store struct {
	root    string
	baseURL string
	secret  []byte
	now     func() time.Time
}

// New returns a Store rooted at root. baseURL is the externally reachable
// address of the HTTP API.
func New(root, baseURL string, secret []byte) (*Store, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, errors.New("local blob: root directory required")
	}
	if len(secret) == 0 {
		return nil, errors.New("local blob: signing key required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("local blob: create root: %w", err)
	}
	return &Store{
		root:    root,
		baseURL: strings.TrimRight(baseURL, "/"),
		secret:  secret,
		now:     time.Now,
	}, nil
}

// Put writes r to key, replacing any existing object atomically.
func (s *Store) Put(ctx context.Context, key string, r io.Reader, _ int64, _ string) error {
	target, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("local blob: create dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(target), ".upload-*")
	if err != nil {
		return fmt.Errorf("local blob: create temp: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := io.Copy(tmp, contextReader{ctx: ctx, r: r}); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("local blob: write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("local blob: close %s: %w", key, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		return fmt.Errorf("local blob: commit %s: %w", key, err)
	}
	return nil
}

// Open returns the object stored at key.
func (s *Store) Open(_ context.Context, key string) (io.ReadCloser, error) {
	target, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(target)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, services.Wrap(services.ErrNotFound, "blob", "open", key, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("local blob: open %s: %w", key, err)
	}
	return f, nil
}

// Delete removes key. Missing objects are ignored.
func (s *Store) Delete(_ context.Context, key string) error {
	target, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("local blob: delete %s: %w", key, err)
	}
	return nil
}

// SignedURL returns a /media link for key that expires after ttl.
func (s *Store) SignedURL(_ context.Context, key string, ttl time.Duration) (string, error) {
	if _, err := s.resolve(key); err != nil {
		return "", err
	}
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   key,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("local blob: sign %s: %w", key, err)
	}
	u := s.baseURL + MediaPrefix + (&url.URL{Path: key}).EscapedPath() + "?token=" + url.QueryEscape(token)
	return u, nil
}

// Verify checks that token was issued for key and has not expired.
func (s *Store) Verify(key, token string) error {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return fmt.Errorf("local blob: invalid token: %w", err)
	}
	if claims.Subject != key {
		return errors.New("local blob: token not valid for this object")
	}
	return nil
}

func (s *Store) resolve(key string) (string, error) {
	cleaned := path.Clean("/" + strings.TrimSpace(key))
	if key == "" || cleaned == "/" || cleaned != "/"+key {
		return "", services.Wrap(services.ErrValidation, "blob", "resolve", fmt.Sprintf("invalid key %q", key), nil)
	}
	return filepath.Join(s.root, filepath.FromSlash(cleaned[1:])), nil
}

type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
