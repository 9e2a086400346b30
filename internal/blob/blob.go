// Package blob stores the binary artifacts of an asset (video, thumbnail,
// audio) behind a small Provider interface with local-disk and S3 backends.
//
// Objects are private. Consumers reach them only through time-limited signed
// URLs produced by SignedURL.
package blob

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path"
	"path/filepath"
	"time"

	"wandlung/internal/blob/local"
	"wandlung/internal/blob/s3"
	"wandlung/internal/config"
)

// Provider abstracts object storage operations.
type Provider interface {
	// Put writes data under key. size may be -1 when unknown.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	// Open returns a reader for key. Missing objects report services.ErrNotFound.
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes the object at key. Deleting a missing object is not an error.
	Delete(ctx context.Context, key string) error
	// SignedURL returns a link to key that stops working after ttl.
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// New builds the provider selected by cfg.Storage.Backend.
func New(ctx context.Context, cfg *config.Config) (Provider, error) {
	switch cfg.Storage.Backend {
	case config.StorageLocal:
		return local.New(cfg.Storage.LocalDir, cfg.Storage.PublicBaseURL, []byte(cfg.Storage.SigningKey))
	case config.StorageS3:
		store, err := s3.New(s3.Options{
			Endpoint:  cfg.Storage.S3Endpoint,
			Bucket:    cfg.Storage.S3Bucket,
			AccessKey: cfg.Storage.S3AccessKey,
			SecretKey: cfg.Storage.S3SecretKey,
			Region:    cfg.Storage.S3Region,
			UseSSL:    cfg.Storage.S3UseSSL,
		})
		if err != nil {
			return nil, err
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("blob: unsupported backend %q", cfg.Storage.Backend)
	}
}

// PutFile uploads a local file under key, deriving the content type from the
// key's extension.
func PutFile(ctx context.Context, p Provider, key, filePath string) error {
	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("open %s: %w", filepath.Base(filePath), err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", filepath.Base(filePath), err)
	}
	if err := p.Put(ctx, key, f, info.Size(), ContentType(key)); err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}
	return nil
}

// ContentType guesses a MIME type from the key's extension.
func ContentType(key string) string {
	if ct := mime.TypeByExtension(path.Ext(key)); ct != "" {
		return ct
	}
	switch path.Ext(key) {
	case ".m4a":
		return "audio/mp4"
	case ".mp4":
		return "video/mp4"
	}
	return "application/octet-stream"
}

// VideoKey is where an asset's merged video is stored.
func VideoKey(videoID string) string { return "videos/" + videoID + ".mp4" }

// ThumbnailKey is where an asset's JPEG thumbnail is stored.
func ThumbnailKey(videoID string) string { return "thumbnails/" + videoID + ".jpg" }

// AudioKey is where an asset's extracted audio is stored.
func AudioKey(videoID string) string { return "audio/" + videoID + ".m4a" }
