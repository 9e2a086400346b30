// Package s3 is an S3-compatible blob backend built on minio-go.
package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"wandlung/internal/services"
)

const defaultRegion = "us-east-1"

// Options describes the bucket connection.
type Options struct {
	Endpoint  string
	Bucket    string
	AccessKey string
	SecretKey string
	Region    string
	UseSSL    bool
}

// Store reads and writes objects in a single bucket.
type Store struct {
	client *minio.Client
	bucket string
	region string
}

// New connects a client. No network traffic happens until the first call.
func New(opts Options) (*Store, error) {
	endpoint := strings.TrimSpace(opts.Endpoint)
	if endpoint == "" {
		return nil, errors.New("s3 blob: endpoint required")
	}
	if strings.TrimSpace(opts.Bucket) == "" {
		return nil, errors.New("s3 blob: bucket required")
	}
	region := strings.TrimSpace(opts.Region)
	if region == "" {
		region = defaultRegion
	}
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("s3 blob: connect %s: %w", endpoint, err)
	}
	return &Store{client: client, bucket: opts.Bucket, region: region}, nil
}

// EnsureBucket creates the bucket when it does not exist yet.
func (s *Store) EnsureBucket(ctx context.Context) error {
	err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region})
	if err == nil {
		return nil
	}
	exists, existsErr := s.client.BucketExists(ctx, s.bucket)
	if existsErr == nil && exists {
		return nil
	}
	return fmt.Errorf("s3 blob: create bucket %s: %w", s.bucket, err)
}

// Put uploads r under key.
func (s *Store) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("s3 blob: put %s: %w", key, err)
	}
	return nil
}

// Open streams key from the bucket.
func (s *Store) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, s.translate("open", key, err)
	}
	// GetObject is lazy; Stat surfaces a missing key before the caller reads.
	if _, err := obj.Stat(); err != nil {
		_ = obj.Close()
		return nil, s.translate("open", key, err)
	}
	return obj, nil
}

// Delete removes key. S3 reports success for missing objects.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("s3 blob: delete %s: %w", key, err)
	}
	return nil
}

// SignedURL presigns a GET for key.
func (s *Store) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, ttl, url.Values{})
	if err != nil {
		return "", fmt.Errorf("s3 blob: presign %s: %w", key, err)
	}
	return u.String(), nil
}

func (s *Store) translate(op, key string, err error) error {
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return services.Wrap(services.ErrNotFound, "blob", op, key, nil)
	}
	return fmt.Errorf("s3 blob: %s %s: %w", op, key, err)
}
