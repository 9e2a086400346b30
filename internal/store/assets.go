package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"wandlung/internal/services"
)

const assetColumns = "video_id, title, source_url, duration, width, height, video_key, thumbnail_key, audio_key, created_at"

// CreateAsset inserts a fully materialized asset. A second asset with the same
// video id is rejected with services.ErrDuplicateAsset.
func (s *Store) CreateAsset(ctx context.Context, asset Asset) (*Asset, error) {
	asset.VideoID = strings.TrimSpace(asset.VideoID)
	if asset.VideoID == "" {
		return nil, services.Wrap(services.ErrValidation, "store", "create asset", "video id required", nil)
	}
	if asset.VideoKey == "" || asset.ThumbnailKey == "" {
		return nil, services.Wrap(services.ErrValidation, "store", "create asset", "video and thumbnail keys required", nil)
	}
	if asset.Duration < 0 {
		return nil, services.Wrap(services.ErrValidation, "store", "create asset", "duration must not be negative", nil)
	}
	if asset.CreatedAt.IsZero() {
		asset.CreatedAt = time.Now().UTC()
	}

	_, err := s.execWithRetry(ctx,
		`INSERT INTO assets (`+assetColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		asset.VideoID,
		asset.Title,
		nullIfEmpty(asset.SourceURL),
		asset.Duration,
		asset.Width,
		asset.Height,
		asset.VideoKey,
		asset.ThumbnailKey,
		nullIfEmpty(asset.AudioKey),
		formatTime(asset.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, services.Wrap(services.ErrDuplicateAsset, "store", "create asset", asset.VideoID, err)
		}
		return nil, fmt.Errorf("insert asset: %w", err)
	}
	return s.GetAsset(ctx, asset.VideoID)
}

// GetAsset returns the asset or nil when it does not exist.
func (s *Store) GetAsset(ctx context.Context, videoID string) (*Asset, error) {
	row := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT `+assetColumns+` FROM assets WHERE video_id = ?`, videoID)
	asset, err := scanAsset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get asset: %w", err)
	}
	return asset, nil
}

// ListAssets returns assets newest first. A zero limit returns all rows.
func (s *Store) ListAssets(ctx context.Context, limit int) ([]*Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets ORDER BY created_at DESC, rowid DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	defer rows.Close()

	var assets []*Asset
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("scan asset: %w", err)
		}
		assets = append(assets, asset)
	}
	return assets, rows.Err()
}

// DeleteAsset removes the asset row; its subtitle tracks go with it.
// It reports whether a row was removed.
func (s *Store) DeleteAsset(ctx context.Context, videoID string) (bool, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM assets WHERE video_id = ?`, videoID)
	if err != nil {
		return false, fmt.Errorf("delete asset: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete asset rows affected: %w", err)
	}
	return affected > 0, nil
}

func scanAsset(row scanner) (*Asset, error) {
	var (
		asset      Asset
		sourceURL  sql.NullString
		audioKey   sql.NullString
		createdRaw string
	)
	if err := row.Scan(
		&asset.VideoID,
		&asset.Title,
		&sourceURL,
		&asset.Duration,
		&asset.Width,
		&asset.Height,
		&asset.VideoKey,
		&asset.ThumbnailKey,
		&audioKey,
		&createdRaw,
	); err != nil {
		return nil, err
	}
	asset.SourceURL = sourceURL.String
	asset.AudioKey = audioKey.String
	if created, ok := parseTimestamp(createdRaw); ok {
		asset.CreatedAt = created
	}
	return &asset, nil
}
