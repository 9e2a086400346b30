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

const subtitleColumns = "id, video_id, language, is_transcribed, content, created_at, updated_at"

// CreateSubtitle inserts a new track. Tracks are never overwritten: a second
// track for the same video and language fails with services.ErrDuplicateTrack.
func (s *Store) CreateSubtitle(ctx context.Context, sub Subtitle) (*Subtitle, error) {
	sub.VideoID = strings.TrimSpace(sub.VideoID)
	sub.Language = strings.TrimSpace(sub.Language)
	if sub.VideoID == "" || sub.Language == "" {
		return nil, services.Wrap(services.ErrValidation, "store", "create subtitle", "video id and language required", nil)
	}
	now := time.Now().UTC()
	res, err := s.execWithRetry(ctx,
		`INSERT INTO subtitles (video_id, language, is_transcribed, content, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		sub.VideoID,
		sub.Language,
		sqliteBool(sub.IsTranscribed),
		sub.Content,
		formatTime(now),
		formatTime(now),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, services.Wrap(services.ErrDuplicateTrack, "store", "create subtitle",
				fmt.Sprintf("%s already has a %s track", sub.VideoID, sub.Language), err)
		}
		if strings.Contains(err.Error(), "FOREIGN KEY") {
			return nil, services.Wrap(services.ErrNotFound, "store", "create subtitle", "video "+sub.VideoID, err)
		}
		return nil, fmt.Errorf("insert subtitle: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetSubtitle(ctx, id)
}

// GetSubtitle returns the track or nil when it does not exist.
func (s *Store) GetSubtitle(ctx context.Context, id int64) (*Subtitle, error) {
	row := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT `+subtitleColumns+` FROM subtitles WHERE id = ?`, id)
	sub, err := scanSubtitle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get subtitle: %w", err)
	}
	return sub, nil
}

// FindSubtitle returns the track for a video and language, or nil.
func (s *Store) FindSubtitle(ctx context.Context, videoID, language string) (*Subtitle, error) {
	row := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT `+subtitleColumns+` FROM subtitles WHERE video_id = ? AND language = ?`,
		videoID, strings.TrimSpace(language))
	sub, err := scanSubtitle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find subtitle: %w", err)
	}
	return sub, nil
}

// ListSubtitles returns one page of tracks, newest first, plus the total count.
func (s *Store) ListSubtitles(ctx context.Context, page Page) ([]*Subtitle, int, error) {
	ctx = ensureContext(ctx)
	page = page.Normalized()

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM subtitles`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count subtitles: %w", err)
	}
	subs, err := s.querySubtitles(ctx,
		`SELECT `+subtitleColumns+` FROM subtitles ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		page.Size, page.offset())
	if err != nil {
		return nil, 0, err
	}
	return subs, total, nil
}

// ListSubtitlesForAsset returns every track of a video in creation order.
func (s *Store) ListSubtitlesForAsset(ctx context.Context, videoID string) ([]*Subtitle, error) {
	return s.querySubtitles(ensureContext(ctx),
		`SELECT `+subtitleColumns+` FROM subtitles WHERE video_id = ? ORDER BY id`, videoID)
}

// UpdateSubtitleContent replaces the text of an existing track.
func (s *Store) UpdateSubtitleContent(ctx context.Context, id int64, content string) (*Subtitle, error) {
	res, err := s.execWithRetry(ctx,
		`UPDATE subtitles SET content = ?, updated_at = ? WHERE id = ?`,
		content, formatTime(time.Now().UTC()), id)
	if err != nil {
		return nil, fmt.Errorf("update subtitle: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return nil, services.Wrap(services.ErrNotFound, "store", "update subtitle", fmt.Sprintf("subtitle %d", id), nil)
	}
	return s.GetSubtitle(ctx, id)
}

// DeleteSubtitle removes a track and reports whether it existed.
func (s *Store) DeleteSubtitle(ctx context.Context, id int64) (bool, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM subtitles WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete subtitle: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete subtitle rows affected: %w", err)
	}
	return affected > 0, nil
}

func (s *Store) querySubtitles(ctx context.Context, query string, args ...any) ([]*Subtitle, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list subtitles: %w", err)
	}
	defer rows.Close()

	var subs []*Subtitle
	for rows.Next() {
		sub, err := scanSubtitle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan subtitle: %w", err)
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

func scanSubtitle(row scanner) (*Subtitle, error) {
	var (
		sub         Subtitle
		transcribed int
		createdRaw  string
		updatedRaw  string
	)
	if err := row.Scan(
		&sub.ID,
		&sub.VideoID,
		&sub.Language,
		&transcribed,
		&sub.Content,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}
	sub.IsTranscribed = transcribed != 0
	if created, ok := parseTimestamp(createdRaw); ok {
		sub.CreatedAt = created
	}
	if updated, ok := parseTimestamp(updatedRaw); ok {
		sub.UpdatedAt = updated
	}
	return &sub, nil
}
