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

const settingsColumns = "openai_api_key, anthropic_api_key, max_video_height, use_he_aac_v2, created_at, updated_at"

// GetSettings returns the settings record. A missing record is reported as
// services.ErrConfigMissing.
func (s *Store) GetSettings(ctx context.Context) (*Settings, error) {
	row := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT `+settingsColumns+` FROM settings WHERE id = 1`)
	settings, err := scanSettings(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.Wrap(services.ErrConfigMissing, "store", "get settings", "no settings record", nil)
	}
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}
	return settings, nil
}

// CreateSettings inserts the singleton record. Creating it a second time fails
// with services.ErrSingletonViolation.
func (s *Store) CreateSettings(ctx context.Context, settings Settings) (*Settings, error) {
	if settings.MaxVideoHeight == 0 {
		settings.MaxVideoHeight = DefaultMaxVideoHeight
	}
	if err := validateSettings(settings); err != nil {
		return nil, err
	}
	now := formatTime(time.Now().UTC())
	_, err := s.execWithRetry(ctx,
		`INSERT INTO settings (id, `+settingsColumns+`) VALUES (1, ?, ?, ?, ?, ?, ?)`,
		nullIfEmpty(strings.TrimSpace(settings.OpenAIAPIKey)),
		nullIfEmpty(strings.TrimSpace(settings.AnthropicAPIKey)),
		settings.MaxVideoHeight,
		sqliteBool(settings.UseHEAACv2),
		now,
		now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, services.Wrap(services.ErrSingletonViolation, "store", "create settings", "settings record already exists", err)
		}
		return nil, fmt.Errorf("insert settings: %w", err)
	}
	return s.GetSettings(ctx)
}

// EnsureSettings returns the existing record, creating it from defaults first
// when none exists.
func (s *Store) EnsureSettings(ctx context.Context, defaults Settings) (*Settings, error) {
	settings, err := s.GetSettings(ctx)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, services.ErrConfigMissing) {
		return nil, err
	}
	settings, err = s.CreateSettings(ctx, defaults)
	if errors.Is(err, services.ErrSingletonViolation) {
		// Lost a creation race; the winner's record is the one to use.
		return s.GetSettings(ctx)
	}
	return settings, err
}

// UpdateSettings overwrites the singleton record.
func (s *Store) UpdateSettings(ctx context.Context, settings Settings) (*Settings, error) {
	if err := validateSettings(settings); err != nil {
		return nil, err
	}
	res, err := s.execWithRetry(ctx,
		`UPDATE settings SET openai_api_key = ?, anthropic_api_key = ?, max_video_height = ?,
            use_he_aac_v2 = ?, updated_at = ? WHERE id = 1`,
		nullIfEmpty(strings.TrimSpace(settings.OpenAIAPIKey)),
		nullIfEmpty(strings.TrimSpace(settings.AnthropicAPIKey)),
		settings.MaxVideoHeight,
		sqliteBool(settings.UseHEAACv2),
		formatTime(time.Now().UTC()),
	)
	if err != nil {
		return nil, fmt.Errorf("update settings: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return nil, services.Wrap(services.ErrConfigMissing, "store", "update settings", "no settings record", nil)
	}
	return s.GetSettings(ctx)
}

// DeleteSettings always fails: the record may be edited but never removed.
func (s *Store) DeleteSettings(ctx context.Context) error {
	if _, err := s.GetSettings(ctx); err != nil {
		return err
	}
	_, err := s.execWithRetry(ctx, `DELETE FROM settings WHERE id = 1`)
	if err == nil || isTriggerAbort(err) {
		return services.Wrap(services.ErrSingletonViolation, "store", "delete settings", "settings record cannot be deleted", err)
	}
	return fmt.Errorf("delete settings: %w", err)
}

func validateSettings(settings Settings) error {
	if !ValidVideoHeight(settings.MaxVideoHeight) {
		return services.Wrap(services.ErrValidation, "store", "settings",
			fmt.Sprintf("max video height %d not one of %v", settings.MaxVideoHeight, VideoHeights), nil)
	}
	return nil
}

func scanSettings(row scanner) (*Settings, error) {
	var (
		settings   Settings
		openAIKey  sql.NullString
		claudeKey  sql.NullString
		heAAC      int
		createdRaw string
		updatedRaw string
	)
	if err := row.Scan(&openAIKey, &claudeKey, &settings.MaxVideoHeight, &heAAC, &createdRaw, &updatedRaw); err != nil {
		return nil, err
	}
	settings.OpenAIAPIKey = openAIKey.String
	settings.AnthropicAPIKey = claudeKey.String
	settings.UseHEAACv2 = heAAC != 0
	if created, ok := parseTimestamp(createdRaw); ok {
		settings.CreatedAt = created
	}
	if updated, ok := parseTimestamp(updatedRaw); ok {
		settings.UpdatedAt = updated
	}
	return &settings, nil
}
