package logging

import (
	"context"
	"log/slog"

	"wandlung/internal/services"
)

// Keys shared by every handler and by callers that filter logs.
const (
	FieldComponent     = "component"
	FieldAssetID       = "asset_id"
	FieldSubtitleID    = "subtitle_id"
	FieldStage         = "stage"
	FieldCorrelationID = "correlation_id"
	// FieldEventType classifies warnings and errors for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint tells the operator what to try next.
	FieldErrorHint = "error_hint"
	// FieldImpact says what the user loses because of a warning.
	FieldImpact = "impact"
)

// ContextFields returns the asset, subtitle, stage and correlation values
// carried by ctx.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	var fields []slog.Attr
	if id, ok := services.AssetIDFromContext(ctx); ok {
		fields = append(fields, AssetID(id))
	}
	if id, ok := services.SubtitleIDFromContext(ctx); ok {
		fields = append(fields, SubtitleID(id))
	}
	if stage, ok := services.StageFromContext(ctx); ok {
		fields = append(fields, String(FieldStage, stage))
	}
	if rid, ok := services.RequestIDFromContext(ctx); ok {
		fields = append(fields, String(FieldCorrelationID, rid))
	}
	return fields
}

// WithContext returns logger with the fields of ctx attached.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return slog.New(logger.Handler().WithAttrs(fields))
}
