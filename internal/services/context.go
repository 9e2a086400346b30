package services

import "context"

// ctxKey is typed by the value it stores so lookups cannot mix up types.
type ctxKey[T comparable] struct{ name string }

var (
	assetIDKey    = ctxKey[string]{"asset_id"}
	subtitleIDKey = ctxKey[int64]{"subtitle_id"}
	stageKey      = ctxKey[string]{"stage"}
	requestIDKey  = ctxKey[string]{"request_id"}
)

// with stores v unless it is the zero value.
func with[T comparable](ctx context.Context, key ctxKey[T], v T) context.Context {
	var zero T
	if v == zero {
		return ctx
	}
	return context.WithValue(ctx, key, v)
}

func lookup[T comparable](ctx context.Context, key ctxKey[T]) (T, bool) {
	v, ok := ctx.Value(key).(T)
	return v, ok
}

// WithAssetID annotates ctx with the provider video identifier.
func WithAssetID(ctx context.Context, id string) context.Context {
	return with(ctx, assetIDKey, id)
}

// AssetIDFromContext returns the video identifier set by WithAssetID.
func AssetIDFromContext(ctx context.Context) (string, bool) {
	return lookup(ctx, assetIDKey)
}

// WithSubtitleID annotates ctx with a subtitle track identifier. Track ids
// start at 1, so zero is ignored.
func WithSubtitleID(ctx context.Context, id int64) context.Context {
	return with(ctx, subtitleIDKey, id)
}

func SubtitleIDFromContext(ctx context.Context) (int64, bool) {
	return lookup(ctx, subtitleIDKey)
}

// WithStage annotates ctx with the pipeline stage name.
func WithStage(ctx context.Context, stage string) context.Context {
	return with(ctx, stageKey, stage)
}

func StageFromContext(ctx context.Context) (string, bool) {
	return lookup(ctx, stageKey)
}

// WithRequestID annotates ctx with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	return with(ctx, requestIDKey, id)
}

func RequestIDFromContext(ctx context.Context) (string, bool) {
	return lookup(ctx, requestIDKey)
}
