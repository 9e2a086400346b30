package services_test

import (
	"context"
	"testing"

	"wandlung/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithAssetID(ctx, "dQw4w9WgXcQ")
	ctx = services.WithSubtitleID(ctx, 7)
	ctx = services.WithStage(ctx, "transcription")
	ctx = services.WithRequestID(ctx, "req-123")

	if id, ok := services.AssetIDFromContext(ctx); !ok || id != "dQw4w9WgXcQ" {
		t.Fatalf("unexpected asset id: %v %v", id, ok)
	}
	if id, ok := services.SubtitleIDFromContext(ctx); !ok || id != 7 {
		t.Fatalf("unexpected subtitle id: %v %v", id, ok)
	}
	if stage, ok := services.StageFromContext(ctx); !ok || stage != "transcription" {
		t.Fatalf("unexpected stage: %v %v", stage, ok)
	}
	if rid, ok := services.RequestIDFromContext(ctx); !ok || rid != "req-123" {
		t.Fatalf("unexpected request id: %v %v", rid, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithStage(ctx, "")
	ctx = services.WithAssetID(ctx, "")
	ctx = services.WithSubtitleID(ctx, 0)
	if _, ok := services.StageFromContext(ctx); ok {
		t.Fatal("expected no stage value")
	}
	if _, ok := services.AssetIDFromContext(ctx); ok {
		t.Fatal("expected no asset value")
	}
	if _, ok := services.SubtitleIDFromContext(ctx); ok {
		t.Fatal("expected no subtitle value")
	}
}

func TestInnerValuesShadowOuter(t *testing.T) {
	ctx := services.WithStage(context.Background(), "download")
	ctx = services.WithStage(ctx, "burn")
	ctx = services.WithRequestID(ctx, "outer")
	if stage, _ := services.StageFromContext(ctx); stage != "burn" {
		t.Fatalf("stage = %q", stage)
	}
	if _, ok := services.AssetIDFromContext(ctx); ok {
		t.Fatal("stage and request id must not leak into asset id")
	}
}
