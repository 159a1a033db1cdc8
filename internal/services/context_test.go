package services_test

import (
	"context"
	"testing"

	"autotag/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithTrackPath(ctx, "/music/raw/track.mp3")
	ctx = services.WithRequestID(ctx, "req-123")

	if path, ok := services.TrackPathFromContext(ctx); !ok || path != "/music/raw/track.mp3" {
		t.Fatalf("unexpected track path: %v %v", path, ok)
	}
	if rid, ok := services.RequestIDFromContext(ctx); !ok || rid != "req-123" {
		t.Fatalf("unexpected request id: %v %v", rid, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithTrackPath(ctx, "")
	ctx = services.WithRequestID(ctx, "")
	if _, ok := services.TrackPathFromContext(ctx); ok {
		t.Fatal("expected no track path value")
	}
	if _, ok := services.RequestIDFromContext(ctx); ok {
		t.Fatal("expected no request id value")
	}
}
