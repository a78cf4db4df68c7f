package services_test

import (
	"context"
	"testing"

	"stylus/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithTrackID(ctx, 42)
	ctx = services.WithBatchID(ctx, "batch-7")
	ctx = services.WithPhase(ctx, "searching")
	ctx = services.WithRequestID(ctx, "req-123")

	if id, ok := services.TrackIDFromContext(ctx); !ok || id != 42 {
		t.Fatalf("unexpected track id: %v %v", id, ok)
	}
	if batch, ok := services.BatchIDFromContext(ctx); !ok || batch != "batch-7" {
		t.Fatalf("unexpected batch id: %v %v", batch, ok)
	}
	if phase, ok := services.PhaseFromContext(ctx); !ok || phase != "searching" {
		t.Fatalf("unexpected phase: %v %v", phase, ok)
	}
	if rid, ok := services.RequestIDFromContext(ctx); !ok || rid != "req-123" {
		t.Fatalf("unexpected request id: %v %v", rid, ok)
	}
}

func TestPhaseBlankPreservesContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithPhase(ctx, "")
	if _, ok := services.PhaseFromContext(ctx); ok {
		t.Fatal("expected no phase value")
	}
}
