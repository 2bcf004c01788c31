package telemetry

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
)

// Setup mutates global otel state, so these tests do not run in parallel.

func TestSetup(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	shutdown, err := Setup(ctx, "dayflow-engined", "localhost:4318")
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	if shutdown == nil {
		t.Fatal("Setup returned no shutdown function")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := shutdown(shutdownCtx); err != nil {
		t.Errorf("shutdown failed: %v", err)
	}
}

func TestSetupInstallsPropagator(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	shutdown, err := Setup(ctx, "dayflow-engined", "localhost:4318")
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = shutdown(shutdownCtx)
	}()

	found := false
	for _, field := range otel.GetTextMapPropagator().Fields() {
		if field == "traceparent" {
			found = true
		}
	}
	if !found {
		t.Error("global propagator does not carry traceparent")
	}
}
