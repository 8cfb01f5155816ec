package app

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRunStopsOnContextCancel(t *testing.T) {
	cfg := Config{
		HTTPAddr:      "127.0.0.1:0",
		MetricsAddr:   "127.0.0.1:0",
		SessionSecret: "test-secret",
		SessionTTL:    time.Hour,
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, cfg)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop on context cancel")
	}
}
