package ingest_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"nyamedia/internal/ingest"
)

func TestWatchRunsImmediatelyAndOnInterval(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var ticks atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- ingest.Watch(ctx, 10*time.Millisecond, nil, func(context.Context) error {
			if ticks.Add(1) == 3 {
				cancel()
			}
			return errors.New("feed down")
		})
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Watch returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancellation")
	}
	if got := ticks.Load(); got < 3 {
		t.Fatalf("expected at least 3 ticks, got %d", got)
	}
}

func TestWatchRejectsNonPositiveInterval(t *testing.T) {
	called := false
	err := ingest.Watch(context.Background(), 0, nil, func(context.Context) error {
		called = true
		return nil
	})
	if err == nil {
		t.Fatal("expected error for zero interval")
	}
	if called {
		t.Fatal("tick must not run with an invalid interval")
	}
}
