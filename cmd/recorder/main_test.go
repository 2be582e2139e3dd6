package main

import (
	"context"
	"testing"
)

func TestWatchHandle(t *testing.T) {
	t.Run("dead handle is fatal", func(t *testing.T) {
		done := make(chan struct{})
		close(done)
		if err := watchHandle(context.Background(), done, "tickertape"); err == nil {
			t.Fatal("expected error for a terminated handle")
		}
	})

	t.Run("clean when handle terminates during shutdown", func(t *testing.T) {
		// Both cases ready at once: the select may pick either branch, and
		// either way shutdown must not be reported as a failure.
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		done := make(chan struct{})
		close(done)
		for i := 0; i < 100; i++ {
			if err := watchHandle(ctx, done, "tickertape"); err != nil {
				t.Fatalf("watchHandle = %v, want nil during shutdown", err)
			}
		}
	})

	t.Run("clean on shutdown with a live handle", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if err := watchHandle(ctx, make(chan struct{}), "executions"); err != nil {
			t.Errorf("watchHandle = %v, want nil", err)
		}
	})
}
