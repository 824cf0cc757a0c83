package lifecycle_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/JaimeStill/docket/pkg/lifecycle"
)

func TestReadyAfterStartup(t *testing.T) {
	lc := lifecycle.New()

	var ran atomic.Bool
	lc.OnStartup(func() { ran.Store(true) })

	if lc.Ready() {
		t.Error("ready before WaitForStartup")
	}

	lc.WaitForStartup()

	if !ran.Load() {
		t.Error("startup hook did not run")
	}
	if !lc.Ready() {
		t.Error("not ready after WaitForStartup")
	}
}

func TestShutdownRunsHooks(t *testing.T) {
	lc := lifecycle.New()

	var count atomic.Int32
	lc.OnShutdown(func(ctx context.Context) { count.Add(1) })
	lc.OnShutdown(func(ctx context.Context) { count.Add(1) })

	if err := lc.Shutdown(time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count.Load() != 2 {
		t.Errorf("hooks run: got %d, want 2", count.Load())
	}
}

func TestShutdownCancelsContext(t *testing.T) {
	lc := lifecycle.New()

	if err := lc.Context().Err(); err != nil {
		t.Fatalf("context cancelled before shutdown: %v", err)
	}

	if err := lc.Shutdown(time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if lc.Context().Err() == nil {
		t.Error("context not cancelled after shutdown")
	}
}

func TestShutdownTimeout(t *testing.T) {
	lc := lifecycle.New()

	release := make(chan struct{})
	lc.OnShutdown(func(ctx context.Context) { <-release })
	defer close(release)

	if err := lc.Shutdown(50 * time.Millisecond); err == nil {
		t.Error("expected timeout error")
	}
}

func TestShutdownHookSeesTimeoutContext(t *testing.T) {
	lc := lifecycle.New()

	var deadlineSet atomic.Bool
	lc.OnShutdown(func(ctx context.Context) {
		_, ok := ctx.Deadline()
		deadlineSet.Store(ok)
	})

	if err := lc.Shutdown(time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !deadlineSet.Load() {
		t.Error("shutdown hook context has no deadline")
	}
}
