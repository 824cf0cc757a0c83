// Package lifecycle coordinates startup and shutdown hooks for
// long-running subsystems.
package lifecycle

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Coordinator runs registered startup hooks concurrently and shutdown
// hooks on demand, exposing a context that is cancelled when shutdown
// begins.
type Coordinator struct {
	ctx        context.Context
	cancel     context.CancelFunc
	startupWg  sync.WaitGroup
	shutdown   []func(context.Context)
	shutdownMu sync.Mutex
	ready      bool
	readyMu    sync.RWMutex
}

// New creates a Coordinator with a cancellable context.
func New() *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{
		ctx:    ctx,
		cancel: cancel,
	}
}

// Context returns the coordinator's context, cancelled when Shutdown is called.
func (c *Coordinator) Context() context.Context {
	return c.ctx
}

// OnStartup runs fn concurrently as part of startup.
func (c *Coordinator) OnStartup(fn func()) {
	c.startupWg.Go(fn)
}

// OnShutdown registers a cleanup hook. Hooks run concurrently during
// Shutdown and receive a context bounded by the shutdown timeout.
func (c *Coordinator) OnShutdown(fn func(context.Context)) {
	c.shutdownMu.Lock()
	defer c.shutdownMu.Unlock()
	c.shutdown = append(c.shutdown, fn)
}

// Ready reports whether all startup hooks have completed.
func (c *Coordinator) Ready() bool {
	c.readyMu.RLock()
	defer c.readyMu.RUnlock()
	return c.ready
}

// WaitForStartup blocks until all startup hooks have completed and sets
// the ready flag.
func (c *Coordinator) WaitForStartup() {
	c.startupWg.Wait()
	c.readyMu.Lock()
	c.ready = true
	c.readyMu.Unlock()
}

// Shutdown cancels the coordinator context, runs all registered shutdown
// hooks concurrently, and waits for them to finish within timeout.
func (c *Coordinator) Shutdown(timeout time.Duration) error {
	c.cancel()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	c.shutdownMu.Lock()
	hooks := c.shutdown
	c.shutdownMu.Unlock()

	var wg sync.WaitGroup
	for _, fn := range hooks {
		wg.Go(func() { fn(ctx) })
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("shutdown timeout after %v", timeout)
	}
}
