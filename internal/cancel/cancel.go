// Package cancel provides the cancellation signal that lets a benchmark run
// be aborted between repeats.
//
// Two implementations of the Canceler interface are available:
//   - ContextCanceler: wraps a context.Context, used by the CLI to hook
//     SIGINT via signal.NotifyContext
//   - AtomicCanceler: a bare atomic.Bool, used where a context is not at
//     hand (tests, benchmarks)
//
// The harness polls Done() between repeats only, never inside the measured
// loop, so either implementation is cheap enough.
package cancel

import (
	"context"
	"sync/atomic"
)

// Canceler signals that in-progress work should stop.
//
// Implementations must be safe for concurrent use:
//   - Multiple goroutines may call Done() concurrently
//   - Cancel() may be called concurrently with Done()
type Canceler interface {
	// Done returns true if cancellation has been triggered.
	Done() bool

	// Cancel triggers cancellation. Safe to call multiple times.
	Cancel()
}

// AtomicCanceler uses an atomic.Bool for cancellation signaling.
type AtomicCanceler struct {
	done atomic.Bool
}

// NewAtomic creates a new AtomicCanceler.
func NewAtomic() *AtomicCanceler {
	return &AtomicCanceler{}
}

// Done returns true if cancellation has been triggered.
func (a *AtomicCanceler) Done() bool {
	return a.done.Load()
}

// Cancel triggers cancellation.
// Safe to call multiple times; subsequent calls are no-ops.
func (a *AtomicCanceler) Cancel() {
	a.done.Store(true)
}

// ContextCanceler wraps context.Context for cancellation signaling.
//
// Cancellation of the parent context propagates, so wiring a
// signal.NotifyContext parent makes Ctrl-C visible through Done().
type ContextCanceler struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// NewContext creates a ContextCanceler from a parent context.
func NewContext(parent context.Context) *ContextCanceler {
	ctx, cancel := context.WithCancel(parent)

	return &ContextCanceler{
		ctx:    ctx,
		cancel: cancel,
	}
}

// Done returns true if the context has been cancelled.
func (c *ContextCanceler) Done() bool {
	select {
	case <-c.ctx.Done():
		return true
	default:
		return false
	}
}

// Cancel triggers cancellation of the context.
func (c *ContextCanceler) Cancel() {
	c.cancel()
}

// Context returns the underlying context.Context.
func (c *ContextCanceler) Context() context.Context {
	return c.ctx
}
