// Package tick provides periodic triggers used by the benchmark harness to
// throttle progress reporting.
//
// Two implementations of the Ticker interface are available:
//   - StdTicker: Standard library time.Ticker wrapper
//   - AtomicTicker: Atomic timestamp comparison using runtime.nanotime
//
// The harness polls Tick between benchmark repeats, so the check must stay
// cheap enough not to disturb the measurement. AtomicTicker avoids the Go
// runtime's central timer heap entirely.
package tick

import "time"

// Ticker signals when a time interval has elapsed.
//
// All implementations are safe for concurrent use from multiple goroutines,
// though typically only one goroutine polls Tick() in a loop.
type Ticker interface {
	// Tick returns true if the interval has elapsed since the last tick.
	// This is a non-blocking check.
	Tick() bool

	// Reset resets the ticker to start a new interval from now.
	Reset()

	// Stop releases any resources held by the ticker.
	// After Stop, the ticker should not be used.
	Stop()
}

// DefaultInterval is the progress-reporting cadence the harness uses when
// none is configured.
const DefaultInterval = 5 * time.Second

// StdTicker wraps time.Ticker for the Ticker interface.
//
// Each call to Tick() performs a non-blocking select on the ticker's
// channel.
type StdTicker struct {
	ticker   *time.Ticker
	interval time.Duration
}

// NewTicker creates a StdTicker with the specified interval.
func NewTicker(interval time.Duration) *StdTicker {
	return &StdTicker{
		ticker:   time.NewTicker(interval),
		interval: interval,
	}
}

// Tick returns true if the interval has elapsed.
func (t *StdTicker) Tick() bool {
	select {
	case <-t.ticker.C:
		return true
	default:
		return false
	}
}

// Reset resets the ticker to start a new interval from now.
func (t *StdTicker) Reset() {
	t.ticker.Reset(t.interval)
}

// Stop stops the ticker and releases resources.
func (t *StdTicker) Stop() {
	t.ticker.Stop()
}

// Interval returns the ticker's interval.
func (t *StdTicker) Interval() time.Duration {
	return t.interval
}
