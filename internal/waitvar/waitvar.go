// Package waitvar provides an atomic counter that blocked goroutines can
// wait on, emulating a futex-style wait-on-expected-value.
//
// The standard sync/atomic package has no way to park a goroutine until an
// atomic value changes, so Uint64 pairs the value with a mutex and condition
// variable used only on the slow path. Load, Store, Add and a Wake with no
// waiters stay single atomic operations.
package waitvar

import (
	"sync"
	"sync/atomic"
)

// Uint64 is an atomic uint64 whose value can be waited on.
//
// Wait parks the calling goroutine while the value still equals an expected
// snapshot; Wake and Broadcast release parked waiters. A waiter registers and
// re-checks the value under the same mutex that Wake and Broadcast acquire,
// so a wake issued concurrently with registration is never lost.
//
// Create with New; the zero value is not usable.
type Uint64 struct {
	value   atomic.Uint64
	waiters atomic.Int32
	mu      sync.Mutex
	cond    sync.Cond
}

// New returns a Uint64 initialized to zero.
func New() *Uint64 {
	u := &Uint64{}
	u.cond.L = &u.mu

	return u
}

// Load returns the current value.
func (u *Uint64) Load() uint64 {
	return u.value.Load()
}

// Store sets the value.
//
// Store does not wake waiters. A caller publishing a change that another
// goroutine may be parked on must follow up with Wake or Broadcast.
func (u *Uint64) Store(v uint64) {
	u.value.Store(v)
}

// Add atomically adds delta to the value and returns the new value.
// Pass ^uint64(0) to subtract one.
func (u *Uint64) Add(delta uint64) uint64 {
	return u.value.Add(delta)
}

// Wait blocks until the value no longer equals old or stop becomes true.
//
// stop must be stored before the corresponding Wake or Broadcast is issued;
// Wait re-checks it together with the value on every wakeup, so a waiter
// racing with the store either never parks or is released by the wake.
func (u *Uint64) Wait(old uint64, stop *atomic.Bool) {
	u.mu.Lock()
	u.waiters.Add(1)

	for u.value.Load() == old && !stop.Load() {
		u.cond.Wait()
	}

	u.waiters.Add(-1)
	u.mu.Unlock()
}

// Wake releases one parked waiter, if any.
//
// When nobody is waiting this is a single atomic load, keeping the
// publish-side hot path free of lock traffic.
func (u *Uint64) Wake() {
	if u.waiters.Load() == 0 {
		return
	}

	u.mu.Lock()
	u.cond.Signal()
	u.mu.Unlock()
}

// Broadcast releases every parked waiter.
func (u *Uint64) Broadcast() {
	if u.waiters.Load() == 0 {
		return
	}

	u.mu.Lock()
	u.cond.Broadcast()
	u.mu.Unlock()
}
