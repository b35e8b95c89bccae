package queue

import (
	"sync/atomic"

	"github.com/huwzpf/spsc-queue/internal/waitvar"
)

// WaitQueue is a lock-free SPSC queue whose blocking operations park on the
// index they are waiting for instead of spinning.
//
// Ring layout and index ownership are identical to SpinQueue: capacity+1
// slots, producer-owned tail, consumer-owned head. The difference is purely
// how a blocked caller waits. A full Push parks on the head value it needs
// to see change; an empty Pop parks on the tail value. The peer issues a
// wake right after publishing the advanced index, and Close wakes both sides
// unconditionally so parked waiters are released even though no index moved.
//
// The non-blocking path never touches a lock, so the hot path stays as cheap
// as SpinQueue's while a blocked side consumes no CPU.
//
// WARNING: NOT safe for multiple producers or multiple consumers.
type WaitQueue[T any] struct {
	buf []T

	head *waitvar.Uint64 // Advanced by consumer; full producers park on it
	tail *waitvar.Uint64 // Advanced by producer; empty consumers park on it

	closed atomic.Bool
}

// NewWait creates a WaitQueue with the given capacity.
func NewWait[T any](capacity int) (*WaitQueue[T], error) {
	if capacity < 1 {
		return nil, ErrInvalidCapacity
	}

	return &WaitQueue[T]{
		buf:  make([]T, capacity+1),
		head: waitvar.New(),
		tail: waitvar.New(),
	}, nil
}

// TryPush adds an item without blocking.
// Returns false if the queue is full or closed.
func (q *WaitQueue[T]) TryPush(v T) bool {
	if q.closed.Load() {
		return false
	}

	t := q.tail.Load()
	next := t + 1
	if next == uint64(len(q.buf)) {
		next = 0
	}

	// Full if advancing tail would collide with head.
	if next == q.head.Load() {
		return false
	}

	q.buf[t] = v
	q.tail.Store(next)
	q.tail.Wake() // wake consumer if parked

	return true
}

// Push adds an item, parking on head while the queue is full.
// Returns false if the queue is closed before space becomes available.
func (q *WaitQueue[T]) Push(v T) bool {
	for {
		if q.closed.Load() {
			return false
		}

		t := q.tail.Load()
		next := t + 1
		if next == uint64(len(q.buf)) {
			next = 0
		}

		h := q.head.Load()
		if next != h {
			q.buf[t] = v
			q.tail.Store(next)
			q.tail.Wake() // wake consumer if parked

			return true
		}

		// Park until the consumer advances head or the queue closes.
		q.head.Wait(h, &q.closed)
	}
}

// TryPop removes the oldest item without blocking.
// Returns false if the queue is empty; buffered items survive Close.
func (q *WaitQueue[T]) TryPop() (T, bool) {
	var zero T

	h := q.head.Load()

	// Empty if head catches tail.
	if h == q.tail.Load() {
		return zero, false
	}

	v := q.buf[h]
	q.buf[h] = zero

	next := h + 1
	if next == uint64(len(q.buf)) {
		next = 0
	}
	q.head.Store(next)
	q.head.Wake() // wake producer if parked

	return v, true
}

// Pop removes the oldest item, parking on tail while the queue is empty.
// Returns false only once the queue is closed and drained.
func (q *WaitQueue[T]) Pop() (T, bool) {
	var zero T

	for {
		h := q.head.Load()
		t := q.tail.Load()

		if h != t {
			v := q.buf[h]
			q.buf[h] = zero

			next := h + 1
			if next == uint64(len(q.buf)) {
				next = 0
			}
			q.head.Store(next)
			q.head.Wake() // wake producer if parked

			return v, true
		}

		if q.closed.Load() {
			// Re-load tail after the flag: items published before Close
			// must not be lost.
			if q.tail.Load() == h {
				return zero, false
			}

			continue
		}

		// Park until the producer advances tail or the queue closes.
		q.tail.Wait(t, &q.closed)
	}
}

// Close marks the queue closed and wakes waiters parked on either index.
// The flag is stored before the broadcasts, so a Push or Pop racing into a
// park either observes it or receives the wake. Safe to call multiple times.
func (q *WaitQueue[T]) Close() {
	if !q.closed.Swap(true) {
		q.head.Broadcast()
		q.tail.Broadcast()
	}
}

// Closed reports whether Close has been called.
func (q *WaitQueue[T]) Closed() bool {
	return q.closed.Load()
}

// Capacity returns the maximum number of buffered items.
func (q *WaitQueue[T]) Capacity() int {
	return len(q.buf) - 1
}

// Len returns the current number of buffered items.
// This is an approximation and may be slightly stale.
func (q *WaitQueue[T]) Len() int {
	h := q.head.Load()
	t := q.tail.Load()
	n := uint64(len(q.buf))

	return int((t + n - h) % n)
}
