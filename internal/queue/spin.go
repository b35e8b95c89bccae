package queue

import (
	"runtime"
	"sync/atomic"
)

// yieldAfter is the number of unproductive spins a blocked SpinQueue
// operation performs before yielding the processor once.
const yieldAfter = 1024

// SpinQueue is a lock-free SPSC queue whose blocking operations busy-spin.
//
// The ring holds capacity+1 slots; one slot is intentionally unused so that
//
//	empty: head == tail
//	full:  (tail+1) % len(buf) == head
//
// which distinguishes the two states without a shared occupancy counter or
// any shared read-modify-write in the hot path.
//
// Each index has exactly one writer: the producer advances tail, the
// consumer advances head. The atomic store that advances an index publishes
// the slot written just before it, so the peer observing the new index also
// observes the item. (Go's sync/atomic operations are sequentially
// consistent, which subsumes the release/acquire pairing this layout needs.)
//
// Blocked Push/Pop spin-poll the peer's index, calling runtime.Gosched once
// every yieldAfter failed attempts. The goroutine stays runnable and burns
// CPU while blocked in exchange for the lowest wake-up latency of the
// variants; prefer WaitQueue when a side can stay blocked for long.
//
// WARNING: NOT safe for multiple producers or multiple consumers.
type SpinQueue[T any] struct {
	buf []T

	// Cache line padding to prevent false sharing
	_pad0 [56]byte //nolint:unused

	head atomic.Uint64 // Written by consumer, read by producer

	_pad1 [56]byte //nolint:unused

	tail atomic.Uint64 // Written by producer, read by consumer

	_pad2 [56]byte //nolint:unused

	closed atomic.Bool
}

// NewSpin creates a SpinQueue with the given capacity.
func NewSpin[T any](capacity int) (*SpinQueue[T], error) {
	if capacity < 1 {
		return nil, ErrInvalidCapacity
	}

	return &SpinQueue[T]{buf: make([]T, capacity+1)}, nil
}

// TryPush adds an item without blocking.
// Returns false if the queue is full or closed.
func (q *SpinQueue[T]) TryPush(v T) bool {
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

	return true
}

// Push adds an item, spinning while the queue is full.
// Returns false if the queue is closed before space becomes available.
func (q *SpinQueue[T]) Push(v T) bool {
	for spin := 0; ; {
		if q.closed.Load() {
			return false
		}

		t := q.tail.Load()
		next := t + 1
		if next == uint64(len(q.buf)) {
			next = 0
		}

		if next != q.head.Load() {
			q.buf[t] = v
			q.tail.Store(next)

			return true
		}

		spin++
		if spin >= yieldAfter {
			runtime.Gosched()
			spin = 0
		}
	}
}

// TryPop removes the oldest item without blocking.
// Returns false if the queue is empty; buffered items survive Close.
func (q *SpinQueue[T]) TryPop() (T, bool) {
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

	return v, true
}

// Pop removes the oldest item, spinning while the queue is empty.
// Returns false only once the queue is closed and drained.
//
// The closed flag is checked after each failed attempt, so a Close racing
// with an emptiness check may be observed one spin/yield cycle late. The
// emptiness check is repeated after the flag is observed: tail may have
// advanced between the first check and the close, and those items must
// still drain.
func (q *SpinQueue[T]) Pop() (T, bool) {
	var zero T

	for spin := 0; ; {
		h := q.head.Load()

		if h != q.tail.Load() {
			v := q.buf[h]
			q.buf[h] = zero

			next := h + 1
			if next == uint64(len(q.buf)) {
				next = 0
			}
			q.head.Store(next)

			return v, true
		}

		spin++
		if spin >= yieldAfter {
			runtime.Gosched()
			spin = 0
		}

		// Re-load tail after the flag: items published before Close must
		// not be lost.
		if q.closed.Load() && h == q.tail.Load() {
			return zero, false
		}
	}
}

// Close marks the queue closed. Blocked Push/Pop observe the flag on their
// next spin iteration; no notification is needed because blocked callers
// never deschedule for good. Safe to call multiple times.
func (q *SpinQueue[T]) Close() {
	q.closed.Store(true)
}

// Closed reports whether Close has been called.
func (q *SpinQueue[T]) Closed() bool {
	return q.closed.Load()
}

// Capacity returns the maximum number of buffered items.
func (q *SpinQueue[T]) Capacity() int {
	return len(q.buf) - 1
}

// Len returns the current number of buffered items.
// This is an approximation and may be slightly stale.
func (q *SpinQueue[T]) Len() int {
	h := q.head.Load()
	t := q.tail.Load()
	n := uint64(len(q.buf))

	return int((t + n - h) % n)
}
