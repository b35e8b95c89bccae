package queue

import (
	"sync/atomic"

	"github.com/huwzpf/spsc-queue/internal/waitvar"
)

// CounterQueue is a lock-free SPSC queue built around a single shared
// occupancy counter.
//
// The ring holds exactly capacity slots; emptiness and fullness are decided
// by the counter, not by comparing indices, so no sentinel slot is needed.
// Only the producer increments the counter and only the consumer decrements
// it, which makes the check-then-mutate sequence race-free even though both
// sides read it: between a producer's full-check and its increment the count
// can only shrink, and between a consumer's empty-check and its decrement it
// can only grow.
//
// head and tail are plain ints because each is touched by a single
// goroutine; the counter is the only cross-goroutine state besides the
// closed flag. A full Push parks on the counter value, as does an empty Pop;
// each successful operation wakes the peer through the counter.
//
// WARNING: NOT safe for multiple producers or multiple consumers.
type CounterQueue[T any] struct {
	buf []T

	length *waitvar.Uint64 // occupancy; incremented by producer, decremented by consumer

	head int // consumer-private; no atomicity needed with a single consumer
	tail int // producer-private; no atomicity needed with a single producer

	closed atomic.Bool
}

// NewCounter creates a CounterQueue with the given capacity.
func NewCounter[T any](capacity int) (*CounterQueue[T], error) {
	if capacity < 1 {
		return nil, ErrInvalidCapacity
	}

	return &CounterQueue[T]{
		buf:    make([]T, capacity),
		length: waitvar.New(),
	}, nil
}

// TryPush adds an item without blocking.
// Returns false if the queue is full or closed.
func (q *CounterQueue[T]) TryPush(v T) bool {
	if q.closed.Load() {
		return false
	}

	if q.length.Load() >= uint64(len(q.buf)) {
		return false
	}

	q.store(v)

	return true
}

// Push adds an item, parking on the counter while the queue is full.
// Returns false if the queue is closed before space becomes available.
func (q *CounterQueue[T]) Push(v T) bool {
	for {
		if q.closed.Load() {
			return false
		}

		n := q.length.Load()
		if n < uint64(len(q.buf)) {
			break
		}

		// Park until a pop changes the counter or the queue closes.
		q.length.Wait(n, &q.closed)
	}

	q.store(v)

	return true
}

// store writes v at tail and publishes it through the counter.
// The slot write precedes the increment, so a consumer observing the new
// count also observes the item.
func (q *CounterQueue[T]) store(v T) {
	q.buf[q.tail] = v

	q.tail++
	if q.tail == len(q.buf) {
		q.tail = 0
	}

	q.length.Add(1)
	q.length.Wake() // wake consumer if parked
}

// TryPop removes the oldest item without blocking.
// Returns false if the queue is empty; buffered items survive Close.
func (q *CounterQueue[T]) TryPop() (T, bool) {
	var zero T

	if q.length.Load() == 0 {
		return zero, false
	}

	return q.take(), true
}

// Pop removes the oldest item, parking on the counter while the queue is
// empty. Returns false only once the queue is closed and drained.
func (q *CounterQueue[T]) Pop() (T, bool) {
	var zero T

	for {
		if q.length.Load() > 0 {
			break
		}

		if q.closed.Load() {
			// Re-load the counter after the flag: items pushed before
			// Close must not be lost.
			if q.length.Load() == 0 {
				return zero, false
			}

			continue
		}

		// Park until a push changes the counter or the queue closes.
		q.length.Wait(0, &q.closed)
	}

	return q.take(), true
}

// take removes the head item and publishes the freed slot through the
// counter. The slot is cleared so the GC can reclaim what it referenced.
func (q *CounterQueue[T]) take() T {
	var zero T

	v := q.buf[q.head]
	q.buf[q.head] = zero

	q.head++
	if q.head == len(q.buf) {
		q.head = 0
	}

	q.length.Add(^uint64(0))
	q.length.Wake() // wake producer if parked

	return v
}

// Close marks the queue closed and wakes everything parked on the counter.
// The counter itself is left intact so buffered items stay drainable.
// Safe to call multiple times.
func (q *CounterQueue[T]) Close() {
	if !q.closed.Swap(true) {
		q.length.Broadcast()
	}
}

// Closed reports whether Close has been called.
func (q *CounterQueue[T]) Closed() bool {
	return q.closed.Load()
}

// Capacity returns the maximum number of buffered items.
func (q *CounterQueue[T]) Capacity() int {
	return len(q.buf)
}

// Len returns the current number of buffered items.
func (q *CounterQueue[T]) Len() int {
	return int(q.length.Load())
}
