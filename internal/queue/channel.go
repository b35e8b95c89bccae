package queue

import (
	"sync"
	"sync/atomic"
)

// ChannelQueue adapts a buffered channel to the Queue contract.
//
// This is the standard library approach and serves as the baseline the
// harness compares the hand-rolled variants against. The channel itself is
// never closed; a separate done channel delivers the close signal so that
// buffered items remain receivable while blocked operations are released.
type ChannelQueue[T any] struct {
	ch   chan T
	done chan struct{}

	closed    atomic.Bool
	closeOnce sync.Once
}

// NewChannel creates a ChannelQueue with the given capacity.
func NewChannel[T any](capacity int) (*ChannelQueue[T], error) {
	if capacity < 1 {
		return nil, ErrInvalidCapacity
	}

	return &ChannelQueue[T]{
		ch:   make(chan T, capacity),
		done: make(chan struct{}),
	}, nil
}

// TryPush adds an item without blocking.
// Returns false if the queue is full or closed.
func (q *ChannelQueue[T]) TryPush(v T) bool {
	if q.closed.Load() {
		return false
	}

	select {
	case q.ch <- v:
		return true
	default:
		return false
	}
}

// Push adds an item, blocking while the queue is full.
// Returns false if the queue is closed before the item is accepted.
func (q *ChannelQueue[T]) Push(v T) bool {
	if q.closed.Load() {
		return false
	}

	select {
	case q.ch <- v:
		return true
	case <-q.done:
		return false
	}
}

// TryPop removes the oldest item without blocking.
// Returns false if the queue is empty; buffered items survive Close.
func (q *ChannelQueue[T]) TryPop() (T, bool) {
	select {
	case v := <-q.ch:
		return v, true
	default:
		var zero T
		return zero, false
	}
}

// Pop removes the oldest item, blocking while the queue is empty.
// Returns false only once the queue is closed and drained.
func (q *ChannelQueue[T]) Pop() (T, bool) {
	// Prefer a buffered item over the close signal.
	select {
	case v := <-q.ch:
		return v, true
	default:
	}

	select {
	case v := <-q.ch:
		return v, true
	case <-q.done:
		// Closed while waiting; drain anything that raced in.
		select {
		case v := <-q.ch:
			return v, true
		default:
			var zero T
			return zero, false
		}
	}
}

// Close marks the queue closed and releases blocked Push/Pop calls.
// Safe to call multiple times.
func (q *ChannelQueue[T]) Close() {
	q.closeOnce.Do(func() {
		q.closed.Store(true)
		close(q.done)
	})
}

// Closed reports whether Close has been called.
func (q *ChannelQueue[T]) Closed() bool {
	return q.closed.Load()
}

// Capacity returns the maximum number of buffered items.
func (q *ChannelQueue[T]) Capacity() int {
	return cap(q.ch)
}

// Len returns the current number of buffered items.
func (q *ChannelQueue[T]) Len() int {
	return len(q.ch)
}
