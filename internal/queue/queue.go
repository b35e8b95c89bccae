// Package queue provides bounded single-producer single-consumer (SPSC)
// queues with four synchronization strategies plus a buffered-channel
// baseline.
//
// This package offers five implementations of the Queue interface:
//   - MutexQueue: mutex + condition variables, the semantic reference
//   - CounterQueue: lock-free ring + waitable occupancy counter
//   - SpinQueue: lock-free ring, blocked callers busy-spin with periodic yield
//   - WaitQueue: lock-free ring, blocked callers park on the index they need
//   - ChannelQueue: standard library approach using a buffered channel
//
// All variants share the same contract: TryPush/TryPop never block; Push/Pop
// block until the operation can proceed or the queue is closed; Close is
// idempotent, wakes any blocked Push or Pop, fails all later pushes and still
// lets the consumer drain buffered items; items come out in exactly the order
// they went in, with no loss and no duplication.
//
// # SPSC Safety (IMPORTANT)
//
// Every variant is a Single-Producer Single-Consumer queue. It is NOT safe
// for multiple goroutines to call TryPush/Push concurrently, nor for multiple
// goroutines to call TryPop/Pop concurrently. Violating this discipline is
// undefined behavior and is not detected at runtime.
//
// Correct usage:
//   - Exactly ONE goroutine calls TryPush/Push.
//   - Exactly ONE goroutine calls TryPop/Pop.
//   - Close, Closed and Capacity may be called from either of them.
//
// The Producer and Consumer interfaces split the contract so that each role
// can be handed only the half it is allowed to use.
package queue

import "errors"

// ErrInvalidCapacity is returned by every constructor when the requested
// capacity is not positive.
var ErrInvalidCapacity = errors.New("queue: capacity must be positive")

// Producer is the half of the queue contract owned by the producing
// goroutine.
type Producer[T any] interface {
	// TryPush adds an item without blocking.
	// Returns false if the queue is full or closed.
	TryPush(T) bool

	// Push adds an item, blocking while the queue is full.
	// Returns false if the queue is closed before the item is stored;
	// in that case the item has not been stored.
	Push(T) bool
}

// Consumer is the half of the queue contract owned by the consuming
// goroutine.
type Consumer[T any] interface {
	// TryPop removes and returns the oldest item without blocking.
	// Returns false if the queue is currently empty, whether or not it
	// has been closed, so a closed queue can still be drained.
	TryPop() (T, bool)

	// Pop removes and returns the oldest item, blocking while the queue
	// is empty. Returns false only once the queue is closed and drained.
	Pop() (T, bool)
}

// Queue is the full SPSC queue contract, consumed by the benchmark harness.
type Queue[T any] interface {
	Producer[T]
	Consumer[T]

	// Close marks the queue closed and wakes every goroutine blocked in
	// Push or Pop. Idempotent. Buffered items remain available to
	// TryPop/Pop until drained.
	Close()

	// Closed reports whether Close has been called.
	Closed() bool

	// Capacity returns the maximum number of buffered items.
	Capacity() int
}
