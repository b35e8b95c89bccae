package queue

import "sync"

// MutexQueue is the lock-based SPSC queue, used as the semantic reference
// for the lock-free variants: any of them must be observably equivalent to
// this one under black-box testing.
//
// A single mutex guards a fixed ring plus an item count. Blocking operations
// wait on one of two condition variables: the producer on notFull, the
// consumer on notEmpty. Wait predicates include the closed flag, and waits
// loop to tolerate spurious wakeups. Notifications are issued after the lock
// is released to avoid waking a goroutine straight into a held lock.
type MutexQueue[T any] struct {
	mu       sync.Mutex
	notFull  sync.Cond
	notEmpty sync.Cond

	buf    []T
	head   int
	tail   int
	length int
	closed bool
}

// NewMutex creates a MutexQueue with the given capacity.
func NewMutex[T any](capacity int) (*MutexQueue[T], error) {
	if capacity < 1 {
		return nil, ErrInvalidCapacity
	}

	q := &MutexQueue[T]{buf: make([]T, capacity)}
	q.notFull.L = &q.mu
	q.notEmpty.L = &q.mu

	return q, nil
}

// TryPush adds an item without blocking.
// Returns false if the queue is full or closed.
func (q *MutexQueue[T]) TryPush(v T) bool {
	q.mu.Lock()
	return q.pushLocked(v)
}

// Push adds an item, blocking while the queue is full.
// Returns false if the queue is closed before space becomes available.
func (q *MutexQueue[T]) Push(v T) bool {
	q.mu.Lock()
	for !q.closed && q.length == len(q.buf) {
		q.notFull.Wait()
	}

	return q.pushLocked(v)
}

// pushLocked stores v and releases the mutex. Caller must hold q.mu.
func (q *MutexQueue[T]) pushLocked(v T) bool {
	if q.closed || q.length == len(q.buf) {
		q.mu.Unlock()
		return false
	}

	q.buf[q.tail] = v
	q.tail = (q.tail + 1) % len(q.buf)
	q.length++

	q.mu.Unlock()
	q.notEmpty.Signal()

	return true
}

// TryPop removes the oldest item without blocking.
// Returns false if the queue is empty; buffered items survive Close.
func (q *MutexQueue[T]) TryPop() (T, bool) {
	q.mu.Lock()
	return q.popLocked()
}

// Pop removes the oldest item, blocking while the queue is empty.
// Returns false only once the queue is closed and drained.
func (q *MutexQueue[T]) Pop() (T, bool) {
	q.mu.Lock()
	for !q.closed && q.length == 0 {
		q.notEmpty.Wait()
	}

	return q.popLocked()
}

// popLocked removes the head item and releases the mutex. Caller must hold
// q.mu. The slot is cleared so the GC can reclaim what it referenced.
func (q *MutexQueue[T]) popLocked() (T, bool) {
	var zero T

	if q.length == 0 {
		q.mu.Unlock()
		return zero, false
	}

	v := q.buf[q.head]
	q.buf[q.head] = zero
	q.head = (q.head + 1) % len(q.buf)
	q.length--

	q.mu.Unlock()
	q.notFull.Signal()

	return v, true
}

// Close marks the queue closed and wakes all blocked producers and
// consumers. Safe to call multiple times.
func (q *MutexQueue[T]) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()

	q.notFull.Broadcast()
	q.notEmpty.Broadcast()
}

// Closed reports whether Close has been called.
func (q *MutexQueue[T]) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.closed
}

// Capacity returns the maximum number of buffered items.
func (q *MutexQueue[T]) Capacity() int {
	return len(q.buf)
}

// Len returns the current number of buffered items.
func (q *MutexQueue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.length
}
