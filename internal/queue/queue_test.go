package queue_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huwzpf/spsc-queue/internal/queue"
)

// waitTimeout bounds how long a test waits for a blocked operation to
// return. Any blocking contract violation shows up as hitting this.
const waitTimeout = 2 * time.Second

// settleDelay gives a goroutine time to reach its blocking call before the
// test performs the action that should unblock it.
const settleDelay = 50 * time.Millisecond

type variant struct {
	name string
	make func(capacity int) (queue.Queue[int], error)
}

func asQueue(q queue.Queue[int], err error) (queue.Queue[int], error) {
	if err != nil {
		return nil, err
	}

	return q, nil
}

// variants lists every implementation; the whole suite is black-box and
// runs unchanged against each of them.
func variants() []variant {
	return []variant{
		{"mutex", func(c int) (queue.Queue[int], error) { return asQueue(queue.NewMutex[int](c)) }},
		{"counter", func(c int) (queue.Queue[int], error) { return asQueue(queue.NewCounter[int](c)) }},
		{"spin", func(c int) (queue.Queue[int], error) { return asQueue(queue.NewSpin[int](c)) }},
		{"wait", func(c int) (queue.Queue[int], error) { return asQueue(queue.NewWait[int](c)) }},
		{"channel", func(c int) (queue.Queue[int], error) { return asQueue(queue.NewChannel[int](c)) }},
	}
}

func forEachVariant(t *testing.T, fn func(t *testing.T, mk func(capacity int) (queue.Queue[int], error))) {
	for _, v := range variants() {
		t.Run(v.name, func(t *testing.T) {
			t.Parallel()

			fn(t, v.make)
		})
	}
}

type popResult struct {
	val int
	ok  bool
}

func awaitPop(t *testing.T, ch <-chan popResult) popResult {
	t.Helper()

	select {
	case r := <-ch:
		return r
	case <-time.After(waitTimeout):
		t.Fatal("pop did not return in time")
		return popResult{}
	}
}

func awaitPush(t *testing.T, ch <-chan bool) bool {
	t.Helper()

	select {
	case ok := <-ch:
		return ok
	case <-time.After(waitTimeout):
		t.Fatal("push did not return in time")
		return false
	}
}

func TestCapacityMustBePositive(t *testing.T) {
	forEachVariant(t, func(t *testing.T, mk func(int) (queue.Queue[int], error)) {
		_, err := mk(0)
		require.ErrorIs(t, err, queue.ErrInvalidCapacity)

		_, err = mk(-1)
		require.ErrorIs(t, err, queue.ErrInvalidCapacity)
	})
}

func TestReportsConfiguredCapacity(t *testing.T) {
	forEachVariant(t, func(t *testing.T, mk func(int) (queue.Queue[int], error)) {
		q, err := mk(7)
		require.NoError(t, err)

		assert.Equal(t, 7, q.Capacity())
	})
}

func TestCloseIsReflectedAndIdempotent(t *testing.T) {
	forEachVariant(t, func(t *testing.T, mk func(int) (queue.Queue[int], error)) {
		q, err := mk(1)
		require.NoError(t, err)

		assert.False(t, q.Closed())

		q.Close()
		assert.True(t, q.Closed())

		q.Close()
		assert.True(t, q.Closed())
	})
}

func TestTryPushReturnsFalseWhenFull(t *testing.T) {
	forEachVariant(t, func(t *testing.T, mk func(int) (queue.Queue[int], error)) {
		q, err := mk(2)
		require.NoError(t, err)

		assert.True(t, q.TryPush(1))
		assert.True(t, q.TryPush(2))
		assert.False(t, q.TryPush(3))
	})
}

func TestTryPopReturnsFalseWhenEmpty(t *testing.T) {
	forEachVariant(t, func(t *testing.T, mk func(int) (queue.Queue[int], error)) {
		q, err := mk(2)
		require.NoError(t, err)

		_, ok := q.TryPop()
		assert.False(t, ok)
	})
}

func TestClosedBeforeUseRejectsEverything(t *testing.T) {
	forEachVariant(t, func(t *testing.T, mk func(int) (queue.Queue[int], error)) {
		q, err := mk(1)
		require.NoError(t, err)

		q.Close()

		assert.False(t, q.TryPush(42))
		assert.False(t, q.Push(42))

		_, ok := q.TryPop()
		assert.False(t, ok)

		_, ok = q.Pop()
		assert.False(t, ok)
	})
}

func TestTryPushTryPopPreservesOrder(t *testing.T) {
	forEachVariant(t, func(t *testing.T, mk func(int) (queue.Queue[int], error)) {
		q, err := mk(3)
		require.NoError(t, err)

		require.True(t, q.TryPush(1))
		require.True(t, q.TryPush(2))
		require.True(t, q.TryPush(3))

		for want := 1; want <= 3; want++ {
			got, ok := q.TryPop()
			require.True(t, ok)
			assert.Equal(t, want, got)
		}

		_, ok := q.TryPop()
		assert.False(t, ok)
	})
}

// TestWrapAround pushes past the ring boundary to verify index wrapping.
func TestWrapAround(t *testing.T) {
	forEachVariant(t, func(t *testing.T, mk func(int) (queue.Queue[int], error)) {
		q, err := mk(2)
		require.NoError(t, err)

		require.True(t, q.Push(1))
		require.True(t, q.Push(2))

		got, ok := q.Pop()
		require.True(t, ok)
		assert.Equal(t, 1, got)

		require.True(t, q.Push(3))

		got, ok = q.Pop()
		require.True(t, ok)
		assert.Equal(t, 2, got)

		got, ok = q.Pop()
		require.True(t, ok)
		assert.Equal(t, 3, got)
	})
}

func TestTryPopDrainsAfterClose(t *testing.T) {
	forEachVariant(t, func(t *testing.T, mk func(int) (queue.Queue[int], error)) {
		q, err := mk(2)
		require.NoError(t, err)

		require.True(t, q.TryPush(1))
		require.True(t, q.TryPush(2))

		q.Close()

		got, ok := q.TryPop()
		require.True(t, ok)
		assert.Equal(t, 1, got)

		got, ok = q.TryPop()
		require.True(t, ok)
		assert.Equal(t, 2, got)

		_, ok = q.TryPop()
		assert.False(t, ok)
	})
}

func TestPopDrainsAfterClose(t *testing.T) {
	forEachVariant(t, func(t *testing.T, mk func(int) (queue.Queue[int], error)) {
		q, err := mk(3)
		require.NoError(t, err)

		require.True(t, q.Push(10))
		require.True(t, q.Push(20))

		q.Close()

		got, ok := q.Pop()
		require.True(t, ok)
		assert.Equal(t, 10, got)

		got, ok = q.Pop()
		require.True(t, ok)
		assert.Equal(t, 20, got)

		_, ok = q.Pop()
		assert.False(t, ok)
	})
}

// TestPopDrainsItemsPublishedRightBeforeClose races a consumer's emptiness
// check against a producer that publishes its last items and immediately
// closes. Every pushed item must still come out; losing any means Pop gave
// up on a stale emptiness observation.
func TestPopDrainsItemsPublishedRightBeforeClose(t *testing.T) {
	const (
		rounds   = 500
		perRound = 8
	)

	forEachVariant(t, func(t *testing.T, mk func(int) (queue.Queue[int], error)) {
		for round := 0; round < rounds; round++ {
			q, err := mk(perRound)
			require.NoError(t, err)

			go func() {
				for i := 0; i < perRound; i++ {
					q.Push(i)
				}

				q.Close()
			}()

			consumed := 0

			for {
				val, ok := q.Pop()
				if !ok {
					break
				}

				require.Equal(t, consumed, val, "round %d", round)

				consumed++
			}

			require.Equal(t, perRound, consumed, "round %d lost items", round)
		}
	})
}

func TestPopUnblockedByPush(t *testing.T) {
	forEachVariant(t, func(t *testing.T, mk func(int) (queue.Queue[int], error)) {
		q, err := mk(1)
		require.NoError(t, err)

		result := make(chan popResult, 1)

		go func() {
			val, ok := q.Pop()
			result <- popResult{val, ok}
		}()

		time.Sleep(settleDelay)
		require.True(t, q.Push(42))

		r := awaitPop(t, result)
		require.True(t, r.ok)
		assert.Equal(t, 42, r.val)
	})
}

func TestPopUnblockedByTryPush(t *testing.T) {
	forEachVariant(t, func(t *testing.T, mk func(int) (queue.Queue[int], error)) {
		q, err := mk(1)
		require.NoError(t, err)

		result := make(chan popResult, 1)

		go func() {
			val, ok := q.Pop()
			result <- popResult{val, ok}
		}()

		time.Sleep(settleDelay)
		require.True(t, q.TryPush(42))

		r := awaitPop(t, result)
		require.True(t, r.ok)
		assert.Equal(t, 42, r.val)
	})
}

func TestPushUnblockedByPop(t *testing.T) {
	forEachVariant(t, func(t *testing.T, mk func(int) (queue.Queue[int], error)) {
		q, err := mk(1)
		require.NoError(t, err)

		require.True(t, q.Push(1))

		result := make(chan bool, 1)

		go func() {
			result <- q.Push(2)
		}()

		time.Sleep(settleDelay)

		got, ok := q.Pop()
		require.True(t, ok)
		assert.Equal(t, 1, got)

		require.True(t, awaitPush(t, result))

		got, ok = q.Pop()
		require.True(t, ok)
		assert.Equal(t, 2, got)
	})
}

func TestPushUnblockedByTryPop(t *testing.T) {
	forEachVariant(t, func(t *testing.T, mk func(int) (queue.Queue[int], error)) {
		q, err := mk(1)
		require.NoError(t, err)

		require.True(t, q.Push(1))

		result := make(chan bool, 1)

		go func() {
			result <- q.Push(2)
		}()

		time.Sleep(settleDelay)

		got, ok := q.TryPop()
		require.True(t, ok)
		assert.Equal(t, 1, got)

		require.True(t, awaitPush(t, result))

		got, ok = q.Pop()
		require.True(t, ok)
		assert.Equal(t, 2, got)
	})
}

func TestCloseUnblocksPop(t *testing.T) {
	forEachVariant(t, func(t *testing.T, mk func(int) (queue.Queue[int], error)) {
		q, err := mk(1)
		require.NoError(t, err)

		result := make(chan popResult, 1)

		go func() {
			val, ok := q.Pop()
			result <- popResult{val, ok}
		}()

		time.Sleep(settleDelay)
		q.Close()

		r := awaitPop(t, result)
		assert.False(t, r.ok)
	})
}

func TestCloseUnblocksPush(t *testing.T) {
	forEachVariant(t, func(t *testing.T, mk func(int) (queue.Queue[int], error)) {
		q, err := mk(1)
		require.NoError(t, err)

		require.True(t, q.Push(1))

		result := make(chan bool, 1)

		go func() {
			result <- q.Push(2)
		}()

		time.Sleep(settleDelay)
		q.Close()

		assert.False(t, awaitPush(t, result))
	})
}

func TestBlockingProducerConsumer(t *testing.T) {
	const itemCount = 1000

	forEachVariant(t, func(t *testing.T, mk func(int) (queue.Queue[int], error)) {
		q, err := mk(64)
		require.NoError(t, err)

		go func() {
			for i := 0; i < itemCount; i++ {
				if !q.Push(i) {
					return
				}
			}

			q.Close()
		}()

		consumed := make([]int, 0, itemCount)

		for {
			val, ok := q.Pop()
			if !ok {
				break
			}

			consumed = append(consumed, val)
		}

		require.Len(t, consumed, itemCount)

		for i, val := range consumed {
			require.Equal(t, i, val)
		}
	})
}

func TestNonblockingProducerConsumer(t *testing.T) {
	const itemCount = 1000

	forEachVariant(t, func(t *testing.T, mk func(int) (queue.Queue[int], error)) {
		q, err := mk(64)
		require.NoError(t, err)

		go func() {
			for i := 0; i < itemCount; i++ {
				for !q.TryPush(i) {
				}
			}
		}()

		consumed := make([]int, 0, itemCount)

		for len(consumed) < itemCount {
			val, ok := q.TryPop()
			if !ok {
				continue
			}

			consumed = append(consumed, val)
		}

		for i, val := range consumed {
			require.Equal(t, i, val)
		}
	})
}
