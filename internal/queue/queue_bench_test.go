package queue_test

import (
	"testing"

	"github.com/huwzpf/spsc-queue/internal/queue"
)

// Sink variables to prevent the compiler from eliminating benchmark loops
var sinkInt int
var sinkBool bool

func mustQueue(b *testing.B, q queue.Queue[int], err error) queue.Queue[int] {
	b.Helper()

	if err != nil {
		b.Fatalf("constructing queue: %v", err)
	}

	return q
}

// benchPushPop measures the uncontended single-goroutine round trip through
// the non-blocking operations.
func benchPushPop(b *testing.B, q queue.Queue[int]) {
	b.ReportAllocs()
	b.ResetTimer()

	var val int
	var ok bool

	for i := 0; i < b.N; i++ {
		q.TryPush(i)
		val, ok = q.TryPop()
	}

	sinkInt = val
	sinkBool = ok
}

// benchBlockingPushPop is the same round trip through Push/Pop. The queue
// never fills or empties between the paired calls, so no parking happens;
// this isolates the bookkeeping overhead of the blocking entry points.
func benchBlockingPushPop(b *testing.B, q queue.Queue[int]) {
	b.ReportAllocs()
	b.ResetTimer()

	var val int
	var ok bool

	for i := 0; i < b.N; i++ {
		q.Push(i)
		val, ok = q.Pop()
	}

	sinkInt = val
	sinkBool = ok
}

func BenchmarkTryPushTryPop_Mutex(b *testing.B) {
	q, err := queue.NewMutex[int](1024)
	benchPushPop(b, mustQueue(b, q, err))
}

func BenchmarkTryPushTryPop_Counter(b *testing.B) {
	q, err := queue.NewCounter[int](1024)
	benchPushPop(b, mustQueue(b, q, err))
}

func BenchmarkTryPushTryPop_Spin(b *testing.B) {
	q, err := queue.NewSpin[int](1024)
	benchPushPop(b, mustQueue(b, q, err))
}

func BenchmarkTryPushTryPop_Wait(b *testing.B) {
	q, err := queue.NewWait[int](1024)
	benchPushPop(b, mustQueue(b, q, err))
}

func BenchmarkTryPushTryPop_Channel(b *testing.B) {
	q, err := queue.NewChannel[int](1024)
	benchPushPop(b, mustQueue(b, q, err))
}

func BenchmarkPushPop_Mutex(b *testing.B) {
	q, err := queue.NewMutex[int](1024)
	benchBlockingPushPop(b, mustQueue(b, q, err))
}

func BenchmarkPushPop_Counter(b *testing.B) {
	q, err := queue.NewCounter[int](1024)
	benchBlockingPushPop(b, mustQueue(b, q, err))
}

func BenchmarkPushPop_Spin(b *testing.B) {
	q, err := queue.NewSpin[int](1024)
	benchBlockingPushPop(b, mustQueue(b, q, err))
}

func BenchmarkPushPop_Wait(b *testing.B) {
	q, err := queue.NewWait[int](1024)
	benchBlockingPushPop(b, mustQueue(b, q, err))
}

func BenchmarkPushPop_Channel(b *testing.B) {
	q, err := queue.NewChannel[int](1024)
	benchBlockingPushPop(b, mustQueue(b, q, err))
}
