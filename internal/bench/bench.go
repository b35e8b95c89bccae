// Package bench drives the SPSC queue variants through synthetic
// producer/consumer workloads and aggregates timing statistics.
//
// A benchmark case is one (queue variant, scenario) pair. Each case is run
// for a number of repeats; every repeat transfers a fixed number of items
// from a producer goroutine to a consumer goroutine through a fresh queue,
// validating order and count along the way. The harness talks to the queues
// only through the public push/pop/close/capacity contract.
package bench

import (
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/huwzpf/spsc-queue/internal/cancel"
	"github.com/huwzpf/spsc-queue/internal/queue"
	"github.com/huwzpf/spsc-queue/internal/tick"
)

// Mode selects which half of the queue contract a scenario exercises.
type Mode string

const (
	// Blocking drives the queue through Push/Pop.
	Blocking Mode = "blocking"
	// NonBlocking drives the queue through TryPush/TryPop retry loops.
	NonBlocking Mode = "nonblocking"
)

// Defaults for a full benchmark run.
const (
	DefaultItems   = 1_000_000
	DefaultRepeats = 20

	defaultCapacity = 1024
	heavyCycles     = 128
)

var standardCapacities = []int{64, 1024, 8192}

// Scenario describes one synthetic workload.
type Scenario struct {
	Name           string
	Mode           Mode
	Capacity       int
	ProducerCycles int  // busy-work cycles per produced item
	ConsumerCycles int  // busy-work cycles per consumed item
	BigPayload     bool // transfer 64-byte payloads instead of uint64
}

// StandardScenarios returns the full benchmark matrix: blocking and
// non-blocking transfers at several capacities, a big-payload case, and two
// asymmetric cases where one side is slowed by artificial per-item work.
//
// In producer-heavy the consumer carries the extra work, so the producer
// keeps the queue full; consumer-heavy is the mirror image and keeps it
// empty.
func StandardScenarios() []Scenario {
	out := make([]Scenario, 0, 2*len(standardCapacities)+3)

	for _, c := range standardCapacities {
		out = append(out,
			Scenario{Name: "standard", Mode: Blocking, Capacity: c},
			Scenario{Name: "standard", Mode: NonBlocking, Capacity: c},
		)
	}

	return append(out,
		Scenario{Name: "big-payload", Mode: Blocking, Capacity: defaultCapacity, BigPayload: true},
		Scenario{Name: "producer-heavy", Mode: Blocking, Capacity: defaultCapacity, ConsumerCycles: heavyCycles},
		Scenario{Name: "consumer-heavy", Mode: Blocking, Capacity: defaultCapacity, ProducerCycles: heavyCycles},
	)
}

// Payload is the big-payload benchmark item: a sequence number padded out
// to 64 bytes, one full cache line.
type Payload struct {
	Seq                 uint64
	A, B, C, D, E, F, G uint64
}

// Variant names a queue implementation and constructs it for each payload
// type the scenarios use.
type Variant struct {
	Name       string
	NewUint64  func(capacity int) (queue.Queue[uint64], error)
	NewPayload func(capacity int) (queue.Queue[Payload], error)
}

// asQueue converts a concrete constructor result to the Queue interface.
func asQueue[T any](q queue.Queue[T], err error) (queue.Queue[T], error) {
	if err != nil {
		return nil, err
	}

	return q, nil
}

// Variants returns every queue implementation under benchmark.
func Variants() []Variant {
	return []Variant{
		{
			Name:       "mutex",
			NewUint64:  func(c int) (queue.Queue[uint64], error) { return asQueue[uint64](queue.NewMutex[uint64](c)) },
			NewPayload: func(c int) (queue.Queue[Payload], error) { return asQueue[Payload](queue.NewMutex[Payload](c)) },
		},
		{
			Name:       "counter",
			NewUint64:  func(c int) (queue.Queue[uint64], error) { return asQueue[uint64](queue.NewCounter[uint64](c)) },
			NewPayload: func(c int) (queue.Queue[Payload], error) { return asQueue[Payload](queue.NewCounter[Payload](c)) },
		},
		{
			Name:       "spin",
			NewUint64:  func(c int) (queue.Queue[uint64], error) { return asQueue[uint64](queue.NewSpin[uint64](c)) },
			NewPayload: func(c int) (queue.Queue[Payload], error) { return asQueue[Payload](queue.NewSpin[Payload](c)) },
		},
		{
			Name:       "wait",
			NewUint64:  func(c int) (queue.Queue[uint64], error) { return asQueue[uint64](queue.NewWait[uint64](c)) },
			NewPayload: func(c int) (queue.Queue[Payload], error) { return asQueue[Payload](queue.NewWait[Payload](c)) },
		},
		{
			Name:       "channel",
			NewUint64:  func(c int) (queue.Queue[uint64], error) { return asQueue[uint64](queue.NewChannel[uint64](c)) },
			NewPayload: func(c int) (queue.Queue[Payload], error) { return asQueue[Payload](queue.NewChannel[Payload](c)) },
		},
	}
}

// ErrCanceled is returned by Run when the Canceler fires mid-run. The
// aggregates collected so far are still returned.
var ErrCanceled = errors.New("bench: run canceled")

// Result is the outcome of a single benchmark pass.
type Result struct {
	Elapsed time.Duration
}

// Aggregate summarizes all repeats of one (queue, scenario) case.
type Aggregate struct {
	Queue    string
	Scenario string
	Mode     Mode
	Capacity int

	AvgMs    float64
	StdevMs  float64
	AvgOps   float64
	StdevOps float64
}

// Runner executes scenarios against queue variants.
//
// Zero-valued fields fall back to defaults: DefaultItems and DefaultRepeats,
// all variants, the standard scenarios, a nop logger, no cancellation, and a
// progress ticker at tick.DefaultInterval.
type Runner struct {
	Items     int
	Repeats   int
	Variants  []Variant
	Scenarios []Scenario
	Logger    *zap.Logger
	Canceler  cancel.Canceler
	Progress  tick.Ticker
}

// Run executes the full matrix and returns one Aggregate per case.
//
// Cancellation is checked between repeats only, never inside a measured
// pass; on cancellation the aggregates of completed cases are returned
// together with ErrCanceled.
func (r *Runner) Run() ([]Aggregate, error) {
	items := r.Items
	if items <= 0 {
		items = DefaultItems
	}

	repeats := r.Repeats
	if repeats <= 0 {
		repeats = DefaultRepeats
	}

	variants := r.Variants
	if len(variants) == 0 {
		variants = Variants()
	}

	scenarios := r.Scenarios
	if len(scenarios) == 0 {
		scenarios = StandardScenarios()
	}

	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	progress := r.Progress
	if progress == nil {
		progress = tick.NewAtomicTicker(tick.DefaultInterval)
		defer progress.Stop()
	}

	total := len(variants) * len(scenarios)
	aggs := make([]Aggregate, 0, total)
	caseNum := 0

	for _, v := range variants {
		for _, sc := range scenarios {
			caseNum++

			logger.Debug("running case",
				zap.String("queue", v.Name),
				zap.String("scenario", sc.Name),
				zap.String("mode", string(sc.Mode)),
				zap.Int("capacity", sc.Capacity))

			elapsedMs := make([]float64, 0, repeats)
			throughput := make([]float64, 0, repeats)

			for rep := 0; rep < repeats; rep++ {
				if r.Canceler != nil && r.Canceler.Done() {
					return aggs, ErrCanceled
				}

				res, err := runCase(v, sc, items)
				if err != nil {
					return aggs, fmt.Errorf("%s/%s repeat %d: %w", v.Name, sc.Name, rep, err)
				}

				elapsedMs = append(elapsedMs, float64(res.Elapsed)/float64(time.Millisecond))
				throughput = append(throughput, float64(items)/res.Elapsed.Seconds())

				if progress.Tick() {
					logger.Info("progress",
						zap.Int("case", caseNum),
						zap.Int("cases", total),
						zap.String("queue", v.Name),
						zap.String("scenario", sc.Name),
						zap.Int("repeat", rep+1),
						zap.Int("repeats", repeats))
				}
			}

			aggs = append(aggs, Aggregate{
				Queue:    v.Name,
				Scenario: sc.Name,
				Mode:     sc.Mode,
				Capacity: sc.Capacity,
				AvgMs:    Mean(elapsedMs),
				StdevMs:  Stdev(elapsedMs),
				AvgOps:   Mean(throughput),
				StdevOps: Stdev(throughput),
			})
		}
	}

	return aggs, nil
}

// runCase constructs a fresh queue for the scenario's payload type and runs
// one timed pass.
func runCase(v Variant, sc Scenario, items int) (Result, error) {
	if sc.BigPayload {
		q, err := v.NewPayload(sc.Capacity)
		if err != nil {
			return Result{}, err
		}

		return runPass(q, sc, items,
			func(seq uint64) Payload { return Payload{Seq: seq, A: 1, B: 2, C: 3, D: 4, E: 5, F: 6, G: 7} },
			func(p Payload) uint64 { return p.Seq })
	}

	q, err := v.NewUint64(sc.Capacity)
	if err != nil {
		return Result{}, err
	}

	return runPass(q, sc, items,
		func(seq uint64) uint64 { return seq },
		func(v uint64) uint64 { return v })
}

// runPass transfers items through q with one producer and one consumer
// goroutine and times the whole transfer. Both goroutines pin themselves to
// OS threads for the duration, matching the two-thread model the queues are
// designed for. On any validation failure the queue is closed so the peer
// cannot stay blocked.
func runPass[T any](q queue.Queue[T], sc Scenario, items int, makeItem func(uint64) T, seqOf func(T) uint64) (Result, error) {
	var g errgroup.Group

	start := time.Now()

	g.Go(func() error {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()

		var producer queue.Producer[T] = q

		for i := 0; i < items; i++ {
			busyWork(sc.ProducerCycles)

			item := makeItem(uint64(i))

			if sc.Mode == Blocking {
				if !producer.Push(item) {
					q.Close()
					return fmt.Errorf("push %d failed: queue closed", i)
				}
			} else {
				for !producer.TryPush(item) {
					// The peer closes the queue when it aborts; stop
					// retrying instead of spinning forever.
					if q.Closed() {
						return fmt.Errorf("push %d failed: queue closed", i)
					}
				}
			}
		}

		return nil
	})

	g.Go(func() error {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()

		var consumer queue.Consumer[T] = q

		var expected uint64

		for consumed := 0; consumed < items; {
			var (
				item T
				ok   bool
			)

			if sc.Mode == Blocking {
				item, ok = consumer.Pop()
				if !ok {
					q.Close()
					return fmt.Errorf("pop after %d items: queue closed early", consumed)
				}
			} else {
				item, ok = consumer.TryPop()
				if !ok {
					// TryPop fails only on emptiness, so closed+empty
					// means the producer aborted with items outstanding.
					if q.Closed() {
						return fmt.Errorf("pop after %d items: queue closed early", consumed)
					}

					continue
				}
			}

			if got := seqOf(item); got != expected {
				q.Close()
				return fmt.Errorf("order violation: got seq %d, want %d", got, expected)
			}

			busyWork(sc.ConsumerCycles)

			expected++
			consumed++
		}

		return nil
	})

	err := g.Wait()
	elapsed := time.Since(start)

	if err != nil {
		return Result{}, err
	}

	return Result{Elapsed: elapsed}, nil
}

// busySink keeps busyWork's result observable so the loop cannot be
// optimized away.
var busySink atomic.Uint64

// busyWork burns roughly cycles iterations of integer work, simulating the
// per-item processing cost of a real producer or consumer.
func busyWork(cycles int) {
	if cycles == 0 {
		return
	}

	var acc uint64
	for i := 0; i < cycles; i++ {
		acc = acc*31 + uint64(i)
	}

	busySink.Add(acc)
}
