// Package combined holds cross-package benchmarks that exercise the queue
// variants the way the harness drives them: side by side in SPSC pipelines,
// together with the cancellation and progress-tick checks, and against an
// external lock-free ring as a baseline.
//
// These benchmarks are more representative of real-world performance than
// isolated micro-benchmarks, as they capture the cumulative cost and any
// interactions between components.
package combined
