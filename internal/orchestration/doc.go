// Package orchestration runs the benchmark suite: every case on every
// selected backend, concurrently, followed by a comparison of values and
// timings. It decouples execution from presentation via the
// ProgressReporter and ResultPresenter interfaces.
package orchestration
