package orchestration

import (
	"time"

	"github.com/agbru/calcbench/internal/format"
)

// ProgressAggregator turns per-job completion updates into an overall
// fraction and ETA. Both the CLI and the TUI use it.
type ProgressAggregator struct {
	state   *format.ProgressWithETA
	numJobs int
	failed  int
}

// NewProgressAggregator creates an aggregator for numJobs jobs. Returns nil
// if numJobs <= 0.
func NewProgressAggregator(numJobs int) *ProgressAggregator {
	if numJobs <= 0 {
		return nil
	}
	return &ProgressAggregator{state: format.NewProgressWithETA(numJobs), numJobs: numJobs}
}

// AggregatedProgress holds the result of processing a single update.
type AggregatedProgress struct {
	Update ProgressUpdate
	// Fraction is the share of finished jobs, 0.0 to 1.0.
	Fraction float64
	// ETA is the estimated time remaining; zero when unknown.
	ETA time.Duration
	// Completed and Failed count finished jobs so far.
	Completed int
	Failed    int
}

// Update records a finished job. It is not safe for concurrent use; feed
// it from the goroutine draining the progress channel.
func (a *ProgressAggregator) Update(update ProgressUpdate) AggregatedProgress {
	if update.Err != nil {
		a.failed++
	}
	fraction, eta := a.state.Complete()
	return AggregatedProgress{
		Update:    update,
		Fraction:  fraction,
		ETA:       eta,
		Completed: a.state.Completed(),
		Failed:    a.failed,
	}
}

// Fraction returns the current fraction without updating.
func (a *ProgressAggregator) Fraction() float64 {
	return a.state.Fraction()
}

// ETA returns the current estimate without updating.
func (a *ProgressAggregator) ETA() time.Duration {
	return a.state.ETA()
}

// NumJobs returns the number of jobs being tracked.
func (a *ProgressAggregator) NumJobs() int {
	return a.numJobs
}

// DrainChannel reads all updates from the channel without processing.
func DrainChannel(progressChan <-chan ProgressUpdate) {
	for range progressChan {
	}
}
