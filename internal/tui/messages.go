package tui

import (
	"time"

	"github.com/agbru/calcbench/internal/orchestration"
)

// ProgressMsg carries one aggregated benchmark progress update.
type ProgressMsg struct {
	Case      string
	Backend   string
	Failed    bool
	Fraction  float64
	ETA       time.Duration
	Completed int
	Total     int
}

// ProgressDoneMsg signals that the progress channel was closed.
type ProgressDoneMsg struct{}

// ComparisonResultsMsg carries the per-job results of a benchmark run.
type ComparisonResultsMsg struct {
	Results []orchestration.CaseResult
}

// ErrorMsg reports a benchmark run that ended with an error.
type ErrorMsg struct {
	Err      error
	Duration time.Duration
}

// BenchCompleteMsg is sent when a benchmark run finishes. Generation
// identifies the run so results of a superseded run are ignored.
type BenchCompleteMsg struct {
	ExitCode   int
	Elapsed    time.Duration
	Generation uint64
}

// TickMsg drives the periodic memory sampling while a run is active.
type TickMsg time.Time

// MemStatsMsg is a runtime memory sample.
type MemStatsMsg struct {
	Alloc        uint64
	HeapInuse    uint64
	NumGC        uint32
	NumGoroutine int
}

// ContextCancelledMsg is sent when the parent context is cancelled.
type ContextCancelledMsg struct{}
