package orchestration

import (
	"io"
	"sync"
	"time"
)

// ProgressUpdate reports that one (case, backend) job has finished.
type ProgressUpdate struct {
	// JobIndex is the position of the job in the result slice.
	JobIndex int
	// Case and Backend identify the job.
	Case    string
	Backend string
	// Err is the job's error, if any.
	Err error
}

// ProgressReporter defines the interface for displaying benchmark progress.
// This interface decouples the orchestration layer from the presentation layer:
// implementations handle the visual representation (spinners, progress bars,
// TUI messages) while the orchestration layer coordinates the jobs.
type ProgressReporter interface {
	// DisplayProgress consumes updates until progressChan is closed and
	// then calls wg.Done.
	//
	// Parameters:
	//   - wg: A WaitGroup to signal when display is complete.
	//   - progressChan: Channel receiving one update per finished job.
	//   - numJobs: The total number of jobs in the run.
	//   - out: The writer for progress output.
	DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, numJobs int, out io.Writer)
}

// ProgressReporterFunc is a function adapter that implements ProgressReporter.
type ProgressReporterFunc func(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, numJobs int, out io.Writer)

// DisplayProgress calls the underlying function.
func (f ProgressReporterFunc) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, numJobs int, out io.Writer) {
	f(wg, progressChan, numJobs, out)
}

// NullProgressReporter is a no-op implementation of ProgressReporter.
// It drains the progress channel without displaying anything.
// Useful for quiet mode, the HTTP server and tests.
type NullProgressReporter struct{}

// DisplayProgress drains the channel without output.
func (NullProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, _ int, _ io.Writer) {
	defer wg.Done()
	DrainChannel(progressChan)
}

// ResultPresenter presents the outcome of a benchmark run.
type ResultPresenter interface {
	ErrorHandler

	// PresentComparisonTable displays one row per case with the value and
	// timing of every backend.
	PresentComparisonTable(results []CaseResult, out io.Writer)

	// PresentSummary displays the run metadata and per-backend totals.
	PresentSummary(report Report, details bool, out io.Writer)
}

// DurationFormatter formats durations for display.
type DurationFormatter interface {
	FormatDuration(d time.Duration) string
}

// ErrorHandler handles benchmark errors and returns exit codes.
type ErrorHandler interface {
	HandleError(err error, duration time.Duration, out io.Writer) int
}

// ResultObserver is notified of every finished job, from the job's
// goroutine. Implementations must be safe for concurrent use.
type ResultObserver interface {
	ObserveResult(result CaseResult)
}

// ResultObserverFunc adapts a function to ResultObserver.
type ResultObserverFunc func(result CaseResult)

// ObserveResult calls f.
func (f ResultObserverFunc) ObserveResult(result CaseResult) { f(result) }
