package tui

import (
	"io"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	apperrors "github.com/agbru/calcbench/internal/errors"
	"github.com/agbru/calcbench/internal/format"
	"github.com/agbru/calcbench/internal/orchestration"
)

// sender is the part of *tea.Program the benchmark goroutines need.
type sender interface {
	Send(msg tea.Msg)
}

// programLink lets benchmark goroutines reach the running program. The
// model is copied on every Update, so it holds a pointer to one link.
// Messages sent before attach are dropped.
type programLink struct {
	mu  sync.RWMutex
	dst sender
}

func (l *programLink) attach(dst sender) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.dst = dst
}

func (l *programLink) send(msg tea.Msg) {
	l.mu.RLock()
	dst := l.dst
	l.mu.RUnlock()
	if dst != nil {
		dst.Send(msg)
	}
}

// benchProgress turns orchestration progress into ProgressMsg values for
// the keypad status line, then sends ProgressDoneMsg once the channel
// closes.
type benchProgress struct {
	link *programLink
}

var _ orchestration.ProgressReporter = benchProgress{}

func (b benchProgress) DisplayProgress(wg *sync.WaitGroup, updates <-chan orchestration.ProgressUpdate, numJobs int, _ io.Writer) {
	defer wg.Done()
	defer b.link.send(ProgressDoneMsg{})

	agg := orchestration.NewProgressAggregator(numJobs)
	if agg == nil {
		orchestration.DrainChannel(updates)
		return
	}
	for u := range updates {
		p := agg.Update(u)
		b.link.send(ProgressMsg{
			Case:      u.Case,
			Backend:   u.Backend,
			Failed:    u.Err != nil,
			Fraction:  p.Fraction,
			ETA:       p.ETA,
			Completed: p.Completed,
			Total:     numJobs,
		})
	}
}

// benchResults forwards the finished run to the model instead of printing
// a table. Totals are derived from the results by the view.
type benchResults struct {
	link *programLink
}

var (
	_ orchestration.ResultPresenter   = benchResults{}
	_ orchestration.DurationFormatter = benchResults{}
	_ orchestration.ErrorHandler      = benchResults{}
)

func (b benchResults) PresentComparisonTable(results []orchestration.CaseResult, _ io.Writer) {
	b.link.send(ComparisonResultsMsg{Results: results})
}

func (benchResults) PresentSummary(orchestration.Report, bool, io.Writer) {}

func (benchResults) FormatDuration(d time.Duration) string {
	return format.FormatExecutionDuration(d)
}

// HandleError reports err to the model and maps it to the exit code the
// CLI would use for the same failure.
func (b benchResults) HandleError(err error, duration time.Duration, _ io.Writer) int {
	if err == nil {
		return apperrors.ExitSuccess
	}
	b.link.send(ErrorMsg{Err: err, Duration: duration})
	return apperrors.HandleCalculationError(err, duration, io.Discard, nil)
}
