package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/calcbench/internal/format"
	"github.com/agbru/calcbench/internal/orchestration"
)

// historySize is the number of past benchmark runs kept for the trend line.
const historySize = 16

// MetricsModel renders the benchmark panel: live progress and memory while
// a run is active, per-backend totals and the agreement status afterwards.
type MetricsModel struct {
	width int

	running  bool
	progress ProgressMsg

	alloc        uint64
	heapInuse    uint64
	numGC        uint32
	numGoroutine int

	results  []orchestration.CaseResult
	err      error
	exitCode int

	history *RunHistory
}

// NewMetricsModel creates an idle benchmark panel.
func NewMetricsModel() MetricsModel {
	return MetricsModel{history: NewRunHistory(historySize)}
}

// SetWidth updates the available width.
func (m *MetricsModel) SetWidth(w int) {
	m.width = w
}

// Start clears the previous run and enters the running state.
func (m *MetricsModel) Start(total int) {
	m.running = true
	m.progress = ProgressMsg{Total: total}
	m.results = nil
	m.err = nil
	m.exitCode = 0
}

// Running reports whether a benchmark run is in progress.
func (m MetricsModel) Running() bool {
	return m.running
}

// UpdateProgress records the latest aggregated progress.
func (m *MetricsModel) UpdateProgress(msg ProgressMsg) {
	m.progress = msg
}

// UpdateMemStats stores a runtime memory sample.
func (m *MetricsModel) UpdateMemStats(msg MemStatsMsg) {
	m.alloc = msg.Alloc
	m.heapInuse = msg.HeapInuse
	m.numGC = msg.NumGC
	m.numGoroutine = msg.NumGoroutine
}

// SetResults stores the per-job results of the run.
func (m *MetricsModel) SetResults(results []orchestration.CaseResult) {
	m.results = results
}

// SetError records the error that ended the run.
func (m *MetricsModel) SetError(err error) {
	m.err = err
}

// Finish leaves the running state and appends the run's wall time to the
// history.
func (m *MetricsModel) Finish(elapsed time.Duration, exitCode int) {
	m.running = false
	m.exitCode = exitCode
	m.history.Record(elapsed)
}

// backendTotal sums the durations of one backend over a run.
type backendTotal struct {
	name      string
	total     time.Duration
	failures  int
	durations []time.Duration
}

// totals groups results by backend, in first-seen order.
func totals(results []orchestration.CaseResult) []backendTotal {
	var out []backendTotal
	index := make(map[string]int)
	for _, r := range results {
		i, ok := index[r.Backend]
		if !ok {
			i = len(out)
			index[r.Backend] = i
			out = append(out, backendTotal{name: r.Backend})
		}
		out[i].total += r.Duration
		out[i].durations = append(out[i].durations, r.Duration)
		if r.Err != nil {
			out[i].failures++
		}
	}
	return out
}

// View renders the benchmark panel.
func (m MetricsModel) View() string {
	var rows []string
	rows = append(rows, titleStyle.Render("BENCHMARK"))

	switch {
	case m.running:
		barWidth := max(m.width-40, 10)
		rows = append(rows,
			format.FormatProgressBarWithETA(m.progress.Fraction, m.progress.ETA, barWidth),
			formatMetricCol("Jobs:", fmt.Sprintf("%d/%d", m.progress.Completed, m.progress.Total)),
		)
		if m.progress.Case != "" {
			rows = append(rows, formatMetricCol("Last:", m.progress.Case+" on "+m.progress.Backend))
		}
		rows = append(rows,
			formatMetricCol("Heap:", format.FormatBytes(m.alloc)+" / "+format.FormatBytes(m.heapInuse)),
			formatMetricCol("GC:", fmt.Sprintf("%d", m.numGC))+formatMetricCol("Goroutines:", fmt.Sprintf("%d", m.numGoroutine)),
		)

	case len(m.results) > 0:
		bt := totals(m.results)
		var all []time.Duration
		for _, b := range bt {
			all = append(all, b.durations...)
		}
		scaled := ScaleDurations(all)
		offset := 0
		for _, b := range bt {
			spark := RenderSparkline(scaled[offset : offset+len(b.durations)])
			offset += len(b.durations)
			line := formatMetricCol(b.name+":", format.FormatExecutionDuration(b.total)) + " " + sparklineStyle.Render(spark)
			if b.failures > 0 {
				line += statusErrorStyle.Render(fmt.Sprintf(" %d failed", b.failures))
			}
			rows = append(rows, line)
		}
		rows = append(rows, m.statusLine())

	case m.err != nil:
		rows = append(rows, statusErrorStyle.Render("❌ "+m.err.Error()))

	default:
		rows = append(rows, metricLabelStyle.Render("Press b to compare every backend on the benchmark cases."))
	}

	if m.history.Len() > 1 {
		trend := RenderSparkline(ScaleDurations(m.history.Durations()))
		rows = append(rows, formatMetricCol("Runs:", sparklineStyle.Render(trend)))
	}

	return panelStyle.Width(max(m.width-2, 0)).Render(strings.Join(rows, "\n"))
}

// statusLine summarizes the agreement of the last run.
func (m MetricsModel) statusLine() string {
	if mismatches := orchestration.Mismatches(m.results); len(mismatches) > 0 {
		return statusErrorStyle.Render("❌ Mismatch on " + strings.Join(mismatches, ", "))
	}
	for _, r := range m.results {
		if r.Err != nil {
			return statusErrorStyle.Render("⚠ " + r.Case.Name + " failed on " + r.Backend + ": " + r.Err.Error())
		}
	}
	return statusDoneStyle.Render("✅ All backends agree")
}

func formatMetricCol(label, value string) string {
	cell := metricLabelStyle.Render(fmt.Sprintf("%-12s", label)) + " " + metricValueStyle.Render(value)
	if pad := 28 - lipgloss.Width(cell); pad > 0 {
		cell += strings.Repeat(" ", pad)
	}
	return cell
}
