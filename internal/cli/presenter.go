package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/calcbench/internal/calculator"
	apperrors "github.com/agbru/calcbench/internal/errors"
	"github.com/agbru/calcbench/internal/format"
	"github.com/agbru/calcbench/internal/orchestration"
	"github.com/agbru/calcbench/internal/ui"
)

// CLIProgressReporter implements orchestration.ProgressReporter with a
// spinner and progress bar.
type CLIProgressReporter struct{}

var _ orchestration.ProgressReporter = CLIProgressReporter{}

// DisplayProgress delegates to DisplayProgress.
func (CLIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan orchestration.ProgressUpdate, numJobs int, out io.Writer) {
	DisplayProgress(wg, progressChan, numJobs, out)
}

// CLIColorProvider supplies the active theme's colors to apperrors.
type CLIColorProvider struct{}

func (CLIColorProvider) Red() string    { return ui.ColorRed() }
func (CLIColorProvider) Yellow() string { return ui.ColorYellow() }
func (CLIColorProvider) Reset() string  { return ui.ColorReset() }

// CLIResultPresenter implements orchestration.ResultPresenter for
// terminal output.
type CLIResultPresenter struct{}

var (
	_ orchestration.ResultPresenter   = CLIResultPresenter{}
	_ orchestration.DurationFormatter = CLIResultPresenter{}
	_ orchestration.ErrorHandler      = CLIResultPresenter{}
)

// displayDuration formats a job duration; sub-microsecond timings are
// shown as "< 1µs".
func displayDuration(d time.Duration) string {
	if d < time.Microsecond {
		return "< 1µs"
	}
	return format.FormatExecutionDuration(d)
}

// tableCell is a plain cell with an optional color applied after padding.
type tableCell struct {
	text  string
	color string
}

// PresentComparisonTable prints one row per case: the agreed value, each
// backend's duration, the difference between the first two backends and a
// status. Widths are computed on the uncolored text.
func (CLIResultPresenter) PresentComparisonTable(results []orchestration.CaseResult, out io.Writer) {
	fmt.Fprintf(out, "\n--- Comparison Summary ---\n")

	backends := backendOrder(results)
	header := []string{"Case", "Input", "Value"}
	for _, b := range backends {
		header = append(header, b)
	}
	if len(backends) >= 2 {
		header = append(header, "Diff")
	}
	header = append(header, "Status")

	var rows [][]tableCell
	for _, group := range orchestration.GroupByCase(results) {
		rows = append(rows, comparisonRow(group, backends))
	}

	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, c := range row {
			widths[i] = max(widths[i], lipgloss.Width(c.text))
		}
	}

	for i, h := range header {
		fmt.Fprintf(out, "%s%s%s%s", ui.ColorUnderline(), h, ui.ColorReset(), padRight("", widths[i]-lipgloss.Width(h)))
		if i < len(header)-1 {
			fmt.Fprint(out, "   ")
		}
	}
	fmt.Fprintln(out)
	for _, row := range rows {
		for i, c := range row {
			fmt.Fprintf(out, "%s%s", ui.Colorize(c.color, c.text), padRight("", widths[i]-lipgloss.Width(c.text)))
			if i < len(row)-1 {
				fmt.Fprint(out, "   ")
			}
		}
		fmt.Fprintln(out)
	}
}

func comparisonRow(group []orchestration.CaseResult, backends []string) []tableCell {
	c := group[0].Case
	row := []tableCell{{text: c.Name, color: ui.ColorBlue()}, {text: c.Describe()}}

	byBackend := make(map[string]orchestration.CaseResult, len(group))
	value := "-"
	var failed []string
	for _, r := range group {
		byBackend[r.Backend] = r
		if r.Err != nil {
			failed = append(failed, r.Backend)
		} else if value == "-" {
			value = calculator.FormatNumber(r.Value)
		}
	}
	row = append(row, tableCell{text: value, color: ui.ColorMagenta()})

	for _, b := range backends {
		r, ok := byBackend[b]
		switch {
		case !ok:
			row = append(row, tableCell{text: "-"})
		case r.Err != nil:
			row = append(row, tableCell{text: "error", color: ui.ColorRed()})
		default:
			row = append(row, tableCell{text: displayDuration(r.Duration), color: ui.ColorYellow()})
		}
	}

	if len(backends) >= 2 {
		a, okA := byBackend[backends[0]]
		b, okB := byBackend[backends[1]]
		diff := "-"
		if okA && okB && a.Err == nil && b.Err == nil {
			diff = format.FormatDurationDiff(b.Duration, a.Duration)
		}
		row = append(row, tableCell{text: diff, color: ui.ColorCyan()})
	}

	switch {
	case len(orchestration.Mismatches(group)) > 0:
		row = append(row, tableCell{text: "❌ Mismatch", color: ui.ColorRed()})
	case len(failed) == len(group):
		row = append(row, tableCell{text: "❌ Failure", color: ui.ColorRed()})
	case len(failed) > 0:
		row = append(row, tableCell{text: "⚠ Failed on " + strings.Join(failed, ", "), color: ui.ColorYellow()})
	default:
		row = append(row, tableCell{text: "✅ Success", color: ui.ColorGreen()})
	}
	return row
}

// backendOrder returns backend names in order of first appearance.
func backendOrder(results []orchestration.CaseResult) []string {
	var names []string
	seen := make(map[string]bool)
	for _, r := range results {
		if !seen[r.Backend] {
			seen[r.Backend] = true
			names = append(names, r.Backend)
		}
	}
	return names
}

// padRight returns s followed by length spaces.
func padRight(s string, length int) string {
	if length <= 0 {
		return s
	}
	return s + strings.Repeat(" ", length)
}

// PresentSummary prints per-backend totals and, with details, the run
// metadata and per-job allocations.
func (CLIResultPresenter) PresentSummary(report orchestration.Report, details bool, out io.Writer) {
	fmt.Fprintf(out, "\n--- Totals ---\n")
	for _, t := range report.Totals {
		line := fmt.Sprintf("  %s%-12s%s %s%s%s", ui.ColorBlue(), t.Backend, ui.ColorReset(),
			ui.ColorYellow(), displayDuration(t.Duration), ui.ColorReset())
		if t.Failures > 0 {
			line += fmt.Sprintf("  %s%d failed%s", ui.ColorRed(), t.Failures, ui.ColorReset())
		}
		fmt.Fprintln(out, line)
	}
	if !details {
		return
	}

	fmt.Fprintf(out, "\n--- Run Details ---\n")
	fmt.Fprintf(out, "  Run ID:      %s\n", report.ID)
	fmt.Fprintf(out, "  Timestamp:   %s\n", report.Timestamp.Format(time.RFC3339))
	fmt.Fprintf(out, "  Environment: Go %s, %s/%s, %d CPUs\n", report.GoVersion, report.OS, report.Arch, report.NumCPU)
	fmt.Fprintf(out, "\n  Allocations per job:\n")
	for _, c := range report.Cases {
		for _, r := range c.Results {
			fmt.Fprintf(out, "    %-8s %-10s %10s in %d allocs\n", c.Name, r.Backend, format.FormatBytes(r.AllocBytes), r.Mallocs)
		}
	}
}

// FormatDuration formats a duration for display.
func (CLIResultPresenter) FormatDuration(d time.Duration) string {
	return displayDuration(d)
}

// HandleError reports err and returns the matching exit code.
func (CLIResultPresenter) HandleError(err error, duration time.Duration, out io.Writer) int {
	return apperrors.HandleCalculationError(err, duration, out, CLIColorProvider{})
}
