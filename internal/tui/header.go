package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/calcbench/internal/format"
)

// HeaderModel renders the top bar: title, version, active backend and the
// elapsed time of the current or last benchmark run.
type HeaderModel struct {
	version   string
	backend   string
	startTime time.Time
	endTime   time.Time
	width     int
}

// NewHeaderModel creates a new header.
func NewHeaderModel(version, backend string) HeaderModel {
	return HeaderModel{
		version: version,
		backend: backend,
	}
}

// SetBackend updates the displayed backend name.
func (h *HeaderModel) SetBackend(name string) {
	h.backend = name
}

// StartRun restarts the elapsed timer.
func (h *HeaderModel) StartRun() {
	h.startTime = time.Now()
	h.endTime = time.Time{}
}

// SetDone freezes the elapsed timer at the current time.
func (h *HeaderModel) SetDone() {
	h.endTime = time.Now()
}

// SetWidth updates the available width.
func (h *HeaderModel) SetWidth(w int) {
	h.width = w
}

// elapsed returns the run duration, or zero when no run has started.
func (h HeaderModel) elapsed() time.Duration {
	switch {
	case h.startTime.IsZero():
		return 0
	case !h.endTime.IsZero():
		return h.endTime.Sub(h.startTime)
	}
	return time.Since(h.startTime)
}

// View renders the header.
func (h HeaderModel) View() string {
	titleText := "calcbench"
	if h.version != "" && h.version != "dev" {
		titleText += " " + h.version
	}
	pipe := versionStyle.Render(" | ")

	row := titleStyle.Render(titleText) + pipe + backendStyle.Render("backend: "+h.backend)
	if !h.startTime.IsZero() {
		row += pipe + versionStyle.Render(fmt.Sprintf("bench: %s", format.FormatExecutionDuration(h.elapsed())))
	}

	innerWidth := max(h.width-2, 0)
	gap := max(innerWidth-lipgloss.Width(row), 0)

	return headerStyle.Render(row + strings.Repeat(" ", gap))
}
