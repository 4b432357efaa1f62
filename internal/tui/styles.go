package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/calcbench/internal/ui"
)

// Style variables for the keypad interface.
// Initialized from the ui theme system via initTUIStyles().
var (
	panelStyle        lipgloss.Style
	headerStyle       lipgloss.Style
	titleStyle        lipgloss.Style
	versionStyle      lipgloss.Style
	backendStyle      lipgloss.Style
	expressionStyle   lipgloss.Style
	displayStyle      lipgloss.Style
	displayErrorStyle lipgloss.Style
	digitKeyStyle     lipgloss.Style
	operatorKeyStyle  lipgloss.Style
	functionKeyStyle  lipgloss.Style
	metricLabelStyle  lipgloss.Style
	metricValueStyle  lipgloss.Style
	sparklineStyle    lipgloss.Style
	statusDoneStyle   lipgloss.Style
	statusErrorStyle  lipgloss.Style
	statusBusyStyle   lipgloss.Style
)

func init() {
	initTUIStyles()
}

// initTUIStyles rebuilds all TUI styles from the current ui theme.
// Called at package init and again from Run() after InitTheme has been invoked.
func initTUIStyles() {
	t := ui.GetCurrentTUITheme()

	panelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Foreground(t.Text).
		Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Operator)

	versionStyle = lipgloss.NewStyle().
		Foreground(t.Dim)

	backendStyle = lipgloss.NewStyle().
		Foreground(t.Function)

	expressionStyle = lipgloss.NewStyle().
		Foreground(t.Dim).
		Align(lipgloss.Right)

	displayStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Display).
		Align(lipgloss.Right)

	displayErrorStyle = displayStyle.
		Foreground(t.Error)

	digitKeyStyle = lipgloss.NewStyle().
		Foreground(t.Digit).
		Width(keyWidth).
		Align(lipgloss.Center)

	operatorKeyStyle = digitKeyStyle.
		Foreground(t.Operator).
		Bold(true)

	functionKeyStyle = digitKeyStyle.
		Foreground(t.Function)

	metricLabelStyle = lipgloss.NewStyle().
		Foreground(t.Dim)

	metricValueStyle = lipgloss.NewStyle().
		Foreground(t.Display).
		Bold(true)

	sparklineStyle = lipgloss.NewStyle().
		Foreground(t.Function)

	statusDoneStyle = lipgloss.NewStyle().
		Foreground(t.Success).
		Bold(true)

	statusErrorStyle = lipgloss.NewStyle().
		Foreground(t.Error).
		Bold(true)

	statusBusyStyle = lipgloss.NewStyle().
		Foreground(t.Operator).
		Bold(true)
}
