package tui

import (
	"context"
	"io"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/calcbench/internal/calculator"
	"github.com/agbru/calcbench/internal/config"
	apperrors "github.com/agbru/calcbench/internal/errors"
	"github.com/agbru/calcbench/internal/expr"
	"github.com/agbru/calcbench/internal/orchestration"
)

// Layout constants for the keypad.
const (
	keyWidth   = 5
	keyGap     = 1
	keyColumns = 5
	calcWidth  = keyColumns*keyWidth + (keyColumns-1)*keyGap
)

// ExecutionState holds the benchmark-run fields of a TUI session.
type ExecutionState struct {
	cancel     context.CancelFunc
	generation uint64
	exitCode   int
}

// Model is the root bubbletea model for the keypad interface.
type Model struct {
	header  HeaderModel
	metrics MetricsModel
	help    help.Model
	input   textinput.Model
	keymap  KeyMap

	ExecutionState

	width  int
	height int

	parentCtx  context.Context
	config     config.AppConfig
	factory    *expr.Factory
	backends   []string
	backendIdx int
	engine     *calculator.Engine
	editing    bool
	link       *programLink
}

// NewModel creates a new TUI model. The keypad starts on cfg.Backend, or on
// the first registered evaluator when cfg.Backend selects all of them.
func NewModel(parentCtx context.Context, factory *expr.Factory, cfg config.AppConfig, version string) Model {
	backends := factory.List()
	idx := 0
	for i, name := range backends {
		if name == cfg.Backend {
			idx = i
		}
	}

	input := textinput.New()
	input.Prompt = "expr> "
	input.Placeholder = orchestration.ShortExpression
	input.CharLimit = 4096

	m := Model{
		metrics:    NewMetricsModel(),
		help:       help.New(),
		input:      input,
		keymap:     DefaultKeyMap(),
		parentCtx:  parentCtx,
		config:     cfg,
		factory:    factory,
		backends:   backends,
		backendIdx: idx,
		link:       &programLink{},
		ExecutionState: ExecutionState{
			exitCode: apperrors.ExitSuccess,
		},
	}
	m.header = NewHeaderModel(version, m.backend())
	m.engine = m.newEngine()
	return m
}

// backend returns the name of the keypad's evaluator.
func (m Model) backend() string {
	if len(m.backends) == 0 {
		return ""
	}
	return m.backends[m.backendIdx]
}

func (m Model) newEngine() *calculator.Engine {
	var opts []calculator.Option
	if ev, err := m.factory.Get(m.backend()); err == nil {
		opts = append(opts, calculator.WithEvaluator(ev))
	}
	return calculator.New(opts...)
}

// Engine returns the keypad's engine.
func (m Model) Engine() *calculator.Engine {
	return m.engine
}

// Init returns the initial commands.
func (m Model) Init() tea.Cmd {
	return watchContextCmd(m.parentCtx)
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.editing {
			return m.handleInputKey(msg)
		}
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layoutPanels()
		return m, nil

	case ProgressMsg:
		m.metrics.UpdateProgress(msg)
		return m, nil

	case ProgressDoneMsg:
		return m, nil

	case ComparisonResultsMsg:
		m.metrics.SetResults(msg.Results)
		return m, nil

	case ErrorMsg:
		m.metrics.SetError(msg.Err)
		return m, nil

	case TickMsg:
		if !m.metrics.Running() {
			return m, nil
		}
		return m, tea.Batch(sampleMemStatsCmd(), tickCmd())

	case MemStatsMsg:
		m.metrics.UpdateMemStats(msg)
		return m, nil

	case BenchCompleteMsg:
		if msg.Generation != m.generation {
			return m, nil // stale message from a superseded run
		}
		m.exitCode = msg.ExitCode
		m.metrics.Finish(msg.Elapsed, msg.ExitCode)
		m.header.SetDone()
		if m.cancel != nil {
			m.cancel()
			m.cancel = nil
		}
		return m, nil

	case ContextCancelledMsg:
		if m.cancel != nil {
			m.cancel()
		}
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		if m.cancel != nil {
			m.cancel()
		}
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keymap.Digit):
		m.engine.InputDigit(int(msg.String()[0] - '0'))
		return m, nil

	case key.Matches(msg, m.keymap.Decimal):
		m.engine.InputDecimal()
		return m, nil

	case key.Matches(msg, m.keymap.Negate):
		m.engine.ToggleSign()
		return m, nil

	case key.Matches(msg, m.keymap.Percent):
		m.engine.Percent()
		return m, nil

	case key.Matches(msg, m.keymap.Clear):
		m.engine.Clear()
		return m, nil

	case key.Matches(msg, m.keymap.Expression):
		m.editing = true
		m.input.Reset()
		return m, m.input.Focus()

	case key.Matches(msg, m.keymap.Backend):
		if len(m.backends) > 1 {
			m.backendIdx = (m.backendIdx + 1) % len(m.backends)
			m.engine = m.newEngine()
			m.header.SetBackend(m.backend())
		}
		return m, nil

	case key.Matches(msg, m.keymap.Bench):
		return m.startBench()
	}

	for _, b := range m.keymap.operationBindings() {
		if key.Matches(msg, b.binding) {
			m.engine.PerformOperation(b.op)
			return m, nil
		}
	}
	return m, nil
}

// handleInputKey routes keys to the expression field while it has focus.
func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		text := m.input.Value()
		m.editing = false
		m.input.Blur()
		if strings.TrimSpace(text) != "" {
			m.engine.Clear()
			m.engine.EvaluateExpression(text)
		}
		return m, nil

	case tea.KeyEsc:
		m.editing = false
		m.input.Blur()
		return m, nil

	case tea.KeyCtrlC:
		if m.cancel != nil {
			m.cancel()
		}
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// startBench launches a comparison of every backend unless one is running.
func (m Model) startBench() (tea.Model, tea.Cmd) {
	if m.metrics.Running() {
		return m, nil
	}
	backends := orchestration.BackendsFor(config.BackendAll, m.factory)
	cases := orchestration.DefaultCases(m.config)

	m.generation++
	ctx, cancel := context.WithTimeout(m.parentCtx, m.config.Timeout)
	m.cancel = cancel
	m.metrics.Start(len(backends) * len(cases))
	m.header.StartRun()

	return m, tea.Batch(
		tickCmd(),
		startBenchCmd(m.link, ctx, backends, cases, m.config, m.generation),
	)
}

// View renders the keypad, the benchmark panel and the help line.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	calc := panelStyle.Render(m.renderCalculator())
	body := lipgloss.JoinHorizontal(lipgloss.Top, calc, " ", m.metrics.View())

	return lipgloss.JoinVertical(lipgloss.Left,
		m.header.View(),
		body,
		m.help.View(m.keymap),
	)
}

func (m Model) renderCalculator() string {
	exprLine := expressionStyle.Width(calcWidth).Render(m.engine.GetExpression())

	var display string
	switch {
	case m.editing:
		display = m.input.View()
	case m.engine.Failed():
		display = displayErrorStyle.Width(calcWidth).Render(m.engine.GetValue())
	default:
		display = displayStyle.Width(calcWidth).Render(m.engine.GetValue())
	}

	rows := []string{exprLine, display, ""}
	rows = append(rows, renderKeypad()...)
	return strings.Join(rows, "\n")
}

// keypadLayout lists the key labels row by row.
var keypadLayout = [][]string{
	{"7", "8", "9", "/", "√x"},
	{"4", "5", "6", "*", "x²"},
	{"1", "2", "3", "-", "mod"},
	{"0", ".", "=", "+", "%"},
	{"±", "C", "eˣ", "ln", "log"},
}

func renderKeypad() []string {
	gap := strings.Repeat(" ", keyGap)
	rows := make([]string, 0, len(keypadLayout))
	for _, row := range keypadLayout {
		cells := make([]string, len(row))
		for i, label := range row {
			cells[i] = keyStyle(label).Render(label)
		}
		rows = append(rows, strings.Join(cells, gap))
	}
	return rows
}

func keyStyle(label string) lipgloss.Style {
	switch label {
	case "+", "-", "*", "/", "=":
		return operatorKeyStyle
	}
	if len(label) == 1 && ((label[0] >= '0' && label[0] <= '9') || label[0] == '.') {
		return digitKeyStyle
	}
	return functionKeyStyle
}

func (m *Model) layoutPanels() {
	m.header.SetWidth(m.width)
	m.help.Width = m.width
	m.input.Width = calcWidth - len(m.input.Prompt) - 1
	m.metrics.SetWidth(max(m.width-calcWidth-5, 30))
}

// Run is the public entry point for the TUI mode.
// It creates the bubbletea program, runs it, and returns the exit code of
// the last benchmark run.
func Run(ctx context.Context, factory *expr.Factory, cfg config.AppConfig, version string) int {
	// Rebuild styles from the current ui theme (set by app.Run via InitTheme).
	initTUIStyles()

	model := NewModel(ctx, factory, cfg, version)

	p := tea.NewProgram(model, tea.WithAltScreen())
	model.link.attach(p)

	finalModel, err := p.Run()
	if m, ok := finalModel.(Model); ok {
		if m.cancel != nil {
			m.cancel()
		}
		if err == nil {
			return m.exitCode
		}
	}
	if err != nil {
		return apperrors.HandleCalculationError(err, 0, io.Discard, nil)
	}
	return apperrors.ExitSuccess
}

// startBenchCmd returns a tea.Cmd that runs the benchmark suite.
func startBenchCmd(link *programLink, ctx context.Context, backends []orchestration.Backend, cases []orchestration.Case, cfg config.AppConfig, gen uint64) tea.Cmd {
	return func() tea.Msg {
		reporter := benchProgress{link: link}
		presenter := benchResults{link: link}

		start := time.Now()
		opts := orchestration.Options{Parallelism: cfg.Parallelism}
		results := orchestration.ExecuteBenchmarks(ctx, backends, cases, opts, reporter, io.Discard)
		exitCode := orchestration.AnalyzeComparisonResults(results, presenter, io.Discard)

		return BenchCompleteMsg{ExitCode: exitCode, Elapsed: time.Since(start), Generation: gen}
	}
}

// tickCmd returns a command that sends a TickMsg after 500ms.
func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// sampleMemStatsCmd reads runtime memory stats and returns a MemStatsMsg.
func sampleMemStatsCmd() tea.Cmd {
	return func() tea.Msg {
		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)
		return MemStatsMsg{
			Alloc:        ms.Alloc,
			HeapInuse:    ms.HeapInuse,
			NumGC:        ms.NumGC,
			NumGoroutine: runtime.NumGoroutine(),
		}
	}
}

// watchContextCmd waits for context cancellation and sends a message.
func watchContextCmd(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return ContextCancelledMsg{}
	}
}
