package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/calcbench/internal/config"
	apperrors "github.com/agbru/calcbench/internal/errors"
	"github.com/agbru/calcbench/internal/expr"
	"github.com/agbru/calcbench/internal/orchestration"
)

func testConfig() config.AppConfig {
	return config.AppConfig{
		Backend:     config.BackendAll,
		FactorialN:  10,
		FibN:        10,
		MediumTerms: 5,
		LongTerms:   10,
		Timeout:     time.Minute,
	}
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	return NewModel(context.Background(), expr.NewDefaultFactory(), testConfig(), "v1.0.0")
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return nm, cmd
}

// press feeds each rune of keys as a separate key press.
func press(t *testing.T, m Model, keys string) Model {
	t.Helper()
	for _, r := range keys {
		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func TestModel_KeypadArithmetic(t *testing.T) {
	tests := []struct {
		keys string
		want string
	}{
		{"2+3=", "5"},
		{"2+3*4=", "20"},
		{"9s", "3"},
		{"4w", "16"},
		{"12.5n", "-12.5"},
		{"50%", "0.5"},
		{"1/0=", "Error"},
		{"7+c", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.keys, func(t *testing.T) {
			m := press(t, newTestModel(t), tt.keys)
			if got := m.Engine().GetValue(); got != tt.want {
				t.Errorf("after %q display = %q, want %q", tt.keys, got, tt.want)
			}
		})
	}
}

func TestModel_EnterIsEquals(t *testing.T) {
	m := press(t, newTestModel(t), "6*7")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if got := m.Engine().GetValue(); got != "42" {
		t.Errorf("display = %q, want 42", got)
	}
}

func TestModel_ExpressionInput(t *testing.T) {
	m := press(t, newTestModel(t), "9e")
	if !m.editing {
		t.Fatal("expected expression field to have focus after 'e'")
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("1+2*3")})
	if m.Engine().GetValue() != "9" {
		t.Errorf("typing an expression must not touch the keypad, display = %q", m.Engine().GetValue())
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.editing {
		t.Error("expected focus to return to the keypad after enter")
	}
	if got := m.Engine().GetValue(); got != "7" {
		t.Errorf("display = %q, want 7", got)
	}
}

func TestModel_ExpressionInputEscape(t *testing.T) {
	m := press(t, newTestModel(t), "5e")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("1+1")})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.editing {
		t.Fatal("expected escape to leave the expression field")
	}
	if got := m.Engine().GetValue(); got != "5" {
		t.Errorf("display = %q, want 5", got)
	}
}

func TestModel_ExpressionInputInvalid(t *testing.T) {
	m := press(t, newTestModel(t), "e")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("1+")})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.Engine().Failed() {
		t.Errorf("expected the engine to fail on a malformed expression, display = %q", m.Engine().GetValue())
	}
}

func TestModel_CycleBackend(t *testing.T) {
	m := newTestModel(t)
	first := m.backend()
	m = press(t, m, "42")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.backend() == first {
		t.Fatalf("expected backend to change from %q", first)
	}
	if got := m.Engine().GetValue(); got != "0" {
		t.Errorf("expected a fresh engine after switching backend, display = %q", got)
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.backend() != first {
		t.Errorf("expected backend to wrap around to %q, got %q", first, m.backend())
	}
}

func TestModel_InitialBackendFromConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Backend = "govaluate"
	m := NewModel(context.Background(), expr.NewDefaultFactory(), cfg, "dev")
	if m.backend() != "govaluate" {
		t.Errorf("backend = %q, want govaluate", m.backend())
	}
}

func TestModel_HelpToggle(t *testing.T) {
	m := press(t, newTestModel(t), "?")
	if !m.help.ShowAll {
		t.Error("expected full help after '?'")
	}
	m = press(t, m, "?")
	if m.help.ShowAll {
		t.Error("expected short help after second '?'")
	}
}

func TestModel_Quit(t *testing.T) {
	_, cmd := update(t, newTestModel(t), tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestModel_ContextCancelledQuits(t *testing.T) {
	_, cmd := update(t, newTestModel(t), ContextCancelledMsg{})
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestModel_BenchLifecycle(t *testing.T) {
	m := newTestModel(t)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'b'}})
	if cmd == nil {
		t.Fatal("expected commands to start the run")
	}
	if !m.metrics.Running() {
		t.Fatal("expected the benchmark panel to be running")
	}
	if m.generation != 1 {
		t.Fatalf("generation = %d, want 1", m.generation)
	}

	// A second press while running is ignored.
	m = press(t, m, "b")
	if m.generation != 1 {
		t.Errorf("generation = %d after second press, want 1", m.generation)
	}

	m, _ = update(t, m, ProgressMsg{Case: "short", Backend: "goconst", Fraction: 0.1, Completed: 1, Total: 10})
	m, _ = update(t, m, MemStatsMsg{Alloc: 1 << 20, HeapInuse: 2 << 20, NumGC: 3, NumGoroutine: 7})

	// A stale completion does not end the run.
	m, _ = update(t, m, BenchCompleteMsg{Generation: 0})
	if !m.metrics.Running() {
		t.Fatal("stale completion ended the run")
	}

	results := []orchestration.CaseResult{
		{Case: orchestration.Case{Name: "short"}, Backend: "goconst", Value: 12.5, Duration: time.Millisecond},
		{Case: orchestration.Case{Name: "short"}, Backend: "govaluate", Value: 12.5, Duration: 3 * time.Millisecond},
	}
	m, _ = update(t, m, ComparisonResultsMsg{Results: results})
	m, _ = update(t, m, BenchCompleteMsg{ExitCode: apperrors.ExitSuccess, Elapsed: time.Second, Generation: 1})

	if m.metrics.Running() {
		t.Error("expected the run to be finished")
	}
	if m.cancel != nil {
		t.Error("expected the run context to be released")
	}
	if m.exitCode != apperrors.ExitSuccess {
		t.Errorf("exitCode = %d, want %d", m.exitCode, apperrors.ExitSuccess)
	}

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	if view := m.View(); !strings.Contains(view, "All backends agree") {
		t.Errorf("expected agreement status in view:\n%s", view)
	}
}

func TestModel_TickStopsWhenIdle(t *testing.T) {
	_, cmd := update(t, newTestModel(t), TickMsg(time.Now()))
	if cmd != nil {
		t.Error("expected no follow-up tick while idle")
	}
}

func TestModel_View(t *testing.T) {
	m := newTestModel(t)
	if got := m.View(); got != "Initializing..." {
		t.Errorf("View before sizing = %q", got)
	}

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	m = press(t, m, "12+")
	view := m.View()
	for _, want := range []string{"calcbench v1.0.0", "backend: goconst", "12 +", "mod", "BENCHMARK"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestModel_ViewShowsError(t *testing.T) {
	m := newTestModel(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m = press(t, m, "1/0=")
	if !strings.Contains(m.View(), "Error") {
		t.Error("expected Error in the display")
	}
}
