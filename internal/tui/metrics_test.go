package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/agbru/calcbench/internal/orchestration"
)

func sampleResults(goconst, govaluate float64) []orchestration.CaseResult {
	short := orchestration.Case{Name: "short", Kind: orchestration.KindExpression}
	fib := orchestration.Case{Name: "fib", Kind: orchestration.KindFibonacci, N: 10}
	return []orchestration.CaseResult{
		{Case: short, Backend: "goconst", Value: goconst, Duration: 2 * time.Millisecond},
		{Case: short, Backend: "govaluate", Value: govaluate, Duration: 4 * time.Millisecond},
		{Case: fib, Backend: "goconst", Value: 55, Duration: time.Millisecond},
		{Case: fib, Backend: "govaluate", Value: 55, Duration: time.Millisecond},
	}
}

func TestTotals(t *testing.T) {
	results := sampleResults(12.5, 12.5)
	results[3].Err = errors.New("boom")

	got := totals(results)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].name != "goconst" || got[0].total != 3*time.Millisecond || got[0].failures != 0 {
		t.Errorf("goconst total = %+v", got[0])
	}
	if got[1].name != "govaluate" || got[1].total != 5*time.Millisecond || got[1].failures != 1 {
		t.Errorf("govaluate total = %+v", got[1])
	}
	if len(got[1].durations) != 2 {
		t.Errorf("govaluate durations = %v", got[1].durations)
	}
}

func TestMetricsModel_Lifecycle(t *testing.T) {
	m := NewMetricsModel()
	m.SetWidth(80)

	if !strings.Contains(m.View(), "Press b") {
		t.Errorf("expected idle hint, got:\n%s", m.View())
	}

	m.Start(4)
	if !m.Running() {
		t.Fatal("expected running after Start")
	}
	m.UpdateProgress(ProgressMsg{Case: "short", Backend: "goconst", Fraction: 0.25, Completed: 1, Total: 4})
	m.UpdateMemStats(MemStatsMsg{Alloc: 1 << 20, HeapInuse: 2 << 20, NumGC: 2, NumGoroutine: 5})
	view := m.View()
	for _, want := range []string{"1/4", "short on goconst", "Goroutines:"} {
		if !strings.Contains(view, want) {
			t.Errorf("running view missing %q:\n%s", want, view)
		}
	}

	m.SetResults(sampleResults(12.5, 12.5))
	m.Finish(time.Second, 0)
	if m.Running() {
		t.Fatal("expected idle after Finish")
	}
	view = m.View()
	for _, want := range []string{"goconst:", "govaluate:", "All backends agree"} {
		if !strings.Contains(view, want) {
			t.Errorf("result view missing %q:\n%s", want, view)
		}
	}
	if strings.Contains(view, "Runs:") {
		t.Error("trend line needs at least two runs")
	}

	m.Start(4)
	m.SetResults(sampleResults(12.5, 12.5))
	m.Finish(2*time.Second, 0)
	if !strings.Contains(m.View(), "Runs:") {
		t.Error("expected trend line after two runs")
	}
}

func TestMetricsModel_Mismatch(t *testing.T) {
	m := NewMetricsModel()
	m.SetWidth(80)
	m.Start(4)
	m.SetResults(sampleResults(12.5, 13))
	m.Finish(time.Second, 3)

	if view := m.View(); !strings.Contains(view, "Mismatch on short") {
		t.Errorf("expected mismatch status:\n%s", view)
	}
}

func TestMetricsModel_PartialFailure(t *testing.T) {
	results := sampleResults(12.5, 12.5)
	results[1].Err = errors.New("boom")

	m := NewMetricsModel()
	m.SetWidth(100)
	m.SetResults(results)
	view := m.View()
	for _, want := range []string{"1 failed", "short failed on govaluate"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestMetricsModel_Error(t *testing.T) {
	m := NewMetricsModel()
	m.SetWidth(80)
	m.Start(1)
	m.SetError(errors.New("deadline exceeded"))
	m.Finish(time.Second, 2)

	if view := m.View(); !strings.Contains(view, "deadline exceeded") {
		t.Errorf("expected error in view:\n%s", view)
	}
}
