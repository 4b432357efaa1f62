package cli

import (
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/calcbench/internal/orchestration"
)

// recordingSpinner keeps every suffix the progress loop sets.
type recordingSpinner struct {
	mu       sync.Mutex
	started  bool
	stopped  bool
	suffixes []string
}

func (m *recordingSpinner) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.started = true
}

func (m *recordingSpinner) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped = true
}

func (m *recordingSpinner) UpdateSuffix(suffix string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.suffixes = append(m.suffixes, suffix)
}

func TestRealSpinner(t *testing.T) {
	t.Parallel()
	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(io.Discard))
	rs := &realSpinner{s}

	rs.Start()
	rs.UpdateSuffix(" test")
	rs.Stop()
	if s.Suffix != " test" {
		t.Errorf("Suffix = %q", s.Suffix)
	}
}

// TestDisplayProgress replaces the package-level spinner constructor, so
// it does not run in parallel.
func TestDisplayProgress(t *testing.T) {
	prev := newSpinner
	t.Cleanup(func() { newSpinner = prev })

	rec := &recordingSpinner{}
	newSpinner = func(...spinner.Option) Spinner { return rec }

	progressChan := make(chan orchestration.ProgressUpdate, 2)
	progressChan <- orchestration.ProgressUpdate{JobIndex: 0, Case: "short", Backend: "goconst"}
	progressChan <- orchestration.ProgressUpdate{JobIndex: 1, Case: "fib", Backend: "govaluate", Err: errors.New("deadline exceeded")}
	close(progressChan)

	var wg sync.WaitGroup
	wg.Add(1)
	DisplayProgress(&wg, progressChan, 2, io.Discard)
	wg.Wait()

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if !rec.started || !rec.stopped {
		t.Error("spinner should have started and stopped")
	}
	if first := rec.suffixes[0]; !strings.Contains(first, "0/2 jobs") {
		t.Errorf("initial suffix = %q", first)
	}
	last := rec.suffixes[len(rec.suffixes)-1]
	if !strings.Contains(last, "2/2 jobs") || !strings.Contains(last, "1 failed") {
		t.Errorf("last suffix = %q", last)
	}
}

func TestDisplayProgress_ZeroJobs(t *testing.T) {
	t.Parallel()
	var wg sync.WaitGroup
	wg.Add(1)
	progressChan := make(chan orchestration.ProgressUpdate)
	close(progressChan)

	DisplayProgress(&wg, progressChan, 0, io.Discard)
	wg.Wait()
}

func TestProgressSuffix(t *testing.T) {
	t.Parallel()
	got := progressSuffix(0.5, 0, 1, 2, 0)
	if !strings.Contains(got, "50.00%") || !strings.Contains(got, "1/2 jobs") || strings.Contains(got, "failed") {
		t.Errorf("progressSuffix = %q", got)
	}
}
