package cli

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/calcbench/internal/format"
	"github.com/agbru/calcbench/internal/orchestration"
	"github.com/agbru/calcbench/internal/ui"
)

const (
	// ProgressRefreshRate defines the refresh frequency of the progress bar.
	ProgressRefreshRate = 200 * time.Millisecond
	// ProgressBarWidth defines the width in characters of the progress bar.
	ProgressBarWidth = 40
)

// Spinner abstracts a terminal spinner so that DisplayProgress can be
// tested without a terminal.
type Spinner interface {
	// Start begins the spinner animation.
	Start()
	// Stop halts the spinner animation.
	Stop()
	// UpdateSuffix sets the text that is displayed after the spinner.
	UpdateSuffix(suffix string)
}

// realSpinner adapts spinner.Spinner to the Spinner interface.
type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start() { rs.s.Start() }

func (rs *realSpinner) Stop() { rs.s.Stop() }

// UpdateSuffix sets the suffix under the spinner's lock; the animation
// goroutine reads it concurrently.
func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Lock()
	rs.s.Suffix = suffix
	rs.s.Unlock()
}

var newSpinner = func(options ...spinner.Option) Spinner {
	s := spinner.New(spinner.CharSets[11], ProgressRefreshRate, options...)
	return &realSpinner{s}
}

// spinnerWriter lets the spinner detect a terminal when out is a file.
func spinnerWriter(out io.Writer) spinner.Option {
	if f, ok := out.(*os.File); ok {
		return spinner.WithWriterFile(f)
	}
	return spinner.WithWriter(out)
}

// progressSuffix renders the text shown after the spinner.
func progressSuffix(fraction float64, eta time.Duration, done, total, failed int) string {
	suffix := fmt.Sprintf(" %s %d/%d jobs", format.FormatProgressBarWithETA(fraction, eta, ProgressBarWidth), done, total)
	if failed > 0 {
		suffix += fmt.Sprintf(" %s(%d failed)%s", ui.ColorRed(), failed, ui.ColorReset())
	}
	return suffix
}

// DisplayProgress shows a spinner with an aggregate progress bar until
// progressChan is closed. With no jobs it only drains the channel.
func DisplayProgress(wg *sync.WaitGroup, progressChan <-chan orchestration.ProgressUpdate, numJobs int, out io.Writer) {
	defer wg.Done()
	agg := orchestration.NewProgressAggregator(numJobs)
	if agg == nil {
		orchestration.DrainChannel(progressChan)
		return
	}

	s := newSpinner(spinnerWriter(out))
	s.UpdateSuffix(progressSuffix(0, 0, 0, numJobs, 0))
	s.Start()
	defer s.Stop()

	ticker := time.NewTicker(ProgressRefreshRate)
	defer ticker.Stop()

	done, failed := 0, 0
	for {
		select {
		case update, ok := <-progressChan:
			if !ok {
				return
			}
			p := agg.Update(update)
			done, failed = p.Completed, p.Failed
			s.UpdateSuffix(progressSuffix(p.Fraction, p.ETA, done, numJobs, failed))
		case <-ticker.C:
			s.UpdateSuffix(progressSuffix(agg.Fraction(), agg.ETA(), done, numJobs, failed))
		}
	}
}
