package format

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// maxETA caps estimates while the completion rate is still unreliable.
const maxETA = 24 * time.Hour

// ProgressWithETA tracks completion of a fixed number of benchmark jobs
// and estimates the remaining time from the mean time per completed job.
// It is safe for concurrent use.
type ProgressWithETA struct {
	mu        sync.Mutex
	total     int
	completed int
	startTime time.Time
	now       func() time.Time
}

// NewProgressWithETA starts tracking total jobs.
func NewProgressWithETA(total int) *ProgressWithETA {
	return &ProgressWithETA{total: total, startTime: time.Now(), now: time.Now}
}

// Complete records one finished job and returns the completed fraction and
// the estimated time remaining.
func (p *ProgressWithETA) Complete() (float64, time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.completed < p.total {
		p.completed++
	}
	return p.fractionLocked(), p.etaLocked()
}

// Fraction returns the completed fraction in [0, 1].
func (p *ProgressWithETA) Fraction() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fractionLocked()
}

// ETA returns the current estimate without recording progress. Zero means
// no estimate is available yet.
func (p *ProgressWithETA) ETA() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.etaLocked()
}

// Completed returns the number of finished jobs.
func (p *ProgressWithETA) Completed() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.completed
}

func (p *ProgressWithETA) fractionLocked() float64 {
	if p.total <= 0 {
		return 0
	}
	return float64(p.completed) / float64(p.total)
}

func (p *ProgressWithETA) etaLocked() time.Duration {
	if p.completed == 0 || p.completed >= p.total {
		return 0
	}
	elapsed := p.now().Sub(p.startTime)
	perJob := elapsed / time.Duration(p.completed)
	eta := perJob * time.Duration(p.total-p.completed)
	return min(eta, maxETA)
}

// FormatETA renders an estimate as "45s", "2m30s" or "1h15m".
func FormatETA(eta time.Duration) string {
	switch {
	case eta <= 0:
		return "calculating..."
	case eta < time.Second:
		return "< 1s"
	case eta < time.Minute:
		return fmt.Sprintf("%ds", int(eta.Seconds()))
	case eta < time.Hour:
		m := int(eta.Minutes())
		s := int(eta.Seconds()) % 60
		if s == 0 {
			return fmt.Sprintf("%dm", m)
		}
		return fmt.Sprintf("%dm%ds", m, s)
	default:
		h := int(eta.Hours())
		m := int(eta.Minutes()) % 60
		if m == 0 {
			return fmt.Sprintf("%dh", h)
		}
		return fmt.Sprintf("%dh%dm", h, m)
	}
}

// ProgressBar renders progress in [0, 1] as a bar of length cells.
func ProgressBar(progress float64, length int) string {
	progress = min(max(progress, 0), 1)
	filled := int(progress * float64(length))
	return strings.Repeat("█", filled) + strings.Repeat("░", length-filled)
}

// FormatProgressBarWithETA renders "[bar]  50.00% ETA: 3s".
func FormatProgressBarWithETA(progress float64, eta time.Duration, width int) string {
	return fmt.Sprintf("[%s] %6.2f%% ETA: %s", ProgressBar(progress, width), min(max(progress, 0), 1)*100, FormatETA(eta))
}
