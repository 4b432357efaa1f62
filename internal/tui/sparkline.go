package tui

import (
	"slices"
	"time"
)

// sparkBlocks maps levels 0..7 to ▁▂▃▄▅▆▇█.
var sparkBlocks = [8]rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// RunHistory keeps the wall time of the most recent benchmark runs,
// overwriting the oldest once full.
type RunHistory struct {
	runs  []time.Duration
	next  int
	count int
}

// NewRunHistory creates a history holding up to size runs.
func NewRunHistory(size int) *RunHistory {
	return &RunHistory{runs: make([]time.Duration, max(size, 1))}
}

// Record appends the duration of a finished run.
func (h *RunHistory) Record(d time.Duration) {
	h.runs[h.next] = d
	h.next = (h.next + 1) % len(h.runs)
	h.count = min(h.count+1, len(h.runs))
}

// Len returns the number of recorded runs.
func (h *RunHistory) Len() int { return h.count }

// Durations returns the recorded runs, oldest first.
func (h *RunHistory) Durations() []time.Duration {
	out := make([]time.Duration, 0, h.count)
	start := (h.next - h.count + len(h.runs)) % len(h.runs)
	for i := range h.count {
		out = append(out, h.runs[(start+i)%len(h.runs)])
	}
	return out
}

// RenderSparkline draws one block per value; values are percentages and
// are clamped to 0..100.
func RenderSparkline(values []float64) string {
	runes := make([]rune, len(values))
	for i, v := range values {
		level := int(min(max(v, 0), 100) / 100 * 7)
		runes[i] = sparkBlocks[level]
	}
	return string(runes)
}

// ScaleDurations maps durations onto 0..100 relative to the largest one.
// A zero maximum yields all zeros.
func ScaleDurations(ds []time.Duration) []float64 {
	if len(ds) == 0 {
		return nil
	}
	peak := slices.Max(ds)
	out := make([]float64, len(ds))
	if peak <= 0 {
		return out
	}
	for i, d := range ds {
		out[i] = float64(d) / float64(peak) * 100
	}
	return out
}
