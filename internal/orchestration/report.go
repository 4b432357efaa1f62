package orchestration

import (
	"runtime"
	"time"

	"github.com/google/uuid"

	"github.com/agbru/calcbench/internal/calculator"
)

// Report is the serializable record of a benchmark run.
type Report struct {
	ID        string       `json:"id" yaml:"id"`
	Timestamp time.Time    `json:"timestamp" yaml:"timestamp"`
	GoVersion string       `json:"go_version" yaml:"go_version"`
	OS        string       `json:"os" yaml:"os"`
	Arch      string       `json:"arch" yaml:"arch"`
	NumCPU    int          `json:"num_cpu" yaml:"num_cpu"`
	Backends  []string     `json:"backends" yaml:"backends"`
	Cases     []CaseReport `json:"cases" yaml:"cases"`
	// Totals is the summed duration of each backend over all cases.
	Totals []BackendTotal `json:"totals" yaml:"totals"`
	// Mismatches lists the cases on which backends disagreed.
	Mismatches []string `json:"mismatches,omitempty" yaml:"mismatches,omitempty"`
}

// CaseReport is one row of the report.
type CaseReport struct {
	Name    string          `json:"name" yaml:"name"`
	Kind    CaseKind        `json:"kind" yaml:"kind"`
	Input   string          `json:"input" yaml:"input"`
	Results []BackendResult `json:"results" yaml:"results"`
	// Diff is the second backend's duration minus the first's, when two
	// or more backends succeeded.
	Diff *time.Duration `json:"diff_ns,omitempty" yaml:"diff,omitempty"`
}

// BackendResult is the outcome of one case on one backend. Value is the
// display form so that infinities survive JSON encoding.
type BackendResult struct {
	Backend    string        `json:"backend" yaml:"backend"`
	Value      string        `json:"value,omitempty" yaml:"value,omitempty"`
	Duration   time.Duration `json:"duration_ns" yaml:"duration"`
	Error      string        `json:"error,omitempty" yaml:"error,omitempty"`
	AllocBytes uint64        `json:"alloc_bytes,omitempty" yaml:"alloc_bytes,omitempty"`
	Mallocs    uint64        `json:"mallocs,omitempty" yaml:"mallocs,omitempty"`
}

// BackendTotal sums a backend's successful durations.
type BackendTotal struct {
	Backend  string        `json:"backend" yaml:"backend"`
	Duration time.Duration `json:"duration_ns" yaml:"duration"`
	Failures int           `json:"failures" yaml:"failures"`
}

// BuildReport assembles a Report from the results of ExecuteBenchmarks.
// Backends are listed in the order given; results keep that order within
// each case.
func BuildReport(results []CaseResult, backends []string) Report {
	r := Report{
		ID:         uuid.NewString(),
		Timestamp:  time.Now().UTC(),
		GoVersion:  runtime.Version(),
		OS:         runtime.GOOS,
		Arch:       runtime.GOARCH,
		NumCPU:     runtime.NumCPU(),
		Backends:   backends,
		Mismatches: Mismatches(results),
	}

	rank := make(map[string]int, len(backends))
	totals := make([]BackendTotal, len(backends))
	for i, b := range backends {
		rank[b] = i
		totals[i].Backend = b
	}

	var order []string
	rows := make(map[string]*CaseReport)
	for _, res := range results {
		row, ok := rows[res.Case.Name]
		if !ok {
			row = &CaseReport{Name: res.Case.Name, Kind: res.Case.Kind, Input: res.Case.Describe()}
			rows[res.Case.Name] = row
			order = append(order, res.Case.Name)
		}
		br := BackendResult{
			Backend:    res.Backend,
			Duration:   res.Duration,
			AllocBytes: res.Memory.TotalAlloc,
			Mallocs:    res.Memory.Mallocs,
		}
		if res.Err != nil {
			br.Error = res.Err.Error()
		} else {
			br.Value = calculator.FormatNumber(res.Value)
		}
		row.Results = append(row.Results, br)

		if i, ok := rank[res.Backend]; ok {
			if res.Err != nil {
				totals[i].Failures++
			} else {
				totals[i].Duration += res.Duration
			}
		}
	}

	for _, name := range order {
		row := rows[name]
		row.Diff = durationDiff(row.Results, backends)
		r.Cases = append(r.Cases, *row)
	}
	r.Totals = totals
	return r
}

func durationDiff(results []BackendResult, backends []string) *time.Duration {
	if len(backends) < 2 {
		return nil
	}
	var first, second *BackendResult
	for i := range results {
		switch {
		case results[i].Error != "":
		case results[i].Backend == backends[0]:
			first = &results[i]
		case results[i].Backend == backends[1]:
			second = &results[i]
		}
	}
	if first == nil || second == nil {
		return nil
	}
	d := second.Duration - first.Duration
	return &d
}
