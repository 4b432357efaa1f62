package orchestration

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"math"
	"slices"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/agbru/calcbench/internal/errors"
	"github.com/agbru/calcbench/internal/metrics"
)

// CaseResult is the outcome of one case on one backend.
type CaseResult struct {
	Case    Case
	Backend string
	// Value is the computed result. It is meaningful only when Err is nil.
	Value    float64
	Duration time.Duration
	Err      error
	// Memory is the process-wide allocation delta over the job. It is zero
	// unless Options.TrackMemory is set.
	Memory metrics.MemoryDelta
}

// Options tunes ExecuteBenchmarks.
type Options struct {
	// Parallelism bounds concurrent jobs; values below 1 mean unbounded.
	Parallelism int
	// Observer, when set, receives every result as soon as it is known.
	Observer ResultObserver
	// TrackMemory takes runtime memory snapshots around each job.
	TrackMemory bool
}

// ProgressBufferMultiplier defines the buffer size multiplier for the progress
// channel. A larger buffer reduces the likelihood of blocking benchmark
// goroutines when the UI is slow to consume updates.
const ProgressBufferMultiplier = 5

// RelativeTolerance is the largest relative difference at which two backend
// values still count as the same result.
const RelativeTolerance = 1e-9

const tracerName = "github.com/agbru/calcbench/internal/orchestration"

// ExecuteBenchmarks runs every case on every backend concurrently.
//
// Results are laid out case-major: the result of cases[i] on backends[j] is
// at index i*len(backends)+j, whatever order the jobs finish in. Each job
// runs inside its own trace span. A failing job never cancels the others;
// cancellation of ctx does, and the affected jobs report the context error.
//
// Parameters:
//   - ctx: The context for managing cancellation and deadlines.
//   - backends: The backends to compare.
//   - cases: The benchmark cases.
//   - opts: Concurrency, memory tracking and observer settings.
//   - progressReporter: Displays progress (use NullProgressReporter for quiet mode).
//   - out: The io.Writer handed to the progress reporter.
//
// Returns:
//   - []CaseResult: One result per (case, backend) pair.
func ExecuteBenchmarks(ctx context.Context, backends []Backend, cases []Case, opts Options, progressReporter ProgressReporter, out io.Writer) []CaseResult {
	numJobs := len(backends) * len(cases)
	results := make([]CaseResult, numJobs)
	progressChan := make(chan ProgressUpdate, max(numJobs, 1)*ProgressBufferMultiplier)

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go progressReporter.DisplayProgress(&displayWg, progressChan, numJobs, out)

	var g errgroup.Group
	if opts.Parallelism > 0 {
		g.SetLimit(opts.Parallelism)
	}
	collector := metrics.NewMemoryCollector()
	tracer := otel.Tracer(tracerName)

	for ci, c := range cases {
		for bi, backend := range backends {
			idx := ci*len(backends) + bi
			g.Go(func() error {
				spanCtx, span := tracer.Start(ctx, "benchmark.case",
					trace.WithSpanKind(trace.SpanKindInternal),
					trace.WithAttributes(
						attribute.String("case", c.Name),
						attribute.String("kind", c.Kind.String()),
						attribute.String("backend", backend.Name()),
					))
				defer span.End()

				res := CaseResult{Case: c, Backend: backend.Name()}
				run := func() {
					start := time.Now()
					res.Value, res.Err = backend.Run(spanCtx, c)
					res.Duration = time.Since(start)
				}
				if opts.TrackMemory {
					res.Memory = collector.Measure(run)
				} else {
					run()
				}
				if res.Err != nil {
					res.Err = apperrors.NewCalculationError(c.Name, res.Backend, res.Err)
					span.RecordError(res.Err)
					span.SetStatus(codes.Error, res.Err.Error())
				}

				results[idx] = res
				if opts.Observer != nil {
					opts.Observer.ObserveResult(res)
				}
				progressChan <- ProgressUpdate{JobIndex: idx, Case: c.Name, Backend: res.Backend, Err: res.Err}
				return nil
			})
		}
	}

	_ = g.Wait()
	close(progressChan)
	displayWg.Wait()

	return results
}

// ValuesAgree reports whether a and b are the same result: equal
// infinities match, NaN matches nothing, finite values match within
// RelativeTolerance.
func ValuesAgree(a, b float64) bool {
	if a == b {
		return true
	}
	if math.IsNaN(a) || math.IsNaN(b) || math.IsInf(a, 0) || math.IsInf(b, 0) {
		return false
	}
	scale := math.Max(math.Abs(a), math.Abs(b))
	return math.Abs(a-b) <= RelativeTolerance*scale
}

// GroupByCase splits results into one slice per case, in first-seen case
// order. Within a case, successes come first, fastest first.
func GroupByCase(results []CaseResult) [][]CaseResult {
	var order []string
	groups := make(map[string][]CaseResult)
	for _, r := range results {
		if _, ok := groups[r.Case.Name]; !ok {
			order = append(order, r.Case.Name)
		}
		groups[r.Case.Name] = append(groups[r.Case.Name], r)
	}
	out := make([][]CaseResult, 0, len(order))
	for _, name := range order {
		g := groups[name]
		slices.SortStableFunc(g, func(a, b CaseResult) int {
			if (a.Err == nil) != (b.Err == nil) {
				if a.Err == nil {
					return -1
				}
				return 1
			}
			return cmp.Compare(a.Duration, b.Duration)
		})
		out = append(out, g)
	}
	return out
}

// Mismatches returns the names of the cases whose successful backends
// disagree on the value.
func Mismatches(results []CaseResult) []string {
	var names []string
	for _, group := range GroupByCase(results) {
		var ref *CaseResult
		for i := range group {
			if group[i].Err != nil {
				continue
			}
			if ref == nil {
				ref = &group[i]
				continue
			}
			if !ValuesAgree(ref.Value, group[i].Value) {
				names = append(names, ref.Case.Name)
				break
			}
		}
	}
	return names
}

// AnalyzeComparisonResults presents the comparison table and checks that
// the backends agree.
//
// Parameters:
//   - results: The results of ExecuteBenchmarks.
//   - presenter: The result presenter for display formatting.
//   - out: The io.Writer for the summary.
//
// Returns:
//   - int: ExitSuccess when every case has a result and all successful
//     backends agree, ExitErrorMismatch on disagreement, otherwise the exit
//     code of the first error.
func AnalyzeComparisonResults(results []CaseResult, presenter ResultPresenter, out io.Writer) int {
	presenter.PresentComparisonTable(results, out)

	var firstError error
	successCount := 0
	for _, r := range results {
		if r.Err == nil {
			successCount++
		} else if firstError == nil {
			firstError = r.Err
		}
	}

	if successCount == 0 {
		fmt.Fprintf(out, "\nGlobal Status: Failure. No backend could complete any case.\n")
		return presenter.HandleError(firstError, 0, out)
	}

	if bad := Mismatches(results); len(bad) > 0 {
		fmt.Fprintf(out, "\nGlobal Status: CRITICAL ERROR! Backends disagree on: %v\n", bad)
		return apperrors.ExitErrorMismatch
	}

	if firstError != nil {
		fmt.Fprintf(out, "\nGlobal Status: Partial failure. Successful results are consistent.\n")
		return presenter.HandleError(firstError, 0, out)
	}

	fmt.Fprintf(out, "\nGlobal Status: Success. All backends agree.\n")
	return apperrors.ExitSuccess
}
