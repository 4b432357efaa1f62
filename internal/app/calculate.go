package app

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/agbru/calcbench/internal/calculator"
	"github.com/agbru/calcbench/internal/cli"
	"github.com/agbru/calcbench/internal/config"
	apperrors "github.com/agbru/calcbench/internal/errors"
	"github.com/agbru/calcbench/internal/logging"
	"github.com/agbru/calcbench/internal/orchestration"
	"github.com/agbru/calcbench/internal/ui"
)

// runExpression evaluates --expr on the selected backends and prints one
// line per backend. In quiet mode only the first backend's value is
// printed.
func (a *Application) runExpression(out io.Writer) int {
	names := a.Factory.List()
	if a.Config.Backend != "" && a.Config.Backend != config.BackendAll {
		names = []string{a.Config.Backend}
	}
	logger := logging.NewLogger(a.ErrWriter, "expr").Zerolog()

	exitCode := apperrors.ExitSuccess
	var first *float64
	for i, name := range names {
		ev, err := a.Factory.Get(name)
		if err != nil {
			fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
			return apperrors.ExitErrorConfig
		}
		engine := calculator.New(calculator.WithEvaluator(ev), calculator.WithLogger(logger))

		start := time.Now()
		engine.EvaluateExpression(a.Config.Expr)
		elapsed := time.Since(start)

		if !a.Config.Quiet || i == 0 {
			cli.DisplayExpressionResult(out, a.Config.Expr, engine.GetValue(), name, elapsed, a.Config.Quiet)
		}

		if engine.Failed() {
			exitCode = apperrors.ExitErrorGeneric
			continue
		}
		v := engine.Value()
		if first == nil {
			first = &v
		} else if !orchestration.ValuesAgree(*first, v) && exitCode == apperrors.ExitSuccess {
			exitCode = apperrors.ExitErrorMismatch
		}
	}
	return exitCode
}

// runBench orchestrates the benchmark suite: configuration banner,
// parallel execution, comparison table, summary and optional report file.
func (a *Application) runBench(ctx context.Context, out io.Writer) int {
	// Setup lifecycle (timeout + signals)
	ctx, cancelTimeout := context.WithTimeout(ctx, a.Config.Timeout)
	defer cancelTimeout()
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	backends := orchestration.BackendsFor(a.Config.Backend, a.Factory)
	cases := orchestration.DefaultCases(a.Config)

	// Skip verbose output in quiet mode
	if !a.Config.Quiet {
		cli.PrintExecutionConfig(a.Config, out)
		cli.PrintExecutionMode(backends, out)
	}

	// Choose progress reporter based on quiet mode
	var progressReporter orchestration.ProgressReporter
	progressOut := out
	if a.Config.Quiet {
		progressOut = io.Discard
		progressReporter = orchestration.NullProgressReporter{}
	} else {
		progressReporter = cli.CLIProgressReporter{}
	}

	opts := orchestration.Options{
		Parallelism: a.Config.Parallelism,
		TrackMemory: a.Config.Details,
	}
	results := orchestration.ExecuteBenchmarks(ctx, backends, cases, opts, progressReporter, progressOut)

	return a.analyzeResultsWithOutput(results, backends, out)
}

func (a *Application) analyzeResultsWithOutput(results []orchestration.CaseResult, backends []orchestration.Backend, out io.Writer) int {
	presenter := cli.CLIResultPresenter{}

	analysisOut := out
	if a.Config.Quiet {
		analysisOut = io.Discard
	}
	exitCode := orchestration.AnalyzeComparisonResults(results, presenter, analysisOut)

	names := make([]string, len(backends))
	for i, b := range backends {
		names[i] = b.Name()
	}
	report := orchestration.BuildReport(results, names)

	if a.Config.Quiet {
		displayQuietReport(out, report)
	} else {
		presenter.PresentSummary(report, a.Config.Details, out)
	}

	if a.Config.OutputFile != "" {
		if err := cli.WriteReportToFile(report, a.Config.OutputFile); err != nil {
			fmt.Fprintf(a.ErrWriter, "%sError saving report: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
			return apperrors.ExitErrorGeneric
		}
		if !a.Config.Quiet {
			cli.DisplaySavedReport(out, a.Config.OutputFile)
		}
	}

	return exitCode
}

// displayQuietReport prints "case value" for each case, using the first
// backend that completed it.
func displayQuietReport(out io.Writer, report orchestration.Report) {
	for _, c := range report.Cases {
		value := "Error"
		for _, r := range c.Results {
			if r.Error == "" {
				value = r.Value
				break
			}
		}
		fmt.Fprintf(out, "%s %s\n", c.Name, cli.FormatQuietResult(value))
	}
}
