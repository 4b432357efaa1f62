// Package config handles command-line and environment configuration for
// calcbench.
package config

import (
	"flag"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	apperrors "github.com/agbru/calcbench/internal/errors"
	"github.com/agbru/calcbench/internal/ui"
)

// EnvPrefix is prepended to every environment variable override.
const EnvPrefix = "CALCBENCH_"

// BackendAll selects every registered evaluator.
const BackendAll = "all"

// Default values for the benchmark suite, taken from the reference
// performance table (short, medium, long, heavy, fib).
const (
	DefaultFactorialN  = 5000
	DefaultFibN        = 35
	DefaultMediumTerms = 1000
	DefaultLongTerms   = 100000
	DefaultTimeout     = 5 * time.Minute

	// MaxFibN is the largest n whose Fibonacci number fits in 64 bits.
	MaxFibN = 93
	// MaxFactorialN bounds the quadratic factorial sum. Workloads cannot be
	// interrupted, so a run past its timeout keeps its goroutine busy.
	MaxFactorialN = 20000
	// MaxTerms bounds the generated medium and long expressions.
	MaxTerms = 1_000_000
)

// AppConfig aggregates the application's configuration parameters.
type AppConfig struct {
	// Expr is evaluated once and printed; the program then exits.
	Expr string
	// REPL starts the interactive calculator. It is also the default mode.
	REPL bool
	// Bench runs the benchmark suite and prints the comparison table.
	Bench bool
	// TUI starts the keypad interface.
	TUI bool
	// Serve is the listen address of the HTTP server; empty disables it.
	Serve string
	// Backend is an evaluator name or BackendAll.
	Backend string

	FactorialN  uint
	FibN        uint
	MediumTerms int
	LongTerms   int
	// Parallelism bounds concurrent benchmark jobs; 0 picks a value from
	// the CPU count.
	Parallelism int
	Timeout     time.Duration

	Quiet      bool
	Details    bool
	OutputFile string
	NoColor    bool
	Theme      string
	LogLevel   string
	Completion string
}

// ParseConfig parses args into an AppConfig, applies CALCBENCH_*
// environment overrides for flags not given on the command line, and
// validates the result. availableBackends lists the registered evaluator
// names.
func ParseConfig(programName string, args []string, errWriter io.Writer, availableBackends []string) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errWriter)

	config := AppConfig{}
	fs.StringVar(&config.Expr, "expr", "", "Evaluate an arithmetic expression and exit.")
	fs.StringVar(&config.Expr, "e", "", "Evaluate an arithmetic expression (shorthand).")
	fs.BoolVar(&config.REPL, "repl", false, "Start the interactive calculator (default mode).")
	fs.BoolVar(&config.Bench, "bench", false, "Run the benchmark suite.")
	fs.BoolVar(&config.TUI, "tui", false, "Start the keypad interface.")
	fs.StringVar(&config.Serve, "serve", "", "Serve the HTTP API on this address (e.g. :8080).")
	fs.StringVar(&config.Backend, "backend", BackendAll,
		fmt.Sprintf("Evaluator to use: %s or %s.", BackendAll, strings.Join(availableBackends, ", ")))
	fs.UintVar(&config.FactorialN, "factsum-n", DefaultFactorialN, "n of the cumulative factorial sum case.")
	fs.UintVar(&config.FibN, "fib-n", DefaultFibN, "n of the recursive Fibonacci case.")
	fs.IntVar(&config.MediumTerms, "medium-terms", DefaultMediumTerms, "Number of 8*8 terms in the medium case.")
	fs.IntVar(&config.LongTerms, "long-terms", DefaultLongTerms, "Number of 9*9 terms in the long case.")
	fs.IntVar(&config.Parallelism, "parallel", 0, "Concurrent benchmark jobs (0 = auto).")
	fs.DurationVar(&config.Timeout, "timeout", DefaultTimeout, "Maximum duration of a benchmark run.")
	fs.BoolVar(&config.Quiet, "quiet", false, "Quiet mode: minimal output.")
	fs.BoolVar(&config.Quiet, "q", false, "Quiet mode (shorthand).")
	fs.BoolVar(&config.Details, "details", false, "Show the execution environment and report metadata.")
	fs.BoolVar(&config.Details, "d", false, "Show details (shorthand).")
	fs.StringVar(&config.OutputFile, "output", "", "Write the benchmark report to a file (.yaml, .yml or .json).")
	fs.StringVar(&config.OutputFile, "o", "", "Output file (shorthand).")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored output.")
	fs.StringVar(&config.Theme, "theme", ui.ThemeDark, "Color theme: dark, light or none.")
	fs.StringVar(&config.LogLevel, "log-level", "info", "Log level: debug, info, warn, error.")
	fs.StringVar(&config.Completion, "completion", "", "Print a shell completion script (bash, zsh, fish).")

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}
	if fs.NArg() > 0 {
		return AppConfig{}, apperrors.NewConfigError("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	applyEnvOverrides(&config, fs)

	if err := config.Validate(availableBackends); err != nil {
		fmt.Fprintln(errWriter, "Configuration error:", err)
		return AppConfig{}, err
	}
	return config, nil
}

// Validate checks the semantic consistency of the configuration.
func (c AppConfig) Validate(availableBackends []string) error {
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("timeout value must be strictly positive")
	}
	if c.Parallelism < 0 {
		return apperrors.NewConfigError("parallel must be zero or positive, got %d", c.Parallelism)
	}
	if c.MediumTerms < 1 || c.LongTerms < 1 {
		return apperrors.NewConfigError("term counts must be at least 1")
	}
	if c.MediumTerms > MaxTerms || c.LongTerms > MaxTerms {
		return apperrors.NewConfigError("term counts must be at most %d", MaxTerms)
	}
	if c.FactorialN > MaxFactorialN {
		return apperrors.NewConfigError("factsum-n must be at most %d, got %d", MaxFactorialN, c.FactorialN)
	}
	if _, ok := ui.ThemeByName(c.Theme); !ok && c.Theme != "" {
		return apperrors.NewConfigError("unknown theme %q (want dark, light or none)", c.Theme)
	}
	if c.FibN > MaxFibN {
		return apperrors.NewConfigError("fib-n must be at most %d, got %d", MaxFibN, c.FibN)
	}
	if c.Backend != BackendAll && !slices.Contains(availableBackends, c.Backend) {
		return apperrors.NewConfigError("unrecognized backend: '%s'. Valid backends are: %s or %s",
			c.Backend, BackendAll, strings.Join(availableBackends, ", "))
	}
	modes := 0
	for _, on := range []bool{c.Expr != "", c.Bench, c.TUI, c.Serve != ""} {
		if on {
			modes++
		}
	}
	if modes > 1 {
		return apperrors.NewConfigError("--expr, --bench, --tui and --serve are mutually exclusive")
	}
	return nil
}
