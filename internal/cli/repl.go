package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"
	"github.com/rs/zerolog"

	"github.com/agbru/calcbench/internal/calculator"
	"github.com/agbru/calcbench/internal/config"
	apperrors "github.com/agbru/calcbench/internal/errors"
	"github.com/agbru/calcbench/internal/expr"
	"github.com/agbru/calcbench/internal/orchestration"
	"github.com/agbru/calcbench/internal/ui"
	"github.com/agbru/calcbench/internal/workload"
)

// REPLConfig holds configuration for the REPL session.
type REPLConfig struct {
	// Backend is the evaluator used by the engine and by "eval".
	Backend string
	// Timeout bounds each workload and benchmark run.
	Timeout time.Duration
	// Bench configures the suite run by the "bench" command.
	Bench config.AppConfig
	// Logger is handed to the engine.
	Logger zerolog.Logger
}

// REPL is an interactive session around one calculator engine. Each input
// line is either a command or a sequence of keys.
type REPL struct {
	config  REPLConfig
	factory *expr.Factory
	engine  *calculator.Engine
	backend string
	in      io.Reader
	out     io.Writer
}

// replCommands are the words accepted as the first token of a line, used
// for "did you mean" suggestions together with the operation tokens.
var replCommands = []string{
	"eval", "bench", "fib", "factsum", "backend", "status", "help", "exit", "quit",
	"clear", "neg", "%", ".",
}

// NewREPL creates a REPL whose engine uses the configured backend, or the
// first registered evaluator when the backend is empty or "all".
func NewREPL(factory *expr.Factory, cfg REPLConfig) *REPL {
	backend := cfg.Backend
	if _, err := factory.Get(backend); err != nil {
		backend = ""
		if names := factory.List(); len(names) > 0 {
			backend = names[0]
		}
	}
	r := &REPL{
		config:  cfg,
		factory: factory,
		in:      os.Stdin,
		out:     os.Stdout,
	}
	r.useBackend(backend)
	return r
}

// SetInput sets a custom input reader.
func (r *REPL) SetInput(in io.Reader) {
	r.in = in
}

// SetOutput sets a custom output writer.
func (r *REPL) SetOutput(out io.Writer) {
	r.out = out
}

// Engine returns the session's engine.
func (r *REPL) Engine() *calculator.Engine {
	return r.engine
}

func (r *REPL) useBackend(name string) {
	opts := []calculator.Option{calculator.WithLogger(r.config.Logger)}
	if ev, err := r.factory.Get(name); err == nil {
		opts = append(opts, calculator.WithEvaluator(ev))
	}
	r.backend = name
	r.engine = calculator.New(opts...)
}

// Start reads lines until "exit" or EOF.
func (r *REPL) Start() {
	r.printBanner()
	r.printHelp()
	fmt.Fprintln(r.out)

	scanner := bufio.NewScanner(r.in)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for {
		fmt.Fprint(r.out, ui.ColorGreen()+"calc> "+ui.ColorReset())
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				fmt.Fprintf(r.out, "%sRead error: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
			}
			fmt.Fprintln(r.out, "\nGoodbye!")
			return
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if !r.ProcessLine(input) {
			return
		}
	}
}

func (r *REPL) printBanner() {
	fmt.Fprintf(r.out, "\n%s╔══════════════════════════════════════════════════════════╗%s\n", ui.ColorCyan(), ui.ColorReset())
	fmt.Fprintf(r.out, "%s║%s          %sCalculator - Interactive Mode%s                   %s║%s\n",
		ui.ColorCyan(), ui.ColorReset(), ui.ColorBold(), ui.ColorReset(), ui.ColorCyan(), ui.ColorReset())
	fmt.Fprintf(r.out, "%s╚══════════════════════════════════════════════════════════╝%s\n\n", ui.ColorCyan(), ui.ColorReset())
}

func (r *REPL) printHelp() {
	y, rs := ui.ColorYellow(), ui.ColorReset()
	fmt.Fprintf(r.out, "%sKeys%s (space separated, several per line):\n", ui.ColorBold(), rs)
	fmt.Fprintf(r.out, "  %s0-9 .%s            - Enter digits and the decimal point (e.g. 12.5)\n", y, rs)
	fmt.Fprintf(r.out, "  %s+ - * / =%s        - Binary operators and equals\n", y, rs)
	fmt.Fprintf(r.out, "  %ssqrt square ln log exp mod%s - Functions of the current value\n", y, rs)
	fmt.Fprintf(r.out, "  %sneg %% clear%s       - Toggle sign, percent, reset\n", y, rs)
	fmt.Fprintf(r.out, "%sCommands:%s\n", ui.ColorBold(), rs)
	fmt.Fprintf(r.out, "  %seval <expr>%s      - Evaluate an expression with the current backend\n", y, rs)
	fmt.Fprintf(r.out, "  %sbench%s            - Run the benchmark suite on all backends\n", y, rs)
	fmt.Fprintf(r.out, "  %sfib <n>%s          - Recursive Fibonacci\n", y, rs)
	fmt.Fprintf(r.out, "  %sfactsum <n>%s      - Sum of factorials 1! to n!\n", y, rs)
	fmt.Fprintf(r.out, "  %sbackend <name>%s   - Switch evaluator (%s)\n", y, rs, strings.Join(r.factory.List(), ", "))
	fmt.Fprintf(r.out, "  %sstatus%s           - Display the calculator state\n", y, rs)
	fmt.Fprintf(r.out, "  %shelp%s             - Display this help\n", y, rs)
	fmt.Fprintf(r.out, "  %sexit%s / %squit%s      - Exit interactive mode\n", y, rs, y, rs)
}

// ProcessLine executes one input line. It returns false when the session
// should end.
func (r *REPL) ProcessLine(input string) bool {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return true
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "eval":
		r.cmdEval(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(input), parts[0])))
		return true
	case "bench":
		r.cmdBench()
		return true
	case "fib":
		r.cmdWorkload("fib", args, func(n uint) float64 { return float64(workload.RecursiveFibonacci(n)) })
		return true
	case "factsum":
		r.cmdWorkload("factsum", args, workload.CumulativeFactorialSum)
		return true
	case "backend":
		r.cmdBackend(args)
		return true
	case "status":
		r.cmdStatus()
		return true
	case "help", "h", "?":
		r.printHelp()
		return true
	case "exit", "quit", "q":
		fmt.Fprintf(r.out, "%sGoodbye!%s\n", ui.ColorGreen(), ui.ColorReset())
		return false
	}

	for _, tok := range parts {
		if !r.pressKey(tok) {
			r.unknown(tok)
			return true
		}
	}
	r.printDisplay()
	return true
}

// pressKey applies one key token to the engine. Numbers such as "12.5"
// are typed digit by digit.
func (r *REPL) pressKey(tok string) bool {
	switch strings.ToLower(tok) {
	case "clear", "c", "ac":
		r.engine.Clear()
		return true
	case "neg", "+/-":
		r.engine.ToggleSign()
		return true
	case "%":
		r.engine.Percent()
		return true
	}
	if isNumberToken(tok) {
		for _, ch := range tok {
			if ch == '.' {
				r.engine.InputDecimal()
			} else {
				r.engine.InputDigit(int(ch - '0'))
			}
		}
		return true
	}
	if op, err := calculator.ParseOperation(strings.ToLower(tok)); err == nil {
		r.engine.PerformOperation(op)
		return true
	}
	return false
}

func isNumberToken(tok string) bool {
	for _, ch := range tok {
		if (ch < '0' || ch > '9') && ch != '.' {
			return false
		}
	}
	return tok != ""
}

// Suggest returns the known command or key closest to word, or "" when
// nothing is within two edits.
func Suggest(word string) string {
	candidates := append([]string(nil), replCommands...)
	for _, op := range calculator.Operations() {
		candidates = append(candidates, op.String())
	}
	best, bestDist := "", 3
	for _, c := range candidates {
		if d := levenshtein.ComputeDistance(strings.ToLower(word), c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

func (r *REPL) unknown(tok string) {
	fmt.Fprintf(r.out, "%sUnknown command: %s%s\n", ui.ColorRed(), tok, ui.ColorReset())
	if s := Suggest(tok); s != "" && len(tok) > 1 {
		fmt.Fprintf(r.out, "Did you mean %s%s%s?\n", ui.ColorYellow(), s, ui.ColorReset())
		return
	}
	fmt.Fprintf(r.out, "Type %shelp%s to see available commands.\n", ui.ColorYellow(), ui.ColorReset())
}

func (r *REPL) printDisplay() {
	if e := r.engine.GetExpression(); e != "" {
		fmt.Fprintf(r.out, "%s%s%s\n", ui.ColorGrey(), e, ui.ColorReset())
	}
	color := ui.ColorCyan()
	if r.engine.Failed() {
		color = ui.ColorRed()
	}
	fmt.Fprintf(r.out, "%s%s%s\n", color, r.engine.GetValue(), ui.ColorReset())
}

// cmdEval clears the engine and evaluates text.
func (r *REPL) cmdEval(text string) {
	if text == "" {
		fmt.Fprintf(r.out, "%sUsage: eval <expression>%s\n", ui.ColorRed(), ui.ColorReset())
		return
	}
	r.engine.Clear()
	start := time.Now()
	r.engine.EvaluateExpression(text)
	duration := time.Since(start)
	r.printDisplay()
	fmt.Fprintf(r.out, "%s(%s, %s)%s\n", ui.ColorGrey(), r.backend, displayDuration(duration), ui.ColorReset())
}

func (r *REPL) cmdWorkload(name string, args []string, fn func(uint) float64) {
	if len(args) == 0 {
		fmt.Fprintf(r.out, "%sUsage: %s <n>%s\n", ui.ColorRed(), name, ui.ColorReset())
		return
	}
	n, err := strconv.ParseUint(args[0], 10, 0)
	if err != nil {
		fmt.Fprintf(r.out, "%sInvalid value: %s%s\n", ui.ColorRed(), args[0], ui.ColorReset())
		return
	}
	if name == "fib" && n > config.MaxFibN {
		fmt.Fprintf(r.out, "%sfib is limited to n ≤ %d%s\n", ui.ColorRed(), config.MaxFibN, ui.ColorReset())
		return
	}
	if name == "factsum" && n > config.MaxFactorialN {
		fmt.Fprintf(r.out, "%sfactsum is limited to n ≤ %d%s\n", ui.ColorRed(), config.MaxFactorialN, ui.ColorReset())
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.config.Timeout)
	defer cancel()

	start := time.Now()
	v, err := workload.Run(ctx, func() float64 { return fn(uint(n)) })
	duration := time.Since(start)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = apperrors.TimeoutError{Operation: fmt.Sprintf("%s(%d)", name, n), Limit: r.config.Timeout}
		}
		fmt.Fprintf(r.out, "%sError: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
		return
	}
	fmt.Fprintf(r.out, "%s(%d) = %s%s%s %s(%s)%s\n", name, n,
		ui.ColorCyan(), calculator.FormatNumber(v), ui.ColorReset(),
		ui.ColorGrey(), displayDuration(duration), ui.ColorReset())
}

func (r *REPL) cmdBench() {
	backends := orchestration.BackendsFor(config.BackendAll, r.factory)
	cases := orchestration.DefaultCases(r.config.Bench)

	ctx, cancel := context.WithTimeout(context.Background(), r.config.Timeout)
	defer cancel()

	opts := orchestration.Options{Parallelism: r.config.Bench.Parallelism}
	results := orchestration.ExecuteBenchmarks(ctx, backends, cases, opts, CLIProgressReporter{}, r.out)
	orchestration.AnalyzeComparisonResults(results, CLIResultPresenter{}, r.out)
	fmt.Fprintln(r.out)
}

func (r *REPL) cmdBackend(args []string) {
	if len(args) == 0 {
		fmt.Fprintf(r.out, "%sUsage: backend <name>%s\n", ui.ColorRed(), ui.ColorReset())
		return
	}
	name := strings.ToLower(args[0])
	if _, err := r.factory.Get(name); err != nil {
		fmt.Fprintf(r.out, "%sUnknown backend: %s%s\n", ui.ColorRed(), name, ui.ColorReset())
		fmt.Fprintf(r.out, "Available backends: %s\n", strings.Join(r.factory.List(), ", "))
		return
	}
	r.useBackend(name)
	fmt.Fprintf(r.out, "Backend changed to: %s%s%s (calculator cleared)\n", ui.ColorGreen(), name, ui.ColorReset())
}

func (r *REPL) cmdStatus() {
	fmt.Fprintf(r.out, "\n%sCurrent state:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  Backend:    %s%s%s\n", ui.ColorCyan(), r.backend, ui.ColorReset())
	fmt.Fprintf(r.out, "  Display:    %s%s%s\n", ui.ColorCyan(), r.engine.GetValue(), ui.ColorReset())
	pending := "none"
	if op, left, ok := r.engine.Pending(); ok {
		pending = fmt.Sprintf("%s %s", calculator.FormatNumber(left), op)
	}
	fmt.Fprintf(r.out, "  Pending:    %s%s%s\n", ui.ColorCyan(), pending, ui.ColorReset())
	fmt.Fprintf(r.out, "  Timeout:    %s%s%s\n", ui.ColorCyan(), r.config.Timeout, ui.ColorReset())
	fmt.Fprintln(r.out)
}
