//go:generate mockgen -destination=mocks/mock_evaluator.go -package=mocks github.com/agbru/calcbench/internal/calculator Evaluator

package calculator

import (
	"errors"
	"math"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/agbru/calcbench/internal/expr"
)

// ErrComputation is the error form of the engine's NaN state, for callers
// that need to report it as a Go error.
var ErrComputation = errors.New("computation error")

// errorDisplay is what GetValue returns while the engine holds NaN.
const errorDisplay = "Error"

// Evaluator evaluates arithmetic text to a number. It is the external
// collaborator behind EvaluateExpression.
type Evaluator interface {
	Evaluate(text string) (float64, error)
}

// Option configures an Engine during construction.
type Option func(*Engine)

// WithEvaluator sets the evaluator used by EvaluateExpression.
func WithEvaluator(ev Evaluator) Option {
	return func(e *Engine) {
		if ev != nil {
			e.evaluator = ev
		}
	}
}

// WithLogger sets the logger used to trace evaluation failures.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// Engine is the calculator state machine. The zero value is not usable;
// construct engines with New. An Engine is owned by a single caller and is
// not safe for concurrent use.
type Engine struct {
	current       float64
	stored        float64
	hasStored     bool
	pending       Operation
	hasPending    bool
	hasDecimal    bool
	decimalPlaces uint
	expression    string

	evaluator Evaluator
	logger    zerolog.Logger
}

// New returns an engine in the cleared state.
func New(opts ...Option) *Engine {
	e := &Engine{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(e)
	}
	if e.evaluator == nil {
		e.evaluator = expr.NewGovaluate()
	}
	return e
}

// SetLogger replaces the engine logger.
func (e *Engine) SetLogger(l zerolog.Logger) {
	e.logger = l
}

// InputDigit appends a digit to the value being typed. Values outside 0..9
// are clamped. After a decimal point each digit is added as the next
// fractional place, so the value is a running sum and may carry binary
// rounding noise that GetValue rounds away.
func (e *Engine) InputDigit(d int) {
	d = min(max(d, 0), 9)
	if e.hasDecimal {
		e.decimalPlaces++
		e.current += float64(d) / math.Pow(10, float64(e.decimalPlaces))
	} else {
		e.current = e.current*10 + float64(d)
	}
	e.expression += strconv.Itoa(d)
}

// InputDecimal starts the fractional part of the value being typed. It is a
// no-op when a decimal point was already entered.
func (e *Engine) InputDecimal() {
	if e.hasDecimal {
		return
	}
	e.hasDecimal = true
	e.decimalPlaces = 0
	e.expression += "."
}

// Clear returns the engine to its construction state.
func (e *Engine) Clear() {
	e.current = 0
	e.stored = 0
	e.hasStored = false
	e.pending = OpEquals
	e.hasPending = false
	e.hasDecimal = false
	e.decimalPlaces = 0
	e.expression = ""
}

// ToggleSign negates the current value.
func (e *Engine) ToggleSign() {
	e.current = -e.current
	e.expression = "(-" + e.expression + ")"
}

// Percent divides the current value by 100.
func (e *Engine) Percent() {
	e.current /= 100
	e.expression += "%"
}

// PerformOperation applies op. Unary operations act on the current value
// immediately; binary operations collapse any pending operation first and
// then wait for their right operand.
func (e *Engine) PerformOperation(op Operation) {
	switch op {
	case OpEquals:
		e.Calculate()
		e.expression = FormatNumber(e.current)
	case OpSqrt:
		e.current = math.Sqrt(e.current)
		e.expression = "√(" + e.expression + ")"
	case OpSquare:
		e.current = math.Pow(e.current, 2)
		e.expression = "(" + e.expression + ")²"
	case OpMod:
		if e.hasStored {
			e.current = math.Mod(e.stored, e.current)
			e.clearPending()
		}
	case OpExp:
		e.current = math.Exp(e.current)
		e.expression = "e^(" + e.expression + ")"
	case OpLn:
		e.current = math.Log(e.current)
		e.expression = "ln(" + e.expression + ")"
	case OpLog:
		e.current = math.Log10(e.current)
		e.expression = "log(" + e.expression + ")"
	case OpAdd, OpSubtract, OpMultiply, OpDivide:
		e.beginBinary(op)
	}
}

func (e *Engine) beginBinary(op Operation) {
	if e.hasPending {
		e.Calculate()
	}
	e.stored, e.hasStored = e.current, true
	e.pending, e.hasPending = op, true
	e.expression += " " + op.String() + " "

	// NaN survives the entry reset so the error stays visible until Clear.
	if !math.IsNaN(e.current) {
		e.current = 0
	}
	e.hasDecimal = false
	e.decimalPlaces = 0
}

// Calculate resolves the pending binary operation, if any, into the current
// value. Division by zero yields NaN.
func (e *Engine) Calculate() {
	if !e.hasStored || !e.hasPending {
		return
	}
	switch e.pending {
	case OpAdd:
		e.current = e.stored + e.current
	case OpSubtract:
		e.current = e.stored - e.current
	case OpMultiply:
		e.current = e.stored * e.current
	case OpDivide:
		if e.current == 0 {
			e.current = math.NaN()
		} else {
			e.current = e.stored / e.current
		}
	}
	e.clearPending()
}

func (e *Engine) clearPending() {
	e.stored = 0
	e.hasStored = false
	e.pending = OpEquals
	e.hasPending = false
}

// EvaluateExpression replaces the current value with the result of
// evaluating text. Evaluation failures put the engine in the error state.
// The call is ignored while the engine is already in the error state.
func (e *Engine) EvaluateExpression(text string) {
	if e.Failed() {
		return
	}
	v, err := e.evaluator.Evaluate(text)
	if err != nil {
		e.logger.Debug().Err(err).Int("length", len(text)).Msg("expression evaluation failed")
		e.current = math.NaN()
		return
	}
	e.current = v
}

// GetValue returns the display form of the current value: "Error" in the
// error state, otherwise the value rounded to the number of decimal places
// typed so far.
func (e *Engine) GetValue() string {
	if math.IsNaN(e.current) {
		return errorDisplay
	}
	v := e.current
	if e.hasDecimal {
		factor := math.Pow(10, float64(e.decimalPlaces))
		v = math.Round(v*factor) / factor
	}
	return FormatNumber(v)
}

// GetExpression returns the accumulated display expression.
func (e *Engine) GetExpression() string {
	return e.expression
}

// Value returns the raw current value.
func (e *Engine) Value() float64 {
	return e.current
}

// Pending returns the pending binary operation and its left operand.
func (e *Engine) Pending() (Operation, float64, bool) {
	if !e.hasPending || !e.hasStored {
		return OpEquals, 0, false
	}
	return e.pending, e.stored, true
}

// Failed reports whether the engine is in the error state.
func (e *Engine) Failed() bool {
	return math.IsNaN(e.current)
}
