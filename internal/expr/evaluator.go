// Package expr provides the arithmetic expression evaluators used by the
// calculator engine and compared by the benchmark harness.
package expr

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrNotNumeric is returned when an expression evaluates to something
	// other than a number (a comparison, for instance).
	ErrNotNumeric = errors.New("expression result is not numeric")
	// ErrNonFinite is returned when the result is infinite or NaN.
	ErrNonFinite = errors.New("expression result is not finite")
	// ErrDivisionByZero is returned when a divisor folds to zero.
	ErrDivisionByZero = errors.New("division by zero")
	// ErrSyntax is returned for malformed arithmetic.
	ErrSyntax = errors.New("syntax error")
	// ErrUnsupported is returned for syntax outside plain arithmetic.
	ErrUnsupported = errors.New("unsupported expression")
	// ErrEmpty is returned for blank input.
	ErrEmpty = errors.New("empty expression")
)

// Evaluator turns arithmetic text into a float64. Implementations are
// stateless and safe for concurrent use.
type Evaluator interface {
	// Name returns the registry key of the implementation.
	Name() string
	// Evaluate computes the value of text.
	Evaluate(text string) (float64, error)
}

// checkFinite rejects NaN and infinite results.
func checkFinite(v float64) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %v", ErrNonFinite, v)
	}
	return v, nil
}
