package expr

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Knetic/govaluate"
)

// leadingDot matches a number literal written without its integer part,
// such as ".45", which govaluate does not accept.
var leadingDot = regexp.MustCompile(`(^|[^0-9.])\.([0-9])`)

// GovaluateEvaluator evaluates expressions with github.com/Knetic/govaluate.
// Expressions are compiled and evaluated without parameters, so any
// identifier in the text is an error.
type GovaluateEvaluator struct{}

// NewGovaluate returns the govaluate-backed evaluator.
func NewGovaluate() *GovaluateEvaluator {
	return &GovaluateEvaluator{}
}

// Name returns "govaluate".
func (*GovaluateEvaluator) Name() string { return "govaluate" }

// Evaluate compiles and evaluates text. govaluate panics on some malformed
// input (array literals among them); those panics come back as ErrSyntax.
func (*GovaluateEvaluator) Evaluate(text string) (value float64, err error) {
	if strings.TrimSpace(text) == "" {
		return 0, ErrEmpty
	}
	defer func() {
		if r := recover(); r != nil {
			value, err = 0, fmt.Errorf("%w: %v", ErrSyntax, r)
		}
	}()

	compiled, err := govaluate.NewEvaluableExpression(normalizeLiterals(text))
	if err != nil {
		return 0, fmt.Errorf("compile expression: %w", err)
	}
	result, err := compiled.Evaluate(nil)
	if err != nil {
		return 0, fmt.Errorf("evaluate expression: %w", err)
	}
	v, ok := result.(float64)
	if !ok {
		return 0, fmt.Errorf("%w: got %T", ErrNotNumeric, result)
	}
	return checkFinite(v)
}

// normalizeLiterals rewrites ".5" as "0.5".
func normalizeLiterals(text string) string {
	return leadingDot.ReplaceAllString(text, "${1}0.$2")
}
