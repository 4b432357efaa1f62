package orchestration

import (
	"fmt"
	"strings"

	"github.com/agbru/calcbench/internal/config"
)

// CaseKind selects what a benchmark case exercises.
type CaseKind int

const (
	// KindExpression evaluates Case.Expr through a calculator engine.
	KindExpression CaseKind = iota
	// KindFactorialSum runs workload.CumulativeFactorialSum(Case.N).
	KindFactorialSum
	// KindFibonacci runs workload.RecursiveFibonacci(Case.N).
	KindFibonacci
)

func (k CaseKind) String() string {
	switch k {
	case KindExpression:
		return "expression"
	case KindFactorialSum:
		return "factsum"
	case KindFibonacci:
		return "fib"
	}
	return fmt.Sprintf("CaseKind(%d)", int(k))
}

// MarshalText renders the kind by name in reports.
func (k CaseKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Case is one row of the benchmark table.
type Case struct {
	Name string   `json:"name" yaml:"name"`
	Kind CaseKind `json:"kind" yaml:"kind"`
	Expr string   `json:"-" yaml:"-"`
	N    uint     `json:"n,omitempty" yaml:"n,omitempty"`
}

// Describe returns a short human description of the input.
func (c Case) Describe() string {
	switch c.Kind {
	case KindExpression:
		if len(c.Expr) > 24 {
			return fmt.Sprintf("%d chars", len(c.Expr))
		}
		return c.Expr
	case KindFactorialSum:
		return fmt.Sprintf("Σ i! for i ≤ %d", c.N)
	case KindFibonacci:
		return fmt.Sprintf("fib(%d)", c.N)
	}
	return ""
}

// ShortExpression is the mixed-precedence expression of the "short" case.
const ShortExpression = "1+2+3*4-5/2"

// RepeatTerm joins count copies of term with "+".
func RepeatTerm(term string, count int) string {
	if count <= 0 {
		return ""
	}
	var sb strings.Builder
	sb.Grow(count * (len(term) + 1))
	for i := range count {
		if i > 0 {
			sb.WriteByte('+')
		}
		sb.WriteString(term)
	}
	return sb.String()
}

// DefaultCases builds the standard suite from the configuration: short,
// medium and long expressions, then the factorial-sum and Fibonacci
// workloads.
func DefaultCases(cfg config.AppConfig) []Case {
	return []Case{
		{Name: "short", Kind: KindExpression, Expr: ShortExpression},
		{Name: "medium", Kind: KindExpression, Expr: RepeatTerm("8*8", cfg.MediumTerms)},
		{Name: "long", Kind: KindExpression, Expr: RepeatTerm("9*9", cfg.LongTerms)},
		{Name: "heavy", Kind: KindFactorialSum, N: cfg.FactorialN},
		{Name: "fib", Kind: KindFibonacci, N: cfg.FibN},
	}
}
