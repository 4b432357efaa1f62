package orchestration

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/agbru/calcbench/internal/calculator"
	"github.com/agbru/calcbench/internal/config"
	"github.com/agbru/calcbench/internal/expr"
	"github.com/agbru/calcbench/internal/workload"
)

// ErrUnknownCaseKind is returned for a Case with an undeclared kind.
var ErrUnknownCaseKind = errors.New("unknown case kind")

// Backend runs benchmark cases. Implementations must be safe for
// concurrent use; each Run owns whatever state it creates.
type Backend interface {
	Name() string
	Run(ctx context.Context, c Case) (float64, error)
}

// EngineBackend evaluates expression cases through a fresh calculator
// engine wired to its evaluator, and runs workload cases directly.
type EngineBackend struct {
	evaluator expr.Evaluator
	logger    zerolog.Logger
}

// NewEngineBackend returns a backend named after ev.
func NewEngineBackend(ev expr.Evaluator) *EngineBackend {
	return &EngineBackend{evaluator: ev, logger: zerolog.Nop()}
}

// SetLogger sets the logger handed to each engine.
func (b *EngineBackend) SetLogger(l zerolog.Logger) {
	b.logger = l
}

// Name returns the evaluator name.
func (b *EngineBackend) Name() string { return b.evaluator.Name() }

// Run executes c. An engine left in the error state is reported as
// calculator.ErrComputation.
func (b *EngineBackend) Run(ctx context.Context, c Case) (float64, error) {
	switch c.Kind {
	case KindExpression:
		v, err := workload.Run(ctx, func() float64 {
			engine := calculator.New(
				calculator.WithEvaluator(b.evaluator),
				calculator.WithLogger(b.logger.With().Str("case", c.Name).Logger()),
			)
			engine.Clear()
			engine.EvaluateExpression(c.Expr)
			return engine.Value()
		})
		if err != nil {
			return 0, err
		}
		if math.IsNaN(v) {
			return 0, fmt.Errorf("case %q: %w", c.Name, calculator.ErrComputation)
		}
		return v, nil

	case KindFactorialSum:
		return workload.Run(ctx, func() float64 {
			return workload.CumulativeFactorialSum(c.N)
		})

	case KindFibonacci:
		v, err := workload.Run(ctx, func() uint {
			return workload.RecursiveFibonacci(c.N)
		})
		return float64(v), err
	}
	return 0, fmt.Errorf("%w: %v", ErrUnknownCaseKind, c.Kind)
}

// BackendsFor returns the backends selected by name, or one per registered
// evaluator (in sorted order) for config.BackendAll. Unknown names yield
// nil.
func BackendsFor(selection string, factory *expr.Factory) []Backend {
	if selection == config.BackendAll {
		names := factory.List()
		backends := make([]Backend, 0, len(names))
		for _, name := range names {
			if ev, err := factory.Get(name); err == nil {
				backends = append(backends, NewEngineBackend(ev))
			}
		}
		return backends
	}
	if ev, err := factory.Get(selection); err == nil {
		return []Backend{NewEngineBackend(ev)}
	}
	return nil
}

type funcBackend struct {
	name string
	fn   func(ctx context.Context, c Case) (float64, error)
}

func (f funcBackend) Name() string { return f.name }

func (f funcBackend) Run(ctx context.Context, c Case) (float64, error) { return f.fn(ctx, c) }

// BackendFunc adapts a function to the Backend interface.
func BackendFunc(name string, fn func(ctx context.Context, c Case) (float64, error)) Backend {
	return funcBackend{name: name, fn: fn}
}
