package expr

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownEvaluator is returned by Factory.Get for unregistered names.
var ErrUnknownEvaluator = errors.New("unknown evaluator")

// Factory is a registry of evaluator constructors keyed by name.
type Factory struct {
	mu       sync.RWMutex
	creators map[string]func() Evaluator
}

// NewFactory returns an empty factory.
func NewFactory() *Factory {
	return &Factory{creators: make(map[string]func() Evaluator)}
}

// NewDefaultFactory returns a factory with every built-in evaluator
// registered.
func NewDefaultFactory() *Factory {
	f := NewFactory()
	f.Register("govaluate", func() Evaluator { return NewGovaluate() })
	f.Register("goconst", func() Evaluator { return NewConstEvaluator() })
	return f
}

// Register adds or replaces a constructor.
func (f *Factory) Register(name string, create func() Evaluator) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creators[name] = create
}

// List returns the registered names in sorted order.
func (f *Factory) List() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	names := make([]string, 0, len(f.creators))
	for name := range f.creators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns a new evaluator registered under name.
func (f *Factory) Get(name string) (Evaluator, error) {
	f.mu.RLock()
	create, ok := f.creators[name]
	f.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownEvaluator, name, f.List())
	}
	return create(), nil
}

// MustGet is like Get but panics on unknown names. Intended for tests and
// static wiring.
func (f *Factory) MustGet(name string) Evaluator {
	ev, err := f.Get(name)
	if err != nil {
		panic(err)
	}
	return ev
}
