// Package strategy defines the Strategy interface for signal-generation
// rules and provides a Registry for managing multiple implementations.
package strategy

import (
	"sort"

	"vantage/internal/domain"
	"vantage/internal/indicator"
)

// Strategy converts indicator values into one trading signal per bar. A
// strategy is stateless across runs: Signals depends only on its arguments
// and the rule's own configuration.
type Strategy interface {
	// Name returns the unique identifier for this strategy.
	Name() string

	// Validate checks the rule's configuration, returning an
	// InvalidConfigurationError when a parameter is out of range.
	Validate() error

	// Indicators returns the indicator instances the rule requires. The
	// backtester computes them once and passes the aligned set to Signals.
	Indicators() []indicator.Spec

	// Signals returns one signal per bar. Bars inside the warm-up window of
	// any required indicator are Hold.
	Signals(series domain.Series, set indicator.Set) ([]domain.SignalType, error)
}

// Registry holds a named collection of strategies for lookup and enumeration.
type Registry struct {
	strategies map[string]Strategy
}

// NewRegistry creates an empty strategy Registry.
func NewRegistry() *Registry {
	return &Registry{
		strategies: make(map[string]Strategy),
	}
}

// Register adds a strategy to the registry, keyed by its Name().
func (r *Registry) Register(s Strategy) {
	r.strategies[s.Name()] = s
}

// Get retrieves a strategy by name. The second return value indicates whether
// the strategy was found.
func (r *Registry) Get(name string) (Strategy, bool) {
	s, ok := r.strategies[name]
	return s, ok
}

// List returns a sorted slice of all registered strategy names.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.strategies))
	for name := range r.strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
