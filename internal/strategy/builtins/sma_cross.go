// Package builtins provides the signal-generation rules that ship with
// vantage.
package builtins

import (
	"fmt"
	"math"

	"vantage/internal/domain"
	"vantage/internal/indicator"
	"vantage/internal/strategy"
)

// Compile-time interface check.
var _ strategy.Strategy = (*SMACross)(nil)

// SMACross is a moving-average crossover rule. It emits Buy when the fast
// SMA crosses above the slow SMA (golden cross) and Sell when it crosses
// below (death cross). Signals fire only on the crossing transition, never
// on steady-state relative position, so each cross produces exactly one
// signal.
type SMACross struct {
	fastPeriod int
	slowPeriod int
}

// NewSMACross creates an SMACross rule with the given fast and slow periods.
func NewSMACross(fast, slow int) *SMACross {
	return &SMACross{
		fastPeriod: fast,
		slowPeriod: slow,
	}
}

// Name returns "sma-cross".
func (s *SMACross) Name() string {
	return "sma-cross"
}

// Validate checks that both periods are positive and that the fast period is
// strictly shorter than the slow one.
func (s *SMACross) Validate() error {
	if s.fastPeriod <= 0 {
		return &domain.InvalidConfigurationError{
			Field:  "fast_ma_period",
			Reason: fmt.Sprintf("must be positive, got %d", s.fastPeriod),
		}
	}
	if s.slowPeriod <= 0 {
		return &domain.InvalidConfigurationError{
			Field:  "slow_ma_period",
			Reason: fmt.Sprintf("must be positive, got %d", s.slowPeriod),
		}
	}
	if s.fastPeriod >= s.slowPeriod {
		return &domain.InvalidConfigurationError{
			Field:  "fast_ma_period",
			Reason: fmt.Sprintf("must be below slow_ma_period (%d >= %d)", s.fastPeriod, s.slowPeriod),
		}
	}
	return nil
}

// Indicators returns the fast and slow SMA specs.
func (s *SMACross) Indicators() []indicator.Spec {
	return []indicator.Spec{
		{Kind: indicator.KindSMA, Period: s.fastPeriod},
		{Kind: indicator.KindSMA, Period: s.slowPeriod},
	}
}

// Signals emits Buy on each golden cross and Sell on each death cross,
// comparing the relative position of the two averages at i-1 and i.
func (s *SMACross) Signals(series domain.Series, set indicator.Set) ([]domain.SignalType, error) {
	fast, ok := set[indicator.Spec{Kind: indicator.KindSMA, Period: s.fastPeriod}.Key()]
	if !ok {
		return nil, fmt.Errorf("sma-cross: missing sma_%d in indicator set", s.fastPeriod)
	}
	slow, ok := set[indicator.Spec{Kind: indicator.KindSMA, Period: s.slowPeriod}.Key()]
	if !ok {
		return nil, fmt.Errorf("sma-cross: missing sma_%d in indicator set", s.slowPeriod)
	}

	signals := make([]domain.SignalType, series.Len())
	for i := 1; i < series.Len(); i++ {
		if math.IsNaN(fast[i-1]) || math.IsNaN(slow[i-1]) || math.IsNaN(fast[i]) || math.IsNaN(slow[i]) {
			continue
		}
		switch {
		case fast[i-1] <= slow[i-1] && fast[i] > slow[i]:
			signals[i] = domain.Buy
		case fast[i-1] >= slow[i-1] && fast[i] < slow[i]:
			signals[i] = domain.Sell
		}
	}
	return signals, nil
}
