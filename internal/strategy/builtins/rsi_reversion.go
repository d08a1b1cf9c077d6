package builtins

import (
	"fmt"
	"math"

	"vantage/internal/domain"
	"vantage/internal/indicator"
	"vantage/internal/strategy"
)

// Compile-time interface check.
var _ strategy.Strategy = (*RSIReversion)(nil)

// RSIReversion is a mean-reversion rule: it buys oversold dips above a
// long-term trend filter and sells when momentum turns overbought. Buy fires
// when RSI drops below the buy threshold while the close sits above the
// trend-filter SMA; Sell fires when RSI rises above the sell threshold.
type RSIReversion struct {
	rsiPeriod     int
	buyThreshold  float64
	sellThreshold float64
	trendPeriod   int
}

// NewRSIReversion creates an RSIReversion rule. The conventional defaults
// are period 14, thresholds 30/70, and a 50-bar trend filter.
func NewRSIReversion(rsiPeriod int, buyThreshold, sellThreshold float64, trendPeriod int) *RSIReversion {
	return &RSIReversion{
		rsiPeriod:     rsiPeriod,
		buyThreshold:  buyThreshold,
		sellThreshold: sellThreshold,
		trendPeriod:   trendPeriod,
	}
}

// Name returns "rsi-reversion".
func (s *RSIReversion) Name() string {
	return "rsi-reversion"
}

// Validate checks periods are positive and thresholds are ordered inside
// (0, 100).
func (s *RSIReversion) Validate() error {
	if s.rsiPeriod <= 0 {
		return &domain.InvalidConfigurationError{
			Field:  "rsi_period",
			Reason: fmt.Sprintf("must be positive, got %d", s.rsiPeriod),
		}
	}
	if s.trendPeriod <= 0 {
		return &domain.InvalidConfigurationError{
			Field:  "trend_filter_period",
			Reason: fmt.Sprintf("must be positive, got %d", s.trendPeriod),
		}
	}
	if s.buyThreshold <= 0 || s.buyThreshold >= 100 {
		return &domain.InvalidConfigurationError{
			Field:  "rsi_buy_threshold",
			Reason: fmt.Sprintf("must be inside (0, 100), got %g", s.buyThreshold),
		}
	}
	if s.sellThreshold <= 0 || s.sellThreshold >= 100 {
		return &domain.InvalidConfigurationError{
			Field:  "rsi_sell_threshold",
			Reason: fmt.Sprintf("must be inside (0, 100), got %g", s.sellThreshold),
		}
	}
	if s.buyThreshold >= s.sellThreshold {
		return &domain.InvalidConfigurationError{
			Field:  "rsi_buy_threshold",
			Reason: fmt.Sprintf("must be below rsi_sell_threshold (%g >= %g)", s.buyThreshold, s.sellThreshold),
		}
	}
	return nil
}

// Indicators returns the RSI and trend-filter SMA specs.
func (s *RSIReversion) Indicators() []indicator.Spec {
	return []indicator.Spec{
		{Kind: indicator.KindRSI, Period: s.rsiPeriod},
		{Kind: indicator.KindSMA, Period: s.trendPeriod},
	}
}

// Signals emits Buy where RSI < buyThreshold and close > trend SMA, Sell
// where RSI > sellThreshold, and Hold elsewhere. Bars where either indicator
// is still warming up are Hold, so nothing fires before both are defined.
func (s *RSIReversion) Signals(series domain.Series, set indicator.Set) ([]domain.SignalType, error) {
	rsi, ok := set[indicator.Spec{Kind: indicator.KindRSI, Period: s.rsiPeriod}.Key()]
	if !ok {
		return nil, fmt.Errorf("rsi-reversion: missing rsi_%d in indicator set", s.rsiPeriod)
	}
	trend, ok := set[indicator.Spec{Kind: indicator.KindSMA, Period: s.trendPeriod}.Key()]
	if !ok {
		return nil, fmt.Errorf("rsi-reversion: missing sma_%d in indicator set", s.trendPeriod)
	}

	signals := make([]domain.SignalType, series.Len())
	for i := 0; i < series.Len(); i++ {
		if math.IsNaN(rsi[i]) || math.IsNaN(trend[i]) {
			continue
		}
		switch {
		case rsi[i] > s.sellThreshold:
			signals[i] = domain.Sell
		case rsi[i] < s.buyThreshold && series.Bars[i].Close > trend[i]:
			signals[i] = domain.Buy
		}
	}
	return signals, nil
}
