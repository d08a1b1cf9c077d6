// Package indicator computes technical indicators over price series. Every
// function is pure: the same input slice always yields bit-identical output,
// and the input is never modified. Warm-up bars, where an indicator has
// insufficient trailing history, hold NaN.
package indicator

import (
	"fmt"
	"math"

	"vantage/internal/domain"
)

// Kind identifies an indicator family.
type Kind string

const (
	KindSMA        Kind = "sma"
	KindRSI        Kind = "rsi"
	KindVolatility Kind = "volatility"
)

// Spec names one indicator instance: a family plus its period.
type Spec struct {
	Kind   Kind
	Period int
}

// Key returns the canonical name for the instance, e.g. "sma_20" or "rsi_14".
func (sp Spec) Key() string {
	return fmt.Sprintf("%s_%d", sp.Kind, sp.Period)
}

// Set maps indicator keys to value slices aligned with the bars of the series
// they were computed from.
type Set map[string][]float64

// Warmup returns the index of the first bar at which every indicator in the
// set has a defined value, or the series length if none ever does.
func (s Set) Warmup() int {
	warmup := 0
	for _, values := range s {
		first := len(values)
		for i, v := range values {
			if !math.IsNaN(v) {
				first = i
				break
			}
		}
		if first > warmup {
			warmup = first
		}
	}
	return warmup
}

// Compute evaluates every spec against the series and returns the aligned
// set. It fails atomically: any invalid period or insufficient history
// returns an error and no set.
func Compute(series domain.Series, specs []Spec) (Set, error) {
	closes := series.Closes()
	set := make(Set, len(specs))
	for _, sp := range specs {
		var (
			values []float64
			err    error
		)
		switch sp.Kind {
		case KindSMA:
			values, err = SMA(closes, sp.Period)
		case KindRSI:
			values, err = RSI(closes, sp.Period)
		case KindVolatility:
			values, err = Volatility(closes, sp.Period)
		default:
			return nil, &domain.InvalidConfigurationError{
				Field:  "indicator",
				Reason: fmt.Sprintf("unknown kind %q", sp.Kind),
			}
		}
		if err != nil {
			return nil, err
		}
		set[sp.Key()] = values
	}
	return set, nil
}

// ---------------------------------------------------------------------------
// Moving average
// ---------------------------------------------------------------------------

// SMA returns the arithmetic mean of the trailing n closes ending at each
// bar. Values at indices below n-1 are NaN.
func SMA(closes []float64, n int) ([]float64, error) {
	if err := checkPeriod("sma", n, len(closes)); err != nil {
		return nil, err
	}

	values := warmupSlice(len(closes))
	var sum float64
	for i, c := range closes {
		sum += c
		if i >= n {
			sum -= closes[i-n]
		}
		if i >= n-1 {
			values[i] = sum / float64(n)
		}
	}
	return values, nil
}

// ---------------------------------------------------------------------------
// Returns and volatility
// ---------------------------------------------------------------------------

// Returns computes the bar-to-bar arithmetic return close[i]/close[i-1] - 1.
// Index 0 is NaN.
func Returns(closes []float64) []float64 {
	values := warmupSlice(len(closes))
	for i := 1; i < len(closes); i++ {
		if closes[i-1] != 0 {
			values[i] = closes[i]/closes[i-1] - 1
		}
	}
	return values
}

// LogReturns computes the bar-to-bar log return ln(close[i]/close[i-1]).
// Index 0 is NaN.
func LogReturns(closes []float64) []float64 {
	values := warmupSlice(len(closes))
	for i := 1; i < len(closes); i++ {
		if closes[i-1] > 0 && closes[i] > 0 {
			values[i] = math.Log(closes[i] / closes[i-1])
		}
	}
	return values
}

// Volatility returns the sample standard deviation of the trailing n
// arithmetic returns ending at each bar. The first return exists at index 1,
// so values at indices below n are NaN.
func Volatility(closes []float64, n int) ([]float64, error) {
	if err := checkPeriod("volatility", n, len(closes)); err != nil {
		return nil, err
	}

	returns := Returns(closes)
	values := warmupSlice(len(closes))
	for i := n; i < len(closes); i++ {
		values[i] = stdDev(returns[i-n+1 : i+1])
	}
	return values, nil
}

// AnnualizedVolatility scales Volatility by sqrt(periodsPerYear) so results
// from different sampling intervals are comparable.
func AnnualizedVolatility(closes []float64, n, periodsPerYear int) ([]float64, error) {
	values, err := Volatility(closes, n)
	if err != nil {
		return nil, err
	}
	factor := math.Sqrt(float64(periodsPerYear))
	for i, v := range values {
		if !math.IsNaN(v) {
			values[i] = v * factor
		}
	}
	return values, nil
}

// ---------------------------------------------------------------------------
// RSI
// ---------------------------------------------------------------------------

// RSI returns Wilder's smoothed Relative Strength Index over period n,
// bounded [0, 100]. The average gain and loss are seeded as simple means over
// the first n bar-to-bar changes and thereafter updated by exponential
// smoothing with factor (n-1)/n. Values at indices below n are NaN.
//
// Forming n changes takes n+1 closes, so a series of fewer than n+1 bars is
// insufficient.
//
// When the average loss is zero the formula is still defined: all-gain
// windows yield 100, and fully flat windows (zero gain and zero loss) yield
// the neutral value 50.
func RSI(closes []float64, n int) ([]float64, error) {
	if err := checkPeriod("rsi", n, len(closes)); err != nil {
		return nil, err
	}
	if len(closes) < n+1 {
		return nil, &domain.InsufficientDataError{
			Op:   fmt.Sprintf("rsi(%d)", n),
			Need: n + 1,
			Got:  len(closes),
		}
	}

	values := warmupSlice(len(closes))

	// Seed: simple means over the first n changes.
	var avgGain, avgLoss float64
	for i := 1; i <= n; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss += -change
		}
	}
	avgGain /= float64(n)
	avgLoss /= float64(n)
	values[n] = rsiValue(avgGain, avgLoss)

	// Wilder smoothing for the remainder.
	for i := n + 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(n-1) + gain) / float64(n)
		avgLoss = (avgLoss*float64(n-1) + loss) / float64(n)
		values[i] = rsiValue(avgGain, avgLoss)
	}
	return values, nil
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		if avgGain == 0 {
			return 50
		}
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func checkPeriod(op string, n, length int) error {
	if n <= 0 {
		return &domain.InvalidConfigurationError{
			Field:  op + " period",
			Reason: fmt.Sprintf("must be positive, got %d", n),
		}
	}
	if n > length {
		return &domain.InsufficientDataError{
			Op:   fmt.Sprintf("%s(%d)", op, n),
			Need: n,
			Got:  length,
		}
	}
	return nil
}

func warmupSlice(n int) []float64 {
	values := make([]float64, n)
	for i := range values {
		values[i] = math.NaN()
	}
	return values
}

// stdDev returns the sample standard deviation of xs (n-1 divisor). A slice
// with fewer than two values yields 0.
func stdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	mean := sum / float64(len(xs))

	var sq float64
	for _, x := range xs {
		d := x - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(xs)-1))
}
