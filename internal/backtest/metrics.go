package backtest

import (
	"math"

	"vantage/internal/domain"
)

// The evaluator is a set of pure functions over the equity curve and trade
// log. Only literally empty input raises EmptySeriesError; degenerate cases
// (single bar, zero trades, zero volatility) have defined neutral results.

// TotalReturn returns finalEquity/initialEquity - 1.
func TotalReturn(curve []domain.EquityPoint) (float64, error) {
	if len(curve) == 0 {
		return 0, &domain.EmptySeriesError{Op: "total return"}
	}
	initial := curve[0].Equity
	if initial == 0 {
		return 0, nil
	}
	return curve[len(curve)-1].Equity/initial - 1, nil
}

// AnnualizedReturn compounds the total return over the number of bar
// transitions, scaled by periodsPerYear. A single-point curve yields 0.
func AnnualizedReturn(curve []domain.EquityPoint, periodsPerYear int) (float64, error) {
	total, err := TotalReturn(curve)
	if err != nil {
		return 0, err
	}
	periods := len(curve) - 1
	if periods == 0 || periodsPerYear == 0 {
		return 0, nil
	}
	growth := 1 + total
	if growth <= 0 {
		return -1, nil
	}
	return math.Pow(growth, float64(periodsPerYear)/float64(periods)) - 1, nil
}

// MaxDrawdown returns the largest peak-to-trough decline of the curve as a
// fraction of the running peak. The peak is reset only when exceeded, never
// per trade.
func MaxDrawdown(curve []domain.EquityPoint) (float64, error) {
	if len(curve) == 0 {
		return 0, &domain.EmptySeriesError{Op: "max drawdown"}
	}
	peak := curve[0].Equity
	maxDD := 0.0
	for _, p := range curve {
		if p.Equity > peak {
			peak = p.Equity
		}
		if peak > 0 {
			if dd := (peak - p.Equity) / peak; dd > maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD, nil
}

// SharpeRatio returns mean(periodReturns)/stdDev(periodReturns) scaled by
// sqrt(periodsPerYear), where periodReturns are the bar-to-bar percentage
// changes of the curve. Zero volatility yields 0.
func SharpeRatio(curve []domain.EquityPoint, periodsPerYear int) (float64, error) {
	mean, std, err := periodReturnStats(curve)
	if err != nil {
		return 0, err
	}
	if std == 0 {
		return 0, nil
	}
	return mean / std * math.Sqrt(float64(periodsPerYear)), nil
}

// WinRate returns the fraction of trades with a positive net return. Zero
// trades yields 0, not an error.
func WinRate(trades []domain.TradeRecord) float64 {
	if len(trades) == 0 {
		return 0
	}
	wins := 0
	for _, t := range trades {
		if t.Return > 0 {
			wins++
		}
	}
	return float64(wins) / float64(len(trades))
}

// Summarize derives the full performance summary from an equity curve and
// trade log.
func Summarize(curve []domain.EquityPoint, trades []domain.TradeRecord, periodsPerYear int) (domain.Summary, error) {
	total, err := TotalReturn(curve)
	if err != nil {
		return domain.Summary{}, err
	}
	annualized, err := AnnualizedReturn(curve, periodsPerYear)
	if err != nil {
		return domain.Summary{}, err
	}
	maxDD, err := MaxDrawdown(curve)
	if err != nil {
		return domain.Summary{}, err
	}
	mean, std, err := periodReturnStats(curve)
	if err != nil {
		return domain.Summary{}, err
	}
	sharpe := 0.0
	if std != 0 {
		sharpe = mean / std * math.Sqrt(float64(periodsPerYear))
	}

	return domain.Summary{
		TotalReturn:      total,
		AnnualizedReturn: annualized,
		MaxDrawdown:      maxDD,
		SharpeRatio:      sharpe,
		WinRate:          WinRate(trades),
		TradeCount:       len(trades),
		MeanPeriodReturn: mean,
		ReturnVolatility: std,
	}, nil
}

// periodReturnStats returns the mean and sample standard deviation of the
// bar-to-bar equity returns. A curve with fewer than two points yields
// (0, 0).
func periodReturnStats(curve []domain.EquityPoint) (mean, std float64, err error) {
	if len(curve) == 0 {
		return 0, 0, &domain.EmptySeriesError{Op: "period returns"}
	}
	if len(curve) < 2 {
		return 0, 0, nil
	}

	returns := make([]float64, 0, len(curve)-1)
	for i := 1; i < len(curve); i++ {
		if curve[i-1].Equity != 0 {
			returns = append(returns, curve[i].Equity/curve[i-1].Equity-1)
		}
	}
	if len(returns) == 0 {
		return 0, 0, nil
	}

	var sum float64
	for _, r := range returns {
		sum += r
	}
	mean = sum / float64(len(returns))

	if len(returns) < 2 {
		return mean, 0, nil
	}
	var sq float64
	for _, r := range returns {
		d := r - mean
		sq += d * d
	}
	std = math.Sqrt(sq / float64(len(returns)-1))
	return mean, std, nil
}
