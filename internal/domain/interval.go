package domain

import "fmt"

// Interval is the sampling interval of a price series. The set matches the
// intervals the data providers serve; minute-level intervals carry a much
// shorter available history than daily-or-coarser ones.
type Interval string

const (
	Interval1Min    Interval = "1m"
	Interval2Min    Interval = "2m"
	Interval5Min    Interval = "5m"
	Interval15Min   Interval = "15m"
	Interval30Min   Interval = "30m"
	Interval1Hour   Interval = "1h"
	IntervalDaily   Interval = "1d"
	IntervalWeekly  Interval = "1wk"
	IntervalMonthly Interval = "1mo"
	IntervalQuarter Interval = "3mo"
)

// ParseInterval converts a string such as "1d" into an Interval.
func ParseInterval(s string) (Interval, error) {
	switch Interval(s) {
	case Interval1Min, Interval2Min, Interval5Min, Interval15Min,
		Interval30Min, Interval1Hour, IntervalDaily, IntervalWeekly,
		IntervalMonthly, IntervalQuarter:
		return Interval(s), nil
	}
	return "", fmt.Errorf("unknown interval %q", s)
}

// PeriodsPerYear returns the annualization factor for the interval, used to
// scale the Sharpe ratio and volatility. Daily assumes 252 trading days;
// intraday intervals assume round-the-clock markets.
func (iv Interval) PeriodsPerYear() int {
	switch iv {
	case Interval1Min:
		return 24 * 365 * 60
	case Interval2Min:
		return 24 * 365 * 30
	case Interval5Min:
		return 24 * 365 * 12
	case Interval15Min:
		return 24 * 365 * 4
	case Interval30Min:
		return 24 * 365 * 2
	case Interval1Hour:
		return 24 * 365
	case IntervalWeekly:
		return 52
	case IntervalMonthly:
		return 12
	case IntervalQuarter:
		return 4
	default:
		return 252
	}
}
