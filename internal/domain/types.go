// Package domain defines the core data types shared across the vantage
// engine: price bars and series, trading signals, trade records, equity
// curves, and performance summaries.
package domain

import (
	"fmt"
	"time"
)

// ---------------------------------------------------------------------------
// Price data
// ---------------------------------------------------------------------------

// Bar is a single OHLCV bar for one sampling interval.
type Bar struct {
	Symbol    string
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    int64
}

// Series is an ordered sequence of bars for one symbol at one sampling
// interval. It is the immutable input to a backtest run: downstream stages
// read it and never modify it.
type Series struct {
	Symbol   string
	Interval Interval
	Bars     []Bar
}

// Len returns the number of bars in the series.
func (s Series) Len() int { return len(s.Bars) }

// Closes returns the close price of every bar, in order.
func (s Series) Closes() []float64 {
	closes := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		closes[i] = b.Close
	}
	return closes
}

// Validate checks the bar invariants: timestamps strictly increasing, high at
// least max(open, close, low), low at most min(open, close, high).
func (s Series) Validate() error {
	for i, b := range s.Bars {
		if b.High < b.Open || b.High < b.Close || b.High < b.Low {
			return fmt.Errorf("bar %d (%s): high %.6f below open/close/low", i, b.Timestamp.Format(time.RFC3339), b.High)
		}
		if b.Low > b.Open || b.Low > b.Close {
			return fmt.Errorf("bar %d (%s): low %.6f above open/close", i, b.Timestamp.Format(time.RFC3339), b.Low)
		}
		if i > 0 && !b.Timestamp.After(s.Bars[i-1].Timestamp) {
			return fmt.Errorf("bar %d (%s): timestamp not after previous bar", i, b.Timestamp.Format(time.RFC3339))
		}
	}
	return nil
}

// SeriesSummary holds basic descriptive statistics for a series.
type SeriesSummary struct {
	Bars       int
	Start      time.Time
	End        time.Time
	FirstClose float64
	LastClose  float64
	// BuyAndHold is the return of holding from the first to the last close.
	BuyAndHold float64
}

// Summarize returns descriptive statistics for the series. The zero value is
// returned for an empty series.
func (s Series) Summarize() SeriesSummary {
	if len(s.Bars) == 0 {
		return SeriesSummary{}
	}
	first := s.Bars[0]
	last := s.Bars[len(s.Bars)-1]
	sum := SeriesSummary{
		Bars:       len(s.Bars),
		Start:      first.Timestamp,
		End:        last.Timestamp,
		FirstClose: first.Close,
		LastClose:  last.Close,
	}
	if first.Close != 0 {
		sum.BuyAndHold = (last.Close - first.Close) / first.Close
	}
	return sum
}

// ---------------------------------------------------------------------------
// Signals
// ---------------------------------------------------------------------------

// SignalType is a discrete trading decision attached to a bar index.
type SignalType int

const (
	Hold SignalType = iota
	Buy
	Sell
)

// String returns "HOLD", "BUY", or "SELL".
func (s SignalType) String() string {
	switch s {
	case Buy:
		return "BUY"
	case Sell:
		return "SELL"
	default:
		return "HOLD"
	}
}

// ---------------------------------------------------------------------------
// Backtest outputs
// ---------------------------------------------------------------------------

// TradeRecord is one completed round trip. Records are append-only: once a
// position is closed and logged, the record is never mutated.
type TradeRecord struct {
	Symbol     string
	EntryTime  time.Time
	EntryPrice float64
	ExitTime   time.Time
	ExitPrice  float64
	// Return is the realized fractional return net of transaction costs.
	Return float64
	// ForcedExit marks a position closed at the end of the series rather
	// than by a sell signal.
	ForcedExit bool
}

// Duration returns the holding period of the trade.
func (t TradeRecord) Duration() time.Duration {
	return t.ExitTime.Sub(t.EntryTime)
}

// EquityPoint is one sample of the mark-to-market portfolio value.
type EquityPoint struct {
	Timestamp time.Time
	Equity    float64
}

// Summary holds the performance statistics derived from an equity curve and
// trade log. All fields are recomputable from those inputs.
type Summary struct {
	TotalReturn      float64
	AnnualizedReturn float64
	MaxDrawdown      float64
	SharpeRatio      float64
	WinRate          float64
	TradeCount       int
	// MeanPeriodReturn and ReturnVolatility are the per-bar equity return
	// statistics underlying the Sharpe ratio.
	MeanPeriodReturn float64
	ReturnVolatility float64
}
