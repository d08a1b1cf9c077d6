// Package backtest replays a price series through a signal-generation rule,
// simulates the resulting long-only position, and derives performance
// metrics. A run is all-or-nothing: it either returns a complete Result or
// an error with no partial output.
package backtest

import (
	"fmt"
	"log/slog"
	"time"

	"vantage/internal/domain"
	"vantage/internal/indicator"
	"vantage/internal/strategy"
)

// FillPolicy selects the price a signal fills at. It applies to every fill
// in a run so entry and exit semantics stay consistent.
type FillPolicy string

const (
	// FillSameBarClose fills at the close of the bar the signal fired on.
	FillSameBarClose FillPolicy = "same_bar_close"
	// FillNextBarOpen fills at the open of the bar after the signal. A
	// signal on the final bar has no next bar and is dropped.
	FillNextBarOpen FillPolicy = "next_bar_open"
)

// Config holds the simulation parameters of a run.
type Config struct {
	// InitialEquity is the starting portfolio value. Defaults to 1.0
	// (normalized).
	InitialEquity float64
	// TransactionCost is the round-trip cost fraction deducted from each
	// trade's return.
	TransactionCost float64
	// Fill selects the fill policy. Defaults to FillSameBarClose.
	Fill FillPolicy
	// PeriodsPerYear overrides the annualization factor. Zero means derive
	// it from the series interval.
	PeriodsPerYear int
}

func (c Config) withDefaults() Config {
	if c.InitialEquity == 0 {
		c.InitialEquity = 1.0
	}
	if c.Fill == "" {
		c.Fill = FillSameBarClose
	}
	return c
}

// Validate checks the simulation parameters.
func (c Config) Validate() error {
	if c.InitialEquity < 0 {
		return &domain.InvalidConfigurationError{Field: "initial_equity", Reason: "must be non-negative"}
	}
	if c.TransactionCost < 0 || c.TransactionCost >= 1 {
		return &domain.InvalidConfigurationError{Field: "transaction_cost_fraction", Reason: "must be inside [0, 1)"}
	}
	if c.Fill != "" && c.Fill != FillSameBarClose && c.Fill != FillNextBarOpen {
		return &domain.InvalidConfigurationError{Field: "entry_fill", Reason: "must be same_bar_close or next_bar_open"}
	}
	if c.PeriodsPerYear < 0 {
		return &domain.InvalidConfigurationError{Field: "periods_per_year", Reason: "must be non-negative"}
	}
	return nil
}

// Result is the complete output of one backtest run: the trade log, the
// per-bar equity curve, and the derived summary. All three are immutable
// once returned; a new run produces entirely new instances.
type Result struct {
	Strategy string
	Symbol   string
	Interval domain.Interval
	Signals  []domain.SignalType
	Trades   []domain.TradeRecord
	Equity   []domain.EquityPoint
	Summary  domain.Summary
}

// position is the simulator's FLAT/LONG state. Modeling it as a closed sum
// makes a long position without an entry fill unrepresentable.
type position interface {
	isPosition()
}

type flat struct{}

type long struct {
	entryTime   time.Time
	entryPrice  float64
	entryEquity float64
}

func (flat) isPosition() {}
func (long) isPosition() {}

// Run executes a backtest of the strategy over the series. The pipeline is
// strictly forward: indicators from the series, signals from the indicators,
// trades and equity from the signals, summary from trades and equity.
func Run(series domain.Series, strat strategy.Strategy, cfg Config) (*Result, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := strat.Validate(); err != nil {
		return nil, err
	}
	if series.Len() == 0 {
		return nil, &domain.InsufficientDataError{Op: "backtest", Need: 1, Got: 0}
	}
	if err := series.Validate(); err != nil {
		return nil, err
	}

	set, err := indicator.Compute(series, strat.Indicators())
	if err != nil {
		return nil, err
	}
	if warmup := set.Warmup(); warmup >= series.Len() {
		return nil, &domain.InsufficientDataError{Op: "backtest " + strat.Name(), Need: warmup + 1, Got: series.Len()}
	}

	signals, err := strat.Signals(series, set)
	if err != nil {
		return nil, err
	}
	if len(signals) != series.Len() {
		return nil, fmt.Errorf("strategy %s returned %d signals for %d bars", strat.Name(), len(signals), series.Len())
	}

	trades, equity := simulate(series, signals, cfg)

	ppy := cfg.PeriodsPerYear
	if ppy == 0 {
		ppy = series.Interval.PeriodsPerYear()
	}
	summary, err := Summarize(equity, trades, ppy)
	if err != nil {
		return nil, err
	}

	slog.Debug("backtest complete",
		"strategy", strat.Name(),
		"symbol", series.Symbol,
		"bars", series.Len(),
		"trades", len(trades),
		"total_return", summary.TotalReturn,
	)

	return &Result{
		Strategy: strat.Name(),
		Symbol:   series.Symbol,
		Interval: series.Interval,
		Signals:  signals,
		Trades:   trades,
		Equity:   equity,
		Summary:  summary,
	}, nil
}

// simulate walks the signal sequence in timestamp order, maintaining the
// FLAT/LONG state machine and the mark-to-market equity curve.
func simulate(series domain.Series, signals []domain.SignalType, cfg Config) ([]domain.TradeRecord, []domain.EquityPoint) {
	var (
		trades  []domain.TradeRecord
		equity  = make([]domain.EquityPoint, 0, series.Len())
		pos     position
		cash    = cfg.InitialEquity
		pending domain.SignalType // next-bar-open fill carried into the following bar
	)
	pos = flat{}
	last := series.Len() - 1

	for i, bar := range series.Bars {
		// Execute a fill carried over from the previous bar at this open.
		if pending != domain.Hold {
			pos, cash, trades = apply(pos, cash, trades, pending, bar.Open, bar.Timestamp, i == last, cfg.TransactionCost, series.Symbol)
			pending = domain.Hold
		}

		switch cfg.Fill {
		case FillNextBarOpen:
			if signals[i] != domain.Hold && i < last {
				pending = signals[i]
			}
		default:
			if signals[i] != domain.Hold {
				pos, cash, trades = apply(pos, cash, trades, signals[i], bar.Close, bar.Timestamp, i == last, cfg.TransactionCost, series.Symbol)
			}
		}

		// Force-close an open position at the final bar so every run ends
		// FLAT and every entry has a matching record.
		if i == last {
			if lg, ok := pos.(long); ok {
				cash = closeTrade(&trades, lg, bar.Close, bar.Timestamp, cfg.TransactionCost, true, series.Symbol)
				pos = flat{}
			}
		}

		equity = append(equity, domain.EquityPoint{
			Timestamp: bar.Timestamp,
			Equity:    markToMarket(pos, cash, bar.Close),
		})
	}

	if trades == nil {
		trades = []domain.TradeRecord{}
	}
	return trades, equity
}

// apply processes a single Buy or Sell fill against the current position.
// Buy while LONG and Sell while FLAT are no-ops: the engine never pyramids
// and never double-exits. Entries are also skipped on the final bar, where
// no later exit can exist.
func apply(pos position, cash float64, trades []domain.TradeRecord, sig domain.SignalType, price float64, ts time.Time, finalBar bool, cost float64, symbol string) (position, float64, []domain.TradeRecord) {
	switch p := pos.(type) {
	case flat:
		if sig == domain.Buy && !finalBar && price > 0 {
			return long{entryTime: ts, entryPrice: price, entryEquity: cash}, cash, trades
		}
	case long:
		if sig == domain.Sell {
			cash = closeTrade(&trades, p, price, ts, cost, false, symbol)
			return flat{}, cash, trades
		}
	}
	return pos, cash, trades
}

// closeTrade realizes an open long at the given price, appends the trade
// record, and returns the resulting cash equity.
func closeTrade(trades *[]domain.TradeRecord, p long, price float64, ts time.Time, cost float64, forced bool, symbol string) float64 {
	ret := (price-p.entryPrice)/p.entryPrice - cost
	*trades = append(*trades, domain.TradeRecord{
		Symbol:     symbol,
		EntryTime:  p.entryTime,
		EntryPrice: p.entryPrice,
		ExitTime:   ts,
		ExitPrice:  price,
		Return:     ret,
		ForcedExit: forced,
	})
	return p.entryEquity * (1 + ret)
}

// markToMarket returns the portfolio value at the given close: flat equity
// is the cash balance, long equity tracks the open position every bar.
func markToMarket(pos position, cash, close float64) float64 {
	if lg, ok := pos.(long); ok {
		return lg.entryEquity * (close / lg.entryPrice)
	}
	return cash
}
