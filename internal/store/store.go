// Package store defines storage interfaces for price bars and backtest run
// artifacts, with Parquet and SQLite implementations. The backtest core
// itself never writes files; persistence happens here, on the caller's side
// of the boundary.
package store

import (
	"context"
	"time"

	"vantage/internal/domain"
)

// BarStore persists and retrieves OHLCV bar data.
type BarStore interface {
	// WriteBars persists a batch of bars at the given sampling interval.
	WriteBars(ctx context.Context, bars []domain.Bar, interval domain.Interval) error

	// ReadBars returns bars for the symbol and interval within [start, end],
	// sorted by timestamp.
	ReadBars(ctx context.Context, symbol string, interval domain.Interval, start, end time.Time) ([]domain.Bar, error)

	// ListSymbols returns all distinct symbols stored at the given interval.
	ListSymbols(ctx context.Context, interval domain.Interval) ([]string, error)
}

// RunRecord is the stored header of one backtest run.
type RunRecord struct {
	ID        int64
	Strategy  string
	Symbol    string
	Interval  domain.Interval
	CreatedAt time.Time
	Summary   domain.Summary
}

// RunStore persists completed backtest runs and their trade logs.
type RunStore interface {
	// SaveRun inserts the run header and its trade log atomically and
	// returns the new run ID.
	SaveRun(ctx context.Context, rec RunRecord, trades []domain.TradeRecord) (int64, error)

	// GetRun retrieves a run header by ID.
	GetRun(ctx context.Context, id int64) (*RunRecord, error)

	// ListRuns returns the most recent runs, newest first, up to limit.
	ListRuns(ctx context.Context, limit int) ([]RunRecord, error)

	// ReadTrades returns the trade log of a run in entry-time order.
	ReadTrades(ctx context.Context, runID int64) ([]domain.TradeRecord, error)
}
