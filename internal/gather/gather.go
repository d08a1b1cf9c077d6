// Package gather acquires historical price data from external market-data
// providers and fills the local bar store. It sits outside the backtest
// core: the engine only ever sees the time-ordered series the gatherers
// produce.
package gather

import (
	"context"
	"time"
)

// Gatherer is the interface for all data acquisition processes.
type Gatherer interface {
	// Name returns the gatherer identifier.
	Name() string
	// Run fetches data until done or ctx is cancelled.
	Run(ctx context.Context) error
}

// DateRange represents a time range for data fetching.
type DateRange struct {
	Start time.Time
	End   time.Time
}
