package gather

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"vantage/internal/domain"
	"vantage/internal/store"
	"vantage/internal/util"
)

// Compile-time interface check.
var _ Gatherer = (*AlpacaBarGatherer)(nil)

// AlpacaBarGatherer fetches OHLCV bars for a fixed symbol list from the
// Alpaca market-data API and writes them to the bar store. Bars are
// requested fully adjusted, so splits and dividends are already folded into
// the close the engine consumes and the engine itself carries no
// dividend/split logic.
type AlpacaBarGatherer struct {
	client   *marketdata.Client
	store    store.BarStore
	symbols  []string
	interval domain.Interval
	window   DateRange
	feed     string
	limiter  *util.RateLimiter
	retries  int
	log      *slog.Logger
}

// AlpacaBarGathererOpts configures an AlpacaBarGatherer.
type AlpacaBarGathererOpts struct {
	APIKey          string
	APISecret       string
	DataURL         string
	Feed            string // e.g. "iex" or "sip"
	Symbols         []string
	Interval        domain.Interval
	Window          DateRange
	RateLimitPerMin int
	RetryAttempts   int
}

// NewAlpacaBarGatherer creates an AlpacaBarGatherer writing to the given
// store.
func NewAlpacaBarGatherer(opts AlpacaBarGathererOpts, s store.BarStore) *AlpacaBarGatherer {
	clientOpts := marketdata.ClientOpts{
		APIKey:    opts.APIKey,
		APISecret: opts.APISecret,
	}
	if opts.DataURL != "" {
		clientOpts.BaseURL = opts.DataURL
	}

	if opts.RateLimitPerMin <= 0 {
		opts.RateLimitPerMin = 200
	}
	if opts.RetryAttempts <= 0 {
		opts.RetryAttempts = 3
	}

	return &AlpacaBarGatherer{
		client:   marketdata.NewClient(clientOpts),
		store:    s,
		symbols:  opts.Symbols,
		interval: opts.Interval,
		window:   opts.Window,
		feed:     opts.Feed,
		limiter:  util.NewRateLimiter(opts.RateLimitPerMin),
		retries:  opts.RetryAttempts,
		log:      slog.Default().With("gatherer", "alpaca-bars"),
	}
}

// Name returns the gatherer identifier.
func (g *AlpacaBarGatherer) Name() string { return "alpaca-bars" }

// Run fetches bars for every configured symbol and writes them to the store.
// Requests are rate-limited and retried with exponential backoff.
func (g *AlpacaBarGatherer) Run(ctx context.Context) error {
	timeframe, err := timeframeFor(g.interval)
	if err != nil {
		return err
	}

	start := time.Now()
	total := 0

	// The multi-bar endpoint accepts up to a few hundred symbols per call;
	// chunk conservatively.
	const chunkSize = 200
	for begin := 0; begin < len(g.symbols); begin += chunkSize {
		end := begin + chunkSize
		if end > len(g.symbols) {
			end = len(g.symbols)
		}
		chunk := g.symbols[begin:end]

		if err := g.limiter.Wait(ctx); err != nil {
			return err
		}

		var multiBars map[string][]marketdata.Bar
		err := util.Retry(ctx, g.retries, time.Second, func() error {
			var err error
			multiBars, err = g.client.GetMultiBars(chunk, marketdata.GetBarsRequest{
				TimeFrame:  timeframe,
				Start:      g.window.Start,
				End:        g.window.End,
				Adjustment: marketdata.All,
				Feed:       g.feed,
			})
			return err
		})
		if err != nil {
			return fmt.Errorf("GetMultiBars(%d symbols): %w", len(chunk), err)
		}

		var bars []domain.Bar
		for symbol, alpacaBars := range multiBars {
			for _, ab := range alpacaBars {
				bars = append(bars, domain.Bar{
					Symbol:    strings.ToUpper(symbol),
					Timestamp: ab.Timestamp,
					Open:      ab.Open,
					High:      ab.High,
					Low:       ab.Low,
					Close:     ab.Close,
					Volume:    int64(ab.Volume),
				})
			}
		}

		if err := g.store.WriteBars(ctx, bars, g.interval); err != nil {
			return fmt.Errorf("writing bars: %w", err)
		}
		total += len(bars)
	}

	g.log.Info("fetch complete",
		"symbols", len(g.symbols),
		"interval", g.interval,
		"bars", total,
		"elapsed", time.Since(start).Round(time.Second),
	)
	return nil
}

// timeframeFor maps a domain interval onto the Alpaca timeframe type.
func timeframeFor(iv domain.Interval) (marketdata.TimeFrame, error) {
	switch iv {
	case domain.Interval1Min:
		return marketdata.OneMin, nil
	case domain.Interval2Min:
		return marketdata.NewTimeFrame(2, marketdata.Min), nil
	case domain.Interval5Min:
		return marketdata.NewTimeFrame(5, marketdata.Min), nil
	case domain.Interval15Min:
		return marketdata.NewTimeFrame(15, marketdata.Min), nil
	case domain.Interval30Min:
		return marketdata.NewTimeFrame(30, marketdata.Min), nil
	case domain.Interval1Hour:
		return marketdata.OneHour, nil
	case domain.IntervalDaily:
		return marketdata.OneDay, nil
	case domain.IntervalWeekly:
		return marketdata.NewTimeFrame(1, marketdata.Week), nil
	case domain.IntervalMonthly:
		return marketdata.NewTimeFrame(1, marketdata.Month), nil
	case domain.IntervalQuarter:
		return marketdata.NewTimeFrame(3, marketdata.Month), nil
	}
	return marketdata.TimeFrame{}, fmt.Errorf("no alpaca timeframe for interval %q", iv)
}
