// vantage-fetch downloads historical OHLCV bars from the Alpaca market-data
// API into the local Parquet bar cache.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"vantage/internal/config"
	"vantage/internal/domain"
	"vantage/internal/gather"
	"vantage/internal/store"
	"vantage/internal/util"
)

func main() {
	// .env is optional; real env vars win either way.
	_ = godotenv.Load()

	var (
		cfgPath  = flag.String("config", defaultConfigPath(), "path to YAML config")
		symbols  = flag.String("symbols", "", "comma-separated symbols, e.g. AAPL,MSFT")
		interval = flag.String("interval", "1d", "sampling interval (1m,5m,15m,30m,1h,1d,1wk,1mo,3mo)")
		from     = flag.String("from", "", "start date (YYYY-MM-DD)")
		to       = flag.String("to", "", "end date (YYYY-MM-DD), defaults to today")
	)
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	util.SetDefault(util.NewLogger(cfg.Logging.Level, cfg.Logging.Format))

	if *symbols == "" {
		log.Fatal("-symbols is required")
	}
	iv, err := domain.ParseInterval(*interval)
	if err != nil {
		log.Fatalf("invalid -interval: %v", err)
	}
	window, err := parseWindow(*from, *to)
	if err != nil {
		log.Fatalf("invalid date range: %v", err)
	}

	barStore := store.NewParquetStore(cfg.Storage.DataDir)
	gatherer := gather.NewAlpacaBarGatherer(gather.AlpacaBarGathererOpts{
		APIKey:          cfg.Alpaca.APIKey,
		APISecret:       cfg.Alpaca.APISecret,
		DataURL:         cfg.Alpaca.DataURL,
		Feed:            cfg.Alpaca.Feed,
		Symbols:         splitSymbols(*symbols),
		Interval:        iv,
		Window:          window,
		RateLimitPerMin: cfg.Fetch.RateLimitPerMin,
		RetryAttempts:   cfg.Fetch.RetryAttempts,
	}, barStore)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := gatherer.Run(ctx); err != nil {
		log.Fatalf("fetch failed: %v", err)
	}
}

func defaultConfigPath() string {
	if p := os.Getenv("VANTAGE_CONFIG"); p != "" {
		return p
	}
	return "config/vantage.yaml"
}

func splitSymbols(s string) []string {
	parts := strings.Split(s, ",")
	symbols := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			symbols = append(symbols, strings.ToUpper(p))
		}
	}
	return symbols
}

func parseWindow(from, to string) (gather.DateRange, error) {
	var window gather.DateRange

	start, err := time.Parse("2006-01-02", from)
	if err != nil {
		return window, err
	}
	window.Start = start

	window.End = time.Now().UTC().Truncate(24 * time.Hour)
	if to != "" {
		end, err := time.Parse("2006-01-02", to)
		if err != nil {
			return window, err
		}
		window.End = end
	}
	return window, nil
}
