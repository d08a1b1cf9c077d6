// vantage-backtest runs one signal-generation rule over a historical price
// series, prints the performance summary, and optionally persists the trade
// log as CSV and the run record in SQLite.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"vantage/internal/backtest"
	"vantage/internal/config"
	"vantage/internal/domain"
	"vantage/internal/indicator"
	"vantage/internal/store"
	"vantage/internal/strategy"
	"vantage/internal/strategy/builtins"
	"vantage/internal/util"
)

func main() {
	_ = godotenv.Load()

	var (
		cfgPath  = flag.String("config", defaultConfigPath(), "path to YAML config")
		symbol   = flag.String("symbol", "", "symbol to backtest")
		interval = flag.String("interval", "1d", "sampling interval (1m,5m,15m,30m,1h,1d,1wk,1mo,3mo)")
		from     = flag.String("from", "", "start date (YYYY-MM-DD), store input only")
		to       = flag.String("to", "", "end date (YYYY-MM-DD), store input only")
		csvPath  = flag.String("csv", "", "read bars from this CSV file instead of the bar store")
		stratArg = flag.String("strategy", "sma-cross", "strategy name (sma-cross, rsi-reversion)")
		outPath  = flag.String("out", "", "write the trade log to this CSV file")
		save     = flag.Bool("save", false, "record the run in the SQLite run store")
		verbose  = flag.Bool("trades", false, "print the individual trades")
	)
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	util.SetDefault(util.NewLogger(cfg.Logging.Level, cfg.Logging.Format))

	iv, err := domain.ParseInterval(*interval)
	if err != nil {
		log.Fatalf("invalid -interval: %v", err)
	}

	ctx := context.Background()
	series, err := loadSeries(ctx, cfg, *symbol, iv, *csvPath, *from, *to)
	if err != nil {
		log.Fatalf("loading series: %v", err)
	}
	printSeriesSummary(series)
	printVolatility(series, cfg.Strategies.VolatilityWindow, cfg.Backtest.PeriodsPerYear)

	registry := newRegistry(cfg)
	strat, ok := registry.Get(*stratArg)
	if !ok {
		log.Fatalf("unknown strategy %q (have: %v)", *stratArg, registry.List())
	}

	result, err := backtest.Run(series, strat, backtestConfig(cfg))
	if err != nil {
		log.Fatalf("backtest failed: %v", err)
	}

	result.PrintSummary(os.Stdout)
	if *verbose {
		result.PrintTrades(os.Stdout)
	}

	if *outPath != "" {
		if err := store.WriteTradeLogCSV(*outPath, result.Trades); err != nil {
			log.Fatalf("writing trade log: %v", err)
		}
		fmt.Printf("\nTrade log written to %s\n", *outPath)
	}

	if *save {
		runStore, err := store.NewSQLiteStore(cfg.Storage.SQLitePath)
		if err != nil {
			log.Fatalf("opening run store: %v", err)
		}
		defer runStore.Close()

		runID, err := runStore.SaveRun(ctx, store.RunRecord{
			Strategy: result.Strategy,
			Symbol:   result.Symbol,
			Interval: result.Interval,
			Summary:  result.Summary,
		}, result.Trades)
		if err != nil {
			log.Fatalf("saving run: %v", err)
		}
		fmt.Printf("Run recorded as #%d in %s\n", runID, cfg.Storage.SQLitePath)
	}
}

func defaultConfigPath() string {
	if p := os.Getenv("VANTAGE_CONFIG"); p != "" {
		return p
	}
	return "config/vantage.yaml"
}

// newRegistry builds the builtin strategies from their configured parameters.
func newRegistry(cfg *config.Config) *strategy.Registry {
	registry := strategy.NewRegistry()
	registry.Register(builtins.NewSMACross(
		cfg.Strategies.SMACross.FastPeriod,
		cfg.Strategies.SMACross.SlowPeriod,
	))
	registry.Register(builtins.NewRSIReversion(
		cfg.Strategies.RSIReversion.Period,
		cfg.Strategies.RSIReversion.BuyThreshold,
		cfg.Strategies.RSIReversion.SellThreshold,
		cfg.Strategies.RSIReversion.TrendFilterPeriod,
	))
	return registry
}

func backtestConfig(cfg *config.Config) backtest.Config {
	return backtest.Config{
		InitialEquity:   cfg.Backtest.InitialEquity,
		TransactionCost: cfg.Backtest.TransactionCost,
		Fill:            backtest.FillPolicy(cfg.Backtest.EntryFill),
		PeriodsPerYear:  cfg.Backtest.PeriodsPerYear,
	}
}

// loadSeries reads bars either from a CSV file or from the Parquet bar store.
func loadSeries(ctx context.Context, cfg *config.Config, symbol string, iv domain.Interval, csvPath, from, to string) (domain.Series, error) {
	if csvPath != "" {
		if symbol == "" {
			symbol = "CSV"
		}
		return store.ReadBarsCSV(csvPath, symbol, iv)
	}

	if symbol == "" {
		return domain.Series{}, fmt.Errorf("-symbol is required without -csv")
	}
	start, err := time.Parse("2006-01-02", from)
	if err != nil {
		return domain.Series{}, fmt.Errorf("invalid -from: %w", err)
	}
	end := time.Now().UTC()
	if to != "" {
		if end, err = time.Parse("2006-01-02", to); err != nil {
			return domain.Series{}, fmt.Errorf("invalid -to: %w", err)
		}
	}

	barStore := store.NewParquetStore(cfg.Storage.DataDir)
	bars, err := barStore.ReadBars(ctx, symbol, iv, start, end)
	if err != nil {
		return domain.Series{}, err
	}
	return domain.Series{Symbol: symbol, Interval: iv, Bars: bars}, nil
}

// printVolatility reports the latest annualized volatility over the
// configured rolling window. Series too short for the window are skipped
// silently; the backtest itself will surface the real error.
func printVolatility(series domain.Series, window, periodsPerYear int) {
	if window <= 0 || series.Len() <= window {
		return
	}
	if periodsPerYear == 0 {
		periodsPerYear = series.Interval.PeriodsPerYear()
	}
	values, err := indicator.AnnualizedVolatility(series.Closes(), window, periodsPerYear)
	if err != nil {
		return
	}
	fmt.Printf("Annualized volatility (%d-bar window): %.2f%%\n", window, values[len(values)-1]*100)
}

func printSeriesSummary(series domain.Series) {
	sum := series.Summarize()
	if sum.Bars == 0 {
		return
	}
	fmt.Printf("%s (%s): %d bars, %s to %s, close %.4f -> %.4f (buy-and-hold %.2f%%)\n",
		series.Symbol, series.Interval, sum.Bars,
		sum.Start.Format("2006-01-02"), sum.End.Format("2006-01-02"),
		sum.FirstClose, sum.LastClose, sum.BuyAndHold*100,
	)
}
