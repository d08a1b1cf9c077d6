// vantage-sweep runs the moving-average crossover rule over a grid of
// fast/slow period combinations in parallel and prints the results ranked by
// total return.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"vantage/internal/backtest"
	"vantage/internal/config"
	"vantage/internal/domain"
	"vantage/internal/store"
	"vantage/internal/strategy/builtins"
	"vantage/internal/util"
)

func main() {
	_ = godotenv.Load()

	var (
		cfgPath  = flag.String("config", defaultConfigPath(), "path to YAML config")
		symbol   = flag.String("symbol", "", "symbol to backtest")
		interval = flag.String("interval", "1d", "sampling interval")
		from     = flag.String("from", "", "start date (YYYY-MM-DD), store input only")
		to       = flag.String("to", "", "end date (YYYY-MM-DD), store input only")
		csvPath  = flag.String("csv", "", "read bars from this CSV file instead of the bar store")
		fasts    = flag.String("fasts", "10,20,30", "comma-separated fast MA periods")
		slows    = flag.String("slows", "50,100,200", "comma-separated slow MA periods")
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

	series, err := loadSeries(context.Background(), cfg, *symbol, iv, *csvPath, *from, *to)
	if err != nil {
		log.Fatalf("loading series: %v", err)
	}

	fastPeriods, err := parsePeriods(*fasts)
	if err != nil {
		log.Fatalf("invalid -fasts: %v", err)
	}
	slowPeriods, err := parsePeriods(*slows)
	if err != nil {
		log.Fatalf("invalid -slows: %v", err)
	}

	var jobs []backtest.SweepJob
	for _, fast := range fastPeriods {
		for _, slow := range slowPeriods {
			if fast >= slow {
				continue
			}
			jobs = append(jobs, backtest.SweepJob{
				Label:    fmt.Sprintf("sma-cross %d/%d", fast, slow),
				Series:   series,
				Strategy: builtins.NewSMACross(fast, slow),
			})
		}
	}
	if len(jobs) == 0 {
		log.Fatal("no valid fast/slow combinations (fast must be below slow)")
	}

	btCfg := backtest.Config{
		InitialEquity:   cfg.Backtest.InitialEquity,
		TransactionCost: cfg.Backtest.TransactionCost,
		Fill:            backtest.FillPolicy(cfg.Backtest.EntryFill),
		PeriodsPerYear:  cfg.Backtest.PeriodsPerYear,
	}
	results := backtest.Sweep(context.Background(), jobs, btCfg, cfg.Backtest.MaxWorkers)

	sort.SliceStable(results, func(i, j int) bool {
		ri, rj := results[i], results[j]
		if ri.Err != nil || rj.Err != nil {
			return rj.Err != nil && ri.Err == nil
		}
		return ri.Result.Summary.TotalReturn > rj.Result.Summary.TotalReturn
	})

	fmt.Printf("\n%-20s %12s %12s %10s %10s %8s\n", "strategy", "total ret", "max DD", "sharpe", "win rate", "trades")
	for _, r := range results {
		if r.Err != nil {
			fmt.Printf("%-20s failed: %v\n", r.Label, r.Err)
			continue
		}
		s := r.Result.Summary
		fmt.Printf("%-20s %11.2f%% %11.2f%% %10.2f %9.2f%% %8d\n",
			r.Label, s.TotalReturn*100, s.MaxDrawdown*100, s.SharpeRatio, s.WinRate*100, s.TradeCount)
	}
}

func defaultConfigPath() string {
	if p := os.Getenv("VANTAGE_CONFIG"); p != "" {
		return p
	}
	return "config/vantage.yaml"
}

func parsePeriods(s string) ([]int, error) {
	var periods []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, err
		}
		periods = append(periods, n)
	}
	return periods, nil
}

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
