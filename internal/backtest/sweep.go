package backtest

import (
	"context"
	"log/slog"
	"sync"

	"vantage/internal/domain"
	"vantage/internal/strategy"
)

// SweepJob is one independent run inside a parameter sweep.
type SweepJob struct {
	// Label identifies the parameter combination, e.g. "sma-cross 10/40".
	Label    string
	Series   domain.Series
	Strategy strategy.Strategy
}

// SweepResult pairs a job label with its outcome. Exactly one of Result and
// Err is set.
type SweepResult struct {
	Label  string
	Result *Result
	Err    error
}

// Sweep executes the jobs concurrently with at most maxWorkers in flight and
// returns results in job order. Runs share no mutable state: each allocates
// its own indicator set, trade log, and equity curve, so they are safe to
// execute in parallel. A cancelled context marks the remaining jobs with
// ctx.Err() instead of running them.
func Sweep(ctx context.Context, jobs []SweepJob, cfg Config, maxWorkers int) []SweepResult {
	if maxWorkers <= 0 {
		maxWorkers = 4
	}
	if maxWorkers > len(jobs) {
		maxWorkers = len(jobs)
	}

	results := make([]SweepResult, len(jobs))
	indexes := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < maxWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				job := jobs[i]
				if err := ctx.Err(); err != nil {
					results[i] = SweepResult{Label: job.Label, Err: err}
					continue
				}
				res, err := Run(job.Series, job.Strategy, cfg)
				results[i] = SweepResult{Label: job.Label, Result: res, Err: err}
				if err != nil {
					slog.Debug("sweep job failed", "label", job.Label, "error", err)
				}
			}
		}()
	}

	for i := range jobs {
		indexes <- i
	}
	close(indexes)
	wg.Wait()

	return results
}
