package backtest

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vantage/internal/domain"
)

func TestSweepRunsAllJobs(t *testing.T) {
	closes := []float64{100, 100, 110, 120, 120}
	series := testSeries(closes, closes)

	jobs := make([]SweepJob, 8)
	for i := range jobs {
		jobs[i] = SweepJob{
			Label:    fmt.Sprintf("job-%d", i),
			Series:   series,
			Strategy: &scripted{signals: sigs(hold, buy, hold, sell, hold)},
		}
	}

	results := Sweep(context.Background(), jobs, Config{}, 3)
	require.Len(t, results, len(jobs))
	for i, res := range results {
		assert.Equal(t, jobs[i].Label, res.Label, "results keep job order")
		require.NoError(t, res.Err)
		require.NotNil(t, res.Result)
		assert.InDelta(t, 0.20, res.Result.Summary.TotalReturn, 1e-12)
	}
}

func TestSweepReportsPerJobErrors(t *testing.T) {
	good := []float64{100, 100, 110, 120, 120}
	jobs := []SweepJob{
		{Label: "good", Series: testSeries(good, good), Strategy: &scripted{signals: sigs(hold, buy, hold, sell, hold)}},
		{Label: "empty", Series: domain.Series{Symbol: "TEST", Interval: domain.IntervalDaily}, Strategy: &scripted{}},
	}

	results := Sweep(context.Background(), jobs, Config{}, 2)
	require.Len(t, results, 2)

	assert.NoError(t, results[0].Err)
	require.Error(t, results[1].Err)
	var insufficient *domain.InsufficientDataError
	assert.ErrorAs(t, results[1].Err, &insufficient)
	assert.Nil(t, results[1].Result)
}

func TestSweepCancelledContext(t *testing.T) {
	closes := []float64{100, 100, 110, 120, 120}
	series := testSeries(closes, closes)
	jobs := []SweepJob{
		{Label: "a", Series: series, Strategy: &scripted{signals: sigs(hold, buy, hold, sell, hold)}},
		{Label: "b", Series: series, Strategy: &scripted{signals: sigs(hold, buy, hold, sell, hold)}},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := Sweep(ctx, jobs, Config{}, 2)
	require.Len(t, results, 2)
	for _, res := range results {
		assert.ErrorIs(t, res.Err, context.Canceled)
		assert.Nil(t, res.Result)
	}
}

func TestSweepZeroWorkersStillRuns(t *testing.T) {
	closes := []float64{100, 100, 110, 120, 120}
	jobs := []SweepJob{
		{Label: "only", Series: testSeries(closes, closes), Strategy: &scripted{signals: sigs(hold, buy, hold, sell, hold)}},
	}

	results := Sweep(context.Background(), jobs, Config{}, 0)
	require.Len(t, results, 1)
	assert.NoError(t, results[0].Err)
}
