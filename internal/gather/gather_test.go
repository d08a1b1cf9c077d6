package gather

import (
	"testing"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"vantage/internal/domain"
)

func TestTimeframeFor(t *testing.T) {
	cases := []struct {
		interval domain.Interval
		want     marketdata.TimeFrame
	}{
		{domain.Interval1Min, marketdata.OneMin},
		{domain.Interval5Min, marketdata.NewTimeFrame(5, marketdata.Min)},
		{domain.Interval30Min, marketdata.NewTimeFrame(30, marketdata.Min)},
		{domain.Interval1Hour, marketdata.OneHour},
		{domain.IntervalDaily, marketdata.OneDay},
		{domain.IntervalWeekly, marketdata.NewTimeFrame(1, marketdata.Week)},
		{domain.IntervalQuarter, marketdata.NewTimeFrame(3, marketdata.Month)},
	}
	for _, tc := range cases {
		got, err := timeframeFor(tc.interval)
		if err != nil {
			t.Fatalf("timeframeFor(%s) returned error: %v", tc.interval, err)
		}
		if got != tc.want {
			t.Errorf("timeframeFor(%s) = %+v, want %+v", tc.interval, got, tc.want)
		}
	}
}

func TestTimeframeForUnknownInterval(t *testing.T) {
	if _, err := timeframeFor(domain.Interval("4h")); err == nil {
		t.Fatal("timeframeFor should fail for an unmapped interval")
	}
}

func TestNewAlpacaBarGathererDefaults(t *testing.T) {
	g := NewAlpacaBarGatherer(AlpacaBarGathererOpts{
		Symbols:  []string{"AAPL"},
		Interval: domain.IntervalDaily,
	}, nil)

	if g.Name() != "alpaca-bars" {
		t.Errorf("Name = %q, want alpaca-bars", g.Name())
	}
	if g.retries != 3 {
		t.Errorf("retries = %d, want default 3", g.retries)
	}
}
