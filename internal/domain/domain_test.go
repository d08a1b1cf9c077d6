package domain

import (
	"testing"
	"time"
)

func day(n int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func flatSeries(n int, price float64) Series {
	bars := make([]Bar, n)
	for i := range bars {
		bars[i] = Bar{
			Symbol:    "TEST",
			Timestamp: day(i),
			Open:      price,
			High:      price,
			Low:       price,
			Close:     price,
			Volume:    1000,
		}
	}
	return Series{Symbol: "TEST", Interval: IntervalDaily, Bars: bars}
}

func TestSeriesValidate(t *testing.T) {
	s := flatSeries(10, 100)
	if err := s.Validate(); err != nil {
		t.Fatalf("Validate returned error for valid series: %v", err)
	}
}

func TestSeriesValidate_HighBelowLow(t *testing.T) {
	s := flatSeries(3, 100)
	s.Bars[1].High = 90
	s.Bars[1].Low = 95
	if err := s.Validate(); err == nil {
		t.Fatal("Validate should reject high below low")
	}
}

func TestSeriesValidate_NonMonotonicTimestamps(t *testing.T) {
	s := flatSeries(3, 100)
	s.Bars[2].Timestamp = s.Bars[1].Timestamp
	if err := s.Validate(); err == nil {
		t.Fatal("Validate should reject duplicate timestamps")
	}
}

func TestSeriesCloses(t *testing.T) {
	s := flatSeries(3, 100)
	s.Bars[1].Close = 110
	closes := s.Closes()
	if len(closes) != 3 {
		t.Fatalf("Closes returned %d values, want 3", len(closes))
	}
	if closes[1] != 110 {
		t.Errorf("closes[1] = %v, want 110", closes[1])
	}
}

func TestSeriesSummarize(t *testing.T) {
	s := flatSeries(5, 100)
	s.Bars[4].Close = 110
	s.Bars[4].High = 110

	sum := s.Summarize()
	if sum.Bars != 5 {
		t.Errorf("Bars = %d, want 5", sum.Bars)
	}
	if sum.FirstClose != 100 || sum.LastClose != 110 {
		t.Errorf("closes = %v -> %v, want 100 -> 110", sum.FirstClose, sum.LastClose)
	}
	if got, want := sum.BuyAndHold, 0.1; !closeTo(got, want) {
		t.Errorf("BuyAndHold = %v, want %v", got, want)
	}

	empty := Series{}
	if got := empty.Summarize(); got.Bars != 0 {
		t.Errorf("empty Summarize Bars = %d, want 0", got.Bars)
	}
}

func TestParseInterval(t *testing.T) {
	iv, err := ParseInterval("1d")
	if err != nil {
		t.Fatalf("ParseInterval(1d) returned error: %v", err)
	}
	if iv != IntervalDaily {
		t.Errorf("ParseInterval(1d) = %q, want %q", iv, IntervalDaily)
	}

	if _, err := ParseInterval("4h"); err == nil {
		t.Error("ParseInterval(4h) should fail")
	}
}

func TestIntervalPeriodsPerYear(t *testing.T) {
	cases := map[Interval]int{
		IntervalDaily:   252,
		IntervalWeekly:  52,
		IntervalMonthly: 12,
		IntervalQuarter: 4,
		Interval1Hour:   24 * 365,
		Interval15Min:   24 * 365 * 4,
	}
	for iv, want := range cases {
		if got := iv.PeriodsPerYear(); got != want {
			t.Errorf("%s.PeriodsPerYear() = %d, want %d", iv, got, want)
		}
	}
}

func TestSignalTypeString(t *testing.T) {
	if Buy.String() != "BUY" || Sell.String() != "SELL" || Hold.String() != "HOLD" {
		t.Error("SignalType String values are wrong")
	}
}

func TestTradeRecordDuration(t *testing.T) {
	tr := TradeRecord{EntryTime: day(0), ExitTime: day(3)}
	if got := tr.Duration(); got != 72*time.Hour {
		t.Errorf("Duration = %v, want 72h", got)
	}
}

func closeTo(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-9
}
