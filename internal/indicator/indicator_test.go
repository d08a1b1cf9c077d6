package indicator

import (
	"errors"
	"math"
	"testing"
	"time"

	"vantage/internal/domain"
)

func seriesFromCloses(closes []float64) domain.Series {
	bars := make([]domain.Bar, len(closes))
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		bars[i] = domain.Bar{
			Symbol:    "TEST",
			Timestamp: base.AddDate(0, 0, i),
			Open:      c,
			High:      c,
			Low:       c,
			Close:     c,
			Volume:    1,
		}
	}
	return domain.Series{Symbol: "TEST", Interval: domain.IntervalDaily, Bars: bars}
}

func constant(n int, v float64) []float64 {
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = v
	}
	return xs
}

func TestSMAConstantSeries(t *testing.T) {
	closes := constant(30, 42.5)
	for _, n := range []int{1, 5, 20, 30} {
		values, err := SMA(closes, n)
		if err != nil {
			t.Fatalf("SMA(%d) returned error: %v", n, err)
		}
		for i := range values {
			if i < n-1 {
				if !math.IsNaN(values[i]) {
					t.Fatalf("SMA(%d)[%d] = %v inside warm-up, want NaN", n, i, values[i])
				}
				continue
			}
			if values[i] != 42.5 {
				t.Fatalf("SMA(%d)[%d] = %v over constant series, want 42.5", n, i, values[i])
			}
		}
	}
}

func TestSMAValues(t *testing.T) {
	closes := []float64{1, 2, 3, 4, 5}
	values, err := SMA(closes, 3)
	if err != nil {
		t.Fatalf("SMA returned error: %v", err)
	}
	want := []float64{math.NaN(), math.NaN(), 2, 3, 4}
	for i := range want {
		if math.IsNaN(want[i]) {
			if !math.IsNaN(values[i]) {
				t.Errorf("values[%d] = %v, want NaN", i, values[i])
			}
			continue
		}
		if values[i] != want[i] {
			t.Errorf("values[%d] = %v, want %v", i, values[i], want[i])
		}
	}
}

func TestSMAInsufficientData(t *testing.T) {
	_, err := SMA(constant(10, 1), 50)
	var insufficient *domain.InsufficientDataError
	if !errors.As(err, &insufficient) {
		t.Fatalf("SMA error = %v, want InsufficientDataError", err)
	}
	if insufficient.Need != 50 || insufficient.Got != 10 {
		t.Errorf("error Need/Got = %d/%d, want 50/10", insufficient.Need, insufficient.Got)
	}
}

func TestSMAInvalidPeriod(t *testing.T) {
	_, err := SMA(constant(10, 1), 0)
	var invalid *domain.InvalidConfigurationError
	if !errors.As(err, &invalid) {
		t.Fatalf("SMA error = %v, want InvalidConfigurationError", err)
	}
}

func TestReturns(t *testing.T) {
	values := Returns([]float64{100, 110, 99})
	if !math.IsNaN(values[0]) {
		t.Errorf("Returns[0] = %v, want NaN", values[0])
	}
	if !almostEqual(values[1], 0.1) {
		t.Errorf("Returns[1] = %v, want 0.1", values[1])
	}
	if !almostEqual(values[2], -0.1) {
		t.Errorf("Returns[2] = %v, want -0.1", values[2])
	}
}

func TestLogReturns(t *testing.T) {
	values := LogReturns([]float64{100, 100 * math.E})
	if !almostEqual(values[1], 1) {
		t.Errorf("LogReturns[1] = %v, want 1", values[1])
	}
}

func TestVolatilityConstantSeries(t *testing.T) {
	values, err := Volatility(constant(20, 100), 5)
	if err != nil {
		t.Fatalf("Volatility returned error: %v", err)
	}
	for i, v := range values {
		if i < 5 {
			if !math.IsNaN(v) {
				t.Fatalf("Volatility[%d] = %v inside warm-up, want NaN", i, v)
			}
			continue
		}
		if v != 0 {
			t.Fatalf("Volatility[%d] = %v over constant series, want 0", i, v)
		}
	}
}

func TestAnnualizedVolatilityScaling(t *testing.T) {
	closes := []float64{100, 101, 99, 102, 98, 103, 97}
	plain, err := Volatility(closes, 3)
	if err != nil {
		t.Fatalf("Volatility returned error: %v", err)
	}
	annual, err := AnnualizedVolatility(closes, 3, 252)
	if err != nil {
		t.Fatalf("AnnualizedVolatility returned error: %v", err)
	}
	factor := math.Sqrt(252)
	for i := range plain {
		if math.IsNaN(plain[i]) {
			continue
		}
		if !almostEqual(annual[i], plain[i]*factor) {
			t.Errorf("annual[%d] = %v, want %v", i, annual[i], plain[i]*factor)
		}
	}
}

func TestRSIRange(t *testing.T) {
	closes := []float64{100, 102, 101, 105, 103, 108, 107, 111, 109, 114, 112, 118, 116, 121, 119, 125}
	values, err := RSI(closes, 14)
	if err != nil {
		t.Fatalf("RSI returned error: %v", err)
	}
	for i, v := range values {
		if i < 14 {
			if !math.IsNaN(v) {
				t.Fatalf("RSI[%d] = %v inside warm-up, want NaN", i, v)
			}
			continue
		}
		if v < 0 || v > 100 {
			t.Fatalf("RSI[%d] = %v outside [0, 100]", i, v)
		}
	}
}

func TestRSIAllGains(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	values, err := RSI(closes, 14)
	if err != nil {
		t.Fatalf("RSI returned error: %v", err)
	}
	for i := 14; i < len(values); i++ {
		if values[i] != 100 {
			t.Errorf("RSI[%d] = %v for monotonic gains, want 100", i, values[i])
		}
	}
}

func TestRSIAllLosses(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 100 - float64(i)
	}
	values, err := RSI(closes, 14)
	if err != nil {
		t.Fatalf("RSI returned error: %v", err)
	}
	for i := 14; i < len(values); i++ {
		if values[i] != 0 {
			t.Errorf("RSI[%d] = %v for monotonic losses, want 0", i, values[i])
		}
	}
}

func TestRSIFlatSeriesIsNeutral(t *testing.T) {
	values, err := RSI(constant(50, 10), 14)
	if err != nil {
		t.Fatalf("RSI returned error: %v", err)
	}
	for i := 14; i < len(values); i++ {
		if values[i] != 50 {
			t.Errorf("RSI[%d] = %v over flat series, want neutral 50", i, values[i])
		}
	}
}

func TestRSINeedsOneChangeMoreThanPeriod(t *testing.T) {
	// n changes take n+1 closes: a series of exactly n bars is one short.
	_, err := RSI([]float64{100, 101, 102, 103, 104}, 5)
	var insufficient *domain.InsufficientDataError
	if !errors.As(err, &insufficient) {
		t.Fatalf("RSI error = %v, want InsufficientDataError", err)
	}
	if insufficient.Need != 6 || insufficient.Got != 5 {
		t.Errorf("error Need/Got = %d/%d, want 6/5", insufficient.Need, insufficient.Got)
	}

	// One more bar is enough: exactly one defined value, at index n.
	values, err := RSI([]float64{100, 101, 102, 103, 104, 105}, 5)
	if err != nil {
		t.Fatalf("RSI returned error: %v", err)
	}
	if math.IsNaN(values[5]) {
		t.Error("values[5] = NaN, want a defined value at index n")
	}
}

func TestRSIWilderSmoothing(t *testing.T) {
	// Hand-checked with period 2: seed from the first two changes, then one
	// smoothed update.
	closes := []float64{10, 11, 10, 12}
	values, err := RSI(closes, 2)
	if err != nil {
		t.Fatalf("RSI returned error: %v", err)
	}

	// Seed: gains (1, 0), losses (0, 1) -> avgGain 0.5, avgLoss 0.5 -> RSI 50.
	if !almostEqual(values[2], 50) {
		t.Errorf("RSI[2] = %v, want 50", values[2])
	}
	// Update with gain 2: avgGain (0.5+2)/2 = 1.25, avgLoss 0.25 -> RS 5.
	if !almostEqual(values[3], 100-100.0/6.0) {
		t.Errorf("RSI[3] = %v, want %v", values[3], 100-100.0/6.0)
	}
}

func TestComputeAndWarmup(t *testing.T) {
	series := seriesFromCloses(constant(60, 100))
	set, err := Compute(series, []Spec{
		{Kind: KindSMA, Period: 20},
		{Kind: KindSMA, Period: 50},
		{Kind: KindRSI, Period: 14},
	})
	if err != nil {
		t.Fatalf("Compute returned error: %v", err)
	}

	if _, ok := set["sma_20"]; !ok {
		t.Error("set missing key sma_20")
	}
	if _, ok := set["rsi_14"]; !ok {
		t.Error("set missing key rsi_14")
	}
	// Longest warm-up is SMA(50): first defined index 49.
	if got := set.Warmup(); got != 49 {
		t.Errorf("Warmup = %d, want 49", got)
	}
}

func TestComputeFailsAtomically(t *testing.T) {
	series := seriesFromCloses(constant(30, 100))
	_, err := Compute(series, []Spec{
		{Kind: KindSMA, Period: 10},
		{Kind: KindSMA, Period: 50}, // longer than the series
	})
	var insufficient *domain.InsufficientDataError
	if !errors.As(err, &insufficient) {
		t.Fatalf("Compute error = %v, want InsufficientDataError", err)
	}
}

func TestSpecKey(t *testing.T) {
	if got := (Spec{Kind: KindSMA, Period: 20}).Key(); got != "sma_20" {
		t.Errorf("Key = %q, want sma_20", got)
	}
	if got := (Spec{Kind: KindVolatility, Period: 10}).Key(); got != "volatility_10" {
		t.Errorf("Key = %q, want volatility_10", got)
	}
}

func TestDeterminism(t *testing.T) {
	closes := []float64{100, 102, 101, 105, 103, 108, 107, 111, 109, 114, 112, 118, 116, 121, 119, 125}
	a, _ := RSI(closes, 14)
	b, _ := RSI(closes, 14)
	for i := range a {
		if math.IsNaN(a[i]) && math.IsNaN(b[i]) {
			continue
		}
		if a[i] != b[i] {
			t.Fatalf("RSI not deterministic at %d: %v vs %v", i, a[i], b[i])
		}
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
