package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"vantage/internal/domain"
)

// ReadBarsCSV loads a price series from a CSV file with the header
// timestamp,open,high,low,close,volume. Timestamps are RFC 3339 or
// "2006-01-02". Rows must already be in ascending timestamp order;
// Series.Validate is the caller's check for that.
func ReadBarsCSV(path, symbol string, interval domain.Interval) (domain.Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.Series{}, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return domain.Series{}, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(rows) < 2 {
		return domain.Series{}, fmt.Errorf("reading %s: no data rows", path)
	}

	col := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		col[name] = i
	}
	for _, name := range []string{"timestamp", "open", "high", "low", "close", "volume"} {
		if _, ok := col[name]; !ok {
			return domain.Series{}, fmt.Errorf("reading %s: missing column %q", path, name)
		}
	}

	bars := make([]domain.Bar, 0, len(rows)-1)
	for i, row := range rows[1:] {
		ts, err := parseTimestamp(row[col["timestamp"]])
		if err != nil {
			return domain.Series{}, fmt.Errorf("row %d: %w", i+2, err)
		}
		bar := domain.Bar{Symbol: symbol, Timestamp: ts}
		for _, f := range []struct {
			name string
			dst  *float64
		}{
			{"open", &bar.Open},
			{"high", &bar.High},
			{"low", &bar.Low},
			{"close", &bar.Close},
		} {
			v, err := strconv.ParseFloat(row[col[f.name]], 64)
			if err != nil {
				return domain.Series{}, fmt.Errorf("row %d: parsing %s: %w", i+2, f.name, err)
			}
			*f.dst = v
		}
		// Volume may be fractional in some exports; truncate.
		vol, err := strconv.ParseFloat(row[col["volume"]], 64)
		if err != nil {
			return domain.Series{}, fmt.Errorf("row %d: parsing volume: %w", i+2, err)
		}
		bar.Volume = int64(vol)
		bars = append(bars, bar)
	}

	return domain.Series{Symbol: symbol, Interval: interval, Bars: bars}, nil
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// WriteTradeLogCSV writes the trade log to a CSV file, one row per round
// trip.
func WriteTradeLogCSV(path string, trades []domain.TradeRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{
		"symbol", "entry_time", "entry_price", "exit_time", "exit_price", "return", "forced_exit",
	}); err != nil {
		return err
	}
	for _, t := range trades {
		if err := w.Write([]string{
			t.Symbol,
			t.EntryTime.Format(time.RFC3339),
			formatFloat(t.EntryPrice),
			t.ExitTime.Format(time.RFC3339),
			formatFloat(t.ExitPrice),
			formatFloat(t.Return),
			strconv.FormatBool(t.ForcedExit),
		}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func formatFloat(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
