package backtest

import (
	"fmt"
	"io"
	"time"
)

// PrintSummary writes a human-readable performance report to w.
func (r *Result) PrintSummary(w io.Writer) {
	s := r.Summary
	fmt.Fprintf(w, "\n=== Backtest Results: %s on %s (%s) ===\n", r.Strategy, r.Symbol, r.Interval)
	fmt.Fprintf(w, "Total Return:      %.2f%%\n", s.TotalReturn*100)
	fmt.Fprintf(w, "Annualized Return: %.2f%%\n", s.AnnualizedReturn*100)
	fmt.Fprintf(w, "Max Drawdown:      %.2f%%\n", s.MaxDrawdown*100)
	fmt.Fprintf(w, "Sharpe Ratio:      %.2f\n", s.SharpeRatio)
	fmt.Fprintf(w, "Win Rate:          %.2f%%\n", s.WinRate*100)
	fmt.Fprintf(w, "Trades:            %d\n", s.TradeCount)
}

// PrintTrades writes the trade log to w, one line per round trip.
func (r *Result) PrintTrades(w io.Writer) {
	fmt.Fprintln(w, "\n=== Trade List ===")
	for i, t := range r.Trades {
		note := ""
		if t.ForcedExit {
			note = " (forced exit)"
		}
		fmt.Fprintf(w, "#%d | %s -> %s | Entry: %.5f | Exit: %.5f | Return: %.2f%% | Held: %s%s\n",
			i+1,
			t.EntryTime.Format("2006-01-02 15:04"),
			t.ExitTime.Format("2006-01-02 15:04"),
			t.EntryPrice,
			t.ExitPrice,
			t.Return*100,
			t.Duration().Round(time.Minute),
			note,
		)
	}
}
