// Package report writes backtest results to disk: a per-bar CSV log and a
// plain-text summary.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"boundary/internal/engine"
)

const timeLayout = "2006-01-02 15:04:05"

// WriteBarLogCSV writes the per-bar log of a run: timestamp, close, anchor,
// ladder levels, running cash and equity, and any fill actions.
func WriteBarLogCSV(path string, res *engine.Result) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{"time", "close", "anchor", "build_levels", "profit_levels", "cash", "equity", "action"}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, b := range res.Bars {
		anchor := ""
		if b.HasAnchor {
			anchor = strconv.FormatFloat(b.Anchor, 'f', 2, 64)
		}
		row := []string{
			b.Timestamp.Format(timeLayout),
			strconv.FormatFloat(b.Close, 'f', 2, 64),
			anchor,
			formatLevels(b.BuildLevels),
			formatLevels(b.ProfitLevels),
			strconv.FormatFloat(b.Cash, 'f', 2, 64),
			strconv.FormatFloat(b.Equity, 'f', 2, 64),
			b.Action,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// WriteSummary writes the run summary next to the bar log.
func WriteSummary(path string, res *engine.Result) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(FormatSummary(res)), 0o644)
}

// FormatSummary renders the run summary: final equity, total return, trade
// count, and date range.
func FormatSummary(res *engine.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Boundary Trading Strategy Backtest Summary\n")
	fmt.Fprintf(&b, "%s\n", strings.Repeat("=", 40))
	fmt.Fprintf(&b, "Symbol: %s\n", res.Symbol)
	fmt.Fprintf(&b, "Date Range: %s -> %s\n",
		res.Start.Format(timeLayout), res.End.Format(timeLayout))
	fmt.Fprintf(&b, "Initial Capital: %.2f\n", res.InitialCapital)
	fmt.Fprintf(&b, "Final Equity: %.2f\n", res.FinalEquity)
	fmt.Fprintf(&b, "Total Return: %.2f%%\n", res.TotalReturnPct)
	fmt.Fprintf(&b, "Total Trades: %d\n", res.TotalTrades)
	if len(res.OpenLots) > 0 {
		fmt.Fprintf(&b, "Open Lots at End: %d\n", len(res.OpenLots))
	}
	return b.String()
}

// formatLevels renders a ladder side as a compact semicolon-joined list so
// it survives CSV quoting.
func formatLevels(levels []float64) string {
	if len(levels) == 0 {
		return ""
	}
	parts := make([]string, len(levels))
	for i, v := range levels {
		parts[i] = strconv.FormatFloat(v, 'f', 2, 64)
	}
	return strings.Join(parts, ";")
}
