package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"boundary/internal/config"
	"boundary/internal/domain"
	"boundary/internal/engine"
	"boundary/internal/report"
	"boundary/internal/store"
	"boundary/internal/util"
)

func main() {
	var (
		symbol   = flag.String("symbol", "TQQQ", "symbol to backtest")
		startStr = flag.String("start", "", "start date (YYYY-MM-DD), required unless -csv is set")
		endStr   = flag.String("end", "", "end date (YYYY-MM-DD), required unless -csv is set")
		csvPath  = flag.String("csv", "", "read bars from a CSV export instead of the parquet store")
		outDir   = flag.String("out", "", "results directory (default from config)")
	)
	flag.Parse()

	cfgPath := "config/boundary.yaml"
	if p := os.Getenv("BOUNDARY_CONFIG"); p != "" {
		cfgPath = p
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := util.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	slog.SetDefault(logger)

	ctx := context.Background()

	bars, err := loadBars(ctx, cfg, *symbol, *csvPath, *startStr, *endStr)
	if err != nil {
		log.Fatalf("failed to load bars: %v", err)
	}
	if len(bars) == 0 {
		log.Fatalf("no bars found for %s", *symbol)
	}

	bt, err := engine.NewBacktest(cfg.Strategy)
	if err != nil {
		log.Fatalf("failed to create backtest: %v", err)
	}

	res, err := bt.Run(bars)
	if err != nil {
		log.Fatalf("backtest failed: %v", err)
	}

	fmt.Print(report.FormatSummary(res))

	dir := *outDir
	if dir == "" {
		dir = cfg.Storage.ResultsDir
	}
	if dir == "" {
		dir = "results"
	}
	dir = filepath.Join(dir, *symbol)

	if err := report.WriteBarLogCSV(filepath.Join(dir, "backtest_results.csv"), res); err != nil {
		log.Fatalf("failed to write bar log: %v", err)
	}
	if err := report.WriteSummary(filepath.Join(dir, "backtest_summary.txt"), res); err != nil {
		log.Fatalf("failed to write summary: %v", err)
	}
	slog.Info("results written", "dir", dir, "bars", len(res.Bars), "trades", res.TotalTrades)

	if cfg.Storage.SQLitePath != "" {
		if err := persistRun(ctx, cfg.Storage.SQLitePath, res); err != nil {
			log.Fatalf("failed to persist run: %v", err)
		}
	}
}

// loadBars reads the input series either from a CSV export or the parquet
// store.
func loadBars(ctx context.Context, cfg *config.Config, symbol, csvPath, startStr, endStr string) ([]domain.Bar, error) {
	if csvPath != "" {
		return store.ReadBarsCSV(csvPath, symbol)
	}

	if startStr == "" || endStr == "" {
		return nil, fmt.Errorf("-start and -end are required without -csv")
	}
	start, err := time.Parse("2006-01-02", startStr)
	if err != nil {
		return nil, fmt.Errorf("parsing start date: %w", err)
	}
	end, err := time.Parse("2006-01-02", endStr)
	if err != nil {
		return nil, fmt.Errorf("parsing end date: %w", err)
	}
	// Include the whole end day.
	end = end.AddDate(0, 0, 1).Add(-time.Nanosecond)

	ps := store.NewParquetStore(cfg.Storage.DataDir)
	return ps.ReadBars(ctx, symbol, start, end)
}

// persistRun saves the run summary and fill log to the SQLite history.
func persistRun(ctx context.Context, dbPath string, res *engine.Result) error {
	db, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	runID, err := db.SaveRun(ctx, &domain.RunSummary{
		Symbol:         res.Symbol,
		Start:          res.Start,
		End:            res.End,
		InitialCapital: res.InitialCapital,
		FinalEquity:    res.FinalEquity,
		TotalReturnPct: res.TotalReturnPct,
		TotalTrades:    res.TotalTrades,
	})
	if err != nil {
		return err
	}
	if err := db.SaveFills(ctx, runID, res.Fills); err != nil {
		return err
	}
	slog.Info("run persisted", "runID", runID, "db", dbPath)
	return nil
}
