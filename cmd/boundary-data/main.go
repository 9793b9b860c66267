package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"boundary/internal/config"
	"boundary/internal/gather/us"
	"boundary/internal/store"
	"boundary/internal/util"
)

func main() {
	cfgPath := "config/boundary.yaml"
	if p := os.Getenv("BOUNDARY_CONFIG"); p != "" {
		cfgPath = p
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Dual logger: stdout + /tmp log file.
	logFileName := fmt.Sprintf("/tmp/boundary-data-%s.log", time.Now().Format("2006-01-02"))
	logFile, err := os.Create(logFileName)
	if err != nil {
		log.Fatalf("failed to create log file: %v", err)
	}
	defer logFile.Close()

	w := io.MultiWriter(os.Stdout, logFile)
	slog.SetDefault(util.NewLoggerTo(w, cfg.Logging.Level, "text"))

	pstore := store.NewParquetStore(cfg.Storage.DataDir)

	gatherer := us.NewMinuteBarGatherer(
		cfg.Alpaca.APIKey,
		cfg.Alpaca.APISecret,
		cfg.Alpaca.DataURL,
		pstore,
		cfg.Gather.Symbols,
		cfg.Gather.StartDate,
		cfg.Gather.EndDate,
		cfg.Gather.BatchDays,
		cfg.Gather.RateLimitPerMin,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	slog.Info("starting boundary-data", "logFile", logFileName, "symbols", cfg.Gather.Symbols)
	if err := gatherer.Run(ctx); err != nil {
		log.Fatalf("gather error: %v", err)
	}
	slog.Info("gather complete")
}
