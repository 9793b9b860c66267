package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"boundary/internal/broker"
	"boundary/internal/config"
	"boundary/internal/live"
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

	slog.SetDefault(util.NewLogger(cfg.Logging.Level, cfg.Logging.Format))

	if cfg.Trading.Symbol == "" {
		log.Fatalf("trading.symbol is not configured")
	}

	var b broker.Broker
	if cfg.Trading.PaperMode {
		b = broker.NewPaperBroker(cfg.Strategy.InitialCapital)
	} else {
		b = broker.NewAlpacaBroker(cfg.Alpaca.APIKey, cfg.Alpaca.APISecret, cfg.Alpaca.BaseURL)
	}

	md := marketdata.NewClient(marketdata.ClientOpts{
		APIKey:    cfg.Alpaca.APIKey,
		APISecret: cfg.Alpaca.APISecret,
		BaseURL:   cfg.Alpaca.DataURL,
	})

	runner, err := live.NewRunner(
		md,
		b,
		cfg.Strategy,
		cfg.Trading.Symbol,
		time.Duration(cfg.Trading.PollSeconds)*time.Second,
		cfg.Trading.LookbackBars,
	)
	if err != nil {
		log.Fatalf("failed to create runner: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("runner error: %v", err)
	}
}
