// Package live routes boundary strategy decisions to a broker in real time.
// It reuses the engine's ledger and capital state but replaces simulated
// fills with routed limit orders; fill confirmation and reconciliation are
// the broker's concern.
package live

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"boundary/internal/broker"
	"boundary/internal/domain"
	"boundary/internal/engine"
	"boundary/internal/strategy"
)

// Runner polls recent minute bars, derives the anchor and ladder the same
// way the backtest does, and submits entry/exit decisions to the broker.
type Runner struct {
	md       *marketdata.Client
	broker   broker.Broker
	params   strategy.Params
	symbol   string
	poll     time.Duration
	lookback int

	ledger  *engine.Ledger
	capital *engine.Capital
	log     *slog.Logger
}

// NewRunner creates a live Runner for one symbol. lookback is the number of
// recent minute bars fetched per poll; it must cover the anchor window.
func NewRunner(md *marketdata.Client, b broker.Broker, params strategy.Params,
	symbol string, poll time.Duration, lookback int) (*Runner, error) {

	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid strategy params: %w", err)
	}
	if lookback < params.AnchorWindow {
		return nil, fmt.Errorf("lookback %d is smaller than anchor window %d", lookback, params.AnchorWindow)
	}

	return &Runner{
		md:       md,
		broker:   b,
		params:   params,
		symbol:   symbol,
		poll:     poll,
		lookback: lookback,
		ledger:   engine.NewLedger(params.BuildLevels),
		capital:  engine.NewCapital(params.InitialCapital, params.ProfitCompounding, params.MaxPositionRatio),
		log:      slog.Default().With("component", "live", "symbol", symbol),
	}, nil
}

// Run polls until ctx is cancelled. Poll errors are logged and retried on
// the next tick; only context cancellation stops the loop.
func (r *Runner) Run(ctx context.Context) error {
	r.log.Info("live runner starting",
		"broker", r.broker.Name(), "poll", r.poll, "lookback", r.lookback)

	ticker := time.NewTicker(r.poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.Info("live runner stopping")
			return ctx.Err()
		case <-ticker.C:
			if err := r.step(ctx); err != nil {
				r.log.Error("poll failed", "err", err)
			}
		}
	}
}

// step performs one poll: fetch recent bars and route decisions.
func (r *Runner) step(ctx context.Context) error {
	end := time.Now()
	start := end.Add(-time.Duration(r.lookback*2) * time.Minute)

	mdBars, err := r.md.GetBars(r.symbol, marketdata.GetBarsRequest{
		TimeFrame: marketdata.OneMin,
		Start:     start,
		End:       end,
	})
	if err != nil {
		return fmt.Errorf("fetching bars: %w", err)
	}

	bars := make([]domain.Bar, 0, len(mdBars))
	for _, b := range mdBars {
		bars = append(bars, domain.Bar{
			Symbol:    r.symbol,
			Timestamp: b.Timestamp,
			Open:      b.Open,
			High:      b.High,
			Low:       b.Low,
			Close:     b.Close,
			Volume:    int64(b.Volume),
		})
	}
	return r.evaluate(ctx, bars)
}

// evaluate derives the anchor and ladder from the bar window and routes
// entry/exit decisions for the latest bar. Lots opened in this evaluation are
// not eligible to close until the next poll, matching the backtest's
// same-bar rule.
func (r *Runner) evaluate(ctx context.Context, bars []domain.Bar) error {
	if len(bars) < r.params.AnchorWindow {
		r.log.Debug("not enough bars for anchor", "have", len(bars))
		return nil
	}

	// Anchor over the trailing window of closes.
	var sum float64
	for _, b := range bars[len(bars)-r.params.AnchorWindow:] {
		sum += b.Close
	}
	anchor := sum / float64(r.params.AnchorWindow)
	ladder := strategy.Derive(anchor, r.params)

	latest := bars[len(bars)-1]
	ts := latest.Timestamp
	openedThisStep := make(map[int]bool)

	// Entries.
	if r.params.CanEnter(ts) {
		for level, price := range ladder.Build {
			if r.ledger.Occupied(level) || latest.Low > price {
				continue
			}
			shares := r.capital.Shares(price)
			if shares < 1 || float64(shares)*price > r.capital.Cash() {
				continue
			}
			if err := r.submit(ctx, domain.SideBuy, price, shares); err != nil {
				r.log.Error("buy order failed", "level", level, "err", err)
				continue
			}
			if !r.ledger.Open(level, price, shares, ts) {
				continue
			}
			r.capital.Debit(float64(shares) * price)
			openedThisStep[level] = true
			r.log.Info("opened lot", "level", level, "price", price, "shares", shares)
		}
	}

	// Profit-taking at the nearest reached target.
	for _, lot := range r.ledger.OpenLots() {
		if openedThisStep[lot.Level] {
			continue
		}
		for _, target := range ladder.Profit {
			if latest.High < target {
				continue
			}
			r.exit(ctx, lot, target, "profit")
			break
		}
	}

	// Forced liquidation of profitable lots.
	if r.params.InForceCloseWindow(ts) {
		for _, lot := range r.ledger.OpenLots() {
			if openedThisStep[lot.Level] || !r.ledger.IsProfitable(lot.Level, latest.Close) {
				continue
			}
			r.exit(ctx, lot, latest.Close, "force-close")
		}
	}

	return nil
}

func (r *Runner) exit(ctx context.Context, lot domain.Lot, price float64, reason string) {
	if err := r.submit(ctx, domain.SideSell, price, lot.Shares); err != nil {
		r.log.Error("sell order failed", "level", lot.Level, "reason", reason, "err", err)
		return
	}
	pnl, _ := r.ledger.Close(lot.Level, price)
	r.capital.Credit(float64(lot.Shares) * price)
	r.capital.AddRealized(pnl)
	r.log.Info("closed lot", "level", lot.Level, "price", price, "pnl", pnl, "reason", reason)
}

func (r *Runner) submit(ctx context.Context, side domain.Side, price float64, qty int64) error {
	_, err := r.broker.SubmitOrder(ctx, &domain.Order{
		Symbol:     r.symbol,
		Side:       side,
		Type:       domain.OrderTypeLimit,
		Qty:        qty,
		LimitPrice: price,
	})
	return err
}
