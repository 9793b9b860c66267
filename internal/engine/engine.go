// Package engine implements the bar-by-bar backtest for the boundary ladder
// strategy: a rolling trend anchor, per-bar entry/exit ladders, a multi-lot
// position ledger, and profit-damped capital sizing.
package engine

import (
	"fmt"
	"log/slog"
	"time"

	"boundary/internal/domain"
	"boundary/internal/indicator"
	"boundary/internal/strategy"
)

// BarLog records the engine state observed on one bar: the anchor, the
// derived ladders, running cash and mark-to-market equity, and a short
// description of any fills.
type BarLog struct {
	Timestamp    time.Time
	Close        float64
	Anchor       float64
	HasAnchor    bool
	BuildLevels  []float64
	ProfitLevels []float64
	Cash         float64
	Equity       float64
	Action       string
}

// Result is the complete output of one backtest run: the per-bar log, the
// append-only fill log, the lots still open at series end, and summary
// figures.
type Result struct {
	Symbol         string
	Bars           []BarLog
	Fills          []domain.Fill
	OpenLots       []domain.Lot
	InitialCapital float64
	FinalEquity    float64
	TotalReturnPct float64
	TotalTrades    int
	Start          time.Time
	End            time.Time
}

// Backtest replays a bar sequence through the boundary strategy. One
// instance owns all run state; create a fresh instance per run.
type Backtest struct {
	params  strategy.Params
	anchor  *indicator.SMA
	ledger  *Ledger
	capital *Capital
	log     *slog.Logger
}

// NewBacktest creates a Backtest for the given parameters. The parameters
// are validated before any state is allocated.
func NewBacktest(params strategy.Params) (*Backtest, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid strategy params: %w", err)
	}
	return &Backtest{
		params:  params,
		anchor:  indicator.NewSMA(params.AnchorWindow),
		ledger:  NewLedger(params.BuildLevels),
		capital: NewCapital(params.InitialCapital, params.ProfitCompounding, params.MaxPositionRatio),
		log:     slog.Default().With("component", "backtest"),
	}, nil
}

// Run processes the bar sequence in order and returns the trade log and
// equity curve. Bars must be sorted by non-decreasing timestamp; an
// out-of-order bar aborts the run, since correctness depends on strict
// chronological replay. Policy declines (occupied level, closed entry
// window, insufficient capital) are silent no-ops.
func (b *Backtest) Run(bars []domain.Bar) (*Result, error) {
	res := &Result{
		InitialCapital: b.capital.Initial(),
		FinalEquity:    b.capital.Initial(),
		Bars:           make([]BarLog, 0, len(bars)),
	}

	var prev time.Time
	for i, bar := range bars {
		if i > 0 && bar.Timestamp.Before(prev) {
			return nil, fmt.Errorf("bar %d out of order: %s before %s",
				i, bar.Timestamp.Format(time.RFC3339), prev.Format(time.RFC3339))
		}
		prev = bar.Timestamp
		if res.Symbol == "" {
			res.Symbol = bar.Symbol
		}

		entry := BarLog{
			Timestamp: bar.Timestamp,
			Close:     bar.Close,
		}

		anchor, ok := b.anchor.Add(bar.Close)
		if !ok {
			// No anchor yet: no decisions, just mark to market.
			entry.Cash = b.capital.Cash()
			entry.Equity = b.capital.Cash() + b.ledger.MarketValue(bar.Close)
			res.Bars = append(res.Bars, entry)
			continue
		}
		entry.Anchor = anchor
		entry.HasAnchor = true

		ladder := strategy.Derive(anchor, b.params)
		entry.BuildLevels = ladder.Build
		entry.ProfitLevels = ladder.Profit

		// Lots opened on this bar are not eligible to close until the next
		// bar; track them so the exit scans below skip them.
		openedThisBar := make(map[int]bool)
		var actions []string

		// Entry evaluation, highest build level first. Fills are modeled at
		// the level price (a resting limit order), and every level the bar's
		// low penetrates is eligible, not just the best one.
		if b.params.CanEnter(bar.Timestamp) {
			for level, price := range ladder.Build {
				if b.ledger.Occupied(level) || bar.Low > price {
					continue
				}
				shares := b.capital.Shares(price)
				if shares < 1 {
					b.log.Debug("entry declined, insufficient capital",
						"time", bar.Timestamp, "level", level, "price", price)
					continue
				}
				cost := float64(shares) * price
				if cost > b.capital.Cash() {
					b.log.Debug("entry declined, cash exhausted",
						"time", bar.Timestamp, "level", level, "cost", cost)
					continue
				}
				if !b.ledger.Open(level, price, shares, bar.Timestamp) {
					continue
				}
				b.capital.Debit(cost)
				openedThisBar[level] = true
				res.Fills = append(res.Fills, domain.Fill{
					Timestamp: bar.Timestamp,
					Side:      domain.SideBuy,
					Price:     price,
					Shares:    shares,
					Level:     level,
					Cash:      b.capital.Cash(),
				})
				actions = append(actions, fmt.Sprintf("BUY L%d@%.2f", level, price))
			}
		}

		// Profit-taking: each lot closes against the nearest profit level the
		// bar's high reaches (first ascending match).
		for _, lot := range b.ledger.OpenLots() {
			if openedThisBar[lot.Level] {
				continue
			}
			for _, target := range ladder.Profit {
				if bar.High < target {
					continue
				}
				b.closeLot(res, lot, target, bar.Timestamp)
				actions = append(actions, fmt.Sprintf("PROFIT L%d@%.2f", lot.Level, target))
				break
			}
		}

		// Forced liquidation: profitable lots only, at the bar close.
		// Unprofitable lots are held and re-evaluated on later bars.
		if b.params.InForceCloseWindow(bar.Timestamp) {
			for _, lot := range b.ledger.OpenLots() {
				if openedThisBar[lot.Level] || !b.ledger.IsProfitable(lot.Level, bar.Close) {
					continue
				}
				b.closeLot(res, lot, bar.Close, bar.Timestamp)
				actions = append(actions, fmt.Sprintf("CLOSE L%d@%.2f", lot.Level, bar.Close))
			}
		}

		entry.Cash = b.capital.Cash()
		entry.Equity = b.capital.Cash() + b.ledger.MarketValue(bar.Close)
		entry.Action = joinActions(actions)
		res.Bars = append(res.Bars, entry)
	}

	if n := len(res.Bars); n > 0 {
		res.Start = res.Bars[0].Timestamp
		res.End = res.Bars[n-1].Timestamp
		res.FinalEquity = res.Bars[n-1].Equity
	}
	res.OpenLots = b.ledger.OpenLots()
	res.TotalTrades = len(res.Fills)
	res.TotalReturnPct = (res.FinalEquity - res.InitialCapital) / res.InitialCapital * 100

	return res, nil
}

// closeLot removes the lot from the ledger, settles cash and realized
// profit, and appends the sell fill.
func (b *Backtest) closeLot(res *Result, lot domain.Lot, price float64, ts time.Time) {
	pnl, ok := b.ledger.Close(lot.Level, price)
	if !ok {
		return
	}
	b.capital.Credit(float64(lot.Shares) * price)
	b.capital.AddRealized(pnl)
	res.Fills = append(res.Fills, domain.Fill{
		Timestamp: ts,
		Side:      domain.SideSell,
		Price:     price,
		Shares:    lot.Shares,
		Level:     lot.Level,
		Cash:      b.capital.Cash(),
		Profit:    pnl,
	})
}

func joinActions(actions []string) string {
	switch len(actions) {
	case 0:
		return ""
	case 1:
		return actions[0]
	}
	s := actions[0]
	for _, a := range actions[1:] {
		s += " " + a
	}
	return s
}
