// Package strategy holds the boundary strategy parameters and the price
// ladder derivation used by both the backtest engine and the live runner.
package strategy

import (
	"fmt"
	"time"
)

// Params defines the boundary strategy configuration. All strategy constants
// live here rather than in the engine so runs stay parameterizable.
type Params struct {
	InitialCapital   float64 `yaml:"initial_capital"`
	BuildLevels      int     `yaml:"build_levels"`
	ProfitLevels     int     `yaml:"profit_levels"`
	MaxPositionRatio float64 `yaml:"max_position_ratio"`
	BuyDrop          float64 `yaml:"buy_drop"`
	SellRise         float64 `yaml:"sell_rise"`
	LevelSpread      float64 `yaml:"level_spread"`

	// AnchorWindow is the moving-average window (bars) for the trend anchor.
	AnchorWindow int `yaml:"anchor_window"`

	// ProfitCompounding is the fraction of cumulative realized profit that
	// compounds into the per-level capital cap.
	ProfitCompounding float64 `yaml:"profit_compounding"`

	// EntryCutoffHour is the last bar hour (inclusive) in which new lots may
	// be opened.
	EntryCutoffHour int `yaml:"entry_cutoff_hour"`

	// ForceCloseStartHour/ForceCloseEndHour bound the half-open [start, end)
	// window in which profitable lots are force-closed at the bar close.
	ForceCloseStartHour int `yaml:"force_close_start_hour"`
	ForceCloseEndHour   int `yaml:"force_close_end_hour"`
}

// Default returns the production parameter set for the boundary strategy.
func Default() Params {
	return Params{
		InitialCapital:      20000,
		BuildLevels:         5,
		ProfitLevels:        5,
		MaxPositionRatio:    0.20,
		BuyDrop:             0.01,
		SellRise:            0.001,
		LevelSpread:         0.001,
		AnchorWindow:        14,
		ProfitCompounding:   0.5,
		EntryCutoffHour:     2,
		ForceCloseStartHour: 4,
		ForceCloseEndHour:   22,
	}
}

// Validate rejects parameter sets that cannot produce a meaningful run.
// It is called once at startup, before any bar is processed.
func (p Params) Validate() error {
	if p.InitialCapital <= 0 {
		return fmt.Errorf("initial_capital must be positive, got %v", p.InitialCapital)
	}
	if p.BuildLevels <= 0 {
		return fmt.Errorf("build_levels must be positive, got %d", p.BuildLevels)
	}
	if p.ProfitLevels <= 0 {
		return fmt.Errorf("profit_levels must be positive, got %d", p.ProfitLevels)
	}
	if p.MaxPositionRatio <= 0 || p.MaxPositionRatio > 1 {
		return fmt.Errorf("max_position_ratio must be in (0, 1], got %v", p.MaxPositionRatio)
	}
	if p.BuyDrop <= 0 {
		return fmt.Errorf("buy_drop must be positive, got %v", p.BuyDrop)
	}
	if p.SellRise <= 0 {
		return fmt.Errorf("sell_rise must be positive, got %v", p.SellRise)
	}
	if p.LevelSpread <= 0 {
		return fmt.Errorf("level_spread must be positive, got %v", p.LevelSpread)
	}
	if p.AnchorWindow <= 0 {
		return fmt.Errorf("anchor_window must be positive, got %d", p.AnchorWindow)
	}
	if p.ProfitCompounding < 0 {
		return fmt.Errorf("profit_compounding must be non-negative, got %v", p.ProfitCompounding)
	}
	if p.EntryCutoffHour < 0 || p.EntryCutoffHour > 23 {
		return fmt.Errorf("entry_cutoff_hour must be in [0, 23], got %d", p.EntryCutoffHour)
	}
	if p.ForceCloseStartHour < 0 || p.ForceCloseEndHour > 24 || p.ForceCloseStartHour >= p.ForceCloseEndHour {
		return fmt.Errorf("force close window [%d, %d) is invalid", p.ForceCloseStartHour, p.ForceCloseEndHour)
	}
	return nil
}

// CanEnter reports whether new lots may be opened at time ts. The bar stream
// itself is the clock; no scheduler state is kept.
func (p Params) CanEnter(ts time.Time) bool {
	return ts.Hour() <= p.EntryCutoffHour
}

// InForceCloseWindow reports whether ts falls in the forced-liquidation
// window [ForceCloseStartHour, ForceCloseEndHour).
func (p Params) InForceCloseWindow(ts time.Time) bool {
	h := ts.Hour()
	return h >= p.ForceCloseStartHour && h < p.ForceCloseEndHour
}
