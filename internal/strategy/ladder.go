package strategy

import "math"

// Ladder holds the two price threshold sets derived from the trend anchor.
// Build levels descend from just below the anchor; profit levels ascend from
// just above it. Both are recomputed every bar and never persisted.
type Ladder struct {
	Build  []float64 // strictly decreasing
	Profit []float64 // strictly increasing
}

// Derive computes the build and profit ladders for the given anchor value.
// Level prices model resting limit orders and are rounded to cents:
//
//	build[i]  = anchor * (1 - BuyDrop  - i*LevelSpread)
//	profit[i] = anchor * (1 + SellRise + i*LevelSpread)
func Derive(anchor float64, p Params) Ladder {
	l := Ladder{
		Build:  make([]float64, p.BuildLevels),
		Profit: make([]float64, p.ProfitLevels),
	}
	for i := 0; i < p.BuildLevels; i++ {
		l.Build[i] = round2(anchor * (1 - p.BuyDrop - float64(i)*p.LevelSpread))
	}
	for i := 0; i < p.ProfitLevels; i++ {
		l.Profit[i] = round2(anchor * (1 + p.SellRise + float64(i)*p.LevelSpread))
	}
	return l
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
