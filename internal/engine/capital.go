package engine

import "math"

// Capital tracks session capital state: the constant initial capital, cash,
// and cumulative realized profit. Realized profit only changes on sell fills.
//
// The per-level cap deliberately damps growth: only the configured fraction
// of realized profit compounds, and the base is capped at the lesser of the
// compounded and original capital.
type Capital struct {
	initial     float64
	cash        float64
	realized    float64
	compounding float64 // fraction of realized profit that compounds
	maxRatio    float64 // per-level ceiling as a fraction of the capital base
}

// NewCapital creates a Capital manager with the given initial capital,
// profit-compounding fraction, and per-level position ratio.
func NewCapital(initial, compounding, maxRatio float64) *Capital {
	return &Capital{
		initial:     initial,
		cash:        initial,
		compounding: compounding,
		maxRatio:    maxRatio,
	}
}

// PerLevelCap returns the capital ceiling available for one new lot:
//
//	min(initial + realized*compounding, initial) * maxRatio
func (c *Capital) PerLevelCap() float64 {
	base := c.initial + c.realized*c.compounding
	return math.Min(base, c.initial) * c.maxRatio
}

// Shares returns the whole-share count affordable under the per-level cap at
// the given entry price. Zero means the entry is declined.
func (c *Capital) Shares(price float64) int64 {
	if price <= 0 {
		return 0
	}
	return int64(math.Floor(c.PerLevelCap() / price))
}

// Debit removes cash spent on an entry fill.
func (c *Capital) Debit(amount float64) { c.cash -= amount }

// Credit adds cash received from an exit fill.
func (c *Capital) Credit(amount float64) { c.cash += amount }

// AddRealized records the realized pnl of a closed lot.
func (c *Capital) AddRealized(pnl float64) { c.realized += pnl }

// Cash returns the current cash balance.
func (c *Capital) Cash() float64 { return c.cash }

// Realized returns cumulative realized profit to date.
func (c *Capital) Realized() float64 { return c.realized }

// Initial returns the initial capital.
func (c *Capital) Initial() float64 { return c.initial }
