package engine

import (
	"sort"
	"time"

	"boundary/internal/domain"
)

// Ledger owns the set of currently open lots, indexed by ladder level. The
// level-indexed map structurally enforces the at-most-one-lot-per-level
// invariant: an occupied level cannot be re-entered until its lot closes.
type Ledger struct {
	lots   map[int]*domain.Lot
	levels int
}

// NewLedger creates a Ledger that accepts levels 0..levels-1.
func NewLedger(levels int) *Ledger {
	return &Ledger{
		lots:   make(map[int]*domain.Lot, levels),
		levels: levels,
	}
}

// Open creates a lot at the given level. It returns false without mutating
// anything if the level is out of range or already occupied.
func (l *Ledger) Open(level int, price float64, shares int64, ts time.Time) bool {
	if level < 0 || level >= l.levels {
		return false
	}
	if _, occupied := l.lots[level]; occupied {
		return false
	}
	l.lots[level] = &domain.Lot{
		Level:      level,
		EntryPrice: price,
		Shares:     shares,
		EntryTime:  ts,
	}
	return true
}

// Close removes the lot at the given level and returns its realized pnl,
// (price - entry) * shares. ok is false if no lot is open at that level.
func (l *Ledger) Close(level int, price float64) (pnl float64, ok bool) {
	lot, ok := l.lots[level]
	if !ok {
		return 0, false
	}
	delete(l.lots, level)
	return (price - lot.EntryPrice) * float64(lot.Shares), true
}

// IsProfitable reports whether the lot at the given level would realize a
// gain at the given price. A missing lot is never profitable.
func (l *Ledger) IsProfitable(level int, price float64) bool {
	lot, ok := l.lots[level]
	return ok && price > lot.EntryPrice
}

// OpenLots returns the open lots in ascending level order. The deterministic
// order makes forced-liquidation scans reproducible.
func (l *Ledger) OpenLots() []domain.Lot {
	lots := make([]domain.Lot, 0, len(l.lots))
	for _, lot := range l.lots {
		lots = append(lots, *lot)
	}
	sort.Slice(lots, func(i, j int) bool { return lots[i].Level < lots[j].Level })
	return lots
}

// Occupied reports whether a lot is open at the given level.
func (l *Ledger) Occupied(level int) bool {
	_, ok := l.lots[level]
	return ok
}

// Len returns the number of open lots.
func (l *Ledger) Len() int { return len(l.lots) }

// MarketValue returns the mark-to-market value of all open lots at price.
func (l *Ledger) MarketValue(price float64) float64 {
	var v float64
	for _, lot := range l.lots {
		v += float64(lot.Shares) * price
	}
	return v
}
