// Package domain defines the core types shared across the boundary trading
// system: market bars, position lots, fills, orders, and run summaries.
package domain

import "time"

// Bar is a single OHLCV bar at minute resolution. Bars are immutable once
// produced; the engine consumes them in ascending timestamp order.
type Bar struct {
	Symbol     string
	Timestamp  time.Time
	Open       float64
	High       float64
	Low        float64
	Close      float64
	Volume     int64
	TradeCount int64
	VWAP       float64
}

// Side distinguishes buy and sell fills and orders.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// Lot is one discrete open position created by a single entry fill. Lots are
// tracked independently per ladder level; there is no netting.
type Lot struct {
	Level      int
	EntryPrice float64
	Shares     int64
	EntryTime  time.Time
}

// Fill is an append-only trade log entry, written once per simulated or
// routed execution.
type Fill struct {
	Timestamp time.Time
	Side      Side
	Price     float64
	Shares    int64
	Level     int
	Cash      float64 // cash after the fill
	Profit    float64 // realized pnl, zero for buys
}

// OrderType identifies how an order is priced.
type OrderType string

const (
	OrderTypeMarket OrderType = "market"
	OrderTypeLimit  OrderType = "limit"
)

// OrderStatus tracks the lifecycle of a routed order.
type OrderStatus string

const (
	OrderStatusNew       OrderStatus = "new"
	OrderStatusFilled    OrderStatus = "filled"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusRejected  OrderStatus = "rejected"
)

// Order is a live trading order derived from an engine decision.
type Order struct {
	ID         string
	Symbol     string
	Side       Side
	Type       OrderType
	Qty        int64
	LimitPrice float64
	Status     OrderStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Position is a broker-side aggregate position for a symbol.
type Position struct {
	Symbol        string
	Qty           int64
	AvgEntryPrice float64
}

// AccountInfo is a snapshot of broker account metrics.
type AccountInfo struct {
	Equity      float64
	Cash        float64
	BuyingPower float64
}

// RunSummary describes one completed backtest run for persistence.
type RunSummary struct {
	ID             int64
	Symbol         string
	Start          time.Time
	End            time.Time
	InitialCapital float64
	FinalEquity    float64
	TotalReturnPct float64
	TotalTrades    int
	CreatedAt      time.Time
}
