package broker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"boundary/internal/domain"
)

// Compile-time interface check.
var _ Broker = (*PaperBroker)(nil)

// PaperBroker implements the Broker interface for paper trading. Orders are
// assumed filled at their limit price immediately; positions and cash are
// tracked in memory without external calls.
type PaperBroker struct {
	mu        sync.Mutex
	cash      float64
	nextID    int
	orders    map[string]*domain.Order
	positions map[string]*domain.Position
}

// NewPaperBroker creates a PaperBroker with the given starting cash.
func NewPaperBroker(cash float64) *PaperBroker {
	return &PaperBroker{
		cash:      cash,
		orders:    make(map[string]*domain.Order),
		positions: make(map[string]*domain.Position),
	}
}

// Name returns "paper".
func (b *PaperBroker) Name() string {
	return "paper"
}

// SubmitOrder records the order and simulates an immediate fill at the limit
// price (or rejects a market order without a price reference).
func (b *PaperBroker) SubmitOrder(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if order.Qty <= 0 {
		return nil, fmt.Errorf("order qty must be positive, got %d", order.Qty)
	}
	if order.Type != domain.OrderTypeLimit {
		return nil, fmt.Errorf("paper broker only fills limit orders")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	order.ID = fmt.Sprintf("paper-%d", b.nextID)
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt

	notional := float64(order.Qty) * order.LimitPrice
	pos := b.positions[order.Symbol]

	switch order.Side {
	case domain.SideBuy:
		if notional > b.cash {
			order.Status = domain.OrderStatusRejected
			b.orders[order.ID] = order
			return order, fmt.Errorf("insufficient cash: need %.2f, have %.2f", notional, b.cash)
		}
		b.cash -= notional
		if pos == nil {
			pos = &domain.Position{Symbol: order.Symbol}
			b.positions[order.Symbol] = pos
		}
		total := float64(pos.Qty)*pos.AvgEntryPrice + notional
		pos.Qty += order.Qty
		pos.AvgEntryPrice = total / float64(pos.Qty)

	case domain.SideSell:
		if pos == nil || pos.Qty < order.Qty {
			order.Status = domain.OrderStatusRejected
			b.orders[order.ID] = order
			return order, fmt.Errorf("insufficient position in %s", order.Symbol)
		}
		b.cash += notional
		pos.Qty -= order.Qty
		if pos.Qty == 0 {
			delete(b.positions, order.Symbol)
		}

	default:
		return nil, fmt.Errorf("unknown order side %q", order.Side)
	}

	order.Status = domain.OrderStatusFilled
	b.orders[order.ID] = order
	return order, nil
}

// CancelOrder marks the order cancelled. Paper fills are immediate, so this
// only matters for orders that were rejected.
func (b *PaperBroker) CancelOrder(_ context.Context, orderID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	o, ok := b.orders[orderID]
	if !ok {
		return fmt.Errorf("unknown order %s", orderID)
	}
	if o.Status == domain.OrderStatusFilled {
		return fmt.Errorf("order %s already filled", orderID)
	}
	o.Status = domain.OrderStatusCancelled
	return nil
}

// GetPositions returns all simulated positions.
func (b *PaperBroker) GetPositions(_ context.Context) ([]domain.Position, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	positions := make([]domain.Position, 0, len(b.positions))
	for _, p := range b.positions {
		positions = append(positions, *p)
	}
	return positions, nil
}

// GetAccount returns the simulated account state. Equity uses entry prices
// as the mark since the paper broker has no market data feed.
func (b *PaperBroker) GetAccount(_ context.Context) (*domain.AccountInfo, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	equity := b.cash
	for _, p := range b.positions {
		equity += float64(p.Qty) * p.AvgEntryPrice
	}
	return &domain.AccountInfo{
		Equity:      equity,
		Cash:        b.cash,
		BuyingPower: b.cash,
	}, nil
}
