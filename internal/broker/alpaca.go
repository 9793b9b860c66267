package broker

import (
	"context"
	"fmt"

	"github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"
	"github.com/shopspring/decimal"

	"boundary/internal/domain"
)

// Compile-time interface check.
var _ Broker = (*AlpacaBroker)(nil)

// AlpacaBroker implements the Broker interface using the Alpaca trading API.
type AlpacaBroker struct {
	client *alpaca.Client
}

// NewAlpacaBroker creates an AlpacaBroker configured with the given
// credentials and API endpoint (paper or live).
func NewAlpacaBroker(apiKey, apiSecret, baseURL string) *AlpacaBroker {
	return &AlpacaBroker{
		client: alpaca.NewClient(alpaca.ClientOpts{
			APIKey:    apiKey,
			APISecret: apiSecret,
			BaseURL:   baseURL,
		}),
	}
}

// Name returns "alpaca".
func (b *AlpacaBroker) Name() string {
	return "alpaca"
}

// SubmitOrder sends a day order to Alpaca and returns the order annotated
// with the broker-assigned ID and status.
func (b *AlpacaBroker) SubmitOrder(_ context.Context, order *domain.Order) (*domain.Order, error) {
	qty := decimal.NewFromInt(order.Qty)
	req := alpaca.PlaceOrderRequest{
		Symbol:      order.Symbol,
		Qty:         &qty,
		Side:        alpaca.Side(order.Side),
		Type:        alpaca.OrderType(order.Type),
		TimeInForce: alpaca.Day,
	}
	if order.Type == domain.OrderTypeLimit {
		limit := decimal.NewFromFloat(order.LimitPrice)
		req.LimitPrice = &limit
	}

	placed, err := b.client.PlaceOrder(req)
	if err != nil {
		return nil, fmt.Errorf("placing %s %s order: %w", order.Side, order.Symbol, err)
	}

	order.ID = placed.ID
	order.Status = domain.OrderStatus(placed.Status)
	order.CreatedAt = placed.CreatedAt
	order.UpdatedAt = placed.UpdatedAt
	return order, nil
}

// CancelOrder requests cancellation of an open order.
func (b *AlpacaBroker) CancelOrder(_ context.Context, orderID string) error {
	if err := b.client.CancelOrder(orderID); err != nil {
		return fmt.Errorf("cancelling order %s: %w", orderID, err)
	}
	return nil
}

// GetPositions returns all current positions held at Alpaca.
func (b *AlpacaBroker) GetPositions(_ context.Context) ([]domain.Position, error) {
	alpacaPositions, err := b.client.GetPositions()
	if err != nil {
		return nil, fmt.Errorf("listing positions: %w", err)
	}

	positions := make([]domain.Position, 0, len(alpacaPositions))
	for _, p := range alpacaPositions {
		positions = append(positions, domain.Position{
			Symbol:        p.Symbol,
			Qty:           p.Qty.IntPart(),
			AvgEntryPrice: p.AvgEntryPrice.InexactFloat64(),
		})
	}
	return positions, nil
}

// GetAccount returns the current account metrics from Alpaca.
func (b *AlpacaBroker) GetAccount(_ context.Context) (*domain.AccountInfo, error) {
	acct, err := b.client.GetAccount()
	if err != nil {
		return nil, fmt.Errorf("fetching account: %w", err)
	}
	return &domain.AccountInfo{
		Equity:      acct.Equity.InexactFloat64(),
		Cash:        acct.Cash.InexactFloat64(),
		BuyingPower: acct.BuyingPower.InexactFloat64(),
	}, nil
}
