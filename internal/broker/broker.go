// Package broker routes entry/exit decisions to a brokerage for execution.
// The backtest engine never touches a broker; only the live runner does.
package broker

import (
	"context"

	"boundary/internal/domain"
)

// Broker abstracts brokerage operations for order execution and account
// queries.
type Broker interface {
	// Name returns the broker identifier (e.g. "alpaca", "paper").
	Name() string

	// SubmitOrder sends an order for execution and returns it with the
	// broker-assigned ID and status.
	SubmitOrder(ctx context.Context, order *domain.Order) (*domain.Order, error)

	// CancelOrder requests cancellation of an open order by its ID.
	CancelOrder(ctx context.Context, orderID string) error

	// GetPositions returns all current positions.
	GetPositions(ctx context.Context) ([]domain.Position, error)

	// GetAccount returns a snapshot of the account's financial metrics.
	GetAccount(ctx context.Context) (*domain.AccountInfo, error)
}
