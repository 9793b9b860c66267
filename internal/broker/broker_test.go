package broker

import (
	"context"
	"testing"

	"boundary/internal/domain"
)

func limitOrder(side domain.Side, qty int64, price float64) *domain.Order {
	return &domain.Order{
		Symbol:     "TQQQ",
		Side:       side,
		Type:       domain.OrderTypeLimit,
		Qty:        qty,
		LimitPrice: price,
	}
}

func TestPaperBrokerBuyFills(t *testing.T) {
	ctx := context.Background()
	b := NewPaperBroker(20000)

	order, err := b.SubmitOrder(ctx, limitOrder(domain.SideBuy, 40, 99.00))
	if err != nil {
		t.Fatalf("SubmitOrder: %v", err)
	}
	if order.Status != domain.OrderStatusFilled {
		t.Errorf("order status = %s, want filled", order.Status)
	}
	if order.ID == "" {
		t.Error("filled order has no ID")
	}

	positions, err := b.GetPositions(ctx)
	if err != nil {
		t.Fatalf("GetPositions: %v", err)
	}
	if len(positions) != 1 || positions[0].Qty != 40 || positions[0].AvgEntryPrice != 99.00 {
		t.Errorf("positions = %+v, want one 40-share lot @ 99.00", positions)
	}

	acct, err := b.GetAccount(ctx)
	if err != nil {
		t.Fatalf("GetAccount: %v", err)
	}
	if acct.Cash != 20000-40*99.00 {
		t.Errorf("cash = %v, want %v", acct.Cash, 20000-40*99.00)
	}
	if acct.Equity != 20000 {
		t.Errorf("equity = %v, want 20000 (marked at entry)", acct.Equity)
	}
}

func TestPaperBrokerAveragesEntries(t *testing.T) {
	ctx := context.Background()
	b := NewPaperBroker(20000)

	if _, err := b.SubmitOrder(ctx, limitOrder(domain.SideBuy, 40, 99.00)); err != nil {
		t.Fatal(err)
	}
	if _, err := b.SubmitOrder(ctx, limitOrder(domain.SideBuy, 40, 98.90)); err != nil {
		t.Fatal(err)
	}

	positions, _ := b.GetPositions(ctx)
	if len(positions) != 1 {
		t.Fatalf("got %d positions, want 1", len(positions))
	}
	if positions[0].Qty != 80 {
		t.Errorf("qty = %d, want 80", positions[0].Qty)
	}
	if want := (40*99.00 + 40*98.90) / 80; positions[0].AvgEntryPrice != want {
		t.Errorf("avg entry = %v, want %v", positions[0].AvgEntryPrice, want)
	}
}

func TestPaperBrokerSellClosesPosition(t *testing.T) {
	ctx := context.Background()
	b := NewPaperBroker(20000)

	if _, err := b.SubmitOrder(ctx, limitOrder(domain.SideBuy, 40, 99.00)); err != nil {
		t.Fatal(err)
	}
	if _, err := b.SubmitOrder(ctx, limitOrder(domain.SideSell, 40, 100.10)); err != nil {
		t.Fatalf("sell: %v", err)
	}

	positions, _ := b.GetPositions(ctx)
	if len(positions) != 0 {
		t.Errorf("positions after full close = %+v, want none", positions)
	}
	acct, _ := b.GetAccount(ctx)
	if want := 20000 + 40*(100.10-99.00); acct.Cash != want {
		t.Errorf("cash = %v, want %v", acct.Cash, want)
	}
}

func TestPaperBrokerRejects(t *testing.T) {
	ctx := context.Background()
	b := NewPaperBroker(100)

	// Not enough cash.
	order, err := b.SubmitOrder(ctx, limitOrder(domain.SideBuy, 40, 99.00))
	if err == nil {
		t.Error("buy beyond cash was not rejected")
	}
	if order == nil || order.Status != domain.OrderStatusRejected {
		t.Errorf("rejected order = %+v", order)
	}

	// No position to sell.
	if _, err := b.SubmitOrder(ctx, limitOrder(domain.SideSell, 1, 100)); err == nil {
		t.Error("sell without a position was not rejected")
	}

	// Market orders have no price reference in the simulator.
	market := limitOrder(domain.SideBuy, 1, 0)
	market.Type = domain.OrderTypeMarket
	if _, err := b.SubmitOrder(ctx, market); err == nil {
		t.Error("market order was not rejected")
	}

	// Non-positive quantity.
	if _, err := b.SubmitOrder(ctx, limitOrder(domain.SideBuy, 0, 99.00)); err == nil {
		t.Error("zero-qty order was not rejected")
	}
}

func TestPaperBrokerCancel(t *testing.T) {
	ctx := context.Background()
	b := NewPaperBroker(100)

	if err := b.CancelOrder(ctx, "paper-404"); err == nil {
		t.Error("cancel of an unknown order did not fail")
	}

	rejected, _ := b.SubmitOrder(ctx, limitOrder(domain.SideBuy, 40, 99.00))
	if err := b.CancelOrder(ctx, rejected.ID); err != nil {
		t.Errorf("cancel of a rejected order failed: %v", err)
	}

	b2 := NewPaperBroker(20000)
	filled, err := b2.SubmitOrder(ctx, limitOrder(domain.SideBuy, 40, 99.00))
	if err != nil {
		t.Fatal(err)
	}
	if err := b2.CancelOrder(ctx, filled.ID); err == nil {
		t.Error("cancel of a filled order did not fail")
	}
}

func TestBrokerNames(t *testing.T) {
	if got := NewPaperBroker(0).Name(); got != "paper" {
		t.Errorf("paper broker Name() = %q", got)
	}
}
