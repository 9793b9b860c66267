package live

import (
	"context"
	"testing"
	"time"

	"boundary/internal/broker"
	"boundary/internal/domain"
	"boundary/internal/strategy"
)

var pollBase = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func pollBars(n int, price float64) []domain.Bar {
	bars := make([]domain.Bar, n)
	for i := range bars {
		bars[i] = domain.Bar{
			Symbol:    "TQQQ",
			Timestamp: pollBase.Add(time.Duration(i) * time.Minute),
			Open:      price, High: price, Low: price, Close: price,
		}
	}
	return bars
}

func newTestRunner(t *testing.T, b broker.Broker) *Runner {
	t.Helper()
	r, err := NewRunner(nil, b, strategy.Default(), "TQQQ", time.Minute, 100)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	return r
}

func TestEvaluateSkipsShortWindow(t *testing.T) {
	paper := broker.NewPaperBroker(20000)
	r := newTestRunner(t, paper)

	if err := r.evaluate(context.Background(), pollBars(13, 100)); err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	positions, _ := paper.GetPositions(context.Background())
	if len(positions) != 0 {
		t.Errorf("orders routed without a full anchor window: %+v", positions)
	}
}

func TestEvaluateNoSameStepClose(t *testing.T) {
	ctx := context.Background()
	paper := broker.NewPaperBroker(20000)
	r := newTestRunner(t, paper)

	// The decision bar dips through level 0 and spikes above every profit
	// target in the same poll; the freshly opened lot must survive the step.
	bars := pollBars(13, 100)
	bars = append(bars, domain.Bar{
		Symbol:    "TQQQ",
		Timestamp: pollBase.Add(13 * time.Minute),
		Open:      100, High: 100.60, Low: 98.95, Close: 100,
	})
	if err := r.evaluate(ctx, bars); err != nil {
		t.Fatalf("evaluate: %v", err)
	}

	positions, _ := paper.GetPositions(ctx)
	if len(positions) != 1 || positions[0].Qty != 40 {
		t.Fatalf("positions after entry poll = %+v, want one 40-share lot", positions)
	}

	// Next poll: the target is reached again, and now the lot may close.
	bars = append(bars, domain.Bar{
		Symbol:    "TQQQ",
		Timestamp: pollBase.Add(14 * time.Minute),
		Open:      100, High: 100.15, Low: 99.90, Close: 100,
	})
	if err := r.evaluate(ctx, bars); err != nil {
		t.Fatalf("evaluate (second poll): %v", err)
	}

	positions, _ = paper.GetPositions(ctx)
	if len(positions) != 0 {
		t.Errorf("positions after profit poll = %+v, want none", positions)
	}
	acct, _ := paper.GetAccount(ctx)
	if want := 20000 - 40*99.00 + 40*100.10; acct.Cash != want {
		t.Errorf("cash = %v, want %v", acct.Cash, want)
	}
}
