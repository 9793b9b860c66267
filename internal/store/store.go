// Package store persists and retrieves bar series, backtest runs, and fill
// logs.
package store

import (
	"context"
	"time"

	"boundary/internal/domain"
)

// BarStore persists and retrieves minute-resolution OHLCV bars.
type BarStore interface {
	// WriteBars persists a batch of bars, merging with existing data.
	WriteBars(ctx context.Context, bars []domain.Bar) error

	// ReadBars returns the bars for symbol within [start, end], sorted by
	// ascending timestamp.
	ReadBars(ctx context.Context, symbol string, start, end time.Time) ([]domain.Bar, error)

	// ListSymbols returns all symbols with stored bar data.
	ListSymbols(ctx context.Context) ([]string, error)
}

// RunStore persists backtest run summaries and their fill logs.
type RunStore interface {
	// SaveRun inserts a run summary and returns its assigned ID.
	SaveRun(ctx context.Context, run *domain.RunSummary) (int64, error)

	// SaveFills appends the fill log of a run.
	SaveFills(ctx context.Context, runID int64, fills []domain.Fill) error

	// ListRuns returns the most recent runs, newest first, up to limit.
	ListRuns(ctx context.Context, limit int) ([]domain.RunSummary, error)

	// ListFills returns the fills of a run in insertion order.
	ListFills(ctx context.Context, runID int64) ([]domain.Fill, error)
}
