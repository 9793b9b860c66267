// Package us gathers US-equity minute bars from the Alpaca market-data API.
package us

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"boundary/internal/domain"
	"boundary/internal/gather"
	"boundary/internal/store"
	"boundary/internal/util"
)

// Compile-time interface check.
var _ gather.Gatherer = (*MinuteBarGatherer)(nil)

// MinuteBarGatherer downloads minute bars for a fixed symbol list over a
// date range. The range is split into batches of a few weeks each, fetched
// under a rate limit, and merged into the Parquet store; overlapping batches
// deduplicate on write, so interrupted runs can simply be restarted.
type MinuteBarGatherer struct {
	client    *marketdata.Client
	store     store.BarStore
	symbols   []string
	startDate string
	endDate   string // empty: latest finished trading day
	batchDays int
	limiter   *util.RateLimiter
	log       *slog.Logger
}

// NewMinuteBarGatherer creates a MinuteBarGatherer configured with the given
// Alpaca credentials, target store, and batch parameters.
func NewMinuteBarGatherer(apiKey, apiSecret, dataURL string, s store.BarStore,
	symbols []string, startDate, endDate string, batchDays, rateLimitPerMin int) *MinuteBarGatherer {

	opts := marketdata.ClientOpts{
		APIKey:    apiKey,
		APISecret: apiSecret,
	}
	if dataURL != "" {
		opts.BaseURL = dataURL
	}

	return &MinuteBarGatherer{
		client:    marketdata.NewClient(opts),
		store:     s,
		symbols:   symbols,
		startDate: startDate,
		endDate:   endDate,
		batchDays: batchDays,
		limiter:   util.NewRateLimiter(rateLimitPerMin),
		log:       slog.Default().With("gatherer", "us-minute"),
	}
}

// Name returns the gatherer identifier.
func (g *MinuteBarGatherer) Name() string { return "us-minute" }

// Run fetches minute bars for every configured symbol and writes them to
// the store. A failed batch is retried with backoff; a batch that still
// fails aborts the run so gaps never go unnoticed.
func (g *MinuteBarGatherer) Run(ctx context.Context) error {
	if len(g.symbols) == 0 {
		return fmt.Errorf("no symbols configured")
	}

	start, err := time.Parse("2006-01-02", g.startDate)
	if err != nil {
		return fmt.Errorf("parsing start date %q: %w", g.startDate, err)
	}

	var end time.Time
	if g.endDate != "" {
		end, err = time.Parse("2006-01-02", g.endDate)
		if err != nil {
			return fmt.Errorf("parsing end date %q: %w", g.endDate, err)
		}
	} else {
		end, err = LatestFinishedTradingDay(time.Now())
		if err != nil {
			return fmt.Errorf("determining end date: %w", err)
		}
	}

	ranges := batchRanges(start, end, g.batchDays)
	runStart := time.Now()

	for _, symbol := range g.symbols {
		symbol = strings.ToUpper(symbol)
		var total int

		for i, r := range ranges {
			if err := g.limiter.Wait(ctx); err != nil {
				return err
			}

			var bars []domain.Bar
			fetch := func() error {
				var ferr error
				bars, ferr = g.fetchBars(ctx, symbol, r.start, r.end)
				return ferr
			}
			if err := util.Retry(ctx, 3, 2*time.Second, fetch); err != nil {
				return fmt.Errorf("fetching %s %s..%s: %w",
					symbol, r.start.Format("2006-01-02"), r.end.Format("2006-01-02"), err)
			}

			if len(bars) > 0 {
				if err := g.store.WriteBars(ctx, bars); err != nil {
					return fmt.Errorf("writing bars for %s: %w", symbol, err)
				}
			}
			total += len(bars)

			g.log.Info("batch done",
				"symbol", symbol,
				"batch", fmt.Sprintf("%d/%d", i+1, len(ranges)),
				"bars", len(bars),
				"elapsed", time.Since(runStart).Round(time.Second),
			)
		}

		g.log.Info("symbol complete", "symbol", symbol, "bars", total)
	}

	return nil
}

// fetchBars fetches minute bars for one symbol and date range.
func (g *MinuteBarGatherer) fetchBars(ctx context.Context, symbol string, start, end time.Time) ([]domain.Bar, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	alpacaBars, err := g.client.GetBars(symbol, marketdata.GetBarsRequest{
		TimeFrame: marketdata.OneMin,
		Start:     start,
		End:       end,
	})
	if err != nil {
		return nil, fmt.Errorf("GetBars: %w", err)
	}

	bars := make([]domain.Bar, 0, len(alpacaBars))
	for _, ab := range alpacaBars {
		bars = append(bars, domain.Bar{
			Symbol:     symbol,
			Timestamp:  ab.Timestamp,
			Open:       ab.Open,
			High:       ab.High,
			Low:        ab.Low,
			Close:      ab.Close,
			Volume:     int64(ab.Volume),
			TradeCount: int64(ab.TradeCount),
			VWAP:       ab.VWAP,
		})
	}
	return bars, nil
}

// dateRange is one half-closed fetch window [start, end].
type dateRange struct {
	start time.Time
	end   time.Time
}

// batchRanges splits [start, end] into consecutive windows of at most
// batchDays days. A minute-bar response caps out around 50k rows, roughly 66
// trading days, so batches stay comfortably below that.
func batchRanges(start, end time.Time, batchDays int) []dateRange {
	var ranges []dateRange
	for cur := start; cur.Before(end); {
		batchEnd := cur.AddDate(0, 0, batchDays)
		if batchEnd.After(end) {
			batchEnd = end
		}
		ranges = append(ranges, dateRange{start: cur, end: batchEnd})
		cur = batchEnd
	}
	if len(ranges) == 0 && !start.After(end) {
		ranges = append(ranges, dateRange{start: start, end: end})
	}
	return ranges
}
