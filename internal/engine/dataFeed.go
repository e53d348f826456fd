package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"stocksim/types"

	"github.com/shopspring/decimal"
)

// feed is the in-range data of one asset for a single run.
type feed struct {
	ticker            string
	prices            []types.PricePoint
	dividendsPerShare decimal.Decimal
}

// loadFeeds reads the price slice of every asset and the dividends of all of
// them in one call. Missing data yields an empty feed; other store errors abort.
func (e *Engine) loadFeeds(ctx context.Context, assets []string, r types.DateRange) (map[string]*feed, error) {
	feeds := make(map[string]*feed, len(assets))
	bar := e.newProgressBar(len(assets))

	for _, ticker := range assets {
		points, err := e.prices.GetPriceRange(ctx, ticker, r.Start, r.End)
		if err != nil && !errors.Is(err, types.ErrNoData) {
			return nil, fmt.Errorf("load prices for %s: %w", ticker, err)
		}
		feeds[ticker] = &feed{
			ticker:            ticker,
			prices:            normalizePrices(points, ticker, r),
			dividendsPerShare: decimal.Zero,
		}
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}

	events, err := e.dividends.GetDividendRange(ctx, assets, r.Start, r.End)
	if err != nil && !errors.Is(err, types.ErrNoData) {
		return nil, fmt.Errorf("load dividends: %w", err)
	}
	for _, ev := range events {
		f, ok := feeds[ev.Ticker]
		if !ok || !r.Contains(ev.Date) {
			continue
		}
		f.dividendsPerShare = f.dividendsPerShare.Add(ev.Amount)
	}
	return feeds, nil
}

// normalizePrices keeps the points of ticker inside r, ordered by date with
// one point per day. The result is a fresh slice the store cannot alias.
func normalizePrices(points []types.PricePoint, ticker string, r types.DateRange) []types.PricePoint {
	out := make([]types.PricePoint, 0, len(points))
	for _, p := range points {
		if p.Ticker != "" && p.Ticker != ticker {
			continue
		}
		if !r.Contains(p.Date) || p.Close.IsNegative() {
			continue
		}
		p.Ticker = ticker
		p.Date = types.Day(p.Date)
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })

	deduped := out[:0]
	for i, p := range out {
		if i > 0 && p.Date.Equal(deduped[len(deduped)-1].Date) {
			deduped[len(deduped)-1] = p
			continue
		}
		deduped = append(deduped, p)
	}
	return deduped
}
