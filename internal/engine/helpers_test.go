package engine

import (
	"context"
	"stocksim/types"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type mockStore struct {
	prices      map[string][]types.PricePoint
	dividends   []types.DividendEvent
	bounds      types.DateRange
	boundsErr   error
	priceErr    error
	dividendErr error
	priceCalls  atomic.Int64
}

func (m *mockStore) GetPriceRange(_ context.Context, ticker string, start, end time.Time) ([]types.PricePoint, error) {
	m.priceCalls.Add(1)
	if m.priceErr != nil {
		return nil, m.priceErr
	}
	var out []types.PricePoint
	for _, p := range m.prices[ticker] {
		if !p.Date.Before(start) && !p.Date.After(end) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockStore) HistoryBounds(_ context.Context) (types.DateRange, error) {
	if m.boundsErr != nil {
		return types.DateRange{}, m.boundsErr
	}
	return m.bounds, nil
}

func (m *mockStore) GetDividendRange(_ context.Context, tickers []string, start, end time.Time) ([]types.DividendEvent, error) {
	if m.dividendErr != nil {
		return nil, m.dividendErr
	}
	return m.dividends, nil
}

func day(month time.Month, d int) time.Time {
	return time.Date(2024, month, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// series returns one close per consecutive day starting at start.
func series(ticker string, start time.Time, closes ...string) []types.PricePoint {
	points := make([]types.PricePoint, 0, len(closes))
	for i, c := range closes {
		points = append(points, types.PricePoint{
			Ticker: ticker,
			Date:   start.AddDate(0, 0, i),
			Close:  dec(c),
		})
	}
	return points
}

// scenarioStore holds A (10 -> 20) and B (50 -> 40) over 2024-01-02..2024-01-03.
func scenarioStore() *mockStore {
	return &mockStore{
		prices: map[string][]types.PricePoint{
			"A": series("A", day(1, 2), "10", "20"),
			"B": series("B", day(1, 2), "50", "40"),
		},
		bounds: types.NewDateRange(day(1, 1), day(12, 31)),
	}
}

func newTestEngine(s *mockStore) *Engine {
	return NewEngine(s, s, nil, zerolog.Nop())
}
