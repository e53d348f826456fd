package store

import (
	"context"
	"fmt"
	"sort"
	"stocksim/types"
	"sync"
	"time"
)

var (
	ErrNoPrices  = fmt.Errorf("no prices in memory: %w", types.ErrNoData)
	ErrNoHistory = fmt.Errorf("no price history in memory: %w", types.ErrNoData)
)

// Memory is a price and dividend store held in process memory, indexed by ticker.
type Memory struct {
	mu        sync.RWMutex
	prices    map[string][]types.PricePoint
	dividends map[string][]types.DividendEvent
}

func NewMemory(points []types.PricePoint, events []types.DividendEvent) *Memory {
	m := &Memory{
		prices:    make(map[string][]types.PricePoint),
		dividends: make(map[string][]types.DividendEvent),
	}
	m.AddPrices(points...)
	m.AddDividends(events...)
	return m
}

// AddPrices stores points, keeping each ticker's series ordered by day.
// A point for a day already present replaces it.
func (m *Memory) AddPrices(points ...types.PricePoint) {
	m.mu.Lock()
	defer m.mu.Unlock()

	touched := make(map[string]bool)
	for _, p := range points {
		p.Date = types.Day(p.Date)
		m.prices[p.Ticker] = append(m.prices[p.Ticker], p)
		touched[p.Ticker] = true
	}
	for ticker := range touched {
		series := m.prices[ticker]
		sort.SliceStable(series, func(i, j int) bool { return series[i].Date.Before(series[j].Date) })
		deduped := series[:0]
		for i, p := range series {
			if i > 0 && p.Date.Equal(deduped[len(deduped)-1].Date) {
				deduped[len(deduped)-1] = p
				continue
			}
			deduped = append(deduped, p)
		}
		m.prices[ticker] = deduped
	}
}

func (m *Memory) AddDividends(events ...types.DividendEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, ev := range events {
		ev.Date = types.Day(ev.Date)
		m.dividends[ev.Ticker] = append(m.dividends[ev.Ticker], ev)
	}
}

func (m *Memory) GetPriceRange(_ context.Context, ticker string, start, end time.Time) ([]types.PricePoint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r := types.NewDateRange(start, end)
	var out []types.PricePoint
	for _, p := range m.prices[ticker] {
		if r.Contains(p.Date) {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("ticker %s %w", ticker, ErrNoPrices)
	}
	return out, nil
}

func (m *Memory) HistoryBounds(_ context.Context) (types.DateRange, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var first, last time.Time
	for _, series := range m.prices {
		if len(series) == 0 {
			continue
		}
		if first.IsZero() || series[0].Date.Before(first) {
			first = series[0].Date
		}
		if last.IsZero() || series[len(series)-1].Date.After(last) {
			last = series[len(series)-1].Date
		}
	}
	if first.IsZero() {
		return types.DateRange{}, ErrNoHistory
	}
	return types.NewDateRange(first, last), nil
}

func (m *Memory) GetDividendRange(_ context.Context, tickers []string, start, end time.Time) ([]types.DividendEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r := types.NewDateRange(start, end)
	var out []types.DividendEvent
	for _, ticker := range tickers {
		for _, ev := range m.dividends[ticker] {
			if r.Contains(ev.Date) {
				out = append(out, ev)
			}
		}
	}
	return out, nil
}
