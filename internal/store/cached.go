package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"stocksim/types"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultRetryDelay = 200 * time.Millisecond
	DefaultTTL        = 5 * time.Minute
	// maxEntries bounds each cache map; expired entries are swept first.
	maxEntries = 4096
)

type PriceSource interface {
	GetPriceRange(ctx context.Context, ticker string, start, end time.Time) ([]types.PricePoint, error)
	HistoryBounds(ctx context.Context) (types.DateRange, error)
}

type DividendSource interface {
	GetDividendRange(ctx context.Context, tickers []string, start, end time.Time) ([]types.DividendEvent, error)
}

type priceEntry struct {
	points  []types.PricePoint
	err     error
	expires time.Time
}

type dividendEntry struct {
	events  []types.DividendEvent
	expires time.Time
}

type boundsEntry struct {
	bounds  types.DateRange
	expires time.Time
}

// Cached is a read-through cache in front of remote stores. Entries expire
// after ttl so newly acquired history becomes visible. Transient errors are
// retried with exponential backoff; missing data is cached and never retried.
type Cached struct {
	prices     PriceSource
	dividends  DividendSource
	retries    int
	retryDelay time.Duration
	ttl        time.Duration
	now        func() time.Time
	log        zerolog.Logger

	mu            sync.RWMutex
	priceCache    map[string]priceEntry
	dividendCache map[string]dividendEntry
	bounds        *boundsEntry
}

// NewCached wraps prices and dividends. A non-positive ttl uses DefaultTTL.
func NewCached(prices PriceSource, dividends DividendSource, retries int, ttl time.Duration, log zerolog.Logger) *Cached {
	if retries < 0 {
		retries = 0
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cached{
		prices:        prices,
		dividends:     dividends,
		retries:       retries,
		retryDelay:    defaultRetryDelay,
		ttl:           ttl,
		now:           time.Now,
		log:           log.With().Str("component", "store_cache").Logger(),
		priceCache:    make(map[string]priceEntry),
		dividendCache: make(map[string]dividendEntry),
	}
}

func (c *Cached) GetPriceRange(ctx context.Context, ticker string, start, end time.Time) ([]types.PricePoint, error) {
	key := ticker + "|" + types.NewDateRange(start, end).String()

	c.mu.RLock()
	entry, ok := c.priceCache[key]
	c.mu.RUnlock()
	if ok && c.now().Before(entry.expires) {
		return copyPoints(entry.points), entry.err
	}

	var points []types.PricePoint
	err := c.withRetry(ctx, "prices "+ticker, func() error {
		var err error
		points, err = c.prices.GetPriceRange(ctx, ticker, start, end)
		return err
	})
	if err != nil && !errors.Is(err, types.ErrNoData) {
		return nil, err
	}

	c.mu.Lock()
	now := c.now()
	if len(c.priceCache) >= maxEntries {
		c.priceCache = sweep(c.priceCache, now, func(e priceEntry) time.Time { return e.expires })
	}
	c.priceCache[key] = priceEntry{points: copyPoints(points), err: err, expires: now.Add(c.ttl)}
	c.mu.Unlock()
	return points, err
}

func (c *Cached) HistoryBounds(ctx context.Context) (types.DateRange, error) {
	c.mu.RLock()
	cached := c.bounds
	c.mu.RUnlock()
	if cached != nil && c.now().Before(cached.expires) {
		return cached.bounds, nil
	}

	var got types.DateRange
	err := c.withRetry(ctx, "history bounds", func() error {
		var err error
		got, err = c.prices.HistoryBounds(ctx)
		return err
	})
	if err != nil {
		return types.DateRange{}, err
	}

	c.mu.Lock()
	c.bounds = &boundsEntry{bounds: got, expires: c.now().Add(c.ttl)}
	c.mu.Unlock()
	return got, nil
}

func (c *Cached) GetDividendRange(ctx context.Context, tickers []string, start, end time.Time) ([]types.DividendEvent, error) {
	sorted := append([]string(nil), tickers...)
	sort.Strings(sorted)
	key := strings.Join(sorted, ",") + "|" + types.NewDateRange(start, end).String()

	c.mu.RLock()
	entry, ok := c.dividendCache[key]
	c.mu.RUnlock()
	if ok && c.now().Before(entry.expires) {
		return append([]types.DividendEvent(nil), entry.events...), nil
	}

	var events []types.DividendEvent
	err := c.withRetry(ctx, "dividends", func() error {
		var err error
		events, err = c.dividends.GetDividendRange(ctx, tickers, start, end)
		return err
	})
	if err != nil && !errors.Is(err, types.ErrNoData) {
		return nil, err
	}

	c.mu.Lock()
	now := c.now()
	if len(c.dividendCache) >= maxEntries {
		c.dividendCache = sweep(c.dividendCache, now, func(e dividendEntry) time.Time { return e.expires })
	}
	c.dividendCache[key] = dividendEntry{events: append([]types.DividendEvent(nil), events...), expires: now.Add(c.ttl)}
	c.mu.Unlock()
	return events, nil
}

func (c *Cached) withRetry(ctx context.Context, what string, fn func() error) error {
	var err error
	for attempt := 0; attempt <= c.retries; attempt++ {
		err = fn()
		if err == nil || errors.Is(err, types.ErrNoData) {
			return err
		}
		if attempt == c.retries {
			break
		}
		wait := c.retryDelay * time.Duration(1<<uint(attempt))
		c.log.Warn().Err(err).Str("query", what).Int("attempt", attempt+1).Dur("wait", wait).Msg("Retrying")

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("%s: %w", what, ctx.Err())
		case <-timer.C:
		}
	}
	return fmt.Errorf("%s after %d attempts: %w", what, c.retries+1, err)
}

// sweep drops expired entries. When every entry is still live the map is
// reset, so it never grows past maxEntries.
func sweep[E any](entries map[string]E, now time.Time, expires func(E) time.Time) map[string]E {
	for key, e := range entries {
		if !now.Before(expires(e)) {
			delete(entries, key)
		}
	}
	if len(entries) >= maxEntries {
		return make(map[string]E)
	}
	return entries
}

func copyPoints(points []types.PricePoint) []types.PricePoint {
	if points == nil {
		return nil
	}
	return append([]types.PricePoint(nil), points...)
}
