package store

import (
	"context"
	"errors"
	"fmt"
	"stocksim/types"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSource struct {
	mock.Mock
}

func (m *MockSource) GetPriceRange(ctx context.Context, ticker string, start, end time.Time) ([]types.PricePoint, error) {
	args := m.Called(ctx, ticker, start, end)
	points, _ := args.Get(0).([]types.PricePoint)
	return points, args.Error(1)
}

func (m *MockSource) HistoryBounds(ctx context.Context) (types.DateRange, error) {
	args := m.Called(ctx)
	return args.Get(0).(types.DateRange), args.Error(1)
}

func (m *MockSource) GetDividendRange(ctx context.Context, tickers []string, start, end time.Time) ([]types.DividendEvent, error) {
	args := m.Called(ctx, tickers, start, end)
	events, _ := args.Get(0).([]types.DividendEvent)
	return events, args.Error(1)
}

func newTestCached(src *MockSource, retries int) *Cached {
	c := NewCached(src, src, retries, time.Minute, zerolog.Nop())
	c.retryDelay = time.Millisecond
	return c
}

func TestCached_GetPriceRange_CachesResult(t *testing.T) {
	src := new(MockSource)
	points := []types.PricePoint{point("A", day(1, 2), "10")}
	src.On("GetPriceRange", mock.Anything, "A", day(1, 2), day(1, 3)).Return(points, nil).Once()

	c := newTestCached(src, 2)
	first, err := c.GetPriceRange(context.Background(), "A", day(1, 2), day(1, 3))
	require.NoError(t, err)
	first[0].Close = decimal.NewFromInt(999)

	second, err := c.GetPriceRange(context.Background(), "A", day(1, 2), day(1, 3))
	require.NoError(t, err)
	assert.Equal(t, "10", second[0].Close.String())
	src.AssertExpectations(t)
}

func TestCached_GetPriceRange_RetriesTransientErrors(t *testing.T) {
	src := new(MockSource)
	points := []types.PricePoint{point("A", day(1, 2), "10")}
	src.On("GetPriceRange", mock.Anything, "A", day(1, 2), day(1, 3)).Return(nil, errors.New("connection reset")).Twice()
	src.On("GetPriceRange", mock.Anything, "A", day(1, 2), day(1, 3)).Return(points, nil).Once()

	c := newTestCached(src, 2)
	got, err := c.GetPriceRange(context.Background(), "A", day(1, 2), day(1, 3))
	require.NoError(t, err)
	assert.Len(t, got, 1)
	src.AssertNumberOfCalls(t, "GetPriceRange", 3)
}

func TestCached_GetPriceRange_GivesUp(t *testing.T) {
	src := new(MockSource)
	boom := errors.New("connection reset")
	src.On("GetPriceRange", mock.Anything, "A", mock.Anything, mock.Anything).Return(nil, boom)

	c := newTestCached(src, 1)
	_, err := c.GetPriceRange(context.Background(), "A", day(1, 2), day(1, 3))
	assert.ErrorIs(t, err, boom)
	src.AssertNumberOfCalls(t, "GetPriceRange", 2)

	// failures are not cached
	_, err = c.GetPriceRange(context.Background(), "A", day(1, 2), day(1, 3))
	assert.Error(t, err)
	src.AssertNumberOfCalls(t, "GetPriceRange", 4)
}

func TestCached_GetPriceRange_NoDataIsCachedWithoutRetry(t *testing.T) {
	src := new(MockSource)
	noData := fmt.Errorf("ticker C %w", types.ErrNoData)
	src.On("GetPriceRange", mock.Anything, "C", mock.Anything, mock.Anything).Return(nil, noData).Once()

	c := newTestCached(src, 3)
	for i := 0; i < 2; i++ {
		_, err := c.GetPriceRange(context.Background(), "C", day(1, 2), day(1, 3))
		assert.ErrorIs(t, err, types.ErrNoData)
	}
	src.AssertNumberOfCalls(t, "GetPriceRange", 1)
}

func TestCached_RetryHonorsContext(t *testing.T) {
	src := new(MockSource)
	src.On("HistoryBounds", mock.Anything).Return(types.DateRange{}, errors.New("timeout"))

	c := NewCached(src, src, 5, time.Minute, zerolog.Nop())
	c.retryDelay = time.Hour
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.HistoryBounds(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	src.AssertNumberOfCalls(t, "HistoryBounds", 1)
}

func TestCached_HistoryBoundsAndDividends(t *testing.T) {
	src := new(MockSource)
	bounds := types.NewDateRange(day(1, 1), day(12, 31))
	events := []types.DividendEvent{{Ticker: "A", Date: day(1, 3), Amount: decimal.RequireFromString("0.5")}}
	src.On("HistoryBounds", mock.Anything).Return(bounds, nil).Once()
	src.On("GetDividendRange", mock.Anything, []string{"B", "A"}, day(1, 2), day(1, 3)).Return(events, nil).Once()

	c := newTestCached(src, 0)
	for i := 0; i < 2; i++ {
		got, err := c.HistoryBounds(context.Background())
		require.NoError(t, err)
		assert.Equal(t, bounds, got)
	}

	got, err := c.GetDividendRange(context.Background(), []string{"B", "A"}, day(1, 2), day(1, 3))
	require.NoError(t, err)
	assert.Len(t, got, 1)
	// same tickers in another order hit the cache
	got, err = c.GetDividendRange(context.Background(), []string{"A", "B"}, day(1, 2), day(1, 3))
	require.NoError(t, err)
	assert.Len(t, got, 1)
	src.AssertExpectations(t)
}

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

func (f *fakeClock) Advance(d time.Duration) { f.now = f.now.Add(d) }

func TestCached_EntriesExpire(t *testing.T) {
	src := new(MockSource)
	first := types.NewDateRange(day(1, 1), day(6, 30))
	later := types.NewDateRange(day(1, 1), day(7, 1))
	points := []types.PricePoint{point("A", day(1, 2), "10")}
	events := []types.DividendEvent{{Ticker: "A", Date: day(1, 3), Amount: decimal.RequireFromString("0.5")}}
	src.On("HistoryBounds", mock.Anything).Return(first, nil).Once()
	src.On("HistoryBounds", mock.Anything).Return(later, nil).Once()
	src.On("GetPriceRange", mock.Anything, "A", day(1, 2), day(1, 3)).Return(points, nil).Twice()
	src.On("GetDividendRange", mock.Anything, []string{"A"}, day(1, 2), day(1, 3)).Return(events, nil).Twice()

	clock := &fakeClock{now: day(7, 1)}
	c := newTestCached(src, 0)
	c.now = clock.Now
	ctx := context.Background()

	read := func() types.DateRange {
		bounds, err := c.HistoryBounds(ctx)
		require.NoError(t, err)
		_, err = c.GetPriceRange(ctx, "A", day(1, 2), day(1, 3))
		require.NoError(t, err)
		_, err = c.GetDividendRange(ctx, []string{"A"}, day(1, 2), day(1, 3))
		require.NoError(t, err)
		return bounds
	}

	assert.Equal(t, first, read())
	clock.Advance(59 * time.Second)
	assert.Equal(t, first, read())
	src.AssertNumberOfCalls(t, "HistoryBounds", 1)

	clock.Advance(time.Second)
	assert.Equal(t, later, read())
	src.AssertExpectations(t)
}

func TestCached_SizeIsBounded(t *testing.T) {
	src := new(MockSource)
	src.On("GetPriceRange", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return([]types.PricePoint{}, nil)

	c := newTestCached(src, 0)
	ctx := context.Background()
	start := day(1, 1)
	for i := 0; i <= maxEntries; i++ {
		_, err := c.GetPriceRange(ctx, "A", start, start.AddDate(0, 0, i))
		require.NoError(t, err)
	}
	assert.LessOrEqual(t, len(c.priceCache), maxEntries)
}
