package repository

import (
	"context"
	"errors"
	"fmt"
	"stocksim/types"
	"time"

	"github.com/jackc/pgx/v5"
)

// GetPriceRange returns the daily closes of ticker between start and end inclusive.
func (db *Database) GetPriceRange(ctx context.Context, ticker string, start, end time.Time) ([]types.PricePoint, error) {
	args := getPriceRangeParams{
		Ticker: ticker,
		Start:  types.Day(start),
		End:    types.Day(end),
	}
	rows, err := db.prices.GetPriceRange(ctx, args)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("ticker %s %w", ticker, ErrNoPrices)
		}
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("ticker %s %w", ticker, ErrNoPrices)
	}
	return convertPrices(rows), nil
}

// HistoryBounds returns the first and last day present in the price history.
func (db *Database) HistoryBounds(ctx context.Context) (types.DateRange, error) {
	row, err := db.prices.GetPriceBounds(ctx)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return types.DateRange{}, ErrNoHistory
		}
		return types.DateRange{}, err
	}
	if row.First == nil || row.Last == nil {
		return types.DateRange{}, ErrNoHistory
	}
	return types.NewDateRange(*row.First, *row.Last), nil
}

func convertPrices(rows []priceRow) []types.PricePoint {
	points := make([]types.PricePoint, 0, len(rows))
	for _, row := range rows {
		points = append(points, types.PricePoint{
			Ticker: row.Ticker,
			Date:   types.Day(row.Date),
			Close:  row.Close,
		})
	}
	return points
}
