package repository

import (
	"context"
	"stocksim/types"
	"time"
)

// GetDividendRange returns the dividend events of tickers between start and
// end inclusive. No events is not an error.
func (db *Database) GetDividendRange(ctx context.Context, tickers []string, start, end time.Time) ([]types.DividendEvent, error) {
	if len(tickers) == 0 {
		return nil, nil
	}
	args := getDividendRangeParams{
		Tickers: tickers,
		Start:   types.Day(start),
		End:     types.Day(end),
	}
	rows, err := db.dividends.GetDividendRange(ctx, args)
	if err != nil {
		return nil, err
	}
	events := make([]types.DividendEvent, 0, len(rows))
	for _, row := range rows {
		events = append(events, types.DividendEvent{
			Ticker: row.Ticker,
			Date:   types.Day(row.Date),
			Amount: row.Amount,
		})
	}
	return events, nil
}
