package sqlitestore

import (
	"context"
	"database/sql"
	"fmt"
	"stocksim/types"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// InsertPrices upserts points; a second close for the same day replaces the first.
func (s *Store) InsertPrices(ctx context.Context, points []types.PricePoint) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO prices (ticker, date, close) VALUES (?, ?, ?)
			 ON CONFLICT (ticker, date) DO UPDATE SET close = excluded.close`)
		if err != nil {
			return fmt.Errorf("prepare insert prices: %w", err)
		}
		defer stmt.Close()

		for _, p := range points {
			if _, err := stmt.ExecContext(ctx, p.Ticker, formatDate(p.Date), p.Close.String()); err != nil {
				return fmt.Errorf("insert price %s %s: %w", p.Ticker, formatDate(p.Date), err)
			}
		}
		return nil
	})
}

// InsertDividends appends dividend events. Several events may share a day.
func (s *Store) InsertDividends(ctx context.Context, events []types.DividendEvent) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO dividends (ticker, date, amount) VALUES (?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare insert dividends: %w", err)
		}
		defer stmt.Close()

		for _, ev := range events {
			if _, err := stmt.ExecContext(ctx, ev.Ticker, formatDate(ev.Date), ev.Amount.String()); err != nil {
				return fmt.Errorf("insert dividend %s %s: %w", ev.Ticker, formatDate(ev.Date), err)
			}
		}
		return nil
	})
}

// GetPriceRange returns the daily closes of ticker between start and end inclusive.
func (s *Store) GetPriceRange(ctx context.Context, ticker string, start, end time.Time) ([]types.PricePoint, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT date, close FROM prices WHERE ticker = ? AND date BETWEEN ? AND ? ORDER BY date`,
		ticker, formatDate(start), formatDate(end))
	if err != nil {
		return nil, fmt.Errorf("query prices: %w", err)
	}
	defer rows.Close()

	var points []types.PricePoint
	for rows.Next() {
		var date, closeText string
		if err := rows.Scan(&date, &closeText); err != nil {
			return nil, fmt.Errorf("scan price: %w", err)
		}
		p, err := newPoint(ticker, date, closeText)
		if err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate prices: %w", err)
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("ticker %s %w", ticker, ErrNoPrices)
	}
	return points, nil
}

// HistoryBounds returns the first and last day present in the snapshot.
func (s *Store) HistoryBounds(ctx context.Context) (types.DateRange, error) {
	var first, last sql.NullString
	err := s.conn.QueryRowContext(ctx, `SELECT min(date), max(date) FROM prices`).Scan(&first, &last)
	if err != nil {
		return types.DateRange{}, fmt.Errorf("query history bounds: %w", err)
	}
	if !first.Valid || !last.Valid {
		return types.DateRange{}, ErrNoHistory
	}
	start, err := parseDate(first.String)
	if err != nil {
		return types.DateRange{}, err
	}
	end, err := parseDate(last.String)
	if err != nil {
		return types.DateRange{}, err
	}
	return types.NewDateRange(start, end), nil
}

// GetDividendRange returns the dividend events of tickers between start and end inclusive.
func (s *Store) GetDividendRange(ctx context.Context, tickers []string, start, end time.Time) ([]types.DividendEvent, error) {
	if len(tickers) == 0 {
		return nil, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(tickers)), ",")
	args := make([]any, 0, len(tickers)+2)
	for _, t := range tickers {
		args = append(args, t)
	}
	args = append(args, formatDate(start), formatDate(end))

	rows, err := s.conn.QueryContext(ctx,
		`SELECT ticker, date, amount FROM dividends
		 WHERE ticker IN (`+placeholders+`) AND date BETWEEN ? AND ?
		 ORDER BY ticker, date, id`, args...)
	if err != nil {
		return nil, fmt.Errorf("query dividends: %w", err)
	}
	defer rows.Close()

	var events []types.DividendEvent
	for rows.Next() {
		var ticker, date, amount string
		if err := rows.Scan(&ticker, &date, &amount); err != nil {
			return nil, fmt.Errorf("scan dividend: %w", err)
		}
		d, err := parseDate(date)
		if err != nil {
			return nil, err
		}
		a, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("parse dividend amount %q: %w", amount, err)
		}
		events = append(events, types.DividendEvent{Ticker: ticker, Date: d, Amount: a})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate dividends: %w", err)
	}
	return events, nil
}

func newPoint(ticker, date, closeText string) (types.PricePoint, error) {
	d, err := parseDate(date)
	if err != nil {
		return types.PricePoint{}, err
	}
	c, err := decimal.NewFromString(closeText)
	if err != nil {
		return types.PricePoint{}, fmt.Errorf("parse close %q: %w", closeText, err)
	}
	return types.PricePoint{Ticker: ticker, Date: d, Close: c}, nil
}
