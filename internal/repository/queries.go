package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type queries struct {
	db dbtx
}

func newQueries(db dbtx) *queries {
	return &queries{db: db}
}

type assetRow struct {
	ID     int32  `db:"id"`
	Ticker string `db:"ticker"`
	Name   string `db:"name"`
	Type   string `db:"type"`
}

type priceRow struct {
	Ticker string          `db:"ticker"`
	Date   time.Time       `db:"date"`
	Close  decimal.Decimal `db:"close"`
}

type priceBoundsRow struct {
	First *time.Time
	Last  *time.Time
}

type dividendRow struct {
	Ticker string          `db:"ticker"`
	Date   time.Time       `db:"date"`
	Amount decimal.Decimal `db:"amount"`
}

type getPriceRangeParams struct {
	Ticker string
	Start  time.Time
	End    time.Time
}

type getDividendRangeParams struct {
	Tickers []string
	Start   time.Time
	End     time.Time
}

const getAssetByTicker = `SELECT id, ticker, name, type FROM assets WHERE ticker = $1`

func (q *queries) GetAssetByTicker(ctx context.Context, ticker string) (assetRow, error) {
	rows, err := q.db.Query(ctx, getAssetByTicker, ticker)
	if err != nil {
		return assetRow{}, err
	}
	return pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[assetRow])
}

const listAssets = `SELECT id, ticker, name, type FROM assets ORDER BY ticker`

func (q *queries) ListAssets(ctx context.Context) ([]assetRow, error) {
	rows, err := q.db.Query(ctx, listAssets)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[assetRow])
}

const getPriceRange = `SELECT ticker, date, close FROM prices
WHERE ticker = $1 AND date BETWEEN $2 AND $3
ORDER BY date`

func (q *queries) GetPriceRange(ctx context.Context, arg getPriceRangeParams) ([]priceRow, error) {
	rows, err := q.db.Query(ctx, getPriceRange, arg.Ticker, arg.Start, arg.End)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[priceRow])
}

const getPriceBounds = `SELECT min(date), max(date) FROM prices`

func (q *queries) GetPriceBounds(ctx context.Context) (priceBoundsRow, error) {
	var row priceBoundsRow
	err := q.db.QueryRow(ctx, getPriceBounds).Scan(&row.First, &row.Last)
	return row, err
}

const getDividendRange = `SELECT ticker, date, amount FROM dividends
WHERE ticker = ANY($1) AND date BETWEEN $2 AND $3
ORDER BY ticker, date, id`

func (q *queries) GetDividendRange(ctx context.Context, arg getDividendRangeParams) ([]dividendRow, error) {
	rows, err := q.db.Query(ctx, getDividendRange, arg.Tickers, arg.Start, arg.End)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[dividendRow])
}
