package repository

import (
	"context"
	_ "embed"
	"fmt"
	"stocksim/types"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Global error declarations. All of them mean missing data, so callers can
// match them with errors.Is(err, types.ErrNoData).
var (
	ErrAssetNotFound = fmt.Errorf("not found in datasource: %w", types.ErrNoData)
	ErrNoPrices      = fmt.Errorf("no prices found in datasource: %w", types.ErrNoData)
	ErrNoHistory     = fmt.Errorf("no price history in datasource: %w", types.ErrNoData)
)

//go:embed schema.sql
var schema string

type assetsRepository interface {
	GetAssetByTicker(ctx context.Context, ticker string) (assetRow, error)
	ListAssets(ctx context.Context) ([]assetRow, error)
}
type pricesRepository interface {
	GetPriceRange(ctx context.Context, arg getPriceRangeParams) ([]priceRow, error)
	GetPriceBounds(ctx context.Context) (priceBoundsRow, error)
}
type dividendsRepository interface {
	GetDividendRange(ctx context.Context, arg getDividendRangeParams) ([]dividendRow, error)
}
type migrator interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Database struct that holds the database connection and queries.
type Database struct {
	assets    assetsRepository
	prices    pricesRepository
	dividends dividendsRepository
	migrator  migrator
	conn      *pgxpool.Pool
}

// NewDatabase creates a new Database instance and verifies connectivity.
func NewDatabase(ctx context.Context, dbURL string) (*Database, error) {
	config, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	// Register shopspring decimal
	config.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	conn, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, err
	}
	// Ensure the connection is established.
	if err := conn.Ping(ctx); err != nil {
		conn.Close()
		return nil, err
	}

	queries := newQueries(conn)
	return &Database{
		assets:    queries,
		prices:    queries,
		dividends: queries,
		migrator:  conn,
		conn:      conn}, nil
}

// Migrate creates the assets, prices and dividends tables when missing.
func (db *Database) Migrate(ctx context.Context) error {
	if _, err := db.migrator.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func (db *Database) Close() {
	if db.conn != nil {
		db.conn.Close()
	}
}
