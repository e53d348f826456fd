package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"stocksim/types"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

var (
	ErrNoPrices  = fmt.Errorf("no prices in snapshot: %w", types.ErrNoData)
	ErrNoHistory = fmt.Errorf("no price history in snapshot: %w", types.ErrNoData)
)

const pingTimeout = 5 * time.Second

const schema = `
CREATE TABLE IF NOT EXISTS assets (
    ticker TEXT PRIMARY KEY,
    name   TEXT NOT NULL DEFAULT '',
    type   TEXT NOT NULL DEFAULT 'STOCK'
);
CREATE TABLE IF NOT EXISTS prices (
    ticker TEXT NOT NULL,
    date   TEXT NOT NULL,
    close  TEXT NOT NULL,
    PRIMARY KEY (ticker, date)
);
CREATE TABLE IF NOT EXISTS dividends (
    id     INTEGER PRIMARY KEY AUTOINCREMENT,
    ticker TEXT NOT NULL,
    date   TEXT NOT NULL,
    amount TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS prices_date_idx ON prices (date);
CREATE INDEX IF NOT EXISTS dividends_ticker_date_idx ON dividends (ticker, date);
`

// Store is a price and dividend snapshot kept in a local SQLite file.
// Dates are stored as YYYY-MM-DD text and amounts as decimal text.
type Store struct {
	conn *sql.DB
	path string
	log  zerolog.Logger
}

// Open opens or creates the snapshot at path and creates missing tables.
func Open(ctx context.Context, path string, log zerolog.Logger) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{
		conn: conn,
		path: path,
		log:  log.With().Str("component", "sqlitestore").Str("path", path).Logger(),
	}
	if err := s.Migrate(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	s.log.Debug().Msg("snapshot opened")
	return s, nil
}

func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.conn.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.conn.Close()
}

// inTx runs fn inside a transaction, rolling back when fn fails.
func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			s.log.Error().Err(rbErr).Msg("rollback failed")
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func formatDate(t time.Time) string {
	return types.Day(t).Format(types.DateLayout)
}

func parseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(types.DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stored date %q: %w", s, err)
	}
	return t, nil
}
