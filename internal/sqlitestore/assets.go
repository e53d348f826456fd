package sqlitestore

import (
	"context"
	"database/sql"
	"fmt"
	"stocksim/types"
)

func (s *Store) InsertAssets(ctx context.Context, assets []types.Asset) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO assets (ticker, name, type) VALUES (?, ?, ?)
			 ON CONFLICT (ticker) DO UPDATE SET name = excluded.name, type = excluded.type`)
		if err != nil {
			return fmt.Errorf("prepare insert assets: %w", err)
		}
		defer stmt.Close()

		for _, a := range assets {
			kind := a.Type
			if kind == "" {
				kind = types.AssetTypeStock
			}
			if _, err := stmt.ExecContext(ctx, a.Ticker, a.Name, string(kind)); err != nil {
				return fmt.Errorf("insert asset %s: %w", a.Ticker, err)
			}
		}
		return nil
	})
}

// ListAssets returns the snapshot catalogue ordered by ticker.
func (s *Store) ListAssets(ctx context.Context) ([]types.Asset, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT ticker, name, type FROM assets ORDER BY ticker`)
	if err != nil {
		return nil, fmt.Errorf("query assets: %w", err)
	}
	defer rows.Close()

	var assets []types.Asset
	for rows.Next() {
		var a types.Asset
		var kind string
		if err := rows.Scan(&a.Ticker, &a.Name, &kind); err != nil {
			return nil, fmt.Errorf("scan asset: %w", err)
		}
		a.Type = types.AssetType(kind)
		assets = append(assets, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assets: %w", err)
	}
	return assets, nil
}
