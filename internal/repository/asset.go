package repository

import (
	"context"
	"errors"
	"fmt"
	"stocksim/types"

	"github.com/jackc/pgx/v5"
)

// GetAssetByTicker retrieves a types.Asset by its ticker.
func (db *Database) GetAssetByTicker(ctx context.Context, ticker string) (*types.Asset, error) {
	asset, err := db.assets.GetAssetByTicker(ctx, ticker)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("ticker %s %w", ticker, ErrAssetNotFound)
		}
		return nil, err
	}
	converted := convertAsset(asset)
	return &converted, nil
}

// ListAssets returns every asset of the catalogue ordered by ticker.
func (db *Database) ListAssets(ctx context.Context) ([]types.Asset, error) {
	rows, err := db.assets.ListAssets(ctx)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	assets := make([]types.Asset, 0, len(rows))
	for _, row := range rows {
		assets = append(assets, convertAsset(row))
	}
	return assets, nil
}

func convertAsset(row assetRow) types.Asset {
	return types.Asset{
		Id:     int(row.ID),
		Ticker: row.Ticker,
		Name:   row.Name,
		Type:   types.AssetType(row.Type),
	}
}
