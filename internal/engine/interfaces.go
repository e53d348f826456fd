package engine

import (
	"context"
	"stocksim/types"
	"time"
)

// PriceStore serves closing-price series. Missing days are omitted, never zero-filled.
type PriceStore interface {
	GetPriceRange(ctx context.Context, ticker string, start, end time.Time) ([]types.PricePoint, error)
	HistoryBounds(ctx context.Context) (types.DateRange, error)
}

// DividendStore serves cash dividends. Days without a dividend are absent.
type DividendStore interface {
	GetDividendRange(ctx context.Context, tickers []string, start, end time.Time) ([]types.DividendEvent, error)
}
