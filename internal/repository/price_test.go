package repository

import (
	"context"
	"errors"
	"stocksim/types"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

var startDay = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
var endDay = startDay.AddDate(0, 0, 4)

type mockPricesRepository struct {
	sqlError  error
	empty     bool
	bounds    priceBoundsRow
	boundsErr error
}

func TestDatabase_GetPriceRange(t *testing.T) {
	type args struct {
		ticker string
		start  time.Time
		end    time.Time
	}
	tests := []struct {
		name    string
		args    args
		empty   bool
		sqlErr  error
		wantLen int
		wantErr error
	}{
		{"should throw ErrNoPrices when empty", args{"XPTO3.SA", startDay, endDay}, true, nil, 0, ErrNoPrices},
		{"should throw ErrNoPrices on no rows", args{"XPTO3.SA", startDay, endDay}, false, pgx.ErrNoRows, 0, ErrNoPrices},
		{"should return prices", args{"PETR4.SA", startDay, endDay}, false, nil, 5, nil},
		{"should truncate times to days", args{"PETR4.SA", startDay.Add(13 * time.Hour), endDay.Add(time.Hour)}, false, nil, 5, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := &Database{
				prices: mockPricesRepository{
					sqlError: tt.sqlErr,
					empty:    tt.empty,
				},
			}
			got, err := db.GetPriceRange(context.Background(), tt.args.ticker, tt.args.start, tt.args.end)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("GetPriceRange() error = %v, wantErr %v", err, tt.wantErr)
				}
				if !errors.Is(err, types.ErrNoData) {
					t.Errorf("GetPriceRange() error = %v should be missing data", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("GetPriceRange() unexpected error = %v", err)
			}
			if len(got) != tt.wantLen {
				t.Fatalf("GetPriceRange() got %d points, want %d", len(got), tt.wantLen)
			}
			for i, p := range got {
				if p.Ticker != tt.args.ticker {
					t.Errorf("GetPriceRange() %s ticker got = %v, want %v", p.Date, p.Ticker, tt.args.ticker)
					break
				}
				if !p.Date.Equal(startDay.AddDate(0, 0, i)) {
					t.Errorf("GetPriceRange() point %d date got = %v", i, p.Date)
					break
				}
				if !p.Close.Equal(decimal.NewFromInt(int64(10 + i))) {
					t.Errorf("GetPriceRange() %s close got = %v", p.Date, p.Close)
					break
				}
			}
		})
	}
}

func TestDatabase_HistoryBounds(t *testing.T) {
	first := startDay
	last := endDay
	tests := []struct {
		name      string
		bounds    priceBoundsRow
		boundsErr error
		want      types.DateRange
		wantErr   error
	}{
		{"should return bounds", priceBoundsRow{First: &first, Last: &last}, nil, types.NewDateRange(first, last), nil},
		{"should throw ErrNoHistory on empty table", priceBoundsRow{}, nil, types.DateRange{}, ErrNoHistory},
		{"should throw ErrNoHistory on no rows", priceBoundsRow{}, pgx.ErrNoRows, types.DateRange{}, ErrNoHistory},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := &Database{
				prices: mockPricesRepository{bounds: tt.bounds, boundsErr: tt.boundsErr},
			}
			got, err := db.HistoryBounds(context.Background())
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("HistoryBounds() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !got.Start.Equal(tt.want.Start) || !got.End.Equal(tt.want.End) {
				t.Errorf("HistoryBounds() got = %v, want %v", got, tt.want)
			}
		})
	}
}

func (m mockPricesRepository) GetPriceRange(_ context.Context, arg getPriceRangeParams) ([]priceRow, error) {
	if m.sqlError != nil {
		return nil, m.sqlError
	}
	if m.empty {
		return []priceRow{}, nil
	}
	var rows []priceRow
	for i, d := 0, arg.Start; !d.After(arg.End); i, d = i+1, d.AddDate(0, 0, 1) {
		rows = append(rows, priceRow{
			Ticker: arg.Ticker,
			Date:   d,
			Close:  decimal.NewFromInt(int64(10 + i)),
		})
	}
	return rows, nil
}

func (m mockPricesRepository) GetPriceBounds(_ context.Context) (priceBoundsRow, error) {
	return m.bounds, m.boundsErr
}
