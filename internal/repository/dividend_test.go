package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

type mockDividendsRepository struct {
	sqlError error
	calls    *int
}

func TestDatabase_GetDividendRange(t *testing.T) {
	tests := []struct {
		name    string
		tickers []string
		sqlErr  error
		wantLen int
		wantErr bool
	}{
		{"should skip the query without tickers", nil, nil, 0, false},
		{"should return one event per ticker", []string{"PETR4.SA", "VALE3.SA"}, nil, 2, false},
		{"should pass through errors", []string{"PETR4.SA"}, errors.New("timeout"), 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			db := &Database{
				dividends: mockDividendsRepository{sqlError: tt.sqlErr, calls: &calls},
			}
			got, err := db.GetDividendRange(context.Background(), tt.tickers, startDay, endDay)
			if (err != nil) != tt.wantErr {
				t.Fatalf("GetDividendRange() error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(got) != tt.wantLen {
				t.Fatalf("GetDividendRange() got %d events, want %d", len(got), tt.wantLen)
			}
			if len(tt.tickers) == 0 && calls != 0 {
				t.Errorf("GetDividendRange() queried the database without tickers")
			}
			for i, ev := range got {
				if ev.Ticker != tt.tickers[i] {
					t.Errorf("GetDividendRange() event %d ticker got = %v, want %v", i, ev.Ticker, tt.tickers[i])
				}
				if !ev.Amount.Equal(decimal.RequireFromString("0.25")) {
					t.Errorf("GetDividendRange() event %d amount got = %v", i, ev.Amount)
				}
			}
		})
	}
}

func (m mockDividendsRepository) GetDividendRange(_ context.Context, arg getDividendRangeParams) ([]dividendRow, error) {
	*m.calls++
	if m.sqlError != nil {
		return nil, m.sqlError
	}
	var rows []dividendRow
	for _, ticker := range arg.Tickers {
		rows = append(rows, dividendRow{
			Ticker: ticker,
			Date:   arg.Start.Add(24 * time.Hour),
			Amount: decimal.RequireFromString("0.25"),
		})
	}
	return rows, nil
}
