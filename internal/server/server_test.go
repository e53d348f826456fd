package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"stocksim/internal/engine"
	"stocksim/internal/listing"
	"stocksim/internal/store"
	"stocksim/types"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(month time.Month, d int) time.Time {
	return time.Date(2024, month, d, 0, 0, 0, 0, time.UTC)
}

func price(ticker string, date time.Time, close string) types.PricePoint {
	return types.PricePoint{Ticker: ticker, Date: date, Close: decimal.RequireFromString(close)}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	mem := store.NewMemory([]types.PricePoint{
		price("A", day(1, 2), "10"),
		price("A", day(1, 3), "20"),
		price("B", day(1, 2), "50"),
		price("B", day(1, 3), "40"),
	}, []types.DividendEvent{
		{Ticker: "A", Date: day(1, 3), Amount: decimal.RequireFromString("0.5")},
	})
	eng := engine.NewEngine(mem, mem, nil, zerolog.Nop())
	catalog := listing.NewCatalog([]types.Asset{
		{Ticker: "B", Name: "Beta"},
		{Ticker: "A", Name: "Alpha"},
		{Ticker: "AF.SA", Name: "Alpha fractional"},
	})
	return New(Config{Port: 0, Log: zerolog.Nop(), Simulator: eng, Catalog: catalog, CurrencySymbol: "R$"})
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestHandleListAssets(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/api/assets", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got []assetResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "B", got[0].Ticker)
	assert.Equal(t, "A - Alpha", got[1].Label)
}

func TestHandleHistory(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/api/history", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got historyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "2024-01-02", got.Start)
	assert.Equal(t, "2024-01-03", got.End)
	assert.Equal(t, "2024-01-02", got.DefaultStart)
	assert.Equal(t, "2024-01-03", got.DefaultEnd)
}

func TestHandleHistory_EmptyStore(t *testing.T) {
	mem := store.NewMemory(nil, nil)
	s := New(Config{Log: zerolog.Nop(), Simulator: engine.NewEngine(mem, mem, nil, zerolog.Nop())})
	rec := do(t, s, http.MethodGet, "/api/history", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleSimulate(t *testing.T) {
	body := `{"assets":["A","B","C"],"start":"2024-01-02","end":"03/01/2024","investments":{"A":"1000"}}`
	rec := do(t, newTestServer(t), http.MethodPost, "/api/simulations", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got struct {
		RunID     string                      `json:"runId"`
		Positions []engine.PositionResult     `json:"positions"`
		Totals    engine.PortfolioTotals      `json:"totals"`
		Warnings  []engine.MissingDataWarning `json:"warnings"`
		Table     struct {
			Rows []struct {
				Label string `json:"label"`
				Total bool   `json:"total"`
				Cells []struct {
					Text string `json:"text"`
					Hint string `json:"hint"`
				} `json:"cells"`
			} `json:"rows"`
		} `json:"table"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))

	assert.NotEmpty(t, got.RunID)
	require.Len(t, got.Positions, 3)
	assert.Equal(t, int64(100), got.Positions[0].Quantity)
	assert.True(t, got.Positions[0].Dividends.Equal(decimal.NewFromInt(50)))
	assert.True(t, got.Positions[1].ProfitPct.Equal(decimal.RequireFromString("-0.2")))
	assert.True(t, got.Totals.CurrentValue.Equal(decimal.NewFromInt(2000)))
	require.Len(t, got.Warnings, 1)
	assert.Equal(t, "C", got.Warnings[0].Ticker)

	require.Len(t, got.Table.Rows, 4)
	assert.True(t, got.Table.Rows[3].Total)
	assert.Equal(t, "R$2,000.00", got.Table.Rows[0].Cells[4].Text)
	assert.Equal(t, "positive", got.Table.Rows[0].Cells[3].Hint)
}

func TestHandleSimulate_DefaultRange(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodPost, "/api/simulations", `{"assets":["A"],"investments":{"A":"100"}}`)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestHandleSimulate_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"assets":`},
		{"unknown field", `{"tickers":["A"]}`},
		{"no assets", `{"assets":[]}`},
		{"bad date", `{"assets":["A"],"start":"yesterday"}`},
		{"reversed range", `{"assets":["A"],"start":"2024-01-03","end":"2024-01-02"}`},
		{"outside history", `{"assets":["A"],"start":"2023-12-01","end":"2024-01-02"}`},
		{"negative investment", `{"assets":["A"],"investments":{"A":"-1"}}`},
		{"investment for unselected asset", `{"assets":["A"],"investments":{"B":"1"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, newTestServer(t), http.MethodPost, "/api/simulations", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

type failingSimulator struct{}

func (failingSimulator) Compute(context.Context, engine.Simulation) (*engine.Result, error) {
	return nil, errors.New("load prices for A: connection refused")
}

func (failingSimulator) HistoryBounds(context.Context) (types.DateRange, error) {
	return types.NewDateRange(day(1, 1), day(12, 31)), nil
}

func TestHandleSimulate_StoreFailure(t *testing.T) {
	s := New(Config{Log: zerolog.Nop(), Simulator: failingSimulator{}})
	rec := do(t, s, http.MethodPost, "/api/simulations", `{"assets":["A"]}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal error"}`, rec.Body.String())
}
