package engine

import (
	"stocksim/types"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	moneyPlaces = 2
	ratioPlaces = 4
)

// PositionResult is the performance of one asset over the simulated range.
type PositionResult struct {
	Ticker       string          `json:"ticker"`
	Quantity     int64           `json:"quantity"`
	InitialValue decimal.Decimal `json:"initialValue"`
	ProfitPct    decimal.Decimal `json:"profitPct"`
	ProfitAmount decimal.Decimal `json:"profitAmount"`
	CurrentValue decimal.Decimal `json:"currentValue"`
	Dividends    decimal.Decimal `json:"dividends"`

	InitialPrice     decimal.Decimal `json:"initialPrice"`
	FinalPrice       decimal.Decimal `json:"finalPrice"`
	PricePerformance decimal.Decimal `json:"pricePerformance"`
	// Contributes is false for assets without a position; they stay out of
	// the invested and current totals.
	Contributes bool `json:"contributes"`
}

// PortfolioTotals aggregates every PositionResult of a run.
type PortfolioTotals struct {
	Quantity     int64           `json:"quantity"`
	InitialValue decimal.Decimal `json:"initialValue"`
	ProfitPct    decimal.Decimal `json:"profitPct"`
	ProfitAmount decimal.Decimal `json:"profitAmount"`
	CurrentValue decimal.Decimal `json:"currentValue"`
	Dividends    decimal.Decimal `json:"dividends"`
}

type Result struct {
	RunID     uuid.UUID                     `json:"runId"`
	Range     types.DateRange               `json:"range"`
	Positions []PositionResult              `json:"positions"`
	Totals    PortfolioTotals               `json:"totals"`
	Series    map[string][]types.PricePoint `json:"series"`
	Warnings  []MissingDataWarning          `json:"warnings,omitempty"`
}

func roundMoney(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(moneyPlaces)
}

func roundRatio(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(ratioPlaces)
}
