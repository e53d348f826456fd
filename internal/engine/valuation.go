package engine

import (
	"math"
	"stocksim/types"

	"github.com/shopspring/decimal"
)

var (
	one         = decimal.NewFromInt(1)
	maxQuantity = decimal.NewFromInt(math.MaxInt64)
)

// shareCount is floor(invested / price), or zero when no position is bought.
// Whole shares only, rounded down so the spend never exceeds invested.
func shareCount(invested, price decimal.Decimal) decimal.Decimal {
	if !price.IsPositive() || !invested.IsPositive() {
		return decimal.Zero
	}
	q, _ := invested.QuoRem(price, 0)
	return q
}

// valuePosition computes one asset's row from its in-range feed.
func valuePosition(f *feed, invested decimal.Decimal) PositionResult {
	initialPrice, finalPrice := decimal.Zero, decimal.Zero
	if len(f.prices) > 0 {
		initialPrice = f.prices[0].Close
		finalPrice = f.prices[len(f.prices)-1].Close
	}

	// validateQuantities has already bounded the count to int64.
	quantity := shareCount(invested, initialPrice).IntPart()

	perf := decimal.Zero
	if !initialPrice.IsZero() {
		perf = finalPrice.Div(initialPrice).Sub(one)
	}

	row := PositionResult{
		Ticker:           f.ticker,
		Quantity:         quantity,
		InitialValue:     roundMoney(invested),
		CurrentValue:     decimal.Zero,
		ProfitAmount:     decimal.Zero,
		ProfitPct:        perf,
		InitialPrice:     initialPrice,
		FinalPrice:       finalPrice,
		PricePerformance: perf,
	}

	if invested.IsPositive() {
		current := decimal.NewFromInt(quantity).Mul(finalPrice)
		profit := current.Sub(invested)
		row.CurrentValue = roundMoney(current)
		row.ProfitAmount = roundMoney(profit)
		row.ProfitPct = roundRatio(profit.Div(invested))
		row.Contributes = true
	}

	row.Dividends = roundMoney(f.dividendsPerShare.Mul(decimal.NewFromInt(quantity)))
	return row
}

// totals accumulates rows in order. Quantities and dividends count for every
// asset, invested and current values only for contributing ones.
type totals struct {
	quantity  int64
	invested  decimal.Decimal
	current   decimal.Decimal
	dividends decimal.Decimal
}

func (t *totals) add(row PositionResult, invested decimal.Decimal) {
	t.quantity += row.Quantity
	t.dividends = t.dividends.Add(row.Dividends)
	if row.Contributes {
		t.invested = t.invested.Add(invested)
		t.current = t.current.Add(row.CurrentValue)
	}
}

func (t *totals) result() PortfolioTotals {
	profit := t.current.Sub(t.invested)
	pct := decimal.Zero
	if !t.invested.IsZero() {
		pct = profit.Div(t.invested)
	}
	initial := roundMoney(t.invested)
	current := roundMoney(t.current)
	return PortfolioTotals{
		Quantity:     t.quantity,
		InitialValue: initial,
		CurrentValue: current,
		// Derived from the rounded figures so the row always balances.
		ProfitAmount: current.Sub(initial),
		ProfitPct:    roundRatio(pct),
		Dividends:    roundMoney(t.dividends),
	}
}

// value produces the result rows for assets in the given order.
func value(assets []string, r types.DateRange, investments types.Investments, feeds map[string]*feed) *Result {
	result := &Result{
		Range:     r,
		Positions: make([]PositionResult, 0, len(assets)),
		Series:    make(map[string][]types.PricePoint, len(assets)),
	}
	acc := totals{
		invested:  decimal.Zero,
		current:   decimal.Zero,
		dividends: decimal.Zero,
	}
	for _, ticker := range assets {
		f := feeds[ticker]
		if f == nil {
			f = &feed{ticker: ticker, dividendsPerShare: decimal.Zero}
		}
		if len(f.prices) == 0 {
			result.Warnings = append(result.Warnings, MissingDataWarning{Ticker: ticker, Range: r})
		}
		invested := investments.Get(ticker)
		row := valuePosition(f, invested)
		acc.add(row, invested)
		result.Positions = append(result.Positions, row)
		result.Series[ticker] = f.prices
	}
	result.Totals = acc.result()
	return result
}
