package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// PricePoint is the closing price of one asset on one trading day.
type PricePoint struct {
	Ticker string          `json:"ticker"`
	Date   time.Time       `json:"date"`
	Close  decimal.Decimal `json:"close"`
}

// DividendEvent is a cash dividend paid per share of an asset on a given day.
type DividendEvent struct {
	Ticker string          `json:"ticker"`
	Date   time.Time       `json:"date"`
	Amount decimal.Decimal `json:"amountPerShare"`
}

// Investments maps a ticker to the cash amount invested in it at the start of a range.
type Investments map[string]decimal.Decimal

// Get returns the amount invested in ticker, zero when none was entered.
func (i Investments) Get(ticker string) decimal.Decimal {
	if amount, ok := i[ticker]; ok {
		return amount
	}
	return decimal.Zero
}

// Clone returns a copy that can be mutated without affecting i.
func (i Investments) Clone() Investments {
	out := make(Investments, len(i))
	for ticker, amount := range i {
		out[ticker] = amount
	}
	return out
}
