package engine

import (
	"errors"
	"fmt"
	"stocksim/types"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidSelection  = errors.New("invalid asset selection")
	ErrInvalidRange      = errors.New("invalid date range")
	ErrInvalidInvestment = errors.New("invalid investment")
)

// MissingDataWarning reports an asset with no closing price in the range.
// Its row is zero-filled; the computation carries on.
type MissingDataWarning struct {
	Ticker string          `json:"ticker"`
	Range  types.DateRange `json:"range"`
}

func (w MissingDataWarning) Error() string {
	return fmt.Sprintf("no price data for %s in %s", w.Ticker, w.Range)
}

// ValidateSelection rejects an empty selection and returns the tickers in
// caller order with duplicates and blanks removed.
func ValidateSelection(assets []string) ([]string, error) {
	seen := make(map[string]bool, len(assets))
	out := make([]string, 0, len(assets))
	for _, ticker := range assets {
		if ticker == "" || seen[ticker] {
			continue
		}
		seen[ticker] = true
		out = append(out, ticker)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: select at least one asset", ErrInvalidSelection)
	}
	return out, nil
}

// ValidateRange checks ordering and that r lies within the available history.
func ValidateRange(r types.DateRange, history types.DateRange) error {
	if !r.IsOrdered() {
		return fmt.Errorf("%w: start date %s is after end date %s",
			ErrInvalidRange, r.Start.Format(types.DateLayout), r.End.Format(types.DateLayout))
	}
	if !r.Within(history) {
		return fmt.Errorf("%w: %s is outside the available history %s", ErrInvalidRange, r, history)
	}
	return nil
}

// ValidateInvestments rejects negative amounts.
func ValidateInvestments(investments types.Investments) error {
	for ticker, amount := range investments {
		if amount.IsNegative() {
			return fmt.Errorf("%w: amount for %s must not be negative, got %s", ErrInvalidInvestment, ticker, amount)
		}
	}
	return nil
}

// validateQuantities rejects investments whose share counts, alone or summed
// across the portfolio, do not fit an int64.
func validateQuantities(assets []string, investments types.Investments, feeds map[string]*feed) error {
	total := decimal.Zero
	for _, ticker := range assets {
		f := feeds[ticker]
		if f == nil || len(f.prices) == 0 {
			continue
		}
		q := shareCount(investments.Get(ticker), f.prices[0].Close)
		if q.GreaterThan(maxQuantity) {
			return fmt.Errorf("%w: amount for %s buys %s shares, more than %s",
				ErrInvalidInvestment, ticker, q, maxQuantity)
		}
		total = total.Add(q)
	}
	if total.GreaterThan(maxQuantity) {
		return fmt.Errorf("%w: portfolio buys %s shares, more than %s", ErrInvalidInvestment, total, maxQuantity)
	}
	return nil
}
