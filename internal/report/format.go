package report

import (
	"math"
	"strconv"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

const DefaultCurrencySymbol = "R$"

// Cent amounts go-money can format; larger ones are grouped by formatLargeCurrency.
var (
	maxCents = decimal.NewFromInt(math.MaxInt64)
	minCents = decimal.NewFromInt(-math.MaxInt64)
)

// Hint is a sign-based display suggestion attached to a cell. It never
// changes the rendered text.
type Hint string

const (
	HintNone     Hint = ""
	HintPositive Hint = "positive"
	HintNegative Hint = "negative"
	HintNeutral  Hint = "neutral"
)

// FormatQuantity renders an integer share count; nil renders as "".
func FormatQuantity(q *int64) string {
	if q == nil {
		return ""
	}
	return strconv.FormatInt(*q, 10)
}

// FormatCurrency renders v with 2 decimals, thousands separators and the
// symbol in front, e.g. "R$1,234.56". Invalid values render as "".
func FormatCurrency(v decimal.NullDecimal, symbol string) string {
	if !v.Valid {
		return ""
	}
	cents := v.Decimal.RoundBank(2).Shift(2)
	if cents.GreaterThan(maxCents) || cents.LessThan(minCents) {
		return formatLargeCurrency(cents, symbol)
	}
	f := money.NewFormatter(2, ".", ",", symbol, "$1")
	return f.Format(cents.IntPart())
}

// formatLargeCurrency renders a cent amount outside int64 in the same layout
// as the go-money formatter.
func formatLargeCurrency(cents decimal.Decimal, symbol string) string {
	digits := cents.Abs().String()
	units, fraction := digits[:len(digits)-2], digits[len(digits)-2:]

	var b strings.Builder
	if cents.IsNegative() {
		b.WriteByte('-')
	}
	b.WriteString(symbol)
	for i, r := range units {
		if i > 0 && (len(units)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteByte('.')
	b.WriteString(fraction)
	return b.String()
}

// FormatPercent renders a ratio as a percentage with 2 decimals: 0.1234 is "12.34%".
func FormatPercent(v decimal.NullDecimal) string {
	if !v.Valid {
		return ""
	}
	return v.Decimal.Shift(2).StringFixedBank(2) + "%"
}

// SignHint classifies v by sign. Invalid values get no hint.
func SignHint(v decimal.NullDecimal) Hint {
	if !v.Valid {
		return HintNone
	}
	switch v.Decimal.Sign() {
	case 1:
		return HintPositive
	case -1:
		return HintNegative
	default:
		return HintNeutral
	}
}

func valid(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NewNullDecimal(d)
}
