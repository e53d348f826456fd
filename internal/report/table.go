package report

import (
	"stocksim/internal/engine"

	"github.com/shopspring/decimal"
)

const TotalLabel = "TOTAL"

type Column struct {
	Key   string `json:"key"`
	Title string `json:"title"`
}

type Cell struct {
	Text string `json:"text"`
	Hint Hint   `json:"hint,omitempty"`
}

// Row is one asset, or the synthetic total row when Total is set.
// Cells line up with Table.Columns.
type Row struct {
	Label string `json:"label"`
	Total bool   `json:"total"`
	Cells []Cell `json:"cells"`
}

// Table is the display-ready projection of a result.
type Table struct {
	Columns []Column `json:"columns"`
	Rows    []Row    `json:"rows"`
	Notes   []string `json:"notes,omitempty"`
}

var notes = []string{
	"Quantity is the number of shares bought on the start date.",
	"Profit (%) is how much the position rose or fell in the selected period.",
	"Profit is how much money the position gained or lost.",
	"Current Value is the initial value plus the profit or loss.",
	"Dividends is the amount paid to the shares held in the selected period.",
}

type options struct {
	symbol string
	notes  bool
}

type Option func(*options)

// WithCurrencySymbol sets the symbol printed in front of money values.
func WithCurrencySymbol(symbol string) Option {
	return func(o *options) {
		o.symbol = symbol
	}
}

// WithoutNotes drops the column explanations from the table.
func WithoutNotes() Option {
	return func(o *options) {
		o.notes = false
	}
}

// Render projects results and totals into a Table with one row per asset,
// in the given order, followed by the total row. The inputs are not modified.
func Render(results []engine.PositionResult, totals engine.PortfolioTotals, opts ...Option) Table {
	o := options{symbol: DefaultCurrencySymbol, notes: true}
	for _, opt := range opts {
		opt(&o)
	}

	suffix := ""
	if o.symbol != "" {
		suffix = " (" + o.symbol + ")"
	}
	t := Table{
		Columns: []Column{
			{Key: "quantity", Title: "Quantity"},
			{Key: "initialValue", Title: "Initial Value" + suffix},
			{Key: "profitPct", Title: "Profit (%)"},
			{Key: "profitAmount", Title: "Profit" + suffix},
			{Key: "currentValue", Title: "Current Value" + suffix},
			{Key: "dividends", Title: "Dividends" + suffix},
		},
		Rows: make([]Row, 0, len(results)+1),
	}

	for _, r := range results {
		q := r.Quantity
		t.Rows = append(t.Rows, Row{
			Label: r.Ticker,
			Cells: o.cells(&q, r.InitialValue, r.ProfitPct, r.ProfitAmount, r.CurrentValue, r.Dividends),
		})
	}
	q := totals.Quantity
	t.Rows = append(t.Rows, Row{
		Label: TotalLabel,
		Total: true,
		Cells: o.cells(&q, totals.InitialValue, totals.ProfitPct, totals.ProfitAmount, totals.CurrentValue, totals.Dividends),
	})

	if o.notes {
		t.Notes = append([]string(nil), notes...)
	}
	return t
}

func (o options) cells(quantity *int64, initial, pct, profit, current, dividends decimal.Decimal) []Cell {
	return []Cell{
		{Text: FormatQuantity(quantity)},
		{Text: FormatCurrency(valid(initial), o.symbol)},
		{Text: FormatPercent(valid(pct)), Hint: SignHint(valid(pct))},
		{Text: FormatCurrency(valid(profit), o.symbol), Hint: SignHint(valid(profit))},
		{Text: FormatCurrency(valid(current), o.symbol)},
		{Text: FormatCurrency(valid(dividends), o.symbol), Hint: SignHint(valid(dividends))},
	}
}
