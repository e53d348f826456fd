package engine

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

const totalLabel = "TOTAL"

// WriteResultCSVFile writes the result rows to a CSV file at the given path.
func WriteResultCSVFile(path string, result *Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create result file: %w", err)
	}
	defer f.Close()

	return WriteResultCSV(f, result)
}

// WriteResultCSV writes one row per asset followed by the TOTAL row.
// Values are the unformatted decimals.
func WriteResultCSV(w io.Writer, result *Result) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{
		"ticker",
		"quantity",
		"initial_value",
		"profit_pct",
		"profit_amount",
		"current_value",
		"dividends",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, row := range result.Positions {
		record := []string{
			row.Ticker,
			strconv.FormatInt(row.Quantity, 10),
			row.InitialValue.String(),
			row.ProfitPct.String(),
			row.ProfitAmount.String(),
			row.CurrentValue.String(),
			row.Dividends.String(),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}

	t := result.Totals
	total := []string{
		totalLabel,
		strconv.FormatInt(t.Quantity, 10),
		t.InitialValue.String(),
		t.ProfitPct.String(),
		t.ProfitAmount.String(),
		t.CurrentValue.String(),
		t.Dividends.String(),
	}
	if err := cw.Write(total); err != nil {
		return fmt.Errorf("write total: %w", err)
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
