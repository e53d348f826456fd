package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"stocksim/internal/engine"
	"stocksim/internal/report"
	"stocksim/internal/wizard"
	"stocksim/types"
	"strings"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

// investmentFlags collects repeated -i TICKER=AMOUNT flags.
type investmentFlags types.Investments

func (f investmentFlags) String() string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+f[k].String())
	}
	return strings.Join(parts, ",")
}

func (f investmentFlags) Set(s string) error {
	ticker, amount, ok := strings.Cut(s, "=")
	ticker = strings.TrimSpace(ticker)
	if !ok || ticker == "" {
		return fmt.Errorf("expected TICKER=AMOUNT, got %q", s)
	}
	v, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return fmt.Errorf("invalid amount for %s: %w", ticker, err)
	}
	f[ticker] = v
	return nil
}

type simulateCmd struct {
	start       string
	end         string
	format      string
	out         string
	progress    bool
	investments investmentFlags
}

func (*simulateCmd) Name() string     { return "simulate" }
func (*simulateCmd) Synopsis() string { return "simulate buying and holding assets over a date range" }
func (*simulateCmd) Usage() string {
	return `simulate [-start DATE] [-end DATE] [-i TICKER=AMOUNT ...] [-format terminal|markdown|csv|json] TICKER...

  Buys as many whole shares of each TICKER as its amount allows on the first
  trading day of the range and reports the value, profit and dividends on the
  last one. Dates are YYYY-MM-DD or DD/MM/YYYY and default to the last year of
  available history.
`
}

func (c *simulateCmd) SetFlags(f *flag.FlagSet) {
	c.investments = investmentFlags{}
	f.StringVar(&c.start, "start", "", "first day of the simulation")
	f.StringVar(&c.end, "end", "", "last day of the simulation")
	f.Var(c.investments, "i", "amount invested in a ticker, as TICKER=AMOUNT (repeatable)")
	f.StringVar(&c.format, "format", "terminal", "output format: terminal, markdown, csv or json")
	f.StringVar(&c.out, "out", "", "write the output to this file instead of stdout")
	f.BoolVar(&c.progress, "progress", false, "show a progress bar while loading prices")
}

func (c *simulateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "at least one ticker is required")
		return subcommands.ExitUsageError
	}
	switch c.format {
	case "terminal", "markdown", "csv", "json":
	default:
		fmt.Fprintf(os.Stderr, "unknown format %q\n", c.format)
		return subcommands.ExitUsageError
	}

	a, err := openApp(ctx)
	if err != nil {
		return exitStatus(err)
	}
	defer a.Close()

	var progress io.Writer
	if c.progress {
		progress = os.Stderr
	}
	eng := a.newEngine(progress)

	var w io.Writer = os.Stdout
	if c.out != "" {
		file, err := os.Create(c.out)
		if err != nil {
			return exitStatus(fmt.Errorf("create output file: %w", err))
		}
		defer file.Close()
		w = file
	}
	return exitStatus(c.run(ctx, eng, f.Args(), a.cfg.CurrencySymbol, w))
}

// run takes the inputs through the wizard steps, computes the simulation and
// writes it in the selected format. Warnings go to stderr.
func (c *simulateCmd) run(ctx context.Context, eng *engine.Engine, tickers []string, symbol string, w io.Writer) error {
	bounds, err := eng.HistoryBounds(ctx)
	if err != nil {
		return err
	}
	session := wizard.NewSession(bounds)

	r := session.Range()
	if c.start != "" {
		if r.Start, err = types.ParseDate(c.start); err != nil {
			return fmt.Errorf("%w: %v", engine.ErrInvalidRange, err)
		}
	}
	if c.end != "" {
		if r.End, err = types.ParseDate(c.end); err != nil {
			return fmt.Errorf("%w: %v", engine.ErrInvalidRange, err)
		}
	}
	if err := session.Select(tickers, r); err != nil {
		return err
	}
	if err := session.Invest(types.Investments(c.investments)); err != nil {
		return err
	}
	sim, err := session.Simulation()
	if err != nil {
		return err
	}

	result, err := eng.Compute(ctx, sim)
	if err != nil {
		return err
	}
	for _, warning := range result.Warnings {
		fmt.Fprintln(os.Stderr, "Warning:", warning.Error())
	}

	table := report.Render(result.Positions, result.Totals, report.WithCurrencySymbol(symbol))
	switch c.format {
	case "markdown":
		return report.WriteMarkdown(w, table)
	case "csv":
		return engine.WriteResultCSV(w, result)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			*engine.Result
			Table report.Table `json:"table"`
		}{result, table})
	default:
		out, err := report.RenderTerminal(table)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "Simulation %s\n%s", result.Range, out)
		return err
	}
}
