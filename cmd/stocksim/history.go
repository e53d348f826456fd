package main

import (
	"context"
	"flag"
	"fmt"
	"stocksim/internal/wizard"
	"stocksim/types"

	"github.com/google/subcommands"
)

type historyCmd struct{}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "display the range of available price history" }
func (*historyCmd) Usage() string {
	return `history

  Displays the first and last day of price history and the default
  simulation range.
`
}

func (*historyCmd) SetFlags(*flag.FlagSet) {}

func (*historyCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		return exitStatus(err)
	}
	defer a.Close()

	bounds, err := a.newEngine(nil).HistoryBounds(ctx)
	if err != nil {
		return exitStatus(err)
	}
	def := wizard.DefaultRange(bounds)
	fmt.Printf("First day\t%s\n", bounds.Start.Format(types.DateLayout))
	fmt.Printf("Last day\t%s\n", bounds.End.Format(types.DateLayout))
	fmt.Printf("Default range\t%s\n", def)
	return subcommands.ExitSuccess
}
