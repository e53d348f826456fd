package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
)

type assetsCmd struct {
	query string
}

func (*assetsCmd) Name() string     { return "assets" }
func (*assetsCmd) Synopsis() string { return "list the assets available for simulation" }
func (*assetsCmd) Usage() string {
	return `assets [-q TEXT]

  Lists "<symbol> - <name>" labels sorted by label. Fractional market symbols
  are omitted.
`
}

func (c *assetsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.query, "q", "", "only list labels containing this text (case insensitive)")
}

func (c *assetsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		return exitStatus(err)
	}
	defer a.Close()

	catalog, err := a.catalog(ctx)
	if err != nil {
		return exitStatus(err)
	}
	query := strings.ToLower(c.query)
	for _, label := range catalog.Options() {
		if query != "" && !strings.Contains(strings.ToLower(label), query) {
			continue
		}
		fmt.Fprintln(os.Stdout, label)
	}
	return subcommands.ExitSuccess
}
