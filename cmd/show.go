package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/komorebi"
	"github.com/etnz/komorebi/renderer"
	"github.com/google/subcommands"
)

// showCmd holds the flags for the 'show' subcommand.
type showCmd struct {
	offline bool
	hide    bool
}

func (*showCmd) Name() string     { return "show" }
func (*showCmd) Synopsis() string { return "display the net worth and the holdings" }
func (*showCmd) Usage() string {
	return `kmb show [-offline] [-hide]

  Refreshes prices and exchange rates, then displays the net worth in TWD,
  the daily change, and the holdings grouped by asset type.
  When the refresh fails, the last known values are displayed.
`
}

func (c *showCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.offline, "offline", false, "do not refresh, display the last known values")
	f.BoolVar(&c.hide, "hide", false, "mask amounts, shares and prices")
}

func (c *showCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		return fail("Error opening holdings: %v", err)
	}
	defer a.Close()

	if !c.offline {
		if err := a.update(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Warning, displaying last known values: %v\n", err)
		}
	}

	report := komorebi.NewValuationReport(a.state)
	printMarkdown(renderer.ReportMarkdown(report, renderer.Options{Hide: c.hide}))
	return subcommands.ExitSuccess
}
