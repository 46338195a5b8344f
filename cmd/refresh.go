package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/komorebi"
	"github.com/etnz/komorebi/renderer"
	"github.com/google/subcommands"
)

// refreshCmd holds the flags for the 'refresh' subcommand.
type refreshCmd struct{}

func (*refreshCmd) Name() string     { return "refresh" }
func (*refreshCmd) Synopsis() string { return "fetch the latest prices and exchange rates" }
func (*refreshCmd) Usage() string {
	return `kmb refresh

  Fetches the latest price, daily change and name of every equity holding,
  and the USD and JPY exchange rates, then saves them.
`
}

func (*refreshCmd) SetFlags(f *flag.FlagSet) {}

func (*refreshCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		return fail("Error opening holdings: %v", err)
	}
	defer a.Close()

	if err := a.update(ctx); err != nil {
		return fail("Error: %v", err)
	}
	fmt.Fprintf(stdout, "%d of %d equities priced\n", priced(a.state.Holdings), len(komorebi.Requests(a.state.Holdings)))
	fmt.Fprintln(stdout, renderer.RatesLine(a.state.Rates, a.state.RatesFetched))
	return subcommands.ExitSuccess
}

// priced counts the equities with a current price.
func priced(holdings []komorebi.Holding) int {
	n := 0
	for _, h := range holdings {
		if h.Type.IsEquity() && h.CurrentPrice != nil {
			n++
		}
	}
	return n
}

// ratesCmd holds the flags for the 'rates' subcommand.
type ratesCmd struct {
	update bool
}

func (*ratesCmd) Name() string     { return "rates" }
func (*ratesCmd) Synopsis() string { return "display the exchange rates to TWD" }
func (*ratesCmd) Usage() string {
	return `kmb rates [-u]

  Displays the exchange rates used to convert USD and JPY into TWD.
`
}

func (c *ratesCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.update, "u", false, "refresh before displaying")
}

func (c *ratesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		return fail("Error opening holdings: %v", err)
	}
	defer a.Close()

	if c.update {
		if err := a.update(ctx); err != nil {
			return fail("Error: %v", err)
		}
	}
	fmt.Fprintln(stdout, renderer.RatesLine(a.state.Rates, a.state.RatesFetched))
	return subcommands.ExitSuccess
}
