package cmd

import (
	"context"
	"flag"

	"github.com/etnz/komorebi"
	"github.com/google/subcommands"
)

// editCmd holds the flags for the 'edit' subcommand.
type editCmd struct {
	holdingFlags
}

func (*editCmd) Name() string     { return "edit" }
func (*editCmd) Synopsis() string { return "modify a holding" }
func (*editCmd) Usage() string {
	return `kmb edit [-t <type>] [-s <symbol>] [-q <shares>] [-p <price>] [-c <currency>] <id>

  Modifies the fields of a holding. Only the given flags change; the id may
  be shortened to any unambiguous prefix. Prices fetched by a refresh are
  kept.
`
}

func (c *editCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	a, err := openApp(ctx)
	if err != nil {
		return fail("Error opening holdings: %v", err)
	}
	defer a.Close()

	h, err := findHolding(a.state, f.Arg(0))
	if err != nil {
		return fail("Error: %v", err)
	}

	e := komorebi.NewEditor()
	e.OpenEdit(h)
	if err := c.fill(e, setFlags(f)); err != nil {
		return fail("Error: %v", err)
	}
	return submit(ctx, a, e)
}
