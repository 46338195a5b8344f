package cmd

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/etnz/komorebi"
	"github.com/etnz/komorebi/renderer"
	"github.com/google/subcommands"
)

// deleteCmd holds the flags for the 'delete' subcommand.
type deleteCmd struct {
	yes bool
}

func (*deleteCmd) Name() string     { return "delete" }
func (*deleteCmd) Synopsis() string { return "remove a holding" }
func (*deleteCmd) Usage() string {
	return `kmb delete [-y] <id>

  Removes a holding after confirmation.
`
}

func (c *deleteCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.yes, "y", false, "do not ask for confirmation")
}

func (c *deleteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	if !c.yes && !confirm(fmt.Sprintf("Delete %s %s?", h.Symbol, h.Name)) {
		fmt.Fprintln(stdout, "Cancelled.")
		return subcommands.ExitSuccess
	}

	if err := a.apply(ctx, komorebi.DeleteHolding{ID: h.ID}); err != nil {
		return fail("Error deleting holding: %v", err)
	}
	fmt.Fprintf(stdout, "Deleted %s %s\n", renderer.ShortID(h.ID), h.Symbol)
	return subcommands.ExitSuccess
}

// confirm asks a yes/no question, no being the default.
func confirm(question string) bool {
	fmt.Fprintf(stdout, "%s [y/N] ", strings.TrimSpace(question))
	line, _ := bufio.NewReader(stdin).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
