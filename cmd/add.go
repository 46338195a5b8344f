package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/etnz/komorebi"
	"github.com/etnz/komorebi/renderer"
	"github.com/google/subcommands"
)

// holdingFlags are the editable fields, shared by 'add' and 'edit'.
type holdingFlags struct {
	typ      string
	symbol   string
	shares   string
	price    string
	currency string
}

func (h *holdingFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&h.typ, "t", "tw", "asset type: tw, us, cash or other")
	f.StringVar(&h.symbol, "s", "", "ticker symbol, or a label for other assets")
	f.StringVar(&h.shares, "q", "", "shares, or the balance for cash and other assets")
	f.StringVar(&h.price, "p", "", "average cost per share, equities only")
	f.StringVar(&h.currency, "c", "", "currency: TWD, USD or JPY. Equities imply their currency")
}

// fill applies the flags set on the command line to the editor form, in
// the order a user would fill the form: type first, as it auto-fills the
// other fields.
func (h *holdingFlags) fill(e *komorebi.Editor, set map[string]bool) error {
	if set["t"] {
		t, err := komorebi.ParseAssetType(h.typ)
		if err != nil {
			return err
		}
		e.SetType(t)
	}
	if set["c"] {
		cur, err := komorebi.ParseCurrency(h.currency)
		if err != nil {
			return err
		}
		e.Form.Currency = cur
	}
	if set["s"] {
		e.Form.Symbol = h.symbol
	}
	if set["q"] {
		e.Form.Shares = h.shares
	}
	if set["p"] {
		e.Form.AvgPrice = h.price
	}
	return nil
}

// setFlags returns the names of the flags set on the command line.
func setFlags(f *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	f.Visit(func(fl *flag.Flag) { set[fl.Name] = true })
	return set
}

// addCmd holds the flags for the 'add' subcommand.
type addCmd struct {
	holdingFlags
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "add a holding" }
func (*addCmd) Usage() string {
	return `kmb add [-t tw|us|cash|other] -s <symbol> -q <shares> [-p <price>] [-c <currency>]

  Adds a holding. Equities take their currency from their market (TWD for
  tw, USD for us). Cash and other assets are balances with a unit price of 1.

  Examples:
    kmb add -t tw -s 2330 -q 1000 -p 600
    kmb add -t us -s AAPL -q 10 -p 150
    kmb add -t cash -c JPY -q 50000
`
}

func (c *addCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		return fail("Error opening holdings: %v", err)
	}
	defer a.Close()

	e := komorebi.NewEditor()
	e.OpenCreate()
	set := setFlags(f)
	set["t"] = true // the default type still auto-fills
	if err := c.fill(e, set); err != nil {
		return fail("Error: %v", err)
	}
	return submit(ctx, a, e)
}

// submit validates the editor form and applies the resulting event.
func submit(ctx context.Context, a *app, e *komorebi.Editor) subcommands.ExitStatus {
	evt, err := e.Submit()
	var verr *komorebi.ValidationError
	if errors.As(err, &verr) {
		fmt.Fprintf(stdout, "Invalid holding: %v\n", verr)
		return subcommands.ExitUsageError
	}
	if err != nil {
		return fail("Error: %v", err)
	}
	if err := a.apply(ctx, evt); err != nil {
		return fail("Error saving holding: %v", err)
	}

	switch evt := evt.(type) {
	case komorebi.AddHolding:
		fmt.Fprintf(stdout, "Added %s %s\n", renderer.ShortID(evt.Holding.ID), evt.Holding.Symbol)
	case komorebi.UpdateHolding:
		fmt.Fprintf(stdout, "Updated %s %s\n", renderer.ShortID(evt.ID), evt.Fields.Symbol)
	}
	return subcommands.ExitSuccess
}
