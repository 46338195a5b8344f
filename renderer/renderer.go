// Package renderer renders valuation reports as markdown.
package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/komorebi"
	md "github.com/nao1215/markdown"
)

// Options tune the rendering.
type Options struct {
	Hide bool // mask amounts, shares and prices; percentages stay visible
}

const masked = "******"

// ShortID returns the leading part of a holding id, enough to refer to it.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// ReportMarkdown renders the whole report: summary, rates, one section per
// non-empty asset group, and warnings.
func ReportMarkdown(r *komorebi.ValuationReport, opts Options) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	amount := func(m komorebi.Money) string {
		if opts.Hide {
			return masked
		}
		return m.String()
	}

	doc.H1(fmt.Sprintf("Net Worth (%s)", r.ReportingCurrency))
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{md.Bold("Net Worth"), md.Bold(amount(r.NetWorth))},
		Rows: [][]string{
			{"Holdings", fmt.Sprintf("%d", r.Count)},
			{"Daily Change", r.DailyChange.SignedString()},
		},
	})
	doc.PlainText(RatesLine(r.Rates, r.RatesFetched))

	if r.Count == 0 {
		doc.PlainText("No assets yet, add one with `kmb add`.")
	}

	for _, g := range r.Groups {
		if len(g.Lines) == 0 {
			continue
		}
		doc.H2(fmt.Sprintf("%s (%s)", g.Type.Title(), amount(g.Value)))
		if g.Type.IsEquity() {
			doc.Table(equityTable(g, amount, opts.Hide))
		} else {
			doc.Table(balanceTable(g, amount))
		}
	}

	if len(r.Warnings) > 0 {
		doc.H2("Warnings")
		var items []string
		for _, w := range r.Warnings {
			items = append(items, w.Error())
		}
		doc.BulletList(items...)
	}

	return doc.String()
}

func equityTable(g komorebi.GroupReport, amount func(komorebi.Money) string, hide bool) md.TableSet {
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft, md.AlignLeft,
			md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight,
		},
		Header: []string{"ID", "Symbol", "Name", "Shares", "Price", "Value", "Gain / Loss", "Today"},
	}
	for _, l := range g.Lines {
		// shares times price gives the value back.
		shares, price := masked, masked
		if !hide {
			shares = l.Shares.String()
			if l.Type == komorebi.TWStock {
				shares = fmt.Sprintf("%s (%s lots)", shares, l.Lots.String())
			}
			price = l.Price().String()
		}
		today := "-"
		if l.DailyChange != nil {
			today = l.DailyChange.SignedString()
		}
		table.Rows = append(table.Rows, []string{
			ShortID(l.ID),
			l.Symbol,
			l.Name,
			shares,
			price,
			amount(l.Value),
			fmt.Sprintf("%s (%s)", signed(l.Profit.Amount, amount), l.Profit.Percent.SignedString()),
			today,
		})
	}
	return table
}

func balanceTable(g komorebi.GroupReport, amount func(komorebi.Money) string) md.TableSet {
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft, md.AlignLeft, md.AlignRight, md.AlignRight},
		Header:    []string{"ID", "Symbol", "Name", "Amount", "Value"},
	}
	for _, l := range g.Lines {
		table.Rows = append(table.Rows, []string{
			ShortID(l.ID),
			l.Symbol,
			l.Name,
			amount(l.LocalValue),
			amount(l.Value),
		})
	}
	return table
}

func signed(m komorebi.Money, amount func(komorebi.Money) string) string {
	s := amount(m)
	if s != masked && m.IsPositive() {
		return "+" + s
	}
	return s
}

// RatesLine renders the exchange rate table in one line.
func RatesLine(r komorebi.Rates, fetched bool) string {
	line := fmt.Sprintf("1 USD = %s TWD · 1 JPY = %s TWD", r.USD.StringFixed(2), r.JPY.StringFixed(3))
	if !fetched {
		line += " (fallback rates)"
	}
	return line
}
