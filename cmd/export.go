package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/komorebi"
	"github.com/etnz/komorebi/renderer"
	"github.com/google/subcommands"
)

// exportCmd holds the flags for the 'export' subcommand.
type exportCmd struct {
	output string
	hide   bool
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "write the valuation report to a file" }
func (*exportCmd) Usage() string {
	return `kmb export [-o <file>] [-hide]

  Writes the valuation report with the last known values. The format
  follows the file extension: .html for a web page, markdown otherwise.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "komorebi.html", "output file, \"-\" for stdout")
	f.BoolVar(&c.hide, "hide", false, "mask all amounts")
}

func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		return fail("Error opening holdings: %v", err)
	}
	defer a.Close()

	md := renderer.ReportMarkdown(komorebi.NewValuationReport(a.state), renderer.Options{Hide: c.hide})
	data := []byte(md)
	if strings.HasSuffix(strings.ToLower(c.output), ".html") {
		if data, err = markdownToHTML("Komorebi", md); err != nil {
			return fail("Error: %v", err)
		}
	}

	if c.output == "-" {
		stdout.Write(data)
		return subcommands.ExitSuccess
	}
	if err := os.WriteFile(c.output, data, 0644); err != nil {
		return fail("Error writing report: %v", err)
	}
	fmt.Fprintf(stdout, "Report written to %s\n", c.output)
	return subcommands.ExitSuccess
}
