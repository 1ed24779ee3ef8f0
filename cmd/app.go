// Package cmd implements the CLI application to rebalance a portfolio.
package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/rebalance"
	"github.com/google/subcommands"
)

// Commands lists every subcommand of the application.
// A main package registers them all and Execute()s the user-selected one.
var Commands = []subcommands.Command{
	&holdingsCmd{},
	&planCmd{},
	&tradesCmd{},
	&checkCmd{},
	&importBrokerCmd{},
	&fmtCmd{},
	&topicCmd{},
	&assistCmd{},
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var portfolioFile = flag.String("f", "portfolio.txt", "Path to the portfolio file (universal format)")

// LoadPortfolio reads the app portfolio file.
func LoadPortfolio() (*rebalance.Portfolio, error) {
	f, err := os.Open(*portfolioFile)
	if err != nil {
		return nil, fmt.Errorf("could not open portfolio file %q: %w", *portfolioFile, err)
	}
	defer f.Close()

	p, err := rebalance.ImportPortfolio(f)
	if err != nil {
		return nil, fmt.Errorf("could not read portfolio file %q: %w", *portfolioFile, err)
	}
	return p, nil
}

// SavePortfolio writes the portfolio back to the app portfolio file in
// canonical form.
func SavePortfolio(p *rebalance.Portfolio) error {
	f, err := os.Create(*portfolioFile)
	if err != nil {
		return fmt.Errorf("could not write portfolio file %q: %w", *portfolioFile, err)
	}
	defer f.Close()

	if err := rebalance.ExportPortfolio(f, p); err != nil {
		return fmt.Errorf("could not write portfolio file %q: %w", *portfolioFile, err)
	}
	return nil
}

// printMarkdown renders markdown for the terminal. On rendering errors the
// raw markdown is still printed, a report is better ugly than lost.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
