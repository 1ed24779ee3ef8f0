package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type fmtCmd struct{}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "validates and formats the portfolio file into a canonical form"
}
func (*fmtCmd) Usage() string {
	return `rebal fmt

  Validates and formats the portfolio file. This command reads the file,
  resolves prices and duplicate holdings, and writes it back in the
  canonical pipe-delimited form.
`
}

func (*fmtCmd) SetFlags(f *flag.FlagSet) {}

func (c *fmtCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	p, err := LoadPortfolio()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading portfolio: %v\n", err)
		return subcommands.ExitFailure
	}

	if err := SavePortfolio(p); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Fprintf(os.Stderr, "Formatted %s\n", *portfolioFile)
	return subcommands.ExitSuccess
}
