package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/rebalance/renderer"
	"github.com/google/subcommands"
)

type holdingsCmd struct{}

func (*holdingsCmd) Name() string     { return "holdings" }
func (*holdingsCmd) Synopsis() string { return "display current holdings per account" }
func (*holdingsCmd) Usage() string {
	return `rebal holdings

  Displays everything currently held, one table per account, with
  per-account and portfolio totals.
`
}

func (*holdingsCmd) SetFlags(f *flag.FlagSet) {}

func (c *holdingsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	p, err := LoadPortfolio()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading portfolio: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.HoldingsMarkdown(p))
	return subcommands.ExitSuccess
}
