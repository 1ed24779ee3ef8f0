package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/rebalance"
	"github.com/google/subcommands"
)

type checkCmd struct{}

func (*checkCmd) Name() string     { return "check" }
func (*checkCmd) Synopsis() string { return "validate the portfolio's target percentages" }
func (*checkCmd) Usage() string {
	return `rebal check

  Validates the portfolio file: every target must be between 0 and 100,
  and the defined targets must sum to 100 (within 0.01).
`
}

func (*checkCmd) SetFlags(f *flag.FlagSet) {}

func (c *checkCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	p, err := LoadPortfolio()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading portfolio: %v\n", err)
		return subcommands.ExitFailure
	}

	if err := rebalance.CheckTargets(p.Symbols); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("%s is valid: %d symbols, %d accounts, %d holdings.\n",
		*portfolioFile, len(p.Symbols), len(p.Accounts), len(p.Holdings))
	return subcommands.ExitSuccess
}
