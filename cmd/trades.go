package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/rebalance"
	"github.com/etnz/rebalance/renderer"
	"github.com/google/subcommands"
)

// tradesCmd holds the flags for the 'trades' subcommand.
type tradesCmd struct {
	strategy string
	output   string
}

func (*tradesCmd) Name() string     { return "trades" }
func (*tradesCmd) Synopsis() string { return "display the buy and sell orders to rebalance" }
func (*tradesCmd) Usage() string {
	return `rebal trades [-s <strategy>] [-o <file>]

  Computes the rebalancing plan and displays only the trade list.
  With -o the trades are also exported as CSV for the broker.
`
}

func (c *tradesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.strategy, "s", "", "Allocation strategy: consolidate or min_trades. Defaults to the portfolio's setting.")
	f.StringVar(&c.output, "o", "", "Export the trades to the given CSV file.")
}

func (c *tradesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	p, err := LoadPortfolio()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading portfolio: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.strategy != "" {
		strategy, err := rebalance.ParseStrategy(c.strategy)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
		p.Strategy = strategy
	}

	if err := rebalance.CheckTargets(p.Symbols); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid targets: %v\n", err)
		return subcommands.ExitFailure
	}

	_, trades := p.Plan()
	printMarkdown(renderer.TradesMarkdown(trades))

	if c.output != "" {
		if err := writeTrades(c.output, trades); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing trades: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Fprintf(os.Stderr, "Trades written to %s\n", c.output)
	}
	return subcommands.ExitSuccess
}
