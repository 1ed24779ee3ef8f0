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

// planCmd holds the flags for the 'plan' subcommand.
type planCmd struct {
	strategy string
	write    string
}

func (*planCmd) Name() string     { return "plan" }
func (*planCmd) Synopsis() string { return "compute the rebalancing plan and the trades" }
func (*planCmd) Usage() string {
	return `rebal plan [-s <strategy>] [-w <file>]

  Runs the allocation strategy and the whole-share conversion, then
  displays the target allocation per account and the trades to get there.

Usage Examples:
# Plan with the strategy declared in the portfolio file.
$ rebal plan

# Force the consolidation strategy and export the trades.
$ rebal plan -s consolidate -w trades.csv
`
}

func (c *planCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.strategy, "s", "", "Allocation strategy: consolidate or min_trades. Defaults to the portfolio's setting.")
	f.StringVar(&c.write, "w", "", "Also write the trades to the given CSV file.")
}

func (c *planCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	target, trades := p.Plan()

	printMarkdown(renderer.AllocationMarkdown(p, target))
	printMarkdown(renderer.TradesMarkdown(trades))

	if c.write != "" {
		if err := writeTrades(c.write, trades); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing trades: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Fprintf(os.Stderr, "Trades written to %s\n", c.write)
	}
	return subcommands.ExitSuccess
}

func writeTrades(filename string, trades []rebalance.Trade) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("could not create %q: %w", filename, err)
	}
	defer f.Close()

	if err := rebalance.ExportTrades(f, trades); err != nil {
		return fmt.Errorf("could not write %q: %w", filename, err)
	}
	return nil
}
