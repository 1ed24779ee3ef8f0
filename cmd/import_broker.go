package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/rebalance"
	"github.com/google/subcommands"
)

// importBrokerCmd holds the flags for the 'import-broker' subcommand.
type importBrokerCmd struct {
	input string
}

func (*importBrokerCmd) Name() string     { return "import-broker" }
func (*importBrokerCmd) Synopsis() string { return "convert a brokerage JSON export into a portfolio file" }
func (*importBrokerCmd) Usage() string {
	return `rebal import-broker -i <file>

  Reads a brokerage positions export (JSON) and writes the portfolio
  file in the universal format. Targets are left empty, fill them in
  before planning.
`
}

func (c *importBrokerCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.input, "i", "", "Brokerage JSON export to import.")
}

func (c *importBrokerCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.input == "" {
		fmt.Fprintln(os.Stderr, "Error: -i <file> is required.")
		return subcommands.ExitUsageError
	}

	in, err := os.Open(c.input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening %q: %v\n", c.input, err)
		return subcommands.ExitFailure
	}
	defer in.Close()

	p, err := rebalance.ImportBroker(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error importing %q: %v\n", c.input, err)
		return subcommands.ExitFailure
	}

	if err := SavePortfolio(p); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Imported %d holdings into %s\n", len(p.Holdings), *portfolioFile)
	return subcommands.ExitSuccess
}
