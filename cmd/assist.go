package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/rebalance/agent"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

// assistCmd is the subcommand for the AI assistant.
type assistCmd struct{}

func (*assistCmd) Name() string { return "assist" }

func (*assistCmd) Synopsis() string { return "Start an interactive session with the AI assistant." }

func (*assistCmd) Usage() string {
	return `rebal assist [question]

  Start an interactive session with the AI assistant, grounded on the
  current portfolio and its rebalancing plans.
`
}

func (*assistCmd) SetFlags(_ *flag.FlagSet) {}

func (c *assistCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	initialPrompt := ""
	if f.NArg() > 0 {
		initialPrompt = strings.Join(f.Args(), " ")
	}

	p, err := LoadPortfolio()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading portfolio:", err)
		return subcommands.ExitFailure
	}

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}

	strategist := agent.NewStrategist(p)
	analyst := agent.NewAnalyst()
	a := agent.New(os.Stdout, os.Stdin, strategist, analyst)

	if err := a.Run(ctx, client, initialPrompt); err != nil {
		fmt.Fprintln(os.Stderr, "Agent failed:", err)
		return subcommands.ExitFailure
	}

	return subcommands.ExitSuccess
}
