package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/rebalance/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	// Shell completion. Exits early when invoked by the shell.
	completion().Complete("rebal")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))

	for _, c := range cmd.Commands {
		commander.Register(c, "")
	}
	commander.Register(commander.HelpCommand(), "help")
	commander.Register(commander.FlagsCommand(), "help")
	commander.Register(commander.CommandsCommand(), "help")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

func completion() *complete.Command {
	strategies := predict.Set{"consolidate", "min_trades"}
	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"f": predict.Files("*"),
		},
		Sub: map[string]*complete.Command{
			"holdings": {},
			"plan": {Flags: map[string]complete.Predictor{
				"s": strategies,
				"w": predict.Files("*.csv"),
			}},
			"trades": {Flags: map[string]complete.Predictor{
				"s": strategies,
				"o": predict.Files("*.csv"),
			}},
			"check": {},
			"import-broker": {Flags: map[string]complete.Predictor{
				"i": predict.Files("*.json"),
			}},
			"fmt":    {},
			"topic":  {Args: predict.Set{"readme", "strategies", "format", "rounding"}},
			"assist": {},
		},
	}
}
