package rebalance

import "fmt"

// Strategy selects one of the two allocation policies.
type Strategy string

const (
	// StrategyConsolidate concentrates each symbol into the fewest accounts.
	StrategyConsolidate Strategy = "consolidate"
	// StrategyMinTrades nudges existing positions by the smallest amount needed.
	StrategyMinTrades Strategy = "min_trades"
)

// ParseStrategy parses a strategy name.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyConsolidate:
		return StrategyConsolidate, nil
	case StrategyMinTrades:
		return StrategyMinTrades, nil
	default:
		return "", fmt.Errorf("unknown strategy: %q (want %q or %q)", s, StrategyConsolidate, StrategyMinTrades)
	}
}

// Portfolio bundles the three slices the engine consumes, plus the
// strategy hint carried by the import format.
type Portfolio struct {
	Symbols  []Symbol
	Accounts []Account
	Holdings []Holding
	Strategy Strategy
}

// Allocate runs the portfolio's strategy and returns the dollar
// allocation. The portfolio itself is left untouched.
func (p *Portfolio) Allocate() []Holding {
	if p.Strategy == StrategyMinTrades {
		return MinimizeTrades(p.Symbols, p.Accounts, p.Holdings)
	}
	return Consolidate(p.Symbols, p.Accounts, p.Holdings)
}

// Plan runs the full pipeline: allocation strategy, whole-share
// conversion, then trade generation.
func (p *Portfolio) Plan() ([]Holding, []Trade) {
	target := WholeShares(p.Allocate())
	return target, GenerateTrades(target)
}
