package rebalance

import "github.com/shopspring/decimal"

// Symbol describes a tradable instrument in the rebalance universe.
//
// A symbol without a target percentage is not part of the rebalance
// universe: any existing holding in it is fully liquidated. A target of
// exactly zero also means "sell everything", but the symbol remains part
// of the managed universe (its price is expected to be known).
type Symbol struct {
	Name      string
	Price     decimal.Decimal // dollars per share, 1.0 when unknown (cash-equivalent)
	Target    Percent         // meaningful only when HasTarget
	HasTarget bool

	// Descriptive weights, ignored by the allocation math.
	Countries map[string]float64
	Assets    map[string]float64
	Beta      float64
}

// Targeted reports whether the symbol takes part in the rebalance,
// i.e. has a strictly positive target percentage.
func (s Symbol) Targeted() bool { return s.HasTarget && s.Target > 0 }

// priceOf builds the symbol name to price index used everywhere a holding
// has to be derived. Unknown or non-positive prices default to 1.0 so that
// cash-like rows never divide by zero.
func priceOf(symbols []Symbol) map[string]decimal.Decimal {
	prices := make(map[string]decimal.Decimal, len(symbols))
	for _, s := range symbols {
		p := s.Price
		if !p.IsPositive() {
			p = decimal.NewFromInt(1)
		}
		prices[s.Name] = p
	}
	return prices
}
