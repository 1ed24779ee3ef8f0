package rebalance

import (
	"slices"

	"github.com/shopspring/decimal"
)

// Consolidate allocates the target percentages so that each symbol ends up
// concentrated in as few accounts as possible.
//
// Symbols are processed in descending order of dollar need, and each one is
// poured greedily into the accounts with the largest remaining capacity.
// Because the needs of all symbols add up to the total portfolio value,
// this largest-first/largest-first matching fills every account back to
// exactly its original value while keeping each symbol in few accounts.
//
// The result has one row per (targeted symbol, account) pair, including
// zero allocations (an existing position not retained in an account must
// surface as a sell), plus one full-liquidation row per existing holding
// whose symbol has no target percentage. Should the total need ever exceed
// the total capacity, the leftover need is silently dropped.
func Consolidate(symbols []Symbol, accounts []Account, holdings []Holding) []Holding {
	totalValue := TotalValue(holdings)
	remaining := AccountTotals(accounts, holdings)

	// Dollar need of every symbol carrying a target.
	type need struct {
		symbol Symbol
		amount decimal.Decimal
	}
	var needs []need
	percent := decimal.NewFromInt(100)
	for _, s := range symbols {
		if !s.HasTarget {
			continue
		}
		needs = append(needs, need{
			symbol: s,
			amount: totalValue.Mul(decimal.NewFromFloat(float64(s.Target))).Div(percent),
		})
	}

	// Largest target first: the biggest positions claim the biggest
	// accounts, which is what consolidates each symbol.
	slices.SortStableFunc(needs, func(a, b need) int {
		return b.amount.Cmp(a.amount)
	})

	alloc := make(map[position]decimal.Decimal)
	for _, n := range needs {
		left := n.amount

		// Walk accounts by descending remaining capacity at the time this
		// symbol is placed.
		order := make([]Account, len(accounts))
		copy(order, accounts)
		slices.SortStableFunc(order, func(a, b Account) int {
			return remaining[b.Name].Cmp(remaining[a.Name])
		})

		for _, a := range order {
			if !left.IsPositive() {
				break
			}
			capacity := remaining[a.Name]
			if !capacity.IsPositive() {
				continue
			}
			take := decimal.Min(left, capacity)
			alloc[position{n.symbol.Name, a.Name}] = take
			remaining[a.Name] = capacity.Sub(take)
			left = left.Sub(take)
		}
		// Any leftover need here means targets exceeded the portfolio
		// value; it is dropped.
	}

	return emitAllocation(symbols, accounts, holdings, alloc)
}

// emitAllocation materializes an allocation map into the holding list both
// strategies return: targeted symbols in input order crossed with accounts
// in input order, then full-liquidation rows for every existing holding
// whose symbol has no target.
func emitAllocation(symbols []Symbol, accounts []Account, holdings []Holding, alloc map[position]decimal.Decimal) []Holding {
	prices := priceOf(symbols)
	current := byPosition(holdings)
	targeted := make(map[string]bool, len(symbols))

	var out []Holding
	for _, s := range symbols {
		if !s.HasTarget {
			continue
		}
		targeted[s.Name] = true
		for _, a := range accounts {
			pos := position{s.Name, a.Name}
			row, ok := current[pos]
			if !ok {
				row = NewHolding(s.Name, a.Name, decimal.Zero, prices[s.Name])
			}
			row.TargetAmount = alloc[pos]
			row.HasTargetAmount = true
			out = append(out, row)
		}
	}

	// Holdings outside the universe are sold entirely, never dropped.
	for _, h := range holdings {
		if targeted[h.Symbol] {
			continue
		}
		h.TargetAmount = decimal.Zero
		h.HasTargetAmount = true
		out = append(out, h)
	}
	return out
}
