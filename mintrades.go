package rebalance

import (
	"slices"

	"github.com/shopspring/decimal"
)

// noiseFactor is the portion of the portfolio value under which a
// rebalance need is considered noise: 0.02% covers the rounding of
// two-decimal percentage inputs.
var noiseFactor = decimal.NewFromFloat(0.0002)

// MinimizeTrades allocates the target percentages while disturbing as few
// existing positions as possible.
//
// Allocations start equal to the current positions, then each symbol is
// nudged by its delta to target. Overweight symbols are processed first so
// that the capacity they release is available before underweight symbols
// come asking for it. Deltas smaller than one share's worth of value, or
// smaller than 0.02% of the portfolio, are ignored entirely.
//
// Greedy sequential decisions can leave each account's allocated total
// slightly off its original value, so a best-effort reconciliation pass
// redistributes the difference proportionally; it is approximate by
// design, within the engine's one-cent-per-comparison tolerance.
//
// The output shape is the same as [Consolidate]: one row per (targeted
// symbol, account) pair plus liquidation rows for holdings outside the
// universe.
func MinimizeTrades(symbols []Symbol, accounts []Account, holdings []Holding) []Holding {
	totalValue := TotalValue(holdings)
	capacity := AccountTotals(accounts, holdings)
	prices := priceOf(symbols)
	percent := decimal.NewFromInt(100)

	// Current dollar allocation of every targeted symbol, and the running
	// allocated total per account.
	alloc := make(map[position]decimal.Decimal)
	allocated := make(map[string]decimal.Decimal, len(accounts))
	for _, a := range accounts {
		allocated[a.Name] = decimal.Zero
	}
	currentTotal := make(map[string]decimal.Decimal, len(symbols))
	targets := make(map[string]decimal.Decimal, len(symbols))
	for _, s := range symbols {
		if !s.HasTarget {
			continue
		}
		currentTotal[s.Name] = decimal.Zero
		targets[s.Name] = totalValue.Mul(decimal.NewFromFloat(float64(s.Target))).Div(percent)
	}
	for _, h := range holdings {
		if _, ok := currentTotal[h.Symbol]; !ok {
			continue
		}
		alloc[position{h.Symbol, h.Account}] = h.Amount
		allocated[h.Account] = allocated[h.Account].Add(h.Amount)
		currentTotal[h.Symbol] = currentTotal[h.Symbol].Add(h.Amount)
	}

	// Most-overweight symbols first.
	order := make([]Symbol, 0, len(targets))
	for _, s := range symbols {
		if s.HasTarget {
			order = append(order, s)
		}
	}
	slices.SortStableFunc(order, func(a, b Symbol) int {
		da := targets[a.Name].Sub(currentTotal[a.Name])
		db := targets[b.Name].Sub(currentTotal[b.Name])
		return da.Cmp(db)
	})

	for _, s := range order {
		delta := targets[s.Name].Sub(currentTotal[s.Name])
		if belowNoise(delta, prices[s.Name], totalValue) {
			continue
		}
		if delta.IsNegative() {
			sellDown(s.Name, delta.Neg(), accounts, alloc, allocated)
		} else {
			buyUp(s.Name, delta, accounts, alloc, allocated, capacity)
		}
	}

	reconcileAccounts(accounts, alloc, allocated, capacity, targets)

	// Catch-all for symbols that still have nothing anywhere: typically a
	// brand new symbol for which every account looked exhausted above.
	for _, s := range order {
		if allocatedTotal(s.Name, accounts, alloc).IsPositive() {
			continue
		}
		left := targets[s.Name]
		if belowNoise(left, prices[s.Name], totalValue) {
			continue
		}
		names := accountsByRemaining(accounts, allocated, capacity)
		for _, name := range names {
			if !left.IsPositive() {
				break
			}
			room := capacity[name].Sub(allocated[name])
			if !room.IsPositive() {
				continue
			}
			take := decimal.Min(left, room)
			pos := position{s.Name, name}
			alloc[pos] = alloc[pos].Add(take)
			allocated[name] = allocated[name].Add(take)
			left = left.Sub(take)
		}
	}

	return emitAllocation(symbols, accounts, holdings, alloc)
}

// belowNoise reports whether a dollar delta is too small to act upon:
// less than one share's worth, or less than 0.02% of the portfolio.
func belowNoise(delta, price, totalValue decimal.Decimal) bool {
	return delta.Abs().LessThan(decimal.Max(price, totalValue.Mul(noiseFactor)))
}

// sellDown removes 'amount' dollars from the symbol's allocations,
// smallest position first, so the largest positions are least disturbed.
func sellDown(symbol string, amount decimal.Decimal, accounts []Account, alloc map[position]decimal.Decimal, allocated map[string]decimal.Decimal) {
	var held []string
	for _, a := range accounts {
		if alloc[position{symbol, a.Name}].IsPositive() {
			held = append(held, a.Name)
		}
	}
	slices.SortStableFunc(held, func(a, b string) int {
		return alloc[position{symbol, a}].Cmp(alloc[position{symbol, b}])
	})

	left := amount
	for _, name := range held {
		if !left.IsPositive() {
			break
		}
		pos := position{symbol, name}
		cut := decimal.Min(left, alloc[pos])
		alloc[pos] = alloc[pos].Sub(cut)
		allocated[name] = allocated[name].Sub(cut)
		left = left.Sub(cut)
	}
}

// buyUp adds 'amount' dollars to the symbol's allocations: first into the
// accounts that already hold it (largest position first), then spilling
// into the other accounts by descending remaining capacity. An account
// with a dollar or less of room is treated as exhausted.
func buyUp(symbol string, amount decimal.Decimal, accounts []Account, alloc map[position]decimal.Decimal, allocated, capacity map[string]decimal.Decimal) {
	one := decimal.NewFromInt(1)

	var held, empty []string
	for _, a := range accounts {
		if alloc[position{symbol, a.Name}].IsPositive() {
			held = append(held, a.Name)
		} else {
			empty = append(empty, a.Name)
		}
	}
	slices.SortStableFunc(held, func(a, b string) int {
		return alloc[position{symbol, b}].Cmp(alloc[position{symbol, a}])
	})

	left := amount
	fill := func(names []string) {
		for _, name := range names {
			if !left.IsPositive() {
				return
			}
			room := capacity[name].Sub(allocated[name])
			if room.LessThanOrEqual(one) {
				continue
			}
			take := decimal.Min(left, room)
			pos := position{symbol, name}
			alloc[pos] = alloc[pos].Add(take)
			allocated[name] = allocated[name].Add(take)
			left = left.Sub(take)
		}
	}

	fill(held)
	slices.SortStableFunc(empty, func(a, b string) int {
		return capacity[b].Sub(allocated[b]).Cmp(capacity[a].Sub(allocated[a]))
	})
	fill(empty)
}

// reconcileAccounts redistributes each account's residual (original total
// minus allocated total) proportionally across the symbols currently
// allocated in it, clamped to non-negative. Best effort: an account with
// no allocation at all keeps its residual as uninvested cash.
func reconcileAccounts(accounts []Account, alloc map[position]decimal.Decimal, allocated, capacity map[string]decimal.Decimal, targets map[string]decimal.Decimal) {
	for _, a := range accounts {
		diff := capacity[a.Name].Sub(allocated[a.Name])
		if diff.Abs().LessThanOrEqual(centEpsilon) {
			continue
		}
		total := allocated[a.Name]
		if !total.IsPositive() {
			continue
		}
		newTotal := decimal.Zero
		for symbol := range targets {
			pos := position{symbol, a.Name}
			cur := alloc[pos]
			if !cur.IsPositive() {
				continue
			}
			adjusted := cur.Add(diff.Mul(cur).Div(total))
			if adjusted.IsNegative() {
				adjusted = decimal.Zero
			}
			alloc[pos] = adjusted
			newTotal = newTotal.Add(adjusted)
		}
		allocated[a.Name] = newTotal
	}
}

// allocatedTotal sums the symbol's allocation across every account.
func allocatedTotal(symbol string, accounts []Account, alloc map[position]decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range accounts {
		total = total.Add(alloc[position{symbol, a.Name}])
	}
	return total
}

// accountsByRemaining returns the account names sorted by descending
// remaining capacity.
func accountsByRemaining(accounts []Account, allocated, capacity map[string]decimal.Decimal) []string {
	names := make([]string, len(accounts))
	for i, a := range accounts {
		names[i] = a.Name
	}
	slices.SortStableFunc(names, func(a, b string) int {
		return capacity[b].Sub(allocated[b]).Cmp(capacity[a].Sub(allocated[a]))
	})
	return names
}
