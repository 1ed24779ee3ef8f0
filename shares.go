package rebalance

import (
	"slices"

	"github.com/shopspring/decimal"
)

// WholeShares converts dollar allocations into integer share counts.
//
// For each symbol it apportions shares with the largest-remainder method:
// every row gets the floor of its ideal fractional share count, and the
// rows with the largest remainders are bumped by one until the group total
// matches the rounded total of ideals. Rows without a decided TargetAmount
// keep their current share count ("don't touch").
//
// Independent per-symbol roundings can each award a spare share to the
// same account and push it over its original value, so a repair pass then
// decrements shares, one at a time, until each such account is back within
// budget. Accounts whose pre-rounding target already exceeded the budget
// are left alone: that is a strategy problem to surface, not to mask.
//
// The input is never mutated; the result has the same rows in the same
// order, with TargetShares set and TargetAmount recomputed from it.
func WholeShares(holdings []Holding) []Holding {
	out := slices.Clone(holdings)
	roundedUp := make([]bool, len(out))

	// Group rows by symbol, preserving first-appearance order.
	var symbols []string
	groups := make(map[string][]int)
	for i, h := range out {
		if _, ok := groups[h.Symbol]; !ok {
			symbols = append(symbols, h.Symbol)
		}
		groups[h.Symbol] = append(groups[h.Symbol], i)
	}

	for _, symbol := range symbols {
		rows := groups[symbol]

		// Ideal fractional shares per row, and the group totals.
		ideals := make(map[int]decimal.Decimal, len(rows))
		totalIdeal := decimal.Zero
		var totalFloored int64
		for _, i := range rows {
			price := out[i].Price
			if !price.IsPositive() {
				price = decimal.NewFromInt(1)
			}
			ideal := out[i].Shares
			if out[i].HasTargetAmount {
				ideal = out[i].TargetAmount.Div(price)
			}
			ideals[i] = ideal
			totalIdeal = totalIdeal.Add(ideal)
			totalFloored += ideal.Floor().IntPart()
		}

		// Half-up rounding on the group total decides how many floored
		// rows get one extra share.
		extra := totalIdeal.Round(0).IntPart() - totalFloored

		byRemainder := slices.Clone(rows)
		slices.SortStableFunc(byRemainder, func(a, b int) int {
			ra := ideals[a].Sub(ideals[a].Floor())
			rb := ideals[b].Sub(ideals[b].Floor())
			return rb.Cmp(ra)
		})

		bump := make(map[int]bool, extra)
		for k := 0; k < int(extra) && k < len(byRemainder); k++ {
			bump[byRemainder[k]] = true
		}

		for _, i := range rows {
			shares := ideals[i].Floor().IntPart()
			if bump[i] {
				shares++
				roundedUp[i] = true
			}
			out[i].TargetShares = shares
			out[i].HasTargetShares = true
			out[i].TargetAmount = decimal.NewFromInt(shares).Mul(out[i].Price)
			out[i].HasTargetAmount = true
		}
	}

	repairBudgets(holdings, out, roundedUp)
	return out
}

// repairBudgets walks every account back within its pre-rebalance value
// when per-symbol rounding pushed it over.
func repairBudgets(in, out []Holding, roundedUp []bool) {
	// Original account values, and the account totals targeted before
	// rounding. An account already over budget before rounding is not
	// repaired here.
	original := make(map[string]decimal.Decimal)
	preRounding := make(map[string]decimal.Decimal)
	for _, h := range in {
		original[h.Account] = original[h.Account].Add(h.Amount)
		target := h.Amount
		if h.HasTargetAmount {
			target = h.TargetAmount
		}
		preRounding[h.Account] = preRounding[h.Account].Add(target)
	}

	rows := make(map[string][]int)
	rounded := make(map[string]decimal.Decimal)
	for i, h := range out {
		rows[h.Account] = append(rows[h.Account], i)
		rounded[h.Account] = rounded[h.Account].Add(h.TargetAmount)
	}

	for account, total := range rounded {
		budget := original[account].Add(centEpsilon)
		if preRounding[account].GreaterThan(budget) {
			continue
		}
		for total.GreaterThan(budget) {
			i := bestDecrement(out, rows[account], roundedUp)
			if i < 0 {
				break
			}
			out[i].TargetShares--
			out[i].TargetAmount = decimal.NewFromInt(out[i].TargetShares).Mul(out[i].Price)
			roundedUp[i] = false
			total = total.Sub(out[i].Price)
		}
		rounded[account] = total
	}
}

// bestDecrement picks the row to give one share back: rounded-up rows
// first, and within a tier the lowest price, so the correction leaves as
// little cash uninvested as possible. Returns -1 when no row has a share
// left to give.
func bestDecrement(out []Holding, rows []int, roundedUp []bool) int {
	best := -1
	bestUp := false
	for _, i := range rows {
		if out[i].TargetShares < 1 {
			continue
		}
		up := roundedUp[i]
		switch {
		case best < 0,
			up && !bestUp,
			up == bestUp && out[i].Price.LessThan(out[best].Price):
			best = i
			bestUp = up
		}
	}
	return best
}
