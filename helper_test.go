package rebalance

import (
	"testing"

	"github.com/shopspring/decimal"
)

// test helpers shared by the engine tests.

func D(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

// sym declares a symbol outside the rebalance universe.
func sym(name string, price float64) Symbol {
	return Symbol{Name: name, Price: D(price)}
}

// tsym declares a symbol with a target percentage.
func tsym(name string, price, target float64) Symbol {
	return Symbol{Name: name, Price: D(price), Target: Percent(target), HasTarget: true}
}

func accts(names ...string) []Account {
	accounts := make([]Account, len(names))
	for i, name := range names {
		accounts[i] = Account{Name: name}
	}
	return accounts
}

func hold(account, symbol string, shares, price float64) Holding {
	return NewHolding(symbol, account, D(shares), D(price))
}

// targetOf returns the decided target amount for a (symbol, account) pair,
// failing the test when the row is missing.
func targetOf(t *testing.T, holdings []Holding, symbol, account string) decimal.Decimal {
	t.Helper()
	for _, h := range holdings {
		if h.Symbol == symbol && h.Account == account {
			if !h.HasTargetAmount {
				t.Fatalf("row (%s, %s) has no target amount", symbol, account)
			}
			return h.TargetAmount
		}
	}
	t.Fatalf("no row for (%s, %s)", symbol, account)
	return decimal.Zero
}

// sharesOf returns the decided target shares for a (symbol, account) pair.
func sharesOf(t *testing.T, holdings []Holding, symbol, account string) int64 {
	t.Helper()
	for _, h := range holdings {
		if h.Symbol == symbol && h.Account == account {
			if !h.HasTargetShares {
				t.Fatalf("row (%s, %s) has no target shares", symbol, account)
			}
			return h.TargetShares
		}
	}
	t.Fatalf("no row for (%s, %s)", symbol, account)
	return 0
}

// checkConservation verifies that every account keeps its pre-rebalance
// value, within the one-cent tolerance.
func checkConservation(t *testing.T, before, after []Holding) {
	t.Helper()
	want := make(map[string]decimal.Decimal)
	for _, h := range before {
		want[h.Account] = want[h.Account].Add(h.Amount)
	}
	got := make(map[string]decimal.Decimal)
	for _, h := range after {
		got[h.Account] = got[h.Account].Add(h.TargetAmount)
	}
	for account, value := range want {
		diff := got[account].Sub(value).Abs()
		if diff.GreaterThan(decimal.New(1, -2)) {
			t.Errorf("account %q: target total %s, want %s", account, got[account], value)
		}
	}
}

// checkNonNegative verifies that no target is ever negative.
func checkNonNegative(t *testing.T, holdings []Holding) {
	t.Helper()
	for _, h := range holdings {
		if h.TargetAmount.IsNegative() {
			t.Errorf("row (%s, %s): negative target amount %s", h.Symbol, h.Account, h.TargetAmount)
		}
		if h.TargetShares < 0 {
			t.Errorf("row (%s, %s): negative target shares %d", h.Symbol, h.Account, h.TargetShares)
		}
	}
}
