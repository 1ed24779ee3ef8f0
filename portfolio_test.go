package rebalance

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseStrategy(t *testing.T) {
	if s, err := ParseStrategy("consolidate"); err != nil || s != StrategyConsolidate {
		t.Errorf("ParseStrategy(consolidate) = %v, %v", s, err)
	}
	if s, err := ParseStrategy("min_trades"); err != nil || s != StrategyMinTrades {
		t.Errorf("ParseStrategy(min_trades) = %v, %v", s, err)
	}
	if _, err := ParseStrategy("optimal"); err == nil {
		t.Error("ParseStrategy(optimal) should fail")
	}
}

// TestPlanBudgetNeverExceeded runs the full pipeline on both strategies
// and checks the post-rounding property: no account ever ends above its
// pre-rebalance value, within the one-cent tolerance.
func TestPlanBudgetNeverExceeded(t *testing.T) {
	p, err := ImportPortfolio(strings.NewReader(sampleUniversal))
	if err != nil {
		t.Fatalf("ImportPortfolio() error = %v", err)
	}

	before := AccountTotals(p.Accounts, p.Holdings)

	for _, strategy := range []Strategy{StrategyConsolidate, StrategyMinTrades} {
		p.Strategy = strategy
		t.Run(string(strategy), func(t *testing.T) {
			target, trades := p.Plan()

			after := make(map[string]decimal.Decimal)
			for _, h := range target {
				if !h.HasTargetShares {
					t.Fatalf("row (%s, %s) left without target shares", h.Symbol, h.Account)
				}
				after[h.Account] = after[h.Account].Add(decimal.NewFromInt(h.TargetShares).Mul(h.Price))
			}
			for account, total := range after {
				budget := before[account].Add(centEpsilon)
				if total.GreaterThan(budget) {
					t.Errorf("account %q: %s exceeds its %s budget", account, total, before[account])
				}
			}
			checkNonNegative(t, target)

			// every trade carries a positive whole share count
			for _, trade := range trades {
				if trade.Shares <= 0 {
					t.Errorf("trade %+v has a non-positive share count", trade)
				}
				if trade.Type != Buy && trade.Type != Sell {
					t.Errorf("trade %+v has an invalid type", trade)
				}
			}
		})
	}
}

func TestPlanIsIdempotent(t *testing.T) {
	p, err := ImportPortfolio(strings.NewReader(sampleUniversal))
	if err != nil {
		t.Fatalf("ImportPortfolio() error = %v", err)
	}

	_, first := p.Plan()
	_, second := p.Plan()

	if len(first) != len(second) {
		t.Fatalf("re-running the plan changed the trade count: %d then %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Account != second[i].Account || first[i].Symbol != second[i].Symbol ||
			first[i].Type != second[i].Type || first[i].Shares != second[i].Shares {
			t.Errorf("trade %d changed between runs: %+v then %+v", i, first[i], second[i])
		}
	}
}
