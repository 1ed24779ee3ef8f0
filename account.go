package rebalance

import "github.com/shopspring/decimal"

// Account is a custody bucket, typically one brokerage account with its
// own tax treatment. The descriptive fields only matter for display and
// grouping; the allocation math uses the account purely as a budget whose
// total value must be preserved.
type Account struct {
	Name      string
	TaxStatus string
	Provider  string
	Owner     string
}

// AccountTotals computes the current dollar value of every account.
// Every account of 'accounts' gets an entry, empty ones at zero.
func AccountTotals(accounts []Account, holdings []Holding) map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal, len(accounts))
	for _, a := range accounts {
		totals[a.Name] = decimal.Zero
	}
	for _, h := range holdings {
		totals[h.Account] = totals[h.Account].Add(h.Amount)
	}
	return totals
}
