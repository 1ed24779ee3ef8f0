package rebalance

import "github.com/shopspring/decimal"

// Holding is a (symbol, account) position. A pair appears at most once in
// any holdings list handled by the engine.
//
// Shares, Price and Amount describe the current position. TargetAmount is
// the dollar allocation decided by a strategy, and TargetShares the whole
// share count decided by the converter; both carry a companion flag
// because "no target decided" is different from "target of zero".
type Holding struct {
	Symbol  string
	Account string
	Shares  decimal.Decimal
	Price   decimal.Decimal // dollars per share, same for all holdings of a symbol
	Amount  decimal.Decimal // Shares x Price

	TargetAmount    decimal.Decimal
	HasTargetAmount bool
	TargetShares    int64
	HasTargetShares bool
}

// NewHolding derives a holding from raw imported data.
func NewHolding(symbol, account string, shares, price decimal.Decimal) Holding {
	if !price.IsPositive() {
		price = decimal.NewFromInt(1)
	}
	return Holding{
		Symbol:  symbol,
		Account: account,
		Shares:  shares,
		Price:   price,
		Amount:  shares.Mul(price),
	}
}

// position is the composite lookup key for the sparse symbol x account
// association used by the strategies.
type position struct{ symbol, account string }

// byPosition indexes holdings by their (symbol, account) pair.
func byPosition(holdings []Holding) map[position]Holding {
	index := make(map[position]Holding, len(holdings))
	for _, h := range holdings {
		index[position{h.Symbol, h.Account}] = h
	}
	return index
}

// TotalValue is the current dollar value of the whole portfolio.
func TotalValue(holdings []Holding) decimal.Decimal {
	total := decimal.Zero
	for _, h := range holdings {
		total = total.Add(h.Amount)
	}
	return total
}

// centEpsilon is the tolerance used for every dollar comparison.
var centEpsilon = decimal.New(1, -2)
