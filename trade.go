package rebalance

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
)

// TradeType tells whether shares are bought or sold.
type TradeType string

const (
	Buy  TradeType = "buy"
	Sell TradeType = "sell"
)

// Trade is a single buy or sell instruction. Trades are generated fresh on
// every rebalance and are not entities: their only life is to be displayed
// or exported.
type Trade struct {
	Account string          `csv:"account"`
	Symbol  string          `csv:"symbol"`
	Type    TradeType       `csv:"type"`
	Shares  int64           `csv:"shares"`
	Amount  decimal.Decimal `csv:"amount"` // dollar value of the delta, rounded to cents
}

// GenerateTrades diffs current shares against converted target shares.
//
// Rows without a TargetShares are skipped entirely: "no change intended"
// is different from "intended zero". A zero share delta produces no trade.
func GenerateTrades(holdings []Holding) []Trade {
	var trades []Trade
	for _, h := range holdings {
		if !h.HasTargetShares {
			continue
		}
		delta := decimal.NewFromInt(h.TargetShares).Sub(h.Shares).Round(0)
		if delta.IsZero() {
			continue
		}
		kind := Buy
		if delta.IsNegative() {
			kind = Sell
		}
		trades = append(trades, Trade{
			Account: h.Account,
			Symbol:  h.Symbol,
			Type:    kind,
			Shares:  delta.Abs().IntPart(),
			Amount:  delta.Abs().Mul(h.Price).Round(2),
		})
	}
	return trades
}

// ExportTrades writes trades as CSV with the header
// account,symbol,type,shares,amount.
func ExportTrades(w io.Writer, trades []Trade) error {
	if err := gocsv.Marshal(&trades, w); err != nil {
		return fmt.Errorf("cannot export trades: %w", err)
	}
	return nil
}

// ImportTrades reads back a trade CSV written by [ExportTrades].
func ImportTrades(r io.Reader) ([]Trade, error) {
	var trades []Trade
	if err := gocsv.Unmarshal(r, &trades); err != nil {
		return nil, fmt.Errorf("cannot import trades: %w", err)
	}
	return trades, nil
}
