package rebalance

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
)

/*
	{
	    "accounts": [
	        {
	            "name": "Brokerage",
	            "tax_status": "taxable",
	            "positions": [
	                {"symbol": "VTI", "quantity": 12, "price": 250.10}
	            ]
	        }
	    ]
	}
*/

// ImportBroker converts a brokerage positions export (JSON, shape above)
// into a portfolio without targets. Positions of the same symbol in the
// same account are merged; a missing or zero price falls back to 1.0, the
// cash-equivalent convention.
func ImportBroker(r io.Reader) (*Portfolio, error) {
	var jobj any
	if err := json.NewDecoder(r).Decode(&jobj); err != nil {
		return nil, fmt.Errorf("cannot parse brokerage export: %w", err)
	}

	jval, err := jsonpath.Get("$.accounts[*]", jobj)
	if err != nil {
		return nil, fmt.Errorf("no accounts in brokerage export: %w", err)
	}
	jaccounts, ok := jval.([]any)
	if !ok {
		// jsonpath is never clear about whether it returns a list or a
		// single answer, so accept a lone account too.
		jaccounts = []any{jval}
	}

	p := &Portfolio{Strategy: StrategyConsolidate}
	symbolAt := make(map[string]int)
	holdingAt := make(map[position]int)

	for _, jaccount := range jaccounts {
		jacc, ok := jaccount.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("malformed account entry: %v", jaccount)
		}
		account := Account{
			Name:      jstring(jacc, "name"),
			TaxStatus: jstring(jacc, "tax_status"),
			Provider:  jstring(jacc, "provider"),
			Owner:     jstring(jacc, "owner"),
		}
		if account.Name == "" {
			return nil, fmt.Errorf("account without a name in brokerage export")
		}
		p.Accounts = append(p.Accounts, account)

		jpositions, _ := jacc["positions"].([]any)
		for _, jposition := range jpositions {
			jpos, ok := jposition.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("malformed position in account %q: %v", account.Name, jposition)
			}
			symbol := jstring(jpos, "symbol")
			if symbol == "" {
				return nil, fmt.Errorf("position without a symbol in account %q", account.Name)
			}
			quantity, err := jdecimal(jpos, "quantity")
			if err != nil {
				return nil, fmt.Errorf("position %q in account %q: %w", symbol, account.Name, err)
			}
			price, err := jdecimal(jpos, "price")
			if err != nil {
				return nil, fmt.Errorf("position %q in account %q: %w", symbol, account.Name, err)
			}
			if !price.IsPositive() {
				price = decimal.NewFromInt(1)
			}

			if i, ok := symbolAt[symbol]; !ok {
				symbolAt[symbol] = len(p.Symbols)
				p.Symbols = append(p.Symbols, Symbol{Name: symbol, Price: price})
			} else if p.Symbols[i].Price.Equal(decimal.NewFromInt(1)) {
				p.Symbols[i].Price = price
			}

			pos := position{symbol, account.Name}
			if i, ok := holdingAt[pos]; ok {
				merged := p.Holdings[i].Shares.Add(quantity)
				p.Holdings[i] = NewHolding(symbol, account.Name, merged, p.Holdings[i].Price)
				continue
			}
			holdingAt[pos] = len(p.Holdings)
			p.Holdings = append(p.Holdings, NewHolding(symbol, account.Name, quantity, price))
		}
	}
	return p, nil
}

func jstring(jobj map[string]any, key string) string {
	s, _ := jobj[key].(string)
	return s
}

func jdecimal(jobj map[string]any, key string) (decimal.Decimal, error) {
	switch v := jobj[key].(type) {
	case nil:
		return decimal.Zero, nil
	case float64:
		return decimal.NewFromFloat(v), nil
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.Zero, fmt.Errorf("bad %s %q: %w", key, v, err)
		}
		return d, nil
	default:
		return decimal.Zero, fmt.Errorf("bad %s: %v", key, v)
	}
}
