package rebalance

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// this file handles the universal portfolio format.
// It should remain human readable, single file and easy to edit by hand.
//
// The file is made of sections introduced by a '#' line:
//
//	#accounts   name|tax_status|provider|owner
//	#symbols    name|price|beta|countries|assets
//	#targets    symbol|percent
//	#holdings   account|symbol|shares
//	#options    key|value
//
// Rows are pipe- or comma-delimited (detected per file), blank lines and
// '//' comments are ignored. Only the #holdings section is mandatory.
// Weight maps use 'name:weight' entries joined by ';'.

// ImportPortfolio reads a portfolio in the universal format.
func ImportPortfolio(r io.Reader) (*Portfolio, error) {
	p := &Portfolio{Strategy: StrategyConsolidate}

	symbolAt := make(map[string]int)
	accountAt := make(map[string]int)
	holdingAt := make(map[position]int)

	declareSymbol := func(name string) int {
		i, ok := symbolAt[name]
		if !ok {
			i = len(p.Symbols)
			symbolAt[name] = i
			p.Symbols = append(p.Symbols, Symbol{Name: name, Price: decimal.NewFromInt(1)})
		}
		return i
	}
	declareAccount := func(name string) int {
		i, ok := accountAt[name]
		if !ok {
			i = len(p.Accounts)
			accountAt[name] = i
			p.Accounts = append(p.Accounts, Account{Name: name})
		}
		return i
	}

	// raw holding rows are kept until every symbol price is known.
	type rawHolding struct {
		account, symbol string
		shares          decimal.Decimal
	}
	var raws []rawHolding
	var sawHoldings bool

	section := ""
	delimiter := ""
	lineno := 0
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		if strings.HasPrefix(line, "#") {
			section = strings.TrimSpace(strings.TrimPrefix(line, "#"))
			switch section {
			case "accounts", "symbols", "targets", "holdings", "options":
			default:
				return nil, fmt.Errorf("line %d: unknown section %q", lineno, section)
			}
			if section == "holdings" {
				sawHoldings = true
			}
			continue
		}
		if section == "" {
			return nil, fmt.Errorf("line %d: data before any section header", lineno)
		}
		if delimiter == "" {
			// first data row of the file decides the delimiter
			delimiter = ","
			if strings.Contains(line, "|") {
				delimiter = "|"
			}
		}
		fields := strings.Split(line, delimiter)
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}

		var err error
		switch section {
		case "accounts":
			a := Account{Name: fields[0]}
			if len(fields) > 1 {
				a.TaxStatus = fields[1]
			}
			if len(fields) > 2 {
				a.Provider = fields[2]
			}
			if len(fields) > 3 {
				a.Owner = fields[3]
			}
			p.Accounts[declareAccount(a.Name)] = a

		case "symbols":
			i := declareSymbol(fields[0])
			s := &p.Symbols[i]
			if len(fields) > 1 && fields[1] != "" {
				s.Price, err = decimal.NewFromString(fields[1])
				if err != nil {
					return nil, fmt.Errorf("line %d: bad price for %q: %w", lineno, s.Name, err)
				}
				if !s.Price.IsPositive() {
					s.Price = decimal.NewFromInt(1)
				}
			}
			if len(fields) > 2 && fields[2] != "" {
				s.Beta, err = strconv.ParseFloat(fields[2], 64)
				if err != nil {
					return nil, fmt.Errorf("line %d: bad beta for %q: %w", lineno, s.Name, err)
				}
			}
			if len(fields) > 3 {
				if s.Countries, err = parseWeights(fields[3]); err != nil {
					return nil, fmt.Errorf("line %d: bad countries for %q: %w", lineno, s.Name, err)
				}
			}
			if len(fields) > 4 {
				if s.Assets, err = parseWeights(fields[4]); err != nil {
					return nil, fmt.Errorf("line %d: bad assets for %q: %w", lineno, s.Name, err)
				}
			}

		case "targets":
			if len(fields) < 2 {
				return nil, fmt.Errorf("line %d: target needs symbol and percent", lineno)
			}
			i := declareSymbol(fields[0])
			value, err := strconv.ParseFloat(fields[1], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: bad percent for %q: %w", lineno, fields[0], err)
			}
			p.Symbols[i].Target = Percent(value)
			p.Symbols[i].HasTarget = true

		case "holdings":
			if len(fields) < 3 {
				return nil, fmt.Errorf("line %d: holding needs account, symbol and shares", lineno)
			}
			declareAccount(fields[0])
			declareSymbol(fields[1])
			shares, err := decimal.NewFromString(fields[2])
			if err != nil {
				return nil, fmt.Errorf("line %d: bad shares for %q: %w", lineno, fields[1], err)
			}
			raws = append(raws, rawHolding{account: fields[0], symbol: fields[1], shares: shares})

		case "options":
			if len(fields) < 2 {
				return nil, fmt.Errorf("line %d: option needs key and value", lineno)
			}
			switch fields[0] {
			case "strategy":
				p.Strategy, err = ParseStrategy(fields[1])
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineno, err)
				}
			default:
				return nil, fmt.Errorf("line %d: unknown option %q", lineno, fields[0])
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if !sawHoldings {
		return nil, fmt.Errorf("missing required holdings section")
	}

	// Derive holdings now that every price is known. Duplicate
	// (symbol, account) rows are merged by summing shares.
	prices := priceOf(p.Symbols)
	for _, raw := range raws {
		pos := position{raw.symbol, raw.account}
		if i, ok := holdingAt[pos]; ok {
			h := NewHolding(raw.symbol, raw.account, p.Holdings[i].Shares.Add(raw.shares), prices[raw.symbol])
			p.Holdings[i] = h
			continue
		}
		holdingAt[pos] = len(p.Holdings)
		p.Holdings = append(p.Holdings, NewHolding(raw.symbol, raw.account, raw.shares, prices[raw.symbol]))
	}
	return p, nil
}

// ExportPortfolio writes the portfolio in the canonical pipe-delimited
// form of the universal format. Import and export round-trip.
func ExportPortfolio(w io.Writer, p *Portfolio) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "#accounts")
	for _, a := range p.Accounts {
		fmt.Fprintf(bw, "%s|%s|%s|%s\n", a.Name, a.TaxStatus, a.Provider, a.Owner)
	}

	fmt.Fprintln(bw, "#symbols")
	for _, s := range p.Symbols {
		fmt.Fprintf(bw, "%s|%s|%s|%s|%s\n", s.Name, s.Price.String(),
			formatFloat(s.Beta), formatWeights(s.Countries), formatWeights(s.Assets))
	}

	fmt.Fprintln(bw, "#targets")
	for _, s := range p.Symbols {
		if s.HasTarget {
			// a zero target is meaningful, so it is always written out
			fmt.Fprintf(bw, "%s|%s\n", s.Name, strconv.FormatFloat(float64(s.Target), 'f', -1, 64))
		}
	}

	fmt.Fprintln(bw, "#holdings")
	for _, h := range p.Holdings {
		fmt.Fprintf(bw, "%s|%s|%s\n", h.Account, h.Symbol, h.Shares.String())
	}

	fmt.Fprintln(bw, "#options")
	fmt.Fprintf(bw, "strategy|%s\n", p.Strategy)

	return bw.Flush()
}

// parseWeights parses a 'name:weight;name:weight' list.
func parseWeights(s string) (map[string]float64, error) {
	if s == "" {
		return nil, nil
	}
	weights := make(map[string]float64)
	for _, entry := range strings.Split(s, ";") {
		name, value, found := strings.Cut(entry, ":")
		if !found {
			return nil, fmt.Errorf("weight entry %q: want name:weight", entry)
		}
		weight, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, fmt.Errorf("weight entry %q: %w", entry, err)
		}
		weights[strings.TrimSpace(name)] = weight
	}
	return weights, nil
}

func formatWeights(weights map[string]float64) string {
	names := make([]string, 0, len(weights))
	for name := range weights {
		names = append(names, name)
	}
	sort.Strings(names)
	entries := make([]string, len(names))
	for i, name := range names {
		entries[i] = name + ":" + formatFloat(weights[name])
	}
	return strings.Join(entries, ";")
}

func formatFloat(f float64) string {
	if f == 0 {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
