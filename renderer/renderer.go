// Package renderer renders portfolios, allocation plans and trade lists
// as markdown, ready to be printed to a terminal or fed to the assistant.
package renderer

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/etnz/rebalance"
	"github.com/shopspring/decimal"
)

// usd formats a dollar amount the way a human expects to read it.
func usd(d decimal.Decimal) string {
	return money.New(d.Round(2).Shift(2).IntPart(), money.USD).Display()
}

// HoldingsMarkdown renders the current holdings, one table per account,
// with per-account and portfolio totals.
func HoldingsMarkdown(p *rebalance.Portfolio) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Holdings\n")

	total := decimal.Zero
	for _, account := range p.Accounts {
		subtotal := decimal.Zero
		var rows []rebalance.Holding
		for _, h := range p.Holdings {
			if h.Account == account.Name {
				rows = append(rows, h)
				subtotal = subtotal.Add(h.Amount)
			}
		}
		total = total.Add(subtotal)

		fmt.Fprintf(&b, "\n## %s\n\n", accountTitle(account))
		if len(rows) == 0 {
			fmt.Fprintln(&b, "*empty*")
			continue
		}
		fmt.Fprintln(&b, "| Symbol | Shares | Price | Amount |")
		fmt.Fprintln(&b, "|:---|---:|---:|---:|")
		for _, h := range rows {
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", h.Symbol, h.Shares, usd(h.Price), usd(h.Amount))
		}
		fmt.Fprintf(&b, "| **Total** | | | **%s** |\n", usd(subtotal))
	}

	fmt.Fprintf(&b, "\n**Portfolio value: %s**\n", usd(total))
	return b.String()
}

// AllocationMarkdown renders an allocation plan: per account, what is held
// now against what the strategy and the whole-share conversion decided.
// Rows that are empty on both sides are skipped.
func AllocationMarkdown(p *rebalance.Portfolio, target []rebalance.Holding) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Allocation plan (%s)\n", p.Strategy)

	for _, account := range p.Accounts {
		var rows []rebalance.Holding
		subtotal := decimal.Zero
		for _, h := range target {
			if h.Account != account.Name {
				continue
			}
			if h.Amount.IsZero() && h.TargetAmount.IsZero() {
				continue
			}
			rows = append(rows, h)
			subtotal = subtotal.Add(h.TargetAmount)
		}
		if len(rows) == 0 {
			continue
		}

		fmt.Fprintf(&b, "\n## %s\n\n", accountTitle(account))
		fmt.Fprintln(&b, "| Symbol | Current | Target | Target shares |")
		fmt.Fprintln(&b, "|:---|---:|---:|---:|")
		for _, h := range rows {
			shares := "-"
			if h.HasTargetShares {
				shares = fmt.Sprintf("%d", h.TargetShares)
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", h.Symbol, usd(h.Amount), usd(h.TargetAmount), shares)
		}
		fmt.Fprintf(&b, "| **Total** | | **%s** | |\n", usd(subtotal))
	}
	return b.String()
}

// TradesMarkdown renders the buy/sell list with buy and sell totals.
func TradesMarkdown(trades []rebalance.Trade) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Trades\n\n")
	if len(trades) == 0 {
		fmt.Fprintln(&b, "Nothing to do: the portfolio is already on target.")
		return b.String()
	}

	bought, sold := decimal.Zero, decimal.Zero
	fmt.Fprintln(&b, "| Account | Symbol | Type | Shares | Amount |")
	fmt.Fprintln(&b, "|:---|:---|:---|---:|---:|")
	for _, trade := range trades {
		fmt.Fprintf(&b, "| %s | %s | %s | %d | %s |\n",
			trade.Account, trade.Symbol, trade.Type, trade.Shares, usd(trade.Amount))
		if trade.Type == rebalance.Buy {
			bought = bought.Add(trade.Amount)
		} else {
			sold = sold.Add(trade.Amount)
		}
	}
	fmt.Fprintf(&b, "\n%d trades: %s bought, %s sold.\n", len(trades), usd(bought), usd(sold))
	return b.String()
}

// TargetsMarkdown renders the rebalance universe and its target
// percentages. Used to ground the assistant.
func TargetsMarkdown(p *rebalance.Portfolio) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Targets\n\n")
	fmt.Fprintln(&b, "| Symbol | Price | Target |")
	fmt.Fprintln(&b, "|:---|---:|---:|")
	for _, s := range p.Symbols {
		target := "-"
		if s.HasTarget {
			target = s.Target.String()
		}
		fmt.Fprintf(&b, "| %s | %s | %s |\n", s.Name, usd(s.Price), target)
	}
	return b.String()
}

func accountTitle(a rebalance.Account) string {
	var details []string
	if a.TaxStatus != "" {
		details = append(details, a.TaxStatus)
	}
	if a.Provider != "" {
		details = append(details, a.Provider)
	}
	if a.Owner != "" {
		details = append(details, a.Owner)
	}
	if len(details) == 0 {
		return a.Name
	}
	return fmt.Sprintf("%s (%s)", a.Name, strings.Join(details, ", "))
}
