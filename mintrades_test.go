package rebalance

import "testing"

func TestMinimizeTradesNudgesExistingPositions(t *testing.T) {
	symbols := []Symbol{tsym("VTI", 100, 60), tsym("BND", 50, 40)}
	accounts := accts("IRA", "Taxable")
	holdings := []Holding{
		hold("IRA", "VTI", 50, 100),     // 5000
		hold("Taxable", "BND", 100, 50), // 5000
	}

	out := MinimizeTrades(symbols, accounts, holdings)

	// BND is overweight by 1000 and sold first; VTI then grows by 1000
	// into the capacity BND released. The IRA is untouched.
	if got := targetOf(t, out, "VTI", "IRA"); !got.Equal(D(5000)) {
		t.Errorf("VTI in IRA = %s, want 5000 (undisturbed)", got)
	}
	if got := targetOf(t, out, "VTI", "Taxable"); !got.Equal(D(1000)) {
		t.Errorf("VTI in Taxable = %s, want 1000", got)
	}
	if got := targetOf(t, out, "BND", "Taxable"); !got.Equal(D(4000)) {
		t.Errorf("BND in Taxable = %s, want 4000", got)
	}

	checkConservation(t, holdings, out)
	checkNonNegative(t, out)
}

func TestMinimizeTradesNoiseThreshold(t *testing.T) {
	// 100000 portfolio, 100 price: the threshold is max(100, 20) = 100.
	// Deltas of 50 dollars on both symbols are noise and nothing moves.
	symbols := []Symbol{tsym("AAA", 100, 50.05), tsym("BBB", 100, 49.95)}
	accounts := accts("One", "Two")
	holdings := []Holding{
		hold("One", "AAA", 500, 100), // 50000, target 50050
		hold("Two", "BBB", 500, 100), // 50000, target 49950
	}

	out := MinimizeTrades(symbols, accounts, holdings)

	if got := targetOf(t, out, "AAA", "One"); !got.Equal(D(50000)) {
		t.Errorf("AAA = %s, want unchanged 50000", got)
	}
	if got := targetOf(t, out, "BBB", "Two"); !got.Equal(D(50000)) {
		t.Errorf("BBB = %s, want unchanged 50000", got)
	}

	// End to end: already-whole positions survive conversion untouched
	// and the plan contains no trade at all.
	trades := GenerateTrades(WholeShares(out))
	if len(trades) != 0 {
		t.Errorf("got %d trades, want none: %v", len(trades), trades)
	}
}

func TestMinimizeTradesSellsSmallestHoldingFirst(t *testing.T) {
	// VTI is overweight by 3000; the small Taxable position is emptied
	// before the big IRA one is touched.
	symbols := []Symbol{tsym("VTI", 10, 50), tsym("BND", 10, 50)}
	accounts := accts("IRA", "Taxable")
	holdings := []Holding{
		hold("IRA", "VTI", 600, 10),     // 6000
		hold("Taxable", "VTI", 200, 10), // 2000
		hold("IRA", "BND", 200, 10),     // 2000
	}

	out := MinimizeTrades(symbols, accounts, holdings)

	// total 10000, VTI target 5000, current 8000.
	if got := targetOf(t, out, "VTI", "Taxable"); !got.IsZero() {
		t.Errorf("VTI in Taxable = %s, want 0 (smallest sold first)", got)
	}
	if got := targetOf(t, out, "VTI", "IRA"); !got.Equal(D(5000)) {
		t.Errorf("VTI in IRA = %s, want 5000", got)
	}
	checkConservation(t, holdings, out)
}

func TestMinimizeTradesGrowsLargestHolderFirst(t *testing.T) {
	// BND must grow by 2000. Its largest existing position is in the IRA,
	// which has room freed by the VTI sale.
	symbols := []Symbol{tsym("VTI", 10, 30), tsym("BND", 10, 70)}
	accounts := accts("IRA", "Taxable")
	holdings := []Holding{
		hold("IRA", "VTI", 500, 10),     // 5000
		hold("IRA", "BND", 300, 10),     // 3000
		hold("Taxable", "BND", 200, 10), // 2000
	}

	out := MinimizeTrades(symbols, accounts, holdings)

	// total 10000: VTI 3000 (sell 2000 from IRA), BND 7000 (buy 2000).
	if got := targetOf(t, out, "BND", "IRA"); !got.Equal(D(5000)) {
		t.Errorf("BND in IRA = %s, want 5000 (largest holder grows first)", got)
	}
	if got := targetOf(t, out, "BND", "Taxable"); !got.Equal(D(2000)) {
		t.Errorf("BND in Taxable = %s, want 2000 (undisturbed)", got)
	}
	checkConservation(t, holdings, out)
}

func TestMinimizeTradesNewSymbolSpills(t *testing.T) {
	// GLD has a target but no position anywhere: it is funded from the
	// account with the most capacity released by the overweight symbols.
	symbols := []Symbol{tsym("VTI", 10, 60), tsym("GLD", 10, 40)}
	accounts := accts("IRA", "Taxable")
	holdings := []Holding{
		hold("IRA", "VTI", 600, 10),     // 6000
		hold("Taxable", "VTI", 400, 10), // 4000
	}

	out := MinimizeTrades(symbols, accounts, holdings)

	gld := targetOf(t, out, "GLD", "IRA").Add(targetOf(t, out, "GLD", "Taxable"))
	if !gld.Equal(D(4000)) {
		t.Errorf("GLD allocated %s, want 4000", gld)
	}
	checkConservation(t, holdings, out)
	checkNonNegative(t, out)
}

func TestMinimizeTradesLiquidatesUntargetedSymbols(t *testing.T) {
	symbols := []Symbol{tsym("VTI", 100, 100), sym("OLD", 20)}
	accounts := accts("IRA")
	holdings := []Holding{
		hold("IRA", "VTI", 10, 100), // 1000
		hold("IRA", "OLD", 50, 20),  // 1000
	}

	out := MinimizeTrades(symbols, accounts, holdings)

	if got := targetOf(t, out, "OLD", "IRA"); !got.IsZero() {
		t.Errorf("OLD target = %s, want 0 (full liquidation)", got)
	}
	// The freed 1000 flows into VTI, the only targeted symbol.
	if got := targetOf(t, out, "VTI", "IRA"); !got.Equal(D(2000)) {
		t.Errorf("VTI target = %s, want 2000", got)
	}
}

func TestMinimizeTradesFewerTradesThanConsolidate(t *testing.T) {
	// A perfectly balanced portfolio held across two accounts: minimizing
	// trades does nothing, while consolidating shuffles every position.
	symbols := []Symbol{tsym("VTI", 10, 50), tsym("BND", 10, 50)}
	accounts := accts("A", "B")
	holdings := []Holding{
		hold("A", "VTI", 250, 10),
		hold("A", "BND", 250, 10),
		hold("B", "VTI", 250, 10),
		hold("B", "BND", 250, 10),
	}

	minTrades := GenerateTrades(WholeShares(MinimizeTrades(symbols, accounts, holdings)))
	conTrades := GenerateTrades(WholeShares(Consolidate(symbols, accounts, holdings)))

	if len(minTrades) != 0 {
		t.Errorf("MinimizeTrades produced %d trades on a balanced portfolio, want 0", len(minTrades))
	}
	if len(minTrades) > len(conTrades) {
		t.Errorf("MinimizeTrades produced %d trades, Consolidate %d: want min <= con",
			len(minTrades), len(conTrades))
	}
	if len(conTrades) == 0 {
		t.Error("Consolidate produced no trades, expected it to shuffle positions")
	}
}

func TestMinimizeTradesDoesNotMutateInput(t *testing.T) {
	symbols := []Symbol{tsym("VTI", 100, 100)}
	accounts := accts("IRA")
	holdings := []Holding{hold("IRA", "VTI", 10, 100)}

	MinimizeTrades(symbols, accounts, holdings)

	if holdings[0].HasTargetAmount {
		t.Error("input holding was mutated by the strategy")
	}
}
