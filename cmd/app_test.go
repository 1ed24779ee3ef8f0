package cmd

import (
	"os"
	"path/filepath"
	"testing"
)

const samplePortfolio = `#accounts
IRA|deferred|Fidelity|Alice
Taxable|taxable|Schwab|Alice
#symbols
VTI|250|1|US:1|stocks:1
BND|72.5||US:1|bonds:1
#targets
VTI|60
BND|40
#holdings
IRA|VTI|50
Taxable|BND|100
#options
strategy|min_trades
`

// usePortfolio points the app at a throwaway portfolio file for the test.
func usePortfolio(t *testing.T, content string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), "portfolio.txt")
	if err := os.WriteFile(file, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	old := *portfolioFile
	*portfolioFile = file
	t.Cleanup(func() { *portfolioFile = old })
	return file
}

func TestLoadPortfolio(t *testing.T) {
	usePortfolio(t, samplePortfolio)

	p, err := LoadPortfolio()
	if err != nil {
		t.Fatalf("LoadPortfolio() error = %v", err)
	}
	if len(p.Symbols) != 2 || len(p.Accounts) != 2 || len(p.Holdings) != 2 {
		t.Errorf("loaded %d symbols, %d accounts, %d holdings", len(p.Symbols), len(p.Accounts), len(p.Holdings))
	}
}

func TestSavePortfolioIsStable(t *testing.T) {
	file := usePortfolio(t, samplePortfolio)

	p, err := LoadPortfolio()
	if err != nil {
		t.Fatalf("LoadPortfolio() error = %v", err)
	}
	if err := SavePortfolio(p); err != nil {
		t.Fatalf("SavePortfolio() error = %v", err)
	}
	first, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}

	// A second format pass must be a no-op.
	q, err := LoadPortfolio()
	if err != nil {
		t.Fatalf("reload error = %v", err)
	}
	if err := SavePortfolio(q); err != nil {
		t.Fatalf("re-save error = %v", err)
	}
	second, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}

	if string(first) != string(second) {
		t.Errorf("formatting is not stable got\n%s\nwant\n%s", second, first)
	}
}

func TestLoadPortfolioMissingFile(t *testing.T) {
	old := *portfolioFile
	*portfolioFile = filepath.Join(t.TempDir(), "nope.txt")
	t.Cleanup(func() { *portfolioFile = old })

	if _, err := LoadPortfolio(); err == nil {
		t.Error("expected an error for a missing portfolio file")
	}
}
