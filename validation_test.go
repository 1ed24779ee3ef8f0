package rebalance

import "testing"

func TestCheckTargets(t *testing.T) {
	tests := []struct {
		name    string
		symbols []Symbol
		wantErr bool
	}{
		{"exact", []Symbol{tsym("A", 1, 60), tsym("B", 1, 40)}, false},
		{"within tolerance", []Symbol{tsym("A", 1, 60.005), tsym("B", 1, 40)}, false},
		{"undefined ignored", []Symbol{tsym("A", 1, 100), sym("B", 1)}, false},
		{"over", []Symbol{tsym("A", 1, 60), tsym("B", 1, 50)}, true},
		{"under", []Symbol{tsym("A", 1, 60)}, true},
		{"negative", []Symbol{tsym("A", 1, -5), tsym("B", 1, 105)}, true},
		{"none defined", []Symbol{sym("A", 1)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckTargets(tt.symbols)
			if (err != nil) != tt.wantErr {
				t.Errorf("CheckTargets() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
