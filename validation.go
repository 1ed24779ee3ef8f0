package rebalance

import "fmt"

// CheckTargets verifies that the defined target percentages sum to 100,
// within a 0.01 tolerance. The strategies themselves assume pre-validated
// input and degrade gracefully instead of failing, so callers are expected
// to run this check before planning a rebalance.
func CheckTargets(symbols []Symbol) error {
	var sum float64
	var defined bool
	for _, s := range symbols {
		if !s.HasTarget {
			continue
		}
		defined = true
		if s.Target < 0 || s.Target > 100 {
			return fmt.Errorf("target for %q is %s: must be between 0%% and 100%%", s.Name, s.Target)
		}
		sum += float64(s.Target)
	}
	if !defined {
		return fmt.Errorf("no target percentages defined")
	}
	if diff := sum - 100; diff > 0.01 || diff < -0.01 {
		return fmt.Errorf("target percentages sum to %.2f%%, want 100%%", sum)
	}
	return nil
}
