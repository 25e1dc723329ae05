package engine

import (
	"fmt"
	"math"
)

// ModifierPrice derives the implied unit price of a single modifier from the
// whole-item price: price / 2^(tier-1). The feed's price bundles the value of
// every modifier on the item, and higher tiers are assumed exponentially more
// valuable, so the result is an upper-bound estimate that later observations
// minimize against. Tier 0 and non-positive prices are out of contract.
func ModifierPrice(price float64, tier int) (float64, error) {
	if tier < 1 {
		return 0, fmt.Errorf("modifier tier must be >= 1, got %d", tier)
	}
	if price <= 0 {
		return 0, fmt.Errorf("price must be positive, got %v", price)
	}
	return price / math.Pow(2, float64(tier-1)), nil
}

// withinPct reports whether candidate is within the given relative tolerance
// of base, e.g. withinPct(104, 100, 0.05) is true.
func withinPct(candidate, base, pct float64) bool {
	if base == 0 {
		return candidate == 0
	}
	return math.Abs(candidate-base)/base <= pct
}
