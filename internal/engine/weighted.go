package engine

import (
	"github.com/shopspring/decimal"

	"bazaar-flipper/internal/bazaar"
)

// WeightedPrice computes a noise-resistant reference price: the
// volume-weighted average over enough top tiers to cover targetFraction of
// total visible volume. The first tier always contributes in full; the
// boundary tier contributes only the volume still needed to reach the target,
// so the statistic moves continuously as depth shifts between tiers.
// A book with one tier or no volume reports its best price unchanged.
func WeightedPrice(levels []bazaar.OrderLevel, targetFraction float64) decimal.Decimal {
	if len(levels) == 0 {
		return decimal.Zero
	}

	var totalVolume int64
	for _, lvl := range levels {
		totalVolume += lvl.Amount
	}
	if totalVolume <= 0 || len(levels) == 1 {
		return levels[0].PricePerUnit
	}

	target := decimal.NewFromInt(totalVolume).Mul(decimal.NewFromFloat(targetFraction))

	weighted := decimal.Zero
	acc := decimal.Zero
	for i, lvl := range levels {
		amount := decimal.NewFromInt(lvl.Amount)
		take := amount
		if i > 0 {
			need := target.Sub(acc)
			if need.Sign() <= 0 {
				break
			}
			if need.LessThan(amount) {
				take = need
			}
		}
		weighted = weighted.Add(lvl.PricePerUnit.Mul(take))
		acc = acc.Add(take)
		if acc.GreaterThanOrEqual(target) {
			break
		}
	}

	if acc.Sign() <= 0 {
		return levels[0].PricePerUnit
	}
	return weighted.Div(acc)
}
