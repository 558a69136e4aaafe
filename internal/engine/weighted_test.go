package engine

import (
	"testing"

	"github.com/shopspring/decimal"

	"bazaar-flipper/internal/bazaar"
)

func TestWeightedPrice_SingleLevel(t *testing.T) {
	levels := []bazaar.OrderLevel{lvl(5.5, 1000)}
	got := WeightedPrice(levels, 0.02)
	approxEq(t, "WeightedPrice", got, 5.5)
}

func TestWeightedPrice_Empty(t *testing.T) {
	if got := WeightedPrice(nil, 0.02); !got.IsZero() {
		t.Errorf("WeightedPrice(nil) = %v, want 0", got)
	}
}

func TestWeightedPrice_ZeroVolume(t *testing.T) {
	levels := []bazaar.OrderLevel{
		{PricePerUnit: decimal.NewFromFloat(3), Amount: 0},
		{PricePerUnit: decimal.NewFromFloat(4), Amount: 0},
	}
	got := WeightedPrice(levels, 0.02)
	approxEq(t, "WeightedPrice", got, 3)
}

func TestWeightedPrice_FirstLevelCoversTarget(t *testing.T) {
	// First tier holds 50% of volume, far past the 2% target; its full
	// weight is used, so the statistic equals the best price.
	levels := []bazaar.OrderLevel{lvl(10, 500), lvl(20, 500)}
	got := WeightedPrice(levels, 0.02)
	approxEq(t, "WeightedPrice", got, 10)
}

func TestWeightedPrice_BoundaryTierInterpolated(t *testing.T) {
	// Total volume 1000, target 10% = 100. First tier gives 40, the
	// second contributes only the 60 needed: (40*1 + 60*2) / 100 = 1.6.
	levels := []bazaar.OrderLevel{lvl(1, 40), lvl(2, 900), lvl(3, 60)}
	got := WeightedPrice(levels, 0.10)
	approxEq(t, "WeightedPrice", got, 1.6)
}

func TestWeightedPrice_BoundsProperty(t *testing.T) {
	cases := [][]bazaar.OrderLevel{
		{lvl(1, 40), lvl(2, 900), lvl(3, 60)},
		{lvl(0.5, 10), lvl(0.6, 10), lvl(10, 5000)},
		{lvl(7, 1), lvl(8, 1), lvl(9, 1)},
		{lvl(100, 100000)},
	}
	fractions := []float64{0.001, 0.02, 0.1, 0.5, 1.0}
	for _, levels := range cases {
		for _, f := range fractions {
			got := WeightedPrice(levels, f)
			min := levels[0].PricePerUnit
			max := levels[len(levels)-1].PricePerUnit
			if got.LessThan(min) || got.GreaterThan(max) {
				t.Errorf("WeightedPrice(%v levels, %v) = %v outside [%v, %v]",
					len(levels), f, got, min, max)
			}
		}
	}
}

func TestWeightedPrice_MonotoneInFraction(t *testing.T) {
	// Prices increase with depth, so widening the target fraction can only
	// pull the statistic upward.
	levels := []bazaar.OrderLevel{lvl(1, 100), lvl(2, 100), lvl(3, 100), lvl(4, 100)}
	prev := decimal.Zero
	for _, f := range []float64{0.01, 0.1, 0.3, 0.6, 1.0} {
		got := WeightedPrice(levels, f)
		if got.LessThan(prev) {
			t.Fatalf("fraction %v: price %v dropped below %v", f, got, prev)
		}
		prev = got
	}
}
