package engine

import (
	"math"

	"github.com/shopspring/decimal"

	"bazaar-flipper/internal/bazaar"
)

// hoursPerWeek converts weekly moving volume into an hourly throughput.
const hoursPerWeek = 24 * 7

func sanitizeFloat(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// normalize clamps value to [0, 1] based on min/max.
func normalize(value, minVal, maxVal float64) float64 {
	if maxVal <= minVal {
		return 0
	}
	normalized := (value - minVal) / (maxVal - minVal)
	if normalized < 0 {
		return 0
	}
	if normalized > 1 {
		return 1
	}
	return normalized
}

// liquidityScore maps the combined resting-order count to 0..100, saturating
// at the configured ceiling.
func (e *Evaluator) liquidityScore(book *bazaar.ProductBook) float64 {
	combined := book.ActiveBuyOrders + book.ActiveSellOrders
	return normalize(float64(combined), 0, float64(e.cfg.LiquidityOrderCeiling)) * 100
}

// competitionScore counts bid tiers resting at or above the trader's intended
// buy price and maps the count to 0..100. More competitors at favorable
// prices means slower fills, so higher is worse for ranking.
func (e *Evaluator) competitionScore(book *bazaar.ProductBook, intendedBuy decimal.Decimal) float64 {
	if intendedBuy.Sign() <= 0 {
		return 0
	}
	competitors := 0
	for _, lvl := range book.BuyOrders {
		if lvl.PricePerUnit.GreaterThanOrEqual(intendedBuy) {
			competitors++
		}
	}
	return normalize(float64(competitors), 0, float64(e.cfg.CompetitionLevelCeiling)) * 100
}

// spreadPercent estimates margin variance from the gap between the instant
// price (best ask) and the order-book price (best bid), as a percent of the
// ask. Products missing a side report the high-risk sentinel 100.
func spreadPercent(book *bazaar.ProductBook) float64 {
	ask, okAsk := book.BestSellOffer()
	bid, okBid := book.BestBuyOrder()
	if !okAsk || !okBid || ask.PricePerUnit.Sign() <= 0 {
		return 100
	}
	spread := ask.PricePerUnit.Sub(bid.PricePerUnit)
	pct, _ := spread.Div(ask.PricePerUnit).Mul(decimal.NewFromInt(100)).Float64()
	return sanitizeFloat(math.Abs(pct))
}

// riskLevel applies the configured liquidity and spread thresholds.
func (e *Evaluator) riskLevel(liquidity, spreadPct float64) RiskLevel {
	if liquidity < e.cfg.RiskHighLiquidity || spreadPct > e.cfg.RiskHighSpreadPercent {
		return RiskHigh
	}
	if liquidity >= e.cfg.RiskLowLiquidity && spreadPct <= e.cfg.RiskLowSpreadPercent {
		return RiskLow
	}
	return RiskMedium
}

// balancedScore blends normalized margin, normalized profit/hour, and
// inverted competition into the default ranking key. Weights come from
// config and are expected to sum to 1.
func (e *Evaluator) balancedScore(marginPct, profitPerHour, competition float64) float64 {
	marginScore := normalize(marginPct, 0, e.cfg.MarginNormCap) * 100
	pphScore := normalize(profitPerHour, 0, e.cfg.ProfitHourNormCap) * 100
	compScore := 100 - competition

	return sanitizeFloat(marginScore*e.cfg.BalancedMarginWeight +
		pphScore*e.cfg.BalancedProfitHourWeight +
		compScore*e.cfg.BalancedCompetitionWeight)
}
