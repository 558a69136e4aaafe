package engine

import (
	"github.com/shopspring/decimal"

	"bazaar-flipper/internal/bazaar"
	"bazaar-flipper/internal/config"
)

// Evaluator scores products under a budget and strategy. It is stateless
// beyond its configuration, so one instance serves all goroutines.
type Evaluator struct {
	cfg *config.Config
}

// NewEvaluator creates an Evaluator with the given tuning.
func NewEvaluator(cfg *config.Config) *Evaluator {
	return &Evaluator{cfg: cfg}
}

// Evaluate scores one product. The second return value is false when the
// product is not evaluable under the strategy (missing NPC price, empty book
// side) — distinct from an evaluable-but-infeasible opportunity, which comes
// back with ok=true and Feasible=false.
func (e *Evaluator) Evaluate(book *bazaar.ProductBook, budget decimal.Decimal, strategy Strategy) (Opportunity, bool) {
	switch strategy {
	case StrategyArbInstaBuy, StrategyArbBuyOrder:
		return e.evaluateArbitrage(book, budget, strategy)
	case StrategyFlipOrderBook, StrategyFlipInstant:
		return e.evaluateFlip(book, budget, strategy)
	}
	return Opportunity{}, false
}

func (e *Evaluator) surchargeMultiplier() decimal.Decimal {
	return decimal.NewFromFloat(1 + e.cfg.InstaBuySurchargePercent/100)
}

func (e *Evaluator) taxMultiplier() decimal.Decimal {
	m := 1 - e.cfg.InstaSellTaxPercent/100
	if m < 0 {
		m = 0
	}
	return decimal.NewFromFloat(m)
}

// buildOpportunity derives all profit and score fields shared by the
// strategies. depthQty is how many units the book can actually supply for
// the round trip; weeklyThroughput is the moving-week volume relevant to the
// strategy's bottleneck side.
func (e *Evaluator) buildOpportunity(book *bazaar.ProductBook, budget, unitBuy, unitSell decimal.Decimal,
	depthQty, weeklyThroughput int64, strategy Strategy) Opportunity {

	opp := Opportunity{
		ProductID:        book.ProductID,
		ItemName:         book.ItemName,
		Strategy:         strategy,
		UnitBuyPrice:     unitBuy,
		UnitSellPrice:    unitSell,
		WeeklyBuyVolume:  book.WeeklyBuyVolume,
		WeeklySellVolume: book.WeeklySellVolume,
	}

	profit := unitSell.Sub(unitBuy)
	opp.ProfitPerUnit = profit

	opp.WeightedAskPrice = WeightedPrice(book.SellOffers, e.cfg.WeightedPriceFraction)
	opp.WeightedBidPrice = WeightedPrice(book.BuyOrders, e.cfg.WeightedPriceFraction)

	if unitBuy.IsPositive() {
		margin, _ := profit.Div(unitBuy).Mul(decimal.NewFromInt(100)).Float64()
		opp.ProfitMarginPercent = sanitizeFloat(margin)
	}

	var afford int64
	if unitBuy.IsPositive() {
		afford = budget.Div(unitBuy).Floor().IntPart()
	}
	maxQty := afford
	if depthQty < maxQty {
		maxQty = depthQty
	}
	if maxQty < 0 {
		maxQty = 0
	}
	opp.MaxAffordableQuantity = maxQty
	opp.TotalProfit = profit.Mul(decimal.NewFromInt(maxQty))
	opp.Feasible = maxQty > 0 && profit.IsPositive()

	opp.LiquidityScore = e.liquidityScore(book)
	opp.CompetitionScore = e.competitionScore(book, unitBuy)
	opp.RiskLevel = e.riskLevel(opp.LiquidityScore, spreadPercent(book))

	unitsPerHour := float64(weeklyThroughput) / hoursPerWeek
	if unitsPerHour > float64(maxQty) {
		unitsPerHour = float64(maxQty)
		opp.BudgetLimited = true
	}
	opp.EstimatedUnitsPerHour = sanitizeFloat(unitsPerHour)

	profitFloat, _ := profit.Float64()
	opp.EstimatedProfitPerHour = sanitizeFloat(unitsPerHour * profitFloat)

	opp.BalancedScore = e.balancedScore(opp.ProfitMarginPercent, opp.EstimatedProfitPerHour, opp.CompetitionScore)
	return opp
}
