package engine

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"

	"bazaar-flipper/internal/bazaar"
	"bazaar-flipper/internal/config"
)

func testEvaluator() *Evaluator {
	return NewEvaluator(config.Default())
}

func npcBook(npc float64) *bazaar.ProductBook {
	return &bazaar.ProductBook{
		ProductID:        "ENCHANTED_COAL",
		ItemName:         "Enchanted Coal",
		SellOffers:       []bazaar.OrderLevel{lvl(1.00, 100), lvl(1.10, 200)},
		BuyOrders:        []bazaar.OrderLevel{lvl(0.90, 500), lvl(0.85, 300)},
		NPCSellPrice:     decimal.NewFromFloat(npc),
		WeeklyBuyVolume:  168000,
		WeeklySellVolume: 84000,
		ActiveBuyOrders:  400,
		ActiveSellOrders: 350,
	}
}

func TestEvaluateArbitrage_InstaBuyScenario(t *testing.T) {
	// Budget 150 sweeps 100@1.00 + 45@1.10 = 145 units for 149.50,
	// effective ~1.0310; +4% surcharge ~1.0723. NPC 1.20 leaves ~0.1277
	// profit per unit.
	e := testEvaluator()
	opp, ok := e.Evaluate(npcBook(1.20), decimal.NewFromInt(150), StrategyArbInstaBuy)
	if !ok {
		t.Fatal("product should be evaluable")
	}

	buy, _ := opp.UnitBuyPrice.Float64()
	if math.Abs(buy-1.03103448*1.04) > 1e-4 {
		t.Errorf("UnitBuyPrice = %v, want ~1.0723", buy)
	}
	profit, _ := opp.ProfitPerUnit.Float64()
	if math.Abs(profit-(1.20-1.03103448*1.04)) > 1e-4 {
		t.Errorf("ProfitPerUnit = %v, want ~0.1277", profit)
	}
	if !opp.Feasible {
		t.Error("Feasible = false, want true")
	}

	// Affordability: floor(150 / 1.0723) = 139, below the 145-unit depth.
	if opp.MaxAffordableQuantity != 139 {
		t.Errorf("MaxAffordableQuantity = %d, want 139", opp.MaxAffordableQuantity)
	}

	wantTotal := profit * 139
	total, _ := opp.TotalProfit.Float64()
	if math.Abs(total-wantTotal) > 1e-3 {
		t.Errorf("TotalProfit = %v, want %v", total, wantTotal)
	}
}

func TestEvaluateArbitrage_DepthBoundsQuantity(t *testing.T) {
	// A huge budget makes depth, not affordability, the binding cap.
	e := testEvaluator()
	opp, ok := e.Evaluate(npcBook(1.50), decimal.NewFromInt(1_000_000), StrategyArbInstaBuy)
	if !ok {
		t.Fatal("product should be evaluable")
	}
	if opp.MaxAffordableQuantity != 300 {
		t.Errorf("MaxAffordableQuantity = %d, want 300 (full book depth)", opp.MaxAffordableQuantity)
	}
}

func TestEvaluateArbitrage_BuyOrderUsesTopBid(t *testing.T) {
	e := testEvaluator()
	opp, ok := e.Evaluate(npcBook(1.20), decimal.NewFromInt(150), StrategyArbBuyOrder)
	if !ok {
		t.Fatal("product should be evaluable")
	}
	approxEq(t, "UnitBuyPrice", opp.UnitBuyPrice, 0.90)
	approxEq(t, "ProfitPerUnit", opp.ProfitPerUnit, 0.30)
	if !opp.Feasible {
		t.Error("Feasible = false, want true")
	}
}

func TestEvaluateArbitrage_NoNPCPrice_NotEvaluable(t *testing.T) {
	e := testEvaluator()
	book := npcBook(0)
	if _, ok := e.Evaluate(book, decimal.NewFromInt(150), StrategyArbInstaBuy); ok {
		t.Error("product without NPC price should not be evaluable")
	}
}

func TestEvaluateArbitrage_EmptyAsks_NotEvaluable(t *testing.T) {
	e := testEvaluator()
	book := npcBook(1.20)
	book.SellOffers = nil
	if _, ok := e.Evaluate(book, decimal.NewFromInt(150), StrategyArbInstaBuy); ok {
		t.Error("product with empty sell side should not be evaluable")
	}
}

func TestEvaluateArbitrage_UnprofitableIsInfeasibleNotUnevaluable(t *testing.T) {
	// NPC below the buy price: evaluable, but never feasible.
	e := testEvaluator()
	opp, ok := e.Evaluate(npcBook(0.50), decimal.NewFromInt(150), StrategyArbInstaBuy)
	if !ok {
		t.Fatal("unprofitable product must still be evaluable")
	}
	if opp.Feasible {
		t.Error("Feasible = true, want false for negative profit")
	}
	if opp.ProfitPerUnit.Sign() >= 0 {
		t.Errorf("ProfitPerUnit = %v, want negative", opp.ProfitPerUnit)
	}
}

func TestEvaluateArbitrage_ZeroBudget(t *testing.T) {
	e := testEvaluator()
	opp, ok := e.Evaluate(npcBook(1.20), decimal.Zero, StrategyArbInstaBuy)
	if !ok {
		t.Fatal("zero budget must not make the product unevaluable")
	}
	if opp.Feasible || opp.MaxAffordableQuantity != 0 {
		t.Errorf("zero budget: got qty=%d feasible=%v, want 0/false",
			opp.MaxAffordableQuantity, opp.Feasible)
	}
}

func TestEvaluateArbitrage_ScoresPopulated(t *testing.T) {
	e := testEvaluator()
	opp, ok := e.Evaluate(npcBook(1.20), decimal.NewFromInt(150), StrategyArbInstaBuy)
	if !ok {
		t.Fatal("product should be evaluable")
	}
	// The 2% slice never reaches past the first tier on either side.
	approxEq(t, "WeightedAskPrice", opp.WeightedAskPrice, 1.00)
	approxEq(t, "WeightedBidPrice", opp.WeightedBidPrice, 0.90)

	// 750 combined orders against the default 1000 ceiling.
	if math.Abs(opp.LiquidityScore-75) > 1e-9 {
		t.Errorf("LiquidityScore = %v, want 75", opp.LiquidityScore)
	}
	if opp.CompetitionScore < 0 || opp.CompetitionScore > 100 {
		t.Errorf("CompetitionScore = %v, want within [0,100]", opp.CompetitionScore)
	}
	if opp.BalancedScore <= 0 {
		t.Errorf("BalancedScore = %v, want > 0 for a profitable liquid product", opp.BalancedScore)
	}
	// 168000 buys per week = 1000/hour, far above the 139-unit cap.
	if !opp.BudgetLimited {
		t.Error("BudgetLimited = false, want true")
	}
	if opp.EstimatedUnitsPerHour != float64(opp.MaxAffordableQuantity) {
		t.Errorf("EstimatedUnitsPerHour = %v, want capped at %d",
			opp.EstimatedUnitsPerHour, opp.MaxAffordableQuantity)
	}
}
