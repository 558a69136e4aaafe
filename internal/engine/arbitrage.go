package engine

import (
	"github.com/shopspring/decimal"

	"bazaar-flipper/internal/bazaar"
)

// evaluateArbitrage prices the "buy on the book, vendor at the NPC price"
// play. Products without an NPC outlet or without sell-side depth are not
// evaluable.
func (e *Evaluator) evaluateArbitrage(book *bazaar.ProductBook, budget decimal.Decimal, strategy Strategy) (Opportunity, bool) {
	if !book.HasNPCPrice() || len(book.SellOffers) == 0 {
		return Opportunity{}, false
	}

	fill := ConsumeByBudget(book.SellOffers, budget)

	var unitBuy decimal.Decimal
	switch strategy {
	case StrategyArbInstaBuy:
		// Sweeping the asks costs the volume-weighted price plus the
		// instant-buy surcharge.
		unitBuy = fill.EffectiveUnitPrice.Mul(e.surchargeMultiplier())
	case StrategyArbBuyOrder:
		// A resting buy order fills at the top bid; no surcharge, no
		// depth sweep — the trader waits instead of paying up.
		bid, ok := book.BestBuyOrder()
		if !ok {
			return Opportunity{}, false
		}
		unitBuy = bid.PricePerUnit
	default:
		return Opportunity{}, false
	}

	opp := e.buildOpportunity(book, budget, unitBuy, book.NPCSellPrice,
		fill.FilledQuantity, book.WeeklyBuyVolume, strategy)
	return opp, true
}
