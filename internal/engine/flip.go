package engine

import (
	"github.com/shopspring/decimal"

	"bazaar-flipper/internal/bazaar"
)

// evaluateFlip prices the two-leg "buy on the book, sell back onto the book"
// play. Both sides of the book must have depth; otherwise the product is not
// evaluable for flipping.
func (e *Evaluator) evaluateFlip(book *bazaar.ProductBook, budget decimal.Decimal, strategy Strategy) (Opportunity, bool) {
	ask, okAsk := book.BestSellOffer()
	bid, okBid := book.BestBuyOrder()
	if !okAsk || !okBid {
		return Opportunity{}, false
	}

	buyFill := ConsumeByBudget(book.SellOffers, budget)

	var unitBuy, unitSell decimal.Decimal
	depthQty := buyFill.FilledQuantity

	switch strategy {
	case StrategyFlipOrderBook:
		// Rest a buy order at the top bid and a sell offer at the top
		// ask; both legs fill passively, so neither pays the instant
		// fees. Profit is the spread.
		unitBuy = bid.PricePerUnit
		unitSell = ask.PricePerUnit
	case StrategyFlipInstant:
		// Sweep the asks, then dump the goods into the bids. The buy leg
		// pays the surcharge, the sell leg loses the instant-sell tax.
		unitBuy = buyFill.EffectiveUnitPrice.Mul(e.surchargeMultiplier())
		sellFill := ConsumeByQuantity(book.BuyOrders, buyFill.FilledQuantity)
		unitSell = sellFill.EffectiveUnitPrice.Mul(e.taxMultiplier())
		if sellFill.FilledQuantity < depthQty {
			depthQty = sellFill.FilledQuantity
		}
	default:
		return Opportunity{}, false
	}

	weekly := book.WeeklyBuyVolume
	if book.WeeklySellVolume < weekly {
		weekly = book.WeeklySellVolume
	}

	opp := e.buildOpportunity(book, budget, unitBuy, unitSell, depthQty, weekly, strategy)
	return opp, true
}
