package engine

import (
	"github.com/shopspring/decimal"

	"bazaar-flipper/internal/bazaar"
)

// ConsumeByBudget simulates sweeping tiered depth with a fixed budget.
// Levels must already be in consumption order (cheapest first when buying,
// best bid first when selling); this function never sorts. Fills are whole
// units: at each tier we take as many units as the remaining budget affords,
// rounded down. A book too shallow for the budget sets ExhaustedBook; an
// unaffordable first tier simply fills nothing. Neither is an error.
func ConsumeByBudget(levels []bazaar.OrderLevel, budget decimal.Decimal) FillResult {
	res := FillResult{RequestedBudget: budget}
	if len(levels) == 0 {
		res.ExhaustedBook = true
		return res
	}
	if budget.Sign() <= 0 {
		return res
	}

	remaining := budget
	consumed := 0
	for _, lvl := range levels {
		if lvl.PricePerUnit.Sign() <= 0 || lvl.Amount <= 0 {
			consumed++
			continue
		}
		affordable := remaining.Div(lvl.PricePerUnit).Floor().IntPart()
		if affordable <= 0 {
			break
		}
		take := affordable
		if take > lvl.Amount {
			take = lvl.Amount
		}
		value := lvl.PricePerUnit.Mul(decimal.NewFromInt(take))
		res.FilledQuantity += take
		res.TotalValue = res.TotalValue.Add(value)
		remaining = remaining.Sub(value)
		if take < lvl.Amount {
			// Budget ran out inside this tier.
			return finishFill(res, false)
		}
		consumed++
	}

	// Every tier was swept entirely: the book, not the budget, was the limit
	// (unless the next tier was simply unaffordable, handled by the break).
	return finishFill(res, consumed == len(levels))
}

// ConsumeByQuantity simulates filling an exact quantity against tiered depth.
// ExhaustedBook is set when the book holds fewer units than requested.
func ConsumeByQuantity(levels []bazaar.OrderLevel, quantity int64) FillResult {
	res := FillResult{RequestedQuantity: quantity}
	if len(levels) == 0 {
		res.ExhaustedBook = true
		return res
	}
	if quantity <= 0 {
		return res
	}

	remaining := quantity
	for _, lvl := range levels {
		if lvl.PricePerUnit.Sign() <= 0 || lvl.Amount <= 0 {
			continue
		}
		take := remaining
		if take > lvl.Amount {
			take = lvl.Amount
		}
		res.FilledQuantity += take
		res.TotalValue = res.TotalValue.Add(lvl.PricePerUnit.Mul(decimal.NewFromInt(take)))
		remaining -= take
		if remaining == 0 {
			break
		}
	}

	return finishFill(res, remaining > 0)
}

func finishFill(res FillResult, exhausted bool) FillResult {
	res.ExhaustedBook = exhausted
	if res.FilledQuantity > 0 {
		res.EffectiveUnitPrice = res.TotalValue.Div(decimal.NewFromInt(res.FilledQuantity))
	}
	return res
}
