package bazaar

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLevel is one price tier of an order book side: every resting order at
// this price collapsed into a single (price, amount, order count) tuple.
// Levels are immutable snapshots owned by their ProductBook.
type OrderLevel struct {
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
	Amount       int64           `json:"amount"`
	Orders       int             `json:"orders"`
}

// ProductBook is the full tiered order book for one tradable product.
//
// SellOffers are the resting sell offers (asks), cheapest first — the side a
// trader sweeps when instant-buying. BuyOrders are the resting buy orders
// (bids), highest first — the side a trader sweeps when instant-selling.
// Both slices arrive pre-sorted in consumption order from the exchange API
// and are read-only inside the engine.
type ProductBook struct {
	ProductID string `json:"product_id"`
	ItemName  string `json:"item_name"`

	SellOffers []OrderLevel `json:"sell_offers"`
	BuyOrders  []OrderLevel `json:"buy_orders"`

	// NPCSellPrice is the fixed vendor price the item can always be sold at.
	// Zero or negative means the item has no NPC outlet.
	NPCSellPrice decimal.Decimal `json:"npc_sell_price"`

	WeeklyBuyVolume  int64 `json:"weekly_buy_volume"`
	WeeklySellVolume int64 `json:"weekly_sell_volume"`
	ActiveBuyOrders  int   `json:"active_buy_orders"`
	ActiveSellOrders int   `json:"active_sell_orders"`
}

// HasNPCPrice reports whether the product can be vendored.
func (b *ProductBook) HasNPCPrice() bool {
	return b.NPCSellPrice.IsPositive()
}

// BestSellOffer returns the cheapest ask, if any.
func (b *ProductBook) BestSellOffer() (OrderLevel, bool) {
	if len(b.SellOffers) == 0 {
		return OrderLevel{}, false
	}
	return b.SellOffers[0], true
}

// BestBuyOrder returns the highest bid, if any.
func (b *ProductBook) BestBuyOrder() (OrderLevel, bool) {
	if len(b.BuyOrders) == 0 {
		return OrderLevel{}, false
	}
	return b.BuyOrders[0], true
}

// Snapshot is one full fetch of the exchange catalog. Products come and go
// between fetches; consumers must not assume a stable key set.
type Snapshot struct {
	Products  map[string]ProductBook
	FetchedAt time.Time
}
