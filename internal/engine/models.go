package engine

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Strategy selects how an opportunity is bought and sold. It is a closed set:
// adding a strategy means touching every switch that consumes it.
type Strategy int

const (
	// StrategyArbInstaBuy sweeps sell offers with the budget, then vendors
	// the goods at the NPC price.
	StrategyArbInstaBuy Strategy = iota
	// StrategyArbBuyOrder rests a buy order at the top bid, then vendors at
	// the NPC price.
	StrategyArbBuyOrder
	// StrategyFlipOrderBook rests a buy order at the top bid and a sell
	// offer at the top ask, pocketing the spread.
	StrategyFlipOrderBook
	// StrategyFlipInstant sweeps sell offers, then instant-sells the goods
	// back into the buy-order side, net of the instant-sell tax.
	StrategyFlipInstant
)

var strategyNames = map[Strategy]string{
	StrategyArbInstaBuy:   "arb_instabuy",
	StrategyArbBuyOrder:   "arb_buyorder",
	StrategyFlipOrderBook: "flip_orderbook",
	StrategyFlipInstant:   "flip_instant",
}

func (s Strategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return fmt.Sprintf("strategy(%d)", int(s))
}

// Valid reports whether s is a member of the closed strategy set.
func (s Strategy) Valid() bool {
	_, ok := strategyNames[s]
	return ok
}

// ParseStrategy maps a wire name to a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	for s, n := range strategyNames {
		if n == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}

// RiskLevel is a coarse execution-risk tier. Ordering matters: lower value
// means lower risk, so the zero value is the safest tier.
type RiskLevel int

const (
	RiskLow RiskLevel = iota
	RiskMedium
	RiskHigh
)

func (r RiskLevel) String() string {
	switch r {
	case RiskLow:
		return "LOW"
	case RiskMedium:
		return "MEDIUM"
	case RiskHigh:
		return "HIGH"
	}
	return fmt.Sprintf("risk(%d)", int(r))
}

// FillResult is the outcome of simulating a market order against tiered
// depth. ExhaustedBook means the book ran out before the request was
// satisfied; it is a feasibility signal, never an error.
type FillResult struct {
	RequestedBudget   decimal.Decimal
	RequestedQuantity int64

	FilledQuantity     int64
	TotalValue         decimal.Decimal
	EffectiveUnitPrice decimal.Decimal
	ExhaustedBook      bool
}

// Opportunity is the fully scored evaluation of one product under one
// strategy and budget. It is derived data: recomputed every pass, never
// persisted as state (the scan-history table stores copies, not the truth).
type Opportunity struct {
	ProductID string   `json:"product_id"`
	ItemName  string   `json:"item_name"`
	Strategy  Strategy `json:"-"`

	UnitBuyPrice  decimal.Decimal `json:"unit_buy_price"`
	UnitSellPrice decimal.Decimal `json:"unit_sell_price"`
	ProfitPerUnit decimal.Decimal `json:"profit_per_unit"`

	// Depth-weighted reference prices over the top slice of each book side.
	WeightedAskPrice decimal.Decimal `json:"weighted_ask_price"`
	WeightedBidPrice decimal.Decimal `json:"weighted_bid_price"`

	ProfitMarginPercent   float64         `json:"profit_margin_percent"`
	MaxAffordableQuantity int64           `json:"max_affordable_quantity"`
	TotalProfit           decimal.Decimal `json:"total_profit"`
	Feasible              bool            `json:"feasible"`

	RiskLevel        RiskLevel `json:"risk_level"`
	LiquidityScore   float64   `json:"liquidity_score"`
	CompetitionScore float64   `json:"competition_score"`

	WeeklySellVolume int64 `json:"weekly_sell_volume"`
	WeeklyBuyVolume  int64 `json:"weekly_buy_volume"`

	EstimatedUnitsPerHour  float64 `json:"estimated_units_per_hour"`
	EstimatedProfitPerHour float64 `json:"estimated_profit_per_hour"`
	BudgetLimited          bool    `json:"budget_limited"`

	BalancedScore float64 `json:"balanced_score"`
}

// RankedResultSet is one sorted evaluation pass over the whole catalog.
type RankedResultSet struct {
	Opportunities        []Opportunity   `json:"opportunities"`
	TotalCount           int             `json:"total_count"`
	TotalProfitAcrossAll decimal.Decimal `json:"total_profit_across_all"`
	SortKey              SortKey         `json:"sort_key"`
	GeneratedAt          time.Time       `json:"generated_at"`
}

// QueryParams are the typed inputs of the query facade. Presentation layers
// must decode their own packed identifiers into these fields before calling.
type QueryParams struct {
	Budget       decimal.Decimal
	Page         int
	PageSize     int // <= 0 selects the configured default
	Strategy     Strategy
	Sort         SortKey
	ForceRefresh bool
}

// QueryResult is one page of a ranked result set plus its aggregate totals.
type QueryResult struct {
	Items                []Opportunity   `json:"items"`
	TotalCount           int             `json:"total_count"`
	TotalPages           int             `json:"total_pages"`
	CurrentPage          int             `json:"current_page"`
	PageSize             int             `json:"page_size"`
	TotalProfitAcrossAll decimal.Decimal `json:"total_profit_across_all"`
	SortKey              SortKey         `json:"sort_key"`
	GeneratedAt          time.Time       `json:"generated_at"`
}
