package engine

import (
	"fmt"
	"sort"
)

// SortKey selects the ranking criterion. Like Strategy it is a closed set;
// the compiler flags every switch that misses a member.
type SortKey int

const (
	// SortBalanced is the default composite ranking.
	SortBalanced SortKey = iota
	SortTotalProfit
	SortMargin
	SortProfitPerUnit
	SortWeeklySellVolume
	SortMaxQuantity
	SortProfitPerHour
	SortInstaBuyVolume
	SortInstaSellVolume
	SortCompetition
	SortRisk
)

var sortKeyNames = map[SortKey]string{
	SortBalanced:         "balanced",
	SortTotalProfit:      "total_profit",
	SortMargin:           "margin",
	SortProfitPerUnit:    "profit_per_unit",
	SortWeeklySellVolume: "weekly_sell_volume",
	SortMaxQuantity:      "max_quantity",
	SortProfitPerHour:    "profit_per_hour",
	SortInstaBuyVolume:   "instabuy_volume",
	SortInstaSellVolume:  "instasell_volume",
	SortCompetition:      "competition",
	SortRisk:             "risk",
}

func (k SortKey) String() string {
	if name, ok := sortKeyNames[k]; ok {
		return name
	}
	return fmt.Sprintf("sort(%d)", int(k))
}

// Valid reports whether k is a member of the closed sort-key set.
func (k SortKey) Valid() bool {
	_, ok := sortKeyNames[k]
	return ok
}

// ParseSortKey maps a wire name to a SortKey.
func ParseSortKey(name string) (SortKey, error) {
	if name == "" {
		return SortBalanced, nil
	}
	for k, n := range sortKeyNames {
		if n == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSortKey, name)
}

// MarshalText lets SortKey round-trip through JSON as its wire name.
func (k SortKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText parses the wire name produced by MarshalText.
func (k *SortKey) UnmarshalText(text []byte) error {
	parsed, err := ParseSortKey(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Rank returns the feasible opportunities sorted by key. Infeasible entries
// are dropped: they are never shown to callers as opportunities. Ties always
// break on ProductID ascending so identical inputs rank identically.
func Rank(opps []Opportunity, key SortKey) []Opportunity {
	ranked := make([]Opportunity, 0, len(opps))
	for _, o := range opps {
		if o.Feasible {
			ranked = append(ranked, o)
		}
	}

	sort.Slice(ranked, func(i, j int) bool {
		a, b := &ranked[i], &ranked[j]
		if c := compare(a, b, key); c != 0 {
			return c > 0
		}
		return a.ProductID < b.ProductID
	})
	return ranked
}

// compare returns >0 when a ranks before b under key. Most keys rank
// descending; competition and risk rank ascending (least competitive and
// lowest risk first).
func compare(a, b *Opportunity, key SortKey) int {
	switch key {
	case SortBalanced:
		return cmpFloat(a.BalancedScore, b.BalancedScore)
	case SortTotalProfit:
		return a.TotalProfit.Cmp(b.TotalProfit)
	case SortMargin:
		return cmpFloat(a.ProfitMarginPercent, b.ProfitMarginPercent)
	case SortProfitPerUnit:
		return a.ProfitPerUnit.Cmp(b.ProfitPerUnit)
	case SortWeeklySellVolume:
		return cmpInt(a.WeeklySellVolume, b.WeeklySellVolume)
	case SortMaxQuantity:
		return cmpInt(a.MaxAffordableQuantity, b.MaxAffordableQuantity)
	case SortProfitPerHour:
		return cmpFloat(a.EstimatedProfitPerHour, b.EstimatedProfitPerHour)
	case SortInstaBuyVolume:
		return cmpInt(a.WeeklyBuyVolume, b.WeeklyBuyVolume)
	case SortInstaSellVolume:
		return cmpInt(a.WeeklySellVolume, b.WeeklySellVolume)
	case SortCompetition:
		return cmpFloat(b.CompetitionScore, a.CompetitionScore)
	case SortRisk:
		return cmpInt(int64(b.RiskLevel), int64(a.RiskLevel))
	}
	return 0
}

func cmpFloat(a, b float64) int {
	switch {
	case a > b:
		return 1
	case a < b:
		return -1
	}
	return 0
}

func cmpInt(a, b int64) int {
	switch {
	case a > b:
		return 1
	case a < b:
		return -1
	}
	return 0
}
