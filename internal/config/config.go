package config

import "time"

// WatchlistItem represents a product being tracked in the watchlist.
type WatchlistItem struct {
	ProductID      string  `json:"product_id"`
	ItemName       string  `json:"item_name"`
	AddedAt        string  `json:"added_at"`
	AlertEnabled   bool    `json:"alert_enabled"`
	AlertMetric    string  `json:"alert_metric"`    // margin_percent | total_profit | profit_per_unit | profit_per_hour
	AlertThreshold float64 `json:"alert_threshold"` // threshold for selected metric
}

// Config holds application settings (in-memory representation).
// Everything that shapes evaluator or cache behavior lives here so it can be
// varied in tests; nothing in the engine hardcodes a rate or threshold.
type Config struct {
	// Upstream exchange API.
	BazaarAPIURL string `toml:"bazaar_api_url"`
	APIKey       string `toml:"api_key"`

	// Fee model.
	InstaBuySurchargePercent float64 `toml:"instabuy_surcharge_percent"` // applied to depth-swept buys
	InstaSellTaxPercent      float64 `toml:"instasell_tax_percent"`      // deducted from instant-sell proceeds

	// Weighted-price statistic.
	WeightedPriceFraction float64 `toml:"weighted_price_fraction"` // e.g. 0.02 for the "2% price"

	// Result cache.
	CacheTTLSeconds    int `toml:"cache_ttl_seconds"`
	SnapshotTTLSeconds int `toml:"snapshot_ttl_seconds"`

	// Liquidity / competition scoring.
	LiquidityOrderCeiling   int `toml:"liquidity_order_ceiling"`   // combined order count mapping to score 100
	CompetitionLevelCeiling int `toml:"competition_level_ceiling"` // levels at-or-better mapping to score 100

	// Risk tier thresholds.
	RiskLowLiquidity      float64 `toml:"risk_low_liquidity"`       // liquidity >= this qualifies for LOW
	RiskHighLiquidity     float64 `toml:"risk_high_liquidity"`      // liquidity < this forces HIGH
	RiskLowSpreadPercent  float64 `toml:"risk_low_spread_percent"`  // spread/price % below this is "small"
	RiskHighSpreadPercent float64 `toml:"risk_high_spread_percent"` // spread/price % above this forces HIGH

	// Balanced composite score weights (should sum to 1.0).
	BalancedMarginWeight      float64 `toml:"balanced_margin_weight"`
	BalancedProfitHourWeight  float64 `toml:"balanced_profit_hour_weight"`
	BalancedCompetitionWeight float64 `toml:"balanced_competition_weight"`

	// Normalization caps for the balanced score.
	MarginNormCap     float64 `toml:"margin_norm_cap"`      // margin % mapping to 100
	ProfitHourNormCap float64 `toml:"profit_hour_norm_cap"` // coins/hour mapping to 100

	// Pagination.
	DefaultPageSize int `toml:"default_page_size"`
	MaxPageSize     int `toml:"max_page_size"`

	// Persistence.
	TopResultsPersisted int `toml:"top_results_persisted"` // opportunities stored per scan
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		BazaarAPIURL:             "https://api.hypixel.net/v2/skyblock/bazaar",
		InstaBuySurchargePercent: 4,
		InstaSellTaxPercent:      4,
		WeightedPriceFraction:    0.02,
		CacheTTLSeconds:          300,
		SnapshotTTLSeconds:       20,
		LiquidityOrderCeiling:    1000,
		CompetitionLevelCeiling:  50,
		RiskLowLiquidity:         70,
		RiskHighLiquidity:        30,
		RiskLowSpreadPercent:     5,
		RiskHighSpreadPercent:    20,
		BalancedMarginWeight:     0.40,
		BalancedProfitHourWeight: 0.35,
		BalancedCompetitionWeight: 0.25,
		MarginNormCap:            50,
		ProfitHourNormCap:        1_000_000,
		DefaultPageSize:          10,
		MaxPageSize:              50,
		TopResultsPersisted:      50,
	}
}

// CacheTTL returns the result-cache TTL as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// SnapshotTTL returns the upstream snapshot TTL as a duration.
func (c *Config) SnapshotTTL() time.Duration {
	return time.Duration(c.SnapshotTTLSeconds) * time.Second
}
