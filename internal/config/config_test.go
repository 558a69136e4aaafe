package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault_Values(t *testing.T) {
	c := Default()
	if c == nil {
		t.Fatal("Default() returned nil")
	}
	if c.InstaBuySurchargePercent != 4 {
		t.Errorf("InstaBuySurchargePercent = %v, want 4", c.InstaBuySurchargePercent)
	}
	if c.InstaSellTaxPercent != 4 {
		t.Errorf("InstaSellTaxPercent = %v, want 4", c.InstaSellTaxPercent)
	}
	if c.WeightedPriceFraction != 0.02 {
		t.Errorf("WeightedPriceFraction = %v, want 0.02", c.WeightedPriceFraction)
	}
	if c.CacheTTLSeconds != 300 {
		t.Errorf("CacheTTLSeconds = %v, want 300", c.CacheTTLSeconds)
	}
	if c.LiquidityOrderCeiling != 1000 {
		t.Errorf("LiquidityOrderCeiling = %v, want 1000", c.LiquidityOrderCeiling)
	}
	if c.DefaultPageSize != 10 || c.MaxPageSize != 50 {
		t.Errorf("page sizes = %d/%d, want 10/50", c.DefaultPageSize, c.MaxPageSize)
	}
	sum := c.BalancedMarginWeight + c.BalancedProfitHourWeight + c.BalancedCompetitionWeight
	if sum < 0.999 || sum > 1.001 {
		t.Errorf("balanced weights sum = %v, want 1.0", sum)
	}
}

func TestCacheTTL_Duration(t *testing.T) {
	c := Default()
	if c.CacheTTL().Seconds() != 300 {
		t.Errorf("CacheTTL = %v, want 5m", c.CacheTTL())
	}
	if c.SnapshotTTL().Seconds() != 20 {
		t.Errorf("SnapshotTTL = %v, want 20s", c.SnapshotTTL())
	}
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bazaar.toml")
	data := "instabuy_surcharge_percent = 2.5\ncache_ttl_seconds = 60\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("BAZAAR_CACHE_TTL_SECONDS", "120")
	t.Setenv("BAZAAR_API_KEY", "test-key")

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.InstaBuySurchargePercent != 2.5 {
		t.Errorf("InstaBuySurchargePercent = %v, want 2.5 (from file)", c.InstaBuySurchargePercent)
	}
	if c.CacheTTLSeconds != 120 {
		t.Errorf("CacheTTLSeconds = %v, want 120 (env wins over file)", c.CacheTTLSeconds)
	}
	if c.APIKey != "test-key" {
		t.Errorf("APIKey = %q, want test-key", c.APIKey)
	}
	// Untouched fields keep defaults.
	if c.InstaSellTaxPercent != 4 {
		t.Errorf("InstaSellTaxPercent = %v, want default 4", c.InstaSellTaxPercent)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load with missing file: %v", err)
	}
	if c.CacheTTLSeconds != 300 {
		t.Errorf("CacheTTLSeconds = %v, want default 300", c.CacheTTLSeconds)
	}
}
