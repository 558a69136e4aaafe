package config

import (
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path (skipped when path is empty or
// the file does not exist), merges it on top of the built-in defaults, applies
// BAZAAR_* environment variable overrides, and returns the final Config.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, cfg); err != nil {
				return nil, err
			}
		}
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(cfg)

	return cfg, nil
}

// applyEnvOverrides reads well-known BAZAAR_* environment variables and
// overwrites the corresponding Config fields when a variable is set. This lets
// operators inject the API key at deploy time without touching the TOML file.
func applyEnvOverrides(cfg *Config) {
	setStr(&cfg.BazaarAPIURL, "BAZAAR_API_URL")
	setStr(&cfg.APIKey, "BAZAAR_API_KEY")

	setFloat(&cfg.InstaBuySurchargePercent, "BAZAAR_INSTABUY_SURCHARGE_PERCENT")
	setFloat(&cfg.InstaSellTaxPercent, "BAZAAR_INSTASELL_TAX_PERCENT")

	setInt(&cfg.CacheTTLSeconds, "BAZAAR_CACHE_TTL_SECONDS")
	setInt(&cfg.SnapshotTTLSeconds, "BAZAAR_SNAPSHOT_TTL_SECONDS")

	setInt(&cfg.DefaultPageSize, "BAZAAR_DEFAULT_PAGE_SIZE")
	setInt(&cfg.MaxPageSize, "BAZAAR_MAX_PAGE_SIZE")
}

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}
