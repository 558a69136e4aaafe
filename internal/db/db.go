package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"bazaar-flipper/internal/logger"
	_ "modernc.org/sqlite"
)

const defaultPersistLimit = 50

// DB wraps a SQLite database connection.
type DB struct {
	sql *sql.DB

	// persistLimit caps how many opportunities each scan stores.
	persistLimit int
}

func dbPath() string {
	// Prefer working directory so the DB is stable across go run / go build.
	// Fall back to executable directory for deployed builds.
	if wd, err := os.Getwd(); err == nil {
		return filepath.Join(wd, "bazaar.db")
	}
	exe, _ := os.Executable()
	return filepath.Join(filepath.Dir(exe), "bazaar.db")
}

// Open opens (or creates) the SQLite database and runs migrations.
func Open() (*DB, error) {
	return OpenAt(dbPath())
}

// OpenAt opens (or creates) a SQLite database at an explicit path.
func OpenAt(path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}
	d := &DB{sql: sqlDB, persistLimit: defaultPersistLimit}
	if err := d.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrate db: %w", err)
	}
	logger.Success("DB", fmt.Sprintf("Opened %s", path))
	return d, nil
}

// SetPersistLimit overrides how many opportunities each scan stores.
func (d *DB) SetPersistLimit(n int) {
	if n > 0 {
		d.persistLimit = n
	}
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.sql.Close()
}

func (d *DB) migrate() error {
	version := 0
	d.sql.QueryRow("SELECT version FROM schema_version ORDER BY version DESC LIMIT 1").Scan(&version)

	if version < 1 {
		_, err := d.sql.Exec(`
			CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY);

			CREATE TABLE IF NOT EXISTS watchlist (
				product_id      TEXT PRIMARY KEY,
				item_name       TEXT NOT NULL,
				added_at        TEXT NOT NULL,
				alert_enabled   INTEGER NOT NULL DEFAULT 0,
				alert_metric    TEXT NOT NULL DEFAULT 'margin_percent',
				alert_threshold REAL NOT NULL DEFAULT 0
			);

			CREATE TABLE IF NOT EXISTS scan_history (
				id           INTEGER PRIMARY KEY AUTOINCREMENT,
				timestamp    TEXT NOT NULL,
				strategy     TEXT NOT NULL,
				budget       TEXT NOT NULL,
				count        INTEGER NOT NULL,
				top_profit   TEXT NOT NULL,
				total_profit TEXT NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_scan_history_ts ON scan_history(timestamp);

			CREATE TABLE IF NOT EXISTS opportunity_results (
				id               INTEGER PRIMARY KEY AUTOINCREMENT,
				scan_id          INTEGER NOT NULL REFERENCES scan_history(id),
				product_id       TEXT,
				item_name        TEXT,
				unit_buy_price   TEXT,
				unit_sell_price  TEXT,
				profit_per_unit  TEXT,
				margin_percent   REAL,
				max_quantity     INTEGER,
				total_profit     TEXT,
				risk_level       INTEGER,
				liquidity_score  REAL,
				competition_score REAL,
				profit_per_hour  REAL,
				balanced_score   REAL
			);
			CREATE INDEX IF NOT EXISTS idx_opp_scan ON opportunity_results(scan_id);
			CREATE INDEX IF NOT EXISTS idx_opp_product ON opportunity_results(product_id);

			INSERT INTO schema_version (version) VALUES (1);
		`)
		if err != nil {
			return fmt.Errorf("migration v1: %w", err)
		}
	}

	return nil
}
