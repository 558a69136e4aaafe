package db

import (
	"bazaar-flipper/internal/config"
)

// GetWatchlist returns all watchlist items, most recently added first.
func (d *DB) GetWatchlist() []config.WatchlistItem {
	rows, err := d.sql.Query(`
		SELECT product_id, item_name, added_at, alert_enabled, alert_metric, alert_threshold
		  FROM watchlist
		 ORDER BY added_at DESC
	`)
	if err != nil {
		return []config.WatchlistItem{}
	}
	defer rows.Close()

	var items []config.WatchlistItem
	for rows.Next() {
		var item config.WatchlistItem
		rows.Scan(
			&item.ProductID,
			&item.ItemName,
			&item.AddedAt,
			&item.AlertEnabled,
			&item.AlertMetric,
			&item.AlertThreshold,
		)
		if item.AlertMetric == "" {
			item.AlertMetric = "margin_percent"
		}
		items = append(items, item)
	}
	if items == nil {
		return []config.WatchlistItem{}
	}
	return items
}

// HasWatchlistItem checks if a product is already in the watchlist.
func (d *DB) HasWatchlistItem(productID string) bool {
	var count int
	d.sql.QueryRow("SELECT COUNT(*) FROM watchlist WHERE product_id = ?", productID).Scan(&count)
	return count > 0
}

// AddWatchlistItem inserts a watchlist item. Returns true if inserted, false
// if the product was already tracked.
func (d *DB) AddWatchlistItem(item config.WatchlistItem) bool {
	if item.AlertMetric == "" {
		item.AlertMetric = "margin_percent"
	}
	if item.AlertThreshold > 0 && !item.AlertEnabled {
		item.AlertEnabled = true
	}
	res, err := d.sql.Exec(
		`INSERT OR IGNORE INTO watchlist
		   (product_id, item_name, added_at, alert_enabled, alert_metric, alert_threshold)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		item.ProductID,
		item.ItemName,
		item.AddedAt,
		item.AlertEnabled,
		item.AlertMetric,
		item.AlertThreshold,
	)
	if err != nil {
		return false
	}
	n, _ := res.RowsAffected()
	return n > 0
}

// DeleteWatchlistItem removes a watchlist item by product ID.
func (d *DB) DeleteWatchlistItem(productID string) {
	d.sql.Exec("DELETE FROM watchlist WHERE product_id = ?", productID)
}

// UpdateWatchlistItem updates alert settings for a watchlist item.
func (d *DB) UpdateWatchlistItem(productID string, alertEnabled bool, alertMetric string, alertThreshold float64) {
	if alertMetric == "" {
		alertMetric = "margin_percent"
	}
	if alertThreshold < 0 {
		alertThreshold = 0
	}
	d.sql.Exec(
		`UPDATE watchlist
		    SET alert_enabled = ?, alert_metric = ?, alert_threshold = ?
		  WHERE product_id = ?`,
		alertEnabled,
		alertMetric,
		alertThreshold,
		productID,
	)
}
