package db

import (
	"log"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"bazaar-flipper/internal/engine"
)

// ScanRecord represents one persisted evaluation pass.
type ScanRecord struct {
	ID          int64  `json:"id"`
	Timestamp   string `json:"timestamp"`
	Strategy    string `json:"strategy"`
	Budget      string `json:"budget"`
	Count       int    `json:"count"`
	TopProfit   string `json:"top_profit"`
	TotalProfit string `json:"total_profit"`
}

// RecordScan persists one fresh evaluation pass: a scan_history row plus the
// top opportunities by total profit. Recording is best-effort; failures are
// logged and swallowed so a storage hiccup never breaks a query.
func (d *DB) RecordScan(strategy engine.Strategy, budget decimal.Decimal, opportunities []engine.Opportunity) {
	top := make([]engine.Opportunity, len(opportunities))
	copy(top, opportunities)
	sort.Slice(top, func(i, j int) bool {
		if c := top[i].TotalProfit.Cmp(top[j].TotalProfit); c != 0 {
			return c > 0
		}
		return top[i].ProductID < top[j].ProductID
	})
	if len(top) > d.persistLimit {
		top = top[:d.persistLimit]
	}

	topProfit := decimal.Zero
	totalProfit := decimal.Zero
	for _, o := range opportunities {
		totalProfit = totalProfit.Add(o.TotalProfit)
	}
	if len(top) > 0 {
		topProfit = top[0].TotalProfit
	}

	result, err := d.sql.Exec(
		"INSERT INTO scan_history (timestamp, strategy, budget, count, top_profit, total_profit) VALUES (?, ?, ?, ?, ?, ?)",
		time.Now().Format(time.RFC3339), strategy.String(), budget.String(),
		len(opportunities), topProfit.String(), totalProfit.String(),
	)
	if err != nil {
		log.Printf("[DB] RecordScan insert history: %v", err)
		return
	}
	scanID, _ := result.LastInsertId()
	d.insertOpportunities(scanID, top)
}

func (d *DB) insertOpportunities(scanID int64, opps []engine.Opportunity) {
	if scanID == 0 || len(opps) == 0 {
		return
	}

	tx, err := d.sql.Begin()
	if err != nil {
		log.Printf("[DB] insertOpportunities begin tx: %v", err)
		return
	}

	stmt, err := tx.Prepare(`INSERT INTO opportunity_results (
		scan_id, product_id, item_name,
		unit_buy_price, unit_sell_price, profit_per_unit,
		margin_percent, max_quantity, total_profit,
		risk_level, liquidity_score, competition_score,
		profit_per_hour, balanced_score
	) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		tx.Rollback()
		log.Printf("[DB] insertOpportunities prepare: %v", err)
		return
	}
	defer stmt.Close()

	for _, o := range opps {
		stmt.Exec(
			scanID, o.ProductID, o.ItemName,
			o.UnitBuyPrice.String(), o.UnitSellPrice.String(), o.ProfitPerUnit.String(),
			o.ProfitMarginPercent, o.MaxAffordableQuantity, o.TotalProfit.String(),
			int(o.RiskLevel), o.LiquidityScore, o.CompetitionScore,
			o.EstimatedProfitPerHour, o.BalancedScore,
		)
	}

	if err := tx.Commit(); err != nil {
		log.Printf("[DB] insertOpportunities commit: %v", err)
	}
}

// GetScanHistory returns the last N scan records (newest first).
func (d *DB) GetScanHistory(limit int) []ScanRecord {
	if limit <= 0 {
		limit = 50
	}
	rows, err := d.sql.Query(
		`SELECT id, timestamp, strategy, budget, count, top_profit, total_profit
		 FROM scan_history ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return []ScanRecord{}
	}
	defer rows.Close()

	var records []ScanRecord
	for rows.Next() {
		var r ScanRecord
		rows.Scan(&r.ID, &r.Timestamp, &r.Strategy, &r.Budget, &r.Count, &r.TopProfit, &r.TotalProfit)
		records = append(records, r)
	}
	if records == nil {
		return []ScanRecord{}
	}
	return records
}

// GetScanByID returns a single scan record.
func (d *DB) GetScanByID(id int64) *ScanRecord {
	row := d.sql.QueryRow(
		`SELECT id, timestamp, strategy, budget, count, top_profit, total_profit
		 FROM scan_history WHERE id = ?`,
		id,
	)
	var r ScanRecord
	if err := row.Scan(&r.ID, &r.Timestamp, &r.Strategy, &r.Budget, &r.Count, &r.TopProfit, &r.TotalProfit); err != nil {
		return nil
	}
	return &r
}

// GetScanResults retrieves the stored opportunities for a scan, best first.
func (d *DB) GetScanResults(scanID int64) []engine.Opportunity {
	rows, err := d.sql.Query(`
		SELECT product_id, item_name,
			unit_buy_price, unit_sell_price, profit_per_unit,
			margin_percent, max_quantity, total_profit,
			risk_level, liquidity_score, competition_score,
			profit_per_hour, balanced_score
		FROM opportunity_results WHERE scan_id = ? ORDER BY id
	`, scanID)
	if err != nil {
		return nil
	}
	defer rows.Close()

	var results []engine.Opportunity
	for rows.Next() {
		var o engine.Opportunity
		var buy, sell, unit, total string
		var risk int
		rows.Scan(
			&o.ProductID, &o.ItemName,
			&buy, &sell, &unit,
			&o.ProfitMarginPercent, &o.MaxAffordableQuantity, &total,
			&risk, &o.LiquidityScore, &o.CompetitionScore,
			&o.EstimatedProfitPerHour, &o.BalancedScore,
		)
		o.UnitBuyPrice, _ = decimal.NewFromString(buy)
		o.UnitSellPrice, _ = decimal.NewFromString(sell)
		o.ProfitPerUnit, _ = decimal.NewFromString(unit)
		o.TotalProfit, _ = decimal.NewFromString(total)
		o.RiskLevel = engine.RiskLevel(risk)
		o.Feasible = true
		results = append(results, o)
	}
	return results
}

// DeleteScan removes a scan record and its stored opportunities.
func (d *DB) DeleteScan(id int64) error {
	tx, err := d.sql.Begin()
	if err != nil {
		return err
	}
	tx.Exec("DELETE FROM opportunity_results WHERE scan_id = ?", id)
	tx.Exec("DELETE FROM scan_history WHERE id = ?", id)
	return tx.Commit()
}

// ClearScans deletes scan records older than the given number of days.
func (d *DB) ClearScans(olderThanDays int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -olderThanDays).Format(time.RFC3339)

	rows, err := d.sql.Query("SELECT id FROM scan_history WHERE timestamp < ?", cutoff)
	if err != nil {
		return 0, err
	}
	var ids []int64
	for rows.Next() {
		var id int64
		rows.Scan(&id)
		ids = append(ids, id)
	}
	rows.Close()

	if len(ids) == 0 {
		return 0, nil
	}

	tx, err := d.sql.Begin()
	if err != nil {
		return 0, err
	}
	for _, id := range ids {
		tx.Exec("DELETE FROM opportunity_results WHERE scan_id = ?", id)
	}
	result, err := tx.Exec("DELETE FROM scan_history WHERE timestamp < ?", cutoff)
	if err != nil {
		tx.Rollback()
		return 0, err
	}
	tx.Commit()
	count, _ := result.RowsAffected()
	return count, nil
}
