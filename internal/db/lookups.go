package db

import (
	"database/sql"
	"fmt"
	"time"

	"market-quick-price/internal/engine"
)

// LookupRecord is one row of the lookup log.
type LookupRecord struct {
	ID         int64     `json:"id"`
	LookedUpAt time.Time `json:"looked_up_at"`
	ItemID     uint32    `json:"item_id"`
	ItemName   string    `json:"item_name"`
	World      string    `json:"world"`
	Lowest     int64     `json:"lowest"`
	Listings   int       `json:"listings"`
	Quantity   int       `json:"quantity"`
	Sold24h    int       `json:"sold_24h"`
	Sales24h   int       `json:"sales_24h"`
	Scope      string    `json:"scope"`
}

// RecordLookup appends a successful lookup to the log. It satisfies engine.LookupLog.
func (d *DB) RecordLookup(r engine.MarketResult, scope engine.LookupScope, at time.Time) error {
	_, err := d.sql.Exec(
		`INSERT INTO lookups (looked_up_at, item_id, item_name, world, lowest, listings, quantity, sold_24h, sales_24h, scope)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		at.UTC().Format(time.RFC3339), r.ItemID, r.ItemName, r.World, r.Lowest,
		r.TotalListings, r.TotalListedQuantity, r.DaySalesQuantity, r.DaySalesCount, scope.Describe(),
	)
	if err != nil {
		return fmt.Errorf("insert lookup: %w", err)
	}
	return nil
}

// GetLookups returns the last N lookups (newest first).
func (d *DB) GetLookups(limit int) ([]LookupRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := d.sql.Query(
		`SELECT id, looked_up_at, item_id, item_name, world, lowest, listings, quantity, sold_24h, sales_24h, scope
		 FROM lookups ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query lookups: %w", err)
	}
	defer rows.Close()

	records := []LookupRecord{}
	for rows.Next() {
		var r LookupRecord
		var ts string
		if err := rows.Scan(&r.ID, &ts, &r.ItemID, &r.ItemName, &r.World, &r.Lowest,
			&r.Listings, &r.Quantity, &r.Sold24h, &r.Sales24h, &r.Scope); err != nil {
			return nil, fmt.Errorf("scan lookup: %w", err)
		}
		r.LookedUpAt, _ = time.Parse(time.RFC3339, ts)
		records = append(records, r)
	}
	return records, rows.Err()
}

// CountLookups returns how many lookups have been logged for itemID (all items when 0).
func (d *DB) CountLookups(itemID uint32) (int, error) {
	var n int
	var err error
	if itemID == 0 {
		err = d.sql.QueryRow("SELECT COUNT(*) FROM lookups").Scan(&n)
	} else {
		err = d.sql.QueryRow("SELECT COUNT(*) FROM lookups WHERE item_id = ?", itemID).Scan(&n)
	}
	return n, err
}

// ClearLookups deletes log rows older than the given number of days (all rows when days <= 0).
func (d *DB) ClearLookups(olderThanDays int) (int64, error) {
	var (
		res sql.Result
		err error
	)
	if olderThanDays <= 0 {
		res, err = d.sql.Exec("DELETE FROM lookups")
	} else {
		cutoff := time.Now().UTC().AddDate(0, 0, -olderThanDays).Format(time.RFC3339)
		res, err = d.sql.Exec("DELETE FROM lookups WHERE looked_up_at < ?", cutoff)
	}
	if err != nil {
		return 0, fmt.Errorf("clear lookups: %w", err)
	}
	return res.RowsAffected()
}
