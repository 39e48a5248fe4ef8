package db

import (
	"encoding/json"
	"strconv"

	"market-quick-price/internal/config"
)

// Keys persisted in the settings table. Connection settings (base_url, db_path,
// items_file) only come from the config file and environment.
const (
	keyDefaultWorld    = "default_world"
	keyCurrentWorld    = "current_world"
	keyPreferredWorlds = "preferred_worlds"
	keyCooldown        = "cooldown_seconds"
	keyHistoryCapacity = "history_capacity"
)

// LoadSettings overlays persisted settings onto cfg. Missing or unreadable
// keys leave the file/env value in place.
func (d *DB) LoadSettings(cfg *config.Config) error {
	rows, err := d.sql.Query("SELECT key, value FROM settings")
	if err != nil {
		return err
	}
	defer rows.Close()

	m := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return err
		}
		m[k] = v
	}
	if err := rows.Err(); err != nil {
		return err
	}

	if v, ok := m[keyDefaultWorld]; ok {
		cfg.DefaultWorld = v
	}
	if v, ok := m[keyCurrentWorld]; ok {
		cfg.CurrentWorld = v
	}
	if v, ok := m[keyPreferredWorlds]; ok {
		var worlds []string
		if json.Unmarshal([]byte(v), &worlds) == nil {
			cfg.PreferredWorlds = worlds
		}
	}
	if v, ok := m[keyCooldown]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.CooldownSeconds = n
		}
	}
	if v, ok := m[keyHistoryCapacity]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.HistoryCapacity = n
		}
	}
	cfg.Normalize()
	return nil
}

// SaveSettings writes the user-adjustable settings (upsert all keys).
func (d *DB) SaveSettings(cfg *config.Config) error {
	worlds := "[]"
	if len(cfg.PreferredWorlds) > 0 {
		if b, err := json.Marshal(cfg.PreferredWorlds); err == nil {
			worlds = string(b)
		}
	}
	pairs := map[string]string{
		keyDefaultWorld:    cfg.DefaultWorld,
		keyCurrentWorld:    cfg.CurrentWorld,
		keyPreferredWorlds: worlds,
		keyCooldown:        strconv.Itoa(cfg.CooldownSeconds),
		keyHistoryCapacity: strconv.Itoa(cfg.HistoryCapacity),
	}

	tx, err := d.sql.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare("INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)")
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for k, v := range pairs {
		if _, err := stmt.Exec(k, v); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}
