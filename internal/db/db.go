package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"market-quick-price/internal/logger"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection.
type DB struct {
	sql  *sql.DB
	path string
}

// Open opens (or creates) the SQLite database at path and applies pending migrations.
func Open(path string) (*DB, error) {
	if path == "" {
		return nil, fmt.Errorf("open db: empty path")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	if err := migrateUp(path); err != nil {
		return nil, fmt.Errorf("migrate db: %w", err)
	}

	sqlDB, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	logger.Success("DB", fmt.Sprintf("Opened %s", path))
	return &DB{sql: sqlDB, path: path}, nil
}

// Path returns the database file path.
func (d *DB) Path() string {
	return d.path
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.sql.Close()
}
