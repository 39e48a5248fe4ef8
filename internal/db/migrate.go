package db

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"market-quick-price/internal/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// newMigrator wraps conn in a migrate instance. The database is handed over
// as a connection, not a URL, so paths with spaces or '%' stay intact.
// Closing the migrator closes conn.
func newMigrator(conn *sql.DB) (*migrate.Migrate, error) {
	dir, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("migrations directory: %w", err)
	}
	src, err := iofs.New(dir, ".")
	if err != nil {
		return nil, fmt.Errorf("migrations source: %w", err)
	}
	driver, err := sqlite.WithInstance(conn, &sqlite.Config{})
	if err != nil {
		return nil, fmt.Errorf("migrate driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return nil, fmt.Errorf("migrate instance: %w", err)
	}
	return m, nil
}

// migrateUp applies pending migrations on a dedicated connection to path.
func migrateUp(path string) error {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}
	m, err := newMigrator(conn)
	if err != nil {
		conn.Close()
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("schema version: %w", err)
	}
	if dirty {
		return fmt.Errorf("schema version %d is dirty", version)
	}
	logger.Debug("DB", fmt.Sprintf("schema at version %d", version))
	return nil
}

// SchemaVersion returns the applied migration version.
func (d *DB) SchemaVersion() (uint, error) {
	var v uint
	err := d.sql.QueryRow("SELECT version FROM schema_migrations LIMIT 1").Scan(&v)
	if err != nil {
		return 0, fmt.Errorf("schema version: %w", err)
	}
	return v, nil
}
