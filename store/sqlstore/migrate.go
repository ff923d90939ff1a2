package sqlstore

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// runMigrations applies every pending migration.
//
// SQLite runs on the store's own connection so that ":memory:" databases
// see the schema; the migrate instance is not closed because that would
// close the shared *sql.DB. PostgreSQL gets a dedicated connection that is
// closed afterwards.
func runMigrations(db *sql.DB, dialect Dialect, dsn string) error {
	var (
		driver database.Driver
		err    error
		owned  bool
	)
	switch dialect {
	case DialectSQLite:
		driver, err = sqlite3.WithInstance(db, &sqlite3.Config{})
		if err != nil {
			return fmt.Errorf("create sqlite3 driver: %w", err)
		}
	case DialectPostgres:
		migrateDB, err := sql.Open(string(DialectPostgres), dsn)
		if err != nil {
			return fmt.Errorf("open migration database: %w", err)
		}
		driver, err = postgres.WithInstance(migrateDB, &postgres.Config{})
		if err != nil {
			migrateDB.Close()
			return fmt.Errorf("create postgres driver: %w", err)
		}
		owned = true
	default:
		return fmt.Errorf("unsupported dialect %q", dialect)
	}

	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, string(dialect), driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	if owned {
		defer m.Close()
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}
