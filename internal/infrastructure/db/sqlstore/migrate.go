package sqlstore

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/clientops/hub/internal/infrastructure/db/sqlstore/migrations"
)

// ApplyMigrations brings the schema up to date using the migrations embedded
// for the store's dialect.
func (s *Store) ApplyMigrations() error {
	var (
		driver database.Driver
		files  fs.FS
		dir    string
		err    error
	)

	switch s.db.DriverName() {
	case DriverSQLite:
		driver, err = sqlite.WithInstance(s.db.DB, &sqlite.Config{})
		files, dir = migrations.SQLite, "sqlite"
	case DriverPostgres:
		driver, err = postgres.WithInstance(s.db.DB, &postgres.Config{})
		files, dir = migrations.Postgres, "postgres"
	default:
		return fmt.Errorf("migrate: unsupported driver %q", s.db.DriverName())
	}
	if err != nil {
		return fmt.Errorf("migrate driver: %w", err)
	}

	source, err := iofs.New(files, dir)
	if err != nil {
		return fmt.Errorf("migrate source: %w", err)
	}

	// The instance is not closed: closing it would close the shared *sql.DB.
	instance, err := migrate.NewWithInstance("iofs", source, dir, driver)
	if err != nil {
		return fmt.Errorf("migrate init: %w", err)
	}

	if err := instance.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}
