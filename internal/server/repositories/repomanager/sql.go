// Package repomanager provides the RepositoryManager for the supported SQL
// backends (PostgreSQL via pgx and embedded SQLite), wiring together
// repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/dmitrijs2005/eatery/internal/dbx"
	"github.com/dmitrijs2005/eatery/internal/server/migrations"
	"github.com/dmitrijs2005/eatery/internal/server/repositories/users"
	"github.com/dmitrijs2005/eatery/internal/server/repositories/verifications"
	"github.com/pressly/goose/v3"
)

// SQLRepositoryManager vends SQL-backed repository implementations and
// exposes a schema migration hook for its dialect.
type SQLRepositoryManager struct {
	driver  Driver
	dialect goose.Dialect
}

// Users returns a users.Repository bound to the provided DBTX.
func (m *SQLRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLRepository(db)
}

// Verifications returns a verifications.Repository bound to the provided DBTX.
func (m *SQLRepositoryManager) Verifications(db dbx.DBTX) verifications.Repository {
	return verifications.NewSQLRepository(db)
}

// gooseUp is a seam for testing the goose provider run.
var gooseUp = func(ctx context.Context, dialect goose.Dialect, db *sql.DB, fsys fs.FS) error {
	p, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return err
	}
	_, err = p.Up(ctx)
	return err
}

// RunMigrations applies the embedded migrations of the manager's dialect.
func (m *SQLRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	fsys, err := migrations.ForDialect(string(m.driver))
	if err != nil {
		return err
	}
	if err := gooseUp(ctx, m.dialect, db, fsys); err != nil {
		return fmt.Errorf("migrate %s: %w", m.driver, err)
	}
	return nil
}

// NewRepositoryManager constructs the RepositoryManager for driver.
func NewRepositoryManager(driver Driver) (RepositoryManager, error) {
	var dialect goose.Dialect
	switch driver {
	case DriverPostgres:
		dialect = goose.DialectPostgres
	case DriverSQLite:
		dialect = goose.DialectSQLite3
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	return &SQLRepositoryManager{driver: driver, dialect: dialect}, nil
}
