// Package migrations owns the schema of the persisted registrations table.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

//go:embed postgres/*.sql sqlite/*.sql
var files embed.FS

// Up applies every pending migration for dialect and returns how many ran.
func Up(ctx context.Context, db *sql.DB, dialect goose.Dialect) (int, error) {
	dir, err := dirFor(dialect)
	if err != nil {
		return 0, err
	}
	sub, err := fs.Sub(files, dir)
	if err != nil {
		return 0, fmt.Errorf("migrations fs: %w", err)
	}
	provider, err := goose.NewProvider(dialect, db, sub)
	if err != nil {
		return 0, fmt.Errorf("migrations provider: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return 0, fmt.Errorf("apply migrations: %w", err)
	}
	return len(results), nil
}

func dirFor(dialect goose.Dialect) (string, error) {
	switch dialect {
	case goose.DialectPostgres:
		return "postgres", nil
	case goose.DialectSQLite3:
		return "sqlite", nil
	default:
		return "", fmt.Errorf("unsupported dialect %q", dialect)
	}
}
