package checkers

import (
	"context"
	"database/sql"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const pingTimeout = time.Second

type PostgresChecker struct {
	pool *pgxpool.Pool
}

func NewPostgresChecker(pool *pgxpool.Pool) *PostgresChecker {
	return &PostgresChecker{pool: pool}
}

func (c *PostgresChecker) Name() string { return "postgres" }

func (c *PostgresChecker) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return c.pool.Ping(ctx)
}

// SQLChecker pings a database/sql handle, used for the embedded SQLite store.
type SQLChecker struct {
	name string
	db   *sql.DB
}

func NewSQLChecker(name string, db *sql.DB) *SQLChecker {
	return &SQLChecker{name: name, db: db}
}

func (c *SQLChecker) Name() string { return c.name }

func (c *SQLChecker) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return c.db.PingContext(ctx)
}
