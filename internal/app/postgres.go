package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver for database/sql

	"github.com/guttosm/spotpulse/config"
)

const (
	maxOpenConns    = 10
	maxIdleConns    = 5
	connMaxLifetime = 30 * time.Minute
	pingTimeout     = 5 * time.Second
)

// sqlOpener is an indirection for unit testing; defaults to sql.Open
var sqlOpener = sql.Open

// postgresOpener is an indirection used by InitializeApp and OpenDatabase;
// overridden in tests to avoid real connections.
var postgresOpener = InitPostgres

// InitPostgres opens a PostgreSQL pool from cfg.Postgres and verifies it with
// a bounded ping.
//
// Returns:
//   - *sql.DB: an open database connection pool (safe for concurrent use).
//   - error: if opening or pinging the database fails.
func InitPostgres(cfg config.Config) (*sql.DB, error) {
	db, err := sqlOpener("postgres", cfg.Postgres.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	return db, nil
}

// OpenDatabase connects and migrates, for the modes that write or export
// without serving HTTP.
func OpenDatabase(cfg config.Config) (*sql.DB, error) {
	db, err := postgresOpener(cfg)
	if err != nil {
		return nil, err
	}
	if err := migrator(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}
	return db, nil
}
