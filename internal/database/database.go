// Liftlog - Personal Workout Tracker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/liftlog

// Package database is the local table store for workout data.
//
// Two drivers are supported behind the same schema:
//
//   - duckdb: the default, embedded DuckDB (requires cgo; the driver is
//     registered by the binary, see cmd/liftlog)
//   - sqlite: modernc.org/sqlite, pure Go, used by tests and CGO-free builds
//
// All access goes through sqlx with struct tags from internal/models, so the
// same queries run on both engines. Bulk replacement (restore) happens inside
// a single transaction.
package database

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure Go sqlite driver

	"github.com/tomtom215/liftlog/internal/config"
	"github.com/tomtom215/liftlog/internal/logging"
)

// Driver names accepted in config.DatabaseConfig.Driver.
const (
	DriverDuckDB = "duckdb"
	DriverSQLite = "sqlite"
)

// ErrClosed is returned when the database has been closed explicitly.
var ErrClosed = errors.New("database is closed")

//nolint:gochecknoinits // sqlx has no built-in bindvar entry for duckdb
func init() {
	sqlx.BindDriver(DriverDuckDB, sqlx.QUESTION)
}

// DB wraps the sqlx connection pool.
type DB struct {
	conn *sqlx.DB
	cfg  *config.DatabaseConfig

	mu     sync.RWMutex
	closed bool
}

// New opens the database described by cfg and creates the schema.
func New(cfg *config.DatabaseConfig) (*DB, error) {
	db := &DB{cfg: cfg}
	if err := db.open(); err != nil {
		return nil, err
	}
	logging.Info().
		Str("driver", cfg.Driver).
		Str("path", cfg.Path).
		Msg("Database opened")
	return db, nil
}

// open connects and initializes the schema. Callers hold mu or own db.
func (db *DB) open() error {
	if !db.cfg.InMemory() {
		dir := filepath.Dir(db.cfg.Path)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return fmt.Errorf("failed to create database directory %s: %w", dir, err)
			}
		}
	}

	conn, err := sqlx.Open(db.cfg.Driver, db.dsn())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	configurePool(conn, db.cfg)

	ctx, cancel := schemaContext()
	defer cancel()

	if err := conn.PingContext(ctx); err != nil {
		closeQuietly(conn)
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := applyPragmas(ctx, conn, db.cfg); err != nil {
		closeQuietly(conn)
		return err
	}
	if err := createTables(ctx, conn); err != nil {
		closeQuietly(conn)
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	db.conn = conn
	return nil
}

func (db *DB) dsn() string {
	switch db.cfg.Driver {
	case DriverSQLite:
		if db.cfg.InMemory() {
			return ":memory:"
		}
		return db.cfg.Path
	default:
		path := db.cfg.Path
		if db.cfg.InMemory() {
			path = ""
		}
		if db.cfg.Threads > 0 {
			return fmt.Sprintf("%s?threads=%d", path, db.cfg.Threads)
		}
		return path
	}
}

// configurePool sizes the pool per driver. An in-memory sqlite database
// exists per connection, so it must be limited to one.
func configurePool(conn *sqlx.DB, cfg *config.DatabaseConfig) {
	if cfg.Driver == DriverSQLite {
		conn.SetMaxOpenConns(1)
		conn.SetMaxIdleConns(1)
		conn.SetConnMaxLifetime(0)
		return
	}
	conn.SetMaxIdleConns(2)
	conn.SetConnMaxIdleTime(5 * time.Minute)
}

func applyPragmas(ctx context.Context, conn *sqlx.DB, cfg *config.DatabaseConfig) error {
	if cfg.Driver != DriverSQLite {
		return nil
	}
	pragmas := []string{"PRAGMA busy_timeout = 5000"}
	if !cfg.InMemory() {
		pragmas = append(pragmas, "PRAGMA journal_mode = WAL")
	}
	for _, p := range pragmas {
		if _, err := conn.ExecContext(ctx, p); err != nil {
			return fmt.Errorf("failed to apply %q: %w", p, err)
		}
	}
	return nil
}

// EnsureOpen verifies the connection and reopens it once if the ping fails.
// An in-memory database loses its contents when reopened.
func (db *DB) EnsureOpen(ctx context.Context) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.closed {
		return ErrClosed
	}
	if db.conn != nil {
		err := db.conn.PingContext(ctx)
		if err == nil {
			return nil
		}
		logging.Warn().Err(err).Msg("Database ping failed, reconnecting")
		closeWithLog(db.conn, "database connection")
		db.conn = nil
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := db.open(); err != nil {
		return fmt.Errorf("reconnect failed: %w", err)
	}
	logging.Info().Str("driver", db.cfg.Driver).Msg("Database reconnected")
	return nil
}

// Driver returns the configured driver name.
func (db *DB) Driver() string {
	return db.cfg.Driver
}

// handle returns the live connection or ErrClosed.
func (db *DB) handle() (*sqlx.DB, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	if db.closed || db.conn == nil {
		return nil, ErrClosed
	}
	return db.conn, nil
}

// Close closes the connection pool. It is safe to call twice.
func (db *DB) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.closed {
		return nil
	}
	db.closed = true
	if db.conn == nil {
		return nil
	}
	if err := db.conn.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

func closeQuietly(c io.Closer) {
	_ = c.Close() //nolint:errcheck // best-effort cleanup on an error path
}

func closeWithLog(c io.Closer, what string) {
	if err := c.Close(); err != nil {
		logging.Warn().Err(err).Str("resource", what).Msg("Failed to close")
	}
}
