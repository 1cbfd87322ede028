// Copyright 2026 The Trackd Authors
// SPDX-License-Identifier: Apache-2.0

package sqlitepool

import (
	"context"
	"fmt"
	"log/slog"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// Config holds the parameters for opening a SQLite connection pool.
// Path is required; all other fields have defaults.
type Config struct {
	// Path is the filesystem path to the SQLite database file. The
	// parent directory must exist; the file is created if it does
	// not. Use ":memory:" with PoolSize 1 for an in-memory database
	// in tests (each in-memory connection is independent, so a
	// larger pool would see different databases).
	Path string

	// PoolSize is the number of connections in the pool. Defaults to
	// 4 if zero or negative. SQLite serializes writes regardless of
	// pool size; extra connections only help concurrent reads.
	PoolSize int

	// Logger receives operational messages (pool open/close). If
	// nil, a no-op logger is used.
	Logger *slog.Logger

	// OnConnect runs once per connection after the standard pragmas.
	// Stores use it for schema creation. An OnConnect error discards
	// the connection and surfaces from Take.
	OnConnect func(conn *sqlite.Conn) error
}

// Pool is a fixed-size pool of SQLite connections. Safe for
// concurrent use; the connections it hands out are not.
type Pool struct {
	inner  *sqlitex.Pool
	logger *slog.Logger
	path   string
}

// Open creates the pool. Connections are initialized lazily on first
// Take. The caller must Close the pool when done.
func Open(cfg Config) (*Pool, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("sqlitepool: Path is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	poolSize := cfg.PoolSize
	if poolSize <= 0 {
		poolSize = 4
	}

	inner, err := sqlitex.NewPool(cfg.Path, sqlitex.PoolOptions{
		PoolSize: poolSize,
		PrepareConn: func(conn *sqlite.Conn) error {
			return prepareConnection(conn, cfg.OnConnect)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("sqlitepool: opening %s: %w", cfg.Path, err)
	}

	logger.Info("sqlite pool opened", "path", cfg.Path, "pool_size", poolSize)

	return &Pool{inner: inner, logger: logger, path: cfg.Path}, nil
}

// Take borrows a connection. Blocks until one is available or ctx is
// cancelled. The caller must Put the connection back, typically via
// defer.
func (p *Pool) Take(ctx context.Context) (*sqlite.Conn, error) {
	conn, err := p.inner.Take(ctx)
	if err != nil {
		return nil, fmt.Errorf("sqlitepool: take: %w", err)
	}
	return conn, nil
}

// Put returns a connection to the pool. Safe to call with nil.
func (p *Pool) Put(conn *sqlite.Conn) {
	p.inner.Put(conn)
}

// Close closes all connections. Blocks until borrowed connections are
// returned; after Close, Take returns an error.
func (p *Pool) Close() error {
	if err := p.inner.Close(); err != nil {
		p.logger.Error("sqlite pool close error", "path", p.path, "error", err)
		return fmt.Errorf("sqlitepool: closing %s: %w", p.path, err)
	}
	p.logger.Info("sqlite pool closed", "path", p.path)
	return nil
}

// prepareConnection applies the standard pragmas and then the
// optional OnConnect callback. Runs once per pooled connection.
func prepareConnection(conn *sqlite.Conn, onConnect func(*sqlite.Conn) error) error {
	// WAL: concurrent readers, single writer, no reader blocking.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA temp_store=MEMORY",
	}

	for _, pragma := range pragmas {
		if err := sqlitex.ExecuteTransient(conn, pragma, nil); err != nil {
			return fmt.Errorf("sqlitepool: %s: %w", pragma, err)
		}
	}

	if onConnect != nil {
		if err := onConnect(conn); err != nil {
			return fmt.Errorf("sqlitepool: OnConnect: %w", err)
		}
	}

	return nil
}
