// Package sqlite implements store.Client on top of SQLite.
//
// DOCUMENTS IN A RELATIONAL FILE:
// Every collection lives in one table, `documents`, keyed by (collection, id).
// The body is a JSON text column. Filters and ordering use SQLite's built-in
// JSON functions, so json_extract(data, '$.createdAt') is the ordering key
// and json_patch merges batch updates into an existing body.
//
// WHY modernc.org/sqlite?
// It is a pure Go translation of SQLite: no C compiler, no CGo, and the JSON
// functions are compiled in.
//
// TIMEOUTS:
// Every call is bounded by Config.Timeout. A call that runs out of time fails
// with store.CodeDeadlineExceeded, which callers treat as retryable.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	driver "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/sakif/snippet-social/internal/store"
)

// DefaultTimeout bounds a single store call when Config.Timeout is zero.
const DefaultTimeout = 5 * time.Second

// Config configures the SQLite document store.
type Config struct {
	// Path examples:
	//   - "data/snippets.db" → file-based database (persistent)
	//   - ":memory:"         → in-memory database (tests)
	Path    string
	Timeout time.Duration
}

// DB is a store.Client and store.Writer backed by a sql.DB connection pool.
type DB struct {
	conn    *sql.DB
	timeout time.Duration
}

var (
	_ store.Client = (*DB)(nil)
	_ store.Writer = (*DB)(nil)
)

// New opens the database, applies pragmas, and runs migrations.
func New(cfg Config) (*DB, error) {
	conn, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Each connection to ":memory:" is its own empty database, so the pool
	// must never grow past one connection.
	if cfg.Path == ":memory:" {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA busy_timeout=1000"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting busy timeout: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	db := &DB{conn: conn, timeout: timeout}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping checks that the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	ctx, cancel := db.bound(ctx)
	defer cancel()

	if err := db.conn.PingContext(ctx); err != nil {
		return classify("ping", "", err)
	}
	return nil
}

// migrate creates the documents table and the indexes the feed and
// notification queries rely on.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS documents (
			collection TEXT NOT NULL,
			id         TEXT NOT NULL,
			data       TEXT NOT NULL CHECK (json_valid(data)),
			PRIMARY KEY (collection, id)
		);
	`)
	if err != nil {
		return fmt.Errorf("creating documents table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE INDEX IF NOT EXISTS idx_documents_user_created
			ON documents(collection, json_extract(data, '$.userHandle'), json_extract(data, '$.createdAt'));
		CREATE INDEX IF NOT EXISTS idx_documents_recipient_created
			ON documents(collection, json_extract(data, '$.recipient'), json_extract(data, '$.createdAt'));
	`)
	if err != nil {
		return fmt.Errorf("creating document indexes: %w", err)
	}

	return nil
}

// bound applies the per-call timeout.
func (db *DB) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, db.timeout)
}

// classify maps a database/sql or driver error to a *store.Error.
func classify(op, path string, err error) error {
	var se *store.Error
	if errors.As(err, &se) {
		return err
	}

	code := store.CodeInternal
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		code = store.CodeDeadlineExceeded
	case errors.Is(err, context.Canceled):
		code = store.CodeCancelled
	case errors.Is(err, sql.ErrConnDone), errors.Is(err, sql.ErrTxDone):
		code = store.CodeAborted
	default:
		var dErr *driver.Error
		if errors.As(err, &dErr) {
			switch dErr.Code() & 0xff {
			case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
				code = store.CodeUnavailable
			case sqlite3.SQLITE_CONSTRAINT:
				code = store.CodeInvalidArgument
			}
		}
	}

	return &store.Error{Code: code, Op: op, Path: path, Err: err}
}
