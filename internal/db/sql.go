// This file contains the portable database/sql adapter used for engines
// without a dedicated native client: SQLite (modernc.org/sqlite, the default
// destination) and SQL Server (go-mssqldb). The adapter favors portability
// over engine-specific bulk paths, so batch inserts fall back to statements
// executed inside a transaction. SQLite keeps that fast enough for moderate
// volumes, and transactions bound the cost elsewhere.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/microsoft/go-mssqldb" // registers the "sqlserver" driver
	_ "modernc.org/sqlite"              // registers the "sqlite" driver
)

//
// =======================
//  Testability-first seams
// =======================
//
// sqlDBCore is kept compatible with *sql.DB (BeginTx returns *sql.Tx) so
// callers and tests can inject either a real *sql.DB or a light fake, no
// sockets required.
//

// sqlDBCore is the minimal subset of *sql.DB we use. It must match *sql.DB.
type sqlDBCore interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
	Close() error
}

//
// ===================
//  sqlDB (DB adapter)
// ===================
//

type sqlDB struct{ db sqlDBCore }

// NewSQLDB opens a database/sql connection for the given driver and pings to
// confirm connectivity. Supported drivers here: "sqlite" and "sqlserver".
func NewSQLDB(driver, dsn string) (DB, error) {
	d, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if err := d.Ping(); err != nil {
		_ = d.Close()
		return nil, err
	}
	return &sqlDB{db: d}, nil
}

// NewSqliteDB opens (and creates if missing) a SQLite database file. Foreign
// keys are enabled by default; the error is ignored if the pragma is not
// supported.
func NewSqliteDB(ctx context.Context, path string) (DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite: path must not be empty")
	}
	d, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := d.PingContext(pingCtx); err != nil {
		_ = d.Close()
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}
	_, _ = d.ExecContext(ctx, "PRAGMA foreign_keys = ON;")
	return &sqlDB{db: d}, nil
}

// Exec forwards a statement to the underlying database.
func (s *sqlDB) Exec(ctx context.Context, q string, args ...any) error {
	_, err := s.db.ExecContext(ctx, q, args...)
	return err
}

// Query forwards a query; *sql.Rows already satisfies the Rows interface.
func (s *sqlDB) Query(ctx context.Context, q string, args ...any) (Rows, error) {
	return s.db.QueryContext(ctx, q, args...)
}

// BeginTx starts a transaction and returns a Tx adapter.
func (s *sqlDB) BeginTx(ctx context.Context) (Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &sqlTx{tx: tx}, nil
}

// Close closes the underlying handle.
func (s *sqlDB) Close(ctx context.Context) error { return s.db.Close() }

//
// =====================
//  Transaction wrapper
// =====================
//

type sqlTx struct{ tx *sql.Tx }

func (t *sqlTx) Exec(ctx context.Context, q string, args ...any) error {
	_, err := t.tx.ExecContext(ctx, q, args...)
	return err
}

func (t *sqlTx) Commit(ctx context.Context) error   { return t.tx.Commit() }
func (t *sqlTx) Rollback(ctx context.Context) error { return t.tx.Rollback() }

//
// ==============================
//  Adapter Introspection Helpers
// ==============================
//

// AsSQLDB exposes the underlying *sql.DB when the adapter is database/sql
// backed. Used by tests and tooling that need driver-level access.
func AsSQLDB(d DB) (*sql.DB, bool) {
	s, ok := d.(*sqlDB)
	if !ok {
		return nil, false
	}
	real, ok := s.db.(*sql.DB)
	return real, ok
}

// newSQLDBFromCore constructs a sqlDB from a fake core.
// Used exclusively in unit tests.
func newSQLDBFromCore(c sqlDBCore) *sqlDB { return &sqlDB{db: c} }
