// This file contains the Postgres adapter, which wraps pgx.Conn/pgx.Tx while
// remaining testable via lightweight seams.
//
// Design goals:
//   - Allow mocking via the pgConnLike interface (for hermetic unit tests).
//   - Keep behavior minimal and predictable: no implicit retries.
//   - Surface errors directly; avoid wrapping for clarity.
//   - Maintain parity with the portable database/sql adapter where possible.
package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

//
// ===========================
//  Interface seam for testing
// ===========================
//
// pgConnLike defines the minimal subset of methods used from *pgx.Conn.
// This seam allows injecting a test double that mimics *pgx.Conn behavior,
// enabling hermetic (non-networked) testing of the adapter.
//

type pgConnLike interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Close(ctx context.Context) error
}

//
// ===============
//  Core pgDB type
// ===============
//
// pgDB is the concrete Postgres adapter implementing the DB interface. It is
// intentionally minimal: it wraps Exec, Query, BeginTx, and Close around
// pgx.Conn (via pgConnLike), making it production-usable and trivially
// testable using a fake connection.
//

type pgDB struct{ conn pgConnLike }

// NewPgDB connects to Postgres using pgx.Connect and wraps the connection
// in a pgDB. Callers are responsible for closing it via Close().
func NewPgDB(ctx context.Context, dsn string) (DB, error) {
	c, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &pgDB{conn: c}, nil
}

// Exec delegates to pgx.Conn.Exec, executing the provided SQL statement
// with the given arguments. It returns only the error for simplicity.
func (p *pgDB) Exec(ctx context.Context, q string, args ...any) error {
	_, err := p.conn.Exec(ctx, q, args...)
	return err
}

// Query delegates to pgx.Conn.Query and wraps the result so it satisfies the
// shared Rows interface (pgx.Rows.Close returns nothing).
func (p *pgDB) Query(ctx context.Context, q string, args ...any) (Rows, error) {
	rows, err := p.conn.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	return pgRows{rows: rows}, nil
}

// BeginTx starts a transaction by calling pgx.Conn.Begin.
// It returns a pgTx wrapper that satisfies the Tx interface.
func (p *pgDB) BeginTx(ctx context.Context) (Tx, error) {
	tx, err := p.conn.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &pgTx{tx: tx}, nil
}

// Close closes the underlying connection.
func (p *pgDB) Close(ctx context.Context) error {
	return p.conn.Close(ctx)
}

//
// =====================
//  Transaction wrapper
// =====================
//

// pgTx wraps pgx.Tx to implement our Tx interface.
type pgTx struct {
	tx pgx.Tx
}

// Exec executes a SQL statement within the current transaction context.
// It discards the returned CommandTag, returning only error.
func (t *pgTx) Exec(ctx context.Context, q string, args ...any) error {
	_, err := t.tx.Exec(ctx, q, args...)
	return err
}

// Commit commits the active transaction.
func (t *pgTx) Commit(ctx context.Context) error { return t.tx.Commit(ctx) }

// Rollback aborts the active transaction.
func (t *pgTx) Rollback(ctx context.Context) error { return t.tx.Rollback(ctx) }

//
// ==============
//  Rows wrapper
// ==============
//

// pgRows adapts pgx.Rows to the shared Rows interface.
type pgRows struct{ rows pgx.Rows }

func (r pgRows) Next() bool             { return r.rows.Next() }
func (r pgRows) Scan(dest ...any) error { return r.rows.Scan(dest...) }
func (r pgRows) Err() error             { return r.rows.Err() }
func (r pgRows) Close() error           { r.rows.Close(); return nil }

//
// =======================
//  Test-only constructors
// =======================
//

// newPgDBFromConn constructs a pgDB from a pgConnLike fake.
// Used exclusively in unit tests.
func newPgDBFromConn(c pgConnLike) *pgDB { return &pgDB{conn: c} }
