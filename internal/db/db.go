// Package db provides database adapter implementations behind small DB and Tx
// interfaces: a native pgx adapter for Postgres and a portable database/sql
// adapter used for SQLite and SQL Server. Callers pick an adapter per run via
// configuration; the pipeline itself never sees driver types.
package db

import "context"

// DB is a connection capable of executing DDL/DML, running queries, and
// starting transactions. One connection is opened per high-level call; there
// is no pooling and no coordination of concurrent writers.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) error
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	BeginTx(ctx context.Context) (Tx, error)
	Close(ctx context.Context) error
}

// Tx supports statement execution and lifecycle. Batch inserts run row-by-row
// inside one transaction; commit granularity is the loader's concern.
type Tx interface {
	Exec(ctx context.Context, sql string, args ...any) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Rows is the minimal row iterator shared by pgx and database/sql results.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}
