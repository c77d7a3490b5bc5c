// Package runlog persists one etl_logs row per pipeline invocation: created
// STARTED at run begin, updated exactly once at run end (COMPLETED or FAILED),
// never deleted. Rows are keyed by a run UUID rather than the engine's
// last-insert-id so the update path is identical across dialects.
package runlog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"gamecatalog/internal/db"
	"gamecatalog/internal/schema"
)

// Status values for an etl_logs row.
const (
	StatusStarted   = "STARTED"
	StatusCompleted = "COMPLETED"
	StatusFailed    = "FAILED"
)

// Entry is one run-log row.
type Entry struct {
	RunID            string
	ProcessName      string
	StartTime        time.Time
	EndTime          *time.Time
	Status           string
	RecordsProcessed int64
	ErrorMessage     *string
}

// Store reads and writes etl_logs rows over an open connection.
type Store struct {
	dbh     db.DB
	dialect schema.Dialect
	now     func() time.Time // test seam
}

// NewStore binds a Store to a connection.
func NewStore(dbh db.DB, dialect schema.Dialect) *Store {
	return &Store{dbh: dbh, dialect: dialect, now: time.Now}
}

// Start opens a run-log entry with status STARTED and zero records processed,
// returning the fresh run ID used by Complete or Fail later.
func (s *Store) Start(ctx context.Context, processName string) (string, error) {
	runID := uuid.NewString()
	q := fmt.Sprintf(
		"INSERT INTO etl_logs (run_id, process_name, start_time, status, records_processed) VALUES (%s)",
		schema.Placeholders(s.dialect, 5),
	)
	if err := s.dbh.Exec(ctx, q, runID, processName, s.now().UTC(), StatusStarted, int64(0)); err != nil {
		return "", fmt.Errorf("runlog: start: %w", err)
	}
	return runID, nil
}

// Complete marks the run COMPLETED with its end timestamp and final count.
func (s *Store) Complete(ctx context.Context, runID string, records int64) error {
	q := fmt.Sprintf(
		"UPDATE etl_logs SET end_time = %s, status = %s, records_processed = %s WHERE run_id = %s",
		schema.Placeholder(s.dialect, 1),
		schema.Placeholder(s.dialect, 2),
		schema.Placeholder(s.dialect, 3),
		schema.Placeholder(s.dialect, 4),
	)
	if err := s.dbh.Exec(ctx, q, s.now().UTC(), StatusCompleted, records, runID); err != nil {
		return fmt.Errorf("runlog: complete: %w", err)
	}
	return nil
}

// Fail marks the run FAILED and records the error text. Callers treat this as
// best-effort: a failure here must not mask the original load error.
func (s *Store) Fail(ctx context.Context, runID, message string) error {
	q := fmt.Sprintf(
		"UPDATE etl_logs SET end_time = %s, status = %s, error_message = %s WHERE run_id = %s",
		schema.Placeholder(s.dialect, 1),
		schema.Placeholder(s.dialect, 2),
		schema.Placeholder(s.dialect, 3),
		schema.Placeholder(s.dialect, 4),
	)
	if err := s.dbh.Exec(ctx, q, s.now().UTC(), StatusFailed, message, runID); err != nil {
		return fmt.Errorf("runlog: fail: %w", err)
	}
	return nil
}

// Recent returns the newest limit entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 10
	}
	cols := "run_id, process_name, start_time, end_time, status, records_processed, error_message"
	var q string
	if s.dialect == schema.SQLServer {
		q = fmt.Sprintf("SELECT TOP %d %s FROM etl_logs ORDER BY log_id DESC", limit, cols)
	} else {
		q = fmt.Sprintf("SELECT %s FROM etl_logs ORDER BY log_id DESC LIMIT %d", cols, limit)
	}

	rows, err := s.dbh.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("runlog: recent: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e      Entry
			endDt  sql.NullTime
			errMsg sql.NullString
		)
		if err := rows.Scan(&e.RunID, &e.ProcessName, &e.StartTime, &endDt, &e.Status, &e.RecordsProcessed, &errMsg); err != nil {
			return nil, fmt.Errorf("runlog: scan: %w", err)
		}
		if endDt.Valid {
			t := endDt.Time
			e.EndTime = &t
		}
		if errMsg.Valid {
			m := errMsg.String
			e.ErrorMessage = &m
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
