// Package load persists a cleaned catalog table into the relational store.
// Rows are mapped to typed records, inserted in batches under one transaction
// per batch, and the whole run is bracketed by an etl_logs entry. Rows that
// cannot be mapped are diverted to a skip log and do not fail the run.
package load

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"gamecatalog/internal/db"
	"gamecatalog/internal/domain"
	"gamecatalog/internal/runlog"
	"gamecatalog/internal/schema"
	"gamecatalog/internal/skiplog"
	"gamecatalog/internal/table"
)

const (
	// DefaultBatchSize matches the transaction granularity the pipeline was
	// tuned for: large enough to amortize commit cost, small enough that a
	// failed run leaves an inspectable prefix behind.
	DefaultBatchSize = 1000

	// DefaultProcessName labels etl_logs rows written by this loader.
	DefaultProcessName = "steam_games_etl"

	// progressEvery controls how often batch progress is logged.
	progressEvery = 5
)

// Loader writes cleaned rows to a destination table.
type Loader struct {
	dbh         db.DB
	dialect     schema.Dialect
	runs        *runlog.Store
	logger      *zap.Logger
	BatchSize   int
	ProcessName string
	SkipPath    string // empty disables the skip log file
}

// New builds a Loader with default batch size and process name.
func New(dbh db.DB, dialect schema.Dialect, logger *zap.Logger) *Loader {
	return &Loader{
		dbh:         dbh,
		dialect:     dialect,
		runs:        runlog.NewStore(dbh, dialect),
		logger:      logger,
		BatchSize:   DefaultBatchSize,
		ProcessName: DefaultProcessName,
	}
}

// Result summarizes one completed load.
type Result struct {
	RunID     string
	Processed int64          // rows mapped and handed to the insert path
	Skipped   int            // rows diverted to the skip log
	Batches   int            // transactions committed
	Reasons   map[string]int // skip counts by reason
}

// Load inserts every mappable row of t into tableName. Duplicate URLs are
// ignored by the insert statement and still count toward Processed. The
// etl_logs row for this run is marked COMPLETED or FAILED before Load returns.
func (l *Loader) Load(ctx context.Context, t *table.Table, tableName string) (*Result, error) {
	if t.Len() == 0 {
		return nil, fmt.Errorf("load: no rows to load")
	}
	batchSize := l.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	runID, err := l.runs.Start(ctx, l.ProcessName)
	if err != nil {
		return nil, err
	}

	res, err := l.loadRows(ctx, t, tableName, batchSize, runID)
	if err != nil {
		// Best effort: the original failure is what the caller needs to see.
		if ferr := l.runs.Fail(ctx, runID, err.Error()); ferr != nil {
			l.logger.Warn("run log update failed", zap.String("run_id", runID), zap.Error(ferr))
		}
		return nil, err
	}

	if err := l.runs.Complete(ctx, runID, res.Processed); err != nil {
		return nil, err
	}
	l.logger.Info("load complete",
		zap.String("run_id", runID),
		zap.String("table", tableName),
		zap.Int64("records_processed", res.Processed),
		zap.Int("skipped", res.Skipped),
		zap.Int("batches", res.Batches),
	)
	return res, nil
}

func (l *Loader) loadRows(ctx context.Context, t *table.Table, tableName string, batchSize int, runID string) (*Result, error) {
	var skips *skiplog.SkipLog
	if l.SkipPath != "" {
		var err error
		skips, err = skiplog.New(l.SkipPath)
		if err != nil {
			return nil, err
		}
		defer func() {
			if cerr := skips.Close(); cerr != nil {
				l.logger.Warn("skip log close failed", zap.Error(cerr))
			}
		}()
	}

	insertSQL := schema.InsertIgnoreSQL(l.dialect, tableName, domain.Columns())
	res := &Result{RunID: runID, Reasons: make(map[string]int)}
	totalBatches := (t.Len() + batchSize - 1) / batchSize

	for start := 0; start < t.Len(); start += batchSize {
		end := start + batchSize
		if end > t.Len() {
			end = t.Len()
		}

		tx, err := l.dbh.BeginTx(ctx)
		if err != nil {
			return nil, fmt.Errorf("load: begin batch %d: %w", res.Batches+1, err)
		}

		for i := start; i < end; i++ {
			g, err := domain.MapRow(t, i)
			if err != nil {
				res.Skipped++
				reason := skipReason(err)
				res.Reasons[reason]++
				url, _ := t.Cell(i, "url")
				name, _ := t.Cell(i, "name")
				if skips != nil {
					// +2: 1-based plus the header line of the source file.
					skips.Add(reason, i+2, url, name)
				}
				l.logger.Warn("row skipped",
					zap.Int("row", i),
					zap.String("reason", reason),
					zap.String("url", url),
				)
				continue
			}
			if err := tx.Exec(ctx, insertSQL, g.Values()...); err != nil {
				_ = tx.Rollback(ctx)
				return nil, fmt.Errorf("load: batch %d row %d (%s): %w", res.Batches+1, i, g.URL, err)
			}
			res.Processed++
		}

		if err := tx.Commit(ctx); err != nil {
			return nil, fmt.Errorf("load: commit batch %d: %w", res.Batches+1, err)
		}
		res.Batches++

		if res.Batches%progressEvery == 0 || res.Batches == totalBatches {
			l.logger.Info("batch committed",
				zap.Int("batch", res.Batches),
				zap.Int("total_batches", totalBatches),
				zap.Int64("records_processed", res.Processed),
			)
		}
	}
	return res, nil
}

func skipReason(err error) string {
	switch {
	case err == domain.ErrMissingURL:
		return "missing_url"
	case err == domain.ErrMissingName:
		return "missing_name"
	default:
		return "map_error"
	}
}

// ExportCSV writes the cleaned table to path, header first. A failure here is
// reported to the caller but is not meant to abort the pipeline.
func ExportCSV(t *table.Table, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("load: export dir %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("load: export %s: %w", path, err)
	}
	defer f.Close()

	if err := table.WriteCSV(f, t); err != nil {
		return fmt.Errorf("load: export %s: %w", path, err)
	}
	return nil
}
