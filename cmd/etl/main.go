// Command etl runs the catalog pipeline end to end: schema init, CSV extract,
// cleaning, cleaned-CSV export, and batch load, in that order. Any stage
// failure aborts the run and the process exits non-zero.
//
// Design goals:
//   - Keep main() tiny and delegate to run() for testability.
//   - Avoid hidden globals and make behavior obvious from Deps.
//   - Prefer explicit, readable control flow over cleverness.
package main

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"gamecatalog/internal/config"
	"gamecatalog/internal/db"
	"gamecatalog/internal/extract"
	"gamecatalog/internal/load"
	"gamecatalog/internal/runlog"
	"gamecatalog/internal/schema"
	"gamecatalog/internal/table"
	"gamecatalog/internal/transform"
)

// Deps holds injectable dependencies so run() is fully testable. Each field
// represents a boundary that would otherwise be hard-coded in main(). In
// tests, we pass fakes here; in production, defaultDeps() provides real funcs.
type Deps struct {
	// Constructors (DB adapters)
	NewPgDB     func(ctx context.Context, dsn string) (db.DB, error)
	NewSqliteDB func(ctx context.Context, path string) (db.DB, error)
	NewSQLDB    func(driver, dsn string) (db.DB, error)

	// Pipeline stages
	EnsureSchema func(ctx context.Context, dbh db.DB, dialect schema.Dialect, reset bool, logger *zap.Logger) error
	Extract      func(path string, logger *zap.Logger) (*table.Table, error)
	Clean        func(t *table.Table, logger *zap.Logger) *table.Table
	Export       func(t *table.Table, path string) error
	Load         func(ctx context.Context, dbh db.DB, dialect schema.Dialect, t *table.Table, cfg *config.Config, logger *zap.Logger) (*load.Result, error)
}

// defaultDeps wires production implementations. Tests should inject fakes.
func defaultDeps() Deps {
	return Deps{
		NewPgDB:     db.NewPgDB,
		NewSqliteDB: db.NewSqliteDB,
		NewSQLDB:    db.NewSQLDB,

		EnsureSchema: func(ctx context.Context, dbh db.DB, dialect schema.Dialect, reset bool, logger *zap.Logger) error {
			in := schema.NewInitializer(dbh, dialect, logger)
			if reset {
				return in.Reset(ctx)
			}
			return in.Ensure(ctx)
		},
		Extract: func(path string, logger *zap.Logger) (*table.Table, error) {
			return extract.New(path, logger).Extract()
		},
		Clean: func(t *table.Table, logger *zap.Logger) *table.Table {
			return transform.New(logger).Clean(t)
		},
		Export: load.ExportCSV,
		Load: func(ctx context.Context, dbh db.DB, dialect schema.Dialect, t *table.Table, cfg *config.Config, logger *zap.Logger) (*load.Result, error) {
			l := load.New(dbh, dialect, logger)
			if cfg.BatchSize > 0 {
				l.BatchSize = cfg.BatchSize
			}
			l.SkipPath = cfg.SkipCSV
			return l.Load(ctx, t, cfg.TableName)
		},
	}
}

// openDB picks the adapter for the configured driver.
func openDB(ctx context.Context, cfg *config.Config, deps Deps) (db.DB, error) {
	switch cfg.DBDriver {
	case "sqlite", "":
		return deps.NewSqliteDB(ctx, cfg.DBPath)
	case "postgres", "pg":
		return deps.NewPgDB(ctx, cfg.PostgresDSN())
	case "sqlserver", "mssql":
		if cfg.DSN == "" {
			return nil, fmt.Errorf("--dsn required for sqlserver")
		}
		return deps.NewSQLDB("sqlserver", cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported --db_driver=%q", cfg.DBDriver)
	}
}

// run executes the pipeline given a config and injected Deps. Stages are
// strictly sequential; the first error wins. The cleaned-CSV export is the
// one soft spot: its failure is logged but does not abort the load.
func run(ctx context.Context, cfg *config.Config, deps Deps, logger *zap.Logger) error {
	dialect, err := schema.ParseDialect(cfg.DBDriver)
	if err != nil {
		return err
	}

	dbh, err := openDB(ctx, cfg, deps)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if cerr := dbh.Close(ctx); cerr != nil {
			logger.Warn("close database", zap.Error(cerr))
		}
	}()

	if err := deps.EnsureSchema(ctx, dbh, dialect, cfg.Reset, logger); err != nil {
		return fmt.Errorf("schema init failed: %w", err)
	}

	raw, err := deps.Extract(cfg.InputCSV, logger)
	if err != nil {
		return fmt.Errorf("extract failed: %w", err)
	}
	logger.Info("extracted", zap.Int("rows", raw.Len()), zap.Int("columns", len(raw.Columns())))

	cleaned := deps.Clean(raw, logger)
	logger.Info("cleaned", zap.Int("rows", cleaned.Len()))

	if cfg.CleanCSV != "" {
		if err := deps.Export(cleaned, cfg.CleanCSV); err != nil {
			logger.Warn("cleaned csv export failed", zap.String("path", cfg.CleanCSV), zap.Error(err))
		}
	}

	res, err := deps.Load(ctx, dbh, dialect, cleaned, cfg, logger)
	if err != nil {
		return fmt.Errorf("load failed: %w", err)
	}

	printSummary(ctx, dbh, dialect, res, logger)
	return nil
}

// printSummary reports destination table counts and the latest run-log rows.
// It runs after a successful load, so failures here are only warnings.
func printSummary(ctx context.Context, dbh db.DB, dialect schema.Dialect, res *load.Result, logger *zap.Logger) {
	counts, err := schema.TableCounts(ctx, dbh)
	if err != nil {
		logger.Warn("table counts unavailable", zap.Error(err))
	} else {
		for _, tbl := range schema.Tables {
			logger.Info("table count", zap.String("table", tbl), zap.Int64("rows", counts[tbl]))
		}
	}

	runs, err := runlog.NewStore(dbh, dialect).Recent(ctx, 5)
	if err != nil {
		logger.Warn("run history unavailable", zap.Error(err))
		return
	}
	for _, r := range runs {
		fields := []zap.Field{
			zap.String("run_id", r.RunID),
			zap.String("status", r.Status),
			zap.Int64("records_processed", r.RecordsProcessed),
			zap.Time("start_time", r.StartTime),
		}
		if r.ErrorMessage != nil {
			fields = append(fields, zap.String("error", *r.ErrorMessage))
		}
		logger.Info("recent run", fields...)
	}

	if res.Skipped > 0 {
		logger.Info("skipped rows", zap.Int("total", res.Skipped), zap.Any("reasons", res.Reasons))
	}
}

// newLogger builds the process logger from the configured encoding.
func newLogger(format string) (*zap.Logger, error) {
	if format == "json" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// main is intentionally tiny. It loads config, builds real deps, and runs.
// Any error is fatal; we log once and exit non-zero.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logger, err := newLogger(cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(context.Background(), cfg, defaultDeps(), logger); err != nil {
		logger.Fatal("pipeline failed", zap.Error(err))
	}
}
