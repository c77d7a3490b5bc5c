package schema

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"gamecatalog/internal/db"
)

// Tables lists the five destination tables in creation order.
var Tables = []string{"games", "developers", "publishers", "genres", "etl_logs"}

// Initializer ensures the destination schema exists. It is idempotent:
// repeated Ensure calls are no-ops when the tables are already present.
type Initializer struct {
	dbh     db.DB
	dialect Dialect
	logger  *zap.Logger
}

// NewInitializer binds an Initializer to an open connection.
func NewInitializer(dbh db.DB, dialect Dialect, logger *zap.Logger) *Initializer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Initializer{dbh: dbh, dialect: dialect, logger: logger}
}

// Ensure creates the five tables and their indexes if absent. The first DDL
// error aborts initialization; no partial-table cleanup is attempted.
func (in *Initializer) Ensure(ctx context.Context) error {
	for _, stmt := range ddl(in.dialect) {
		if err := in.dbh.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("schema: create: %w", err)
		}
	}
	in.logger.Info("schema ensured", zap.String("dialect", string(in.dialect)))
	return nil
}

// Reset drops all existing tables (sparing engine-internal sequence tables)
// and recreates the schema from scratch.
func (in *Initializer) Reset(ctx context.Context) error {
	if err := in.dropAll(ctx); err != nil {
		return fmt.Errorf("schema: reset: %w", err)
	}
	in.logger.Info("dropped existing tables", zap.String("dialect", string(in.dialect)))
	return in.Ensure(ctx)
}

// dropAll removes the destination tables. For SQLite the list is discovered
// from sqlite_master so stale tables from older runs disappear too; other
// engines drop the known five.
func (in *Initializer) dropAll(ctx context.Context) error {
	if in.dialect == SQLite {
		names, err := in.sqliteTableNames(ctx)
		if err != nil {
			return err
		}
		for _, name := range names {
			if err := in.dbh.Exec(ctx, "DROP TABLE IF EXISTS "+name); err != nil {
				return fmt.Errorf("drop %s: %w", name, err)
			}
		}
		return nil
	}

	for i := len(Tables) - 1; i >= 0; i-- {
		name := Tables[i]
		var stmt string
		switch in.dialect {
		case Postgres:
			stmt = "DROP TABLE IF EXISTS " + name + " CASCADE"
		case SQLServer:
			stmt = fmt.Sprintf("IF OBJECT_ID(N'%s', N'U') IS NOT NULL DROP TABLE %s", name, name)
		}
		if err := in.dbh.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("drop %s: %w", name, err)
		}
	}
	return nil
}

func (in *Initializer) sqliteTableNames(ctx context.Context) ([]string, error) {
	rows, err := in.dbh.Query(ctx,
		"SELECT name FROM sqlite_master WHERE type='table' AND name != 'sqlite_sequence'")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// TableCounts returns the row count per destination table, for the post-run
// summary. A missing table surfaces as a query error.
func TableCounts(ctx context.Context, dbh db.DB) (map[string]int64, error) {
	counts := make(map[string]int64, len(Tables))
	for _, tbl := range Tables {
		rows, err := dbh.Query(ctx, "SELECT COUNT(*) FROM "+tbl)
		if err != nil {
			return nil, fmt.Errorf("count %s: %w", tbl, err)
		}
		var n int64
		if rows.Next() {
			if err := rows.Scan(&n); err != nil {
				rows.Close()
				return nil, fmt.Errorf("count %s: %w", tbl, err)
			}
		}
		if err := rows.Close(); err != nil {
			return nil, err
		}
		counts[tbl] = n
	}
	return counts, nil
}

// ddl returns the ordered create statements for the dialect: five tables
// followed by the games lookup indexes.
func ddl(d Dialect) []string {
	var stmts []string
	switch d {
	case Postgres:
		stmts = []string{
			`CREATE TABLE IF NOT EXISTS games (
				id BIGSERIAL PRIMARY KEY,
				url TEXT UNIQUE NOT NULL,
				game_type TEXT,
				name TEXT NOT NULL,
				desc_snippet TEXT,
				recent_reviews TEXT,
				all_reviews TEXT,
				release_date TEXT,
				developer TEXT,
				publisher TEXT,
				popular_tags TEXT,
				game_details TEXT,
				languages TEXT,
				achievements BIGINT,
				genre TEXT,
				game_description TEXT,
				mature_content TEXT,
				minimum_requirements TEXT,
				recommended_requirements TEXT,
				original_price DOUBLE PRECISION,
				discount_price DOUBLE PRECISION,
				final_price DOUBLE PRECISION,
				discount_percentage DOUBLE PRECISION,
				created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
			)`,
			dimTablePg("developers"),
			dimTablePg("publishers"),
			dimTablePg("genres"),
			`CREATE TABLE IF NOT EXISTS etl_logs (
				log_id BIGSERIAL PRIMARY KEY,
				run_id TEXT NOT NULL,
				process_name TEXT NOT NULL,
				start_time TIMESTAMPTZ NOT NULL,
				end_time TIMESTAMPTZ,
				status TEXT CHECK(status IN ('STARTED', 'COMPLETED', 'FAILED')) NOT NULL,
				records_processed BIGINT DEFAULT 0,
				error_message TEXT,
				created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
			)`,
		}
		stmts = append(stmts, standardIndexes()...)

	case SQLServer:
		stmts = []string{
			`IF OBJECT_ID(N'games', N'U') IS NULL
			CREATE TABLE games (
				id INT IDENTITY(1,1) PRIMARY KEY,
				url NVARCHAR(450) NOT NULL UNIQUE,
				game_type NVARCHAR(MAX),
				name NVARCHAR(450) NOT NULL,
				desc_snippet NVARCHAR(MAX),
				recent_reviews NVARCHAR(MAX),
				all_reviews NVARCHAR(MAX),
				release_date NVARCHAR(450),
				developer NVARCHAR(450),
				publisher NVARCHAR(450),
				popular_tags NVARCHAR(MAX),
				game_details NVARCHAR(MAX),
				languages NVARCHAR(MAX),
				achievements BIGINT,
				genre NVARCHAR(450),
				game_description NVARCHAR(MAX),
				mature_content NVARCHAR(MAX),
				minimum_requirements NVARCHAR(MAX),
				recommended_requirements NVARCHAR(MAX),
				original_price FLOAT,
				discount_price FLOAT,
				final_price FLOAT,
				discount_percentage FLOAT,
				created_at DATETIME2 DEFAULT SYSUTCDATETIME(),
				updated_at DATETIME2 DEFAULT SYSUTCDATETIME()
			)`,
			dimTableMS("developers"),
			dimTableMS("publishers"),
			dimTableMS("genres"),
			`IF OBJECT_ID(N'etl_logs', N'U') IS NULL
			CREATE TABLE etl_logs (
				log_id INT IDENTITY(1,1) PRIMARY KEY,
				run_id NVARCHAR(64) NOT NULL,
				process_name NVARCHAR(255) NOT NULL,
				start_time DATETIME2 NOT NULL,
				end_time DATETIME2,
				status NVARCHAR(16) CHECK(status IN ('STARTED', 'COMPLETED', 'FAILED')) NOT NULL,
				records_processed BIGINT DEFAULT 0,
				error_message NVARCHAR(MAX),
				created_at DATETIME2 DEFAULT SYSUTCDATETIME()
			)`,
		}
		for _, ix := range gameIndexes {
			stmts = append(stmts, fmt.Sprintf(
				"IF NOT EXISTS (SELECT 1 FROM sys.indexes WHERE name = '%s') CREATE INDEX %s ON games(%s)",
				ix.name, ix.name, ix.column,
			))
		}

	default: // SQLite
		stmts = []string{
			`CREATE TABLE IF NOT EXISTS games (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				url TEXT UNIQUE NOT NULL,
				game_type TEXT,
				name TEXT NOT NULL,
				desc_snippet TEXT,
				recent_reviews TEXT,
				all_reviews TEXT,
				release_date TEXT,
				developer TEXT,
				publisher TEXT,
				popular_tags TEXT,
				game_details TEXT,
				languages TEXT,
				achievements INTEGER,
				genre TEXT,
				game_description TEXT,
				mature_content TEXT,
				minimum_requirements TEXT,
				recommended_requirements TEXT,
				original_price REAL,
				discount_price REAL,
				final_price REAL,
				discount_percentage REAL,
				created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
				updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
			)`,
			dimTableLite("developers"),
			dimTableLite("publishers"),
			dimTableLite("genres"),
			`CREATE TABLE IF NOT EXISTS etl_logs (
				log_id INTEGER PRIMARY KEY AUTOINCREMENT,
				run_id TEXT NOT NULL,
				process_name TEXT NOT NULL,
				start_time DATETIME NOT NULL,
				end_time DATETIME,
				status TEXT CHECK(status IN ('STARTED', 'COMPLETED', 'FAILED')) NOT NULL,
				records_processed INTEGER DEFAULT 0,
				error_message TEXT,
				created_at DATETIME DEFAULT CURRENT_TIMESTAMP
			)`,
		}
		stmts = append(stmts, standardIndexes()...)
	}
	return stmts
}

// gameIndexes are the lookup columns worth indexing on the games table.
var gameIndexes = []struct{ name, column string }{
	{"idx_games_name", "name"},
	{"idx_games_developer", "developer"},
	{"idx_games_publisher", "publisher"},
	{"idx_games_genre", "genre"},
	{"idx_games_release_date", "release_date"},
	{"idx_games_price", "original_price"},
}

func standardIndexes() []string {
	out := make([]string, 0, len(gameIndexes))
	for _, ix := range gameIndexes {
		out = append(out, fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON games(%s)", ix.name, ix.column))
	}
	return out
}

func dimTableLite(name string) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT UNIQUE NOT NULL,
		games_count INTEGER DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`, name)
}

func dimTablePg(name string) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id BIGSERIAL PRIMARY KEY,
		name TEXT UNIQUE NOT NULL,
		games_count BIGINT DEFAULT 0,
		created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
	)`, name)
}

func dimTableMS(name string) string {
	return fmt.Sprintf(`IF OBJECT_ID(N'%s', N'U') IS NULL
	CREATE TABLE %s (
		id INT IDENTITY(1,1) PRIMARY KEY,
		name NVARCHAR(450) NOT NULL UNIQUE,
		games_count BIGINT DEFAULT 0,
		created_at DATETIME2 DEFAULT SYSUTCDATETIME()
	)`, name, name)
}
