// Package schema owns the destination DDL: the five catalog tables, their
// indexes, the insert-or-ignore statement for the games table, and the reset
// path that drops everything for a clean re-run. SQL is generated per dialect
// because placeholder syntax and create-if-missing semantics differ across
// SQLite, Postgres, and SQL Server.
package schema

import (
	"fmt"
	"strings"
)

// Dialect selects the SQL flavor for DDL and placeholders.
type Dialect string

const (
	SQLite    Dialect = "sqlite"
	Postgres  Dialect = "postgres"
	SQLServer Dialect = "sqlserver"
)

// ParseDialect maps a -db_driver value onto a Dialect.
func ParseDialect(driver string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "sqlite", "":
		return SQLite, nil
	case "postgres", "pg":
		return Postgres, nil
	case "sqlserver", "mssql":
		return SQLServer, nil
	default:
		return "", fmt.Errorf("unsupported db driver %q", driver)
	}
}

// Placeholder returns the 1-based positional parameter marker for the dialect.
func Placeholder(d Dialect, i int) string {
	switch d {
	case Postgres:
		return fmt.Sprintf("$%d", i)
	case SQLServer:
		return fmt.Sprintf("@p%d", i)
	default:
		return "?"
	}
}

// Placeholders returns markers 1..n joined with ", ".
func Placeholders(d Dialect, n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = Placeholder(d, i+1)
	}
	return strings.Join(parts, ", ")
}

// InsertIgnoreSQL builds the duplicate-skip insert for the games table. A row
// whose url already exists is silently ignored, never updated.
func InsertIgnoreSQL(d Dialect, tbl string, columns []string) string {
	colList := strings.Join(columns, ", ")
	ph := Placeholders(d, len(columns))
	switch d {
	case Postgres:
		return fmt.Sprintf(
			"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (url) DO NOTHING",
			tbl, colList, ph,
		)
	case SQLServer:
		// No INSERT ... IGNORE equivalent; guard with NOT EXISTS on the
		// natural key. @p1 is always the url argument.
		return fmt.Sprintf(
			"INSERT INTO %s (%s) SELECT %s WHERE NOT EXISTS (SELECT 1 FROM %s WHERE url = @p1)",
			tbl, colList, ph, tbl,
		)
	default:
		return fmt.Sprintf(
			"INSERT OR IGNORE INTO %s (%s) VALUES (%s)",
			tbl, colList, ph,
		)
	}
}
