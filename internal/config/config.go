// Package config centralizes application configuration. It follows a
// "clean" configuration pattern where all tunables live outside the
// code and are sourced from command-line flags with environment-variable
// fallbacks (12-factor friendly). Flags are defined first so that
// `-help` shows all available knobs and their defaults.
//
// Typical usage:
//
//	cfg := config.Load() // reads os.Args and os.Environ
//
// For tests, prefer LoadFromArgs to keep them hermetic:
//
//	fs := flag.NewFlagSet("test", flag.ContinueOnError)
//	getenv := func(k string) string { return testEnv[k] }
//	cfg := config.LoadFromArgs(fs, getenv, []string{"-batch_size=100"})
package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all process configuration derived from flags and
// environment variables. All fields are plain values so the struct
// can be safely copied and used across goroutines after construction.
type Config struct {
	// IO controls input/output file locations.
	InputCSV string // Path to the raw catalog CSV.
	CleanCSV string // Path for the cleaned CSV export.
	SkipCSV  string // Path for the skipped-rows CSV log; empty disables it.

	// DB describes the target database. Sqlite needs only DBPath; MSSQL
	// needs a full DSN; for Postgres the DSN can be built from discrete parts.
	DBDriver   string // Database driver: "sqlite", "postgres" or "sqlserver".
	DSN        string // Full DSN (required for sqlserver; optional for postgres).
	DBPath     string // Sqlite database file path.
	DBUser     string // Database username (Postgres convenience).
	DBPassword string // Database password (Postgres convenience).
	DBHost     string // Database host (Postgres convenience).
	DBPort     string // Database port (Postgres convenience).
	DBName     string // Database name (Postgres convenience).

	// Load tunables.
	TableName string // Destination table for game rows.
	BatchSize int    // Rows per insert transaction.
	Reset     bool   // Drop and recreate all tables before loading.

	// API server.
	APIAddr string // Listen address for the query API.

	// Logging.
	LogFormat string // "json" for production encoding, anything else is console.
}

// LoadFromArgs builds a Config by defining flags on fs, wiring each flag
// to an environment-variable fallback via getenv, and then parsing args.
// This is the most testable entry point: callers supply a private FlagSet,
// a getenv func (often backed by a map), and a synthetic arg slice.
//
// Precedence:
//  1. Environment values seed each flag's default.
//  2. Explicit CLI flags (in args) override the seeded defaults.
//
// The returned Config is fully populated; no further mutation occurs.
func LoadFromArgs(fs *flag.FlagSet, getenv func(string) string, args []string) *Config {
	cfg := &Config{}

	// Inline helpers use the provided getenv to avoid touching process env.
	envOrDefaultFn := func(k, d string) string {
		if v := getenv(k); v != "" {
			return v
		}
		return d
	}
	intEnvOrDefaultFn := func(k string, d int) int {
		if v := getenv(k); v != "" {
			if i, err := strconv.Atoi(v); err == nil {
				return i
			}
		}
		return d
	}
	boolEnvOrDefaultFn := func(k string, d bool) bool {
		if v := strings.ToLower(getenv(k)); v != "" {
			switch v {
			case "1", "true", "yes", "on":
				return true
			case "0", "false", "no", "off":
				return false
			}
		}
		return d
	}

	// IO paths
	fs.StringVar(&cfg.InputCSV, "input_csv", envOrDefaultFn("INPUT_CSV", "games.csv"), "Path to the raw catalog CSV")
	fs.StringVar(&cfg.CleanCSV, "clean_csv", envOrDefaultFn("CLEAN_CSV", "games_cleaned.csv"), "Path for the cleaned CSV export")
	fs.StringVar(&cfg.SkipCSV, "skip_csv", envOrDefaultFn("SKIP_CSV", "skipped/games_skipped.csv"), "Path for the skipped-rows CSV log (empty disables)")

	// DB connectivity
	fs.StringVar(&cfg.DBDriver, "db_driver", envOrDefaultFn("DB_DRIVER", "sqlite"), "Database driver: 'sqlite', 'postgres' or 'sqlserver'.")
	fs.StringVar(&cfg.DSN, "dsn", getenv("DB_DSN"), "Full DSN (required for sqlserver).")
	fs.StringVar(&cfg.DBPath, "db_path", envOrDefaultFn("DB_PATH", "games.db"), "Sqlite database file path")

	fs.StringVar(&cfg.DBUser, "db_user", envOrDefaultFn("DB_USER", "user"), "DB user")
	fs.StringVar(&cfg.DBPassword, "db_password", envOrDefaultFn("DB_PASSWORD", "password"), "DB password")
	fs.StringVar(&cfg.DBHost, "db_host", envOrDefaultFn("DB_HOST", "localhost"), "DB host")
	fs.StringVar(&cfg.DBPort, "db_port", envOrDefaultFn("DB_PORT", "5432"), "DB port")
	fs.StringVar(&cfg.DBName, "db_name", envOrDefaultFn("DB_NAME", "games"), "DB name")

	// Load tunables & toggles
	fs.StringVar(&cfg.TableName, "table_name", envOrDefaultFn("TABLE_NAME", "games"), "Destination table for game rows")
	fs.IntVar(&cfg.BatchSize, "batch_size", intEnvOrDefaultFn("BATCH_SIZE", 1000), "Rows per insert transaction")
	fs.BoolVar(&cfg.Reset, "reset", boolEnvOrDefaultFn("DB_RESET", false), "Drop and recreate all tables before loading")

	// API server
	fs.StringVar(&cfg.APIAddr, "api_addr", envOrDefaultFn("API_ADDR", ":8080"), "Listen address for the query API")

	// Logging
	fs.StringVar(&cfg.LogFormat, "log_format", envOrDefaultFn("LOG_FORMAT", "console"), "Log encoding: 'json' or 'console'")

	// Parse the provided args (nil means no extra args).
	if args == nil {
		args = []string{}
	}
	_ = fs.Parse(args)
	return cfg
}

// LoadFrom is a compatibility wrapper around LoadFromArgs for call-sites
// that don't need to pass args explicitly (useful in some tests).
func LoadFrom(fs *flag.FlagSet, getenv func(string) string) *Config {
	return LoadFromArgs(fs, getenv, nil)
}

// Load is the production entry point. It wires the loader to the process
// flag set (flag.CommandLine), reads environment variables via os.Getenv,
// and parses os.Args[1:] as the CLI arguments.
func Load() *Config {
	return LoadFromArgs(flag.CommandLine, os.Getenv, os.Args[1:])
}

// PostgresDSN returns the configured DSN when set, otherwise builds one
// from the discrete connection parts.
func (c *Config) PostgresDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}
