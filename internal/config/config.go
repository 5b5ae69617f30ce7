// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() defaults plus a Load() that layers file and env sources.
// - External errors are wrapped via this package's error kinds.
package config

// Store backends.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// Store selects the repository backend: memory or postgres.
	Store string `koanf:"store"`

	// DatabaseURL is the Postgres DSN, required when Store is postgres.
	DatabaseURL string `koanf:"database_url"`

	// MigrationsPath points at the SQL migration files for the postgres
	// backend.
	MigrationsPath string `koanf:"migrations_path"`

	// BoardPrefix and BoardCount define the poster board id space,
	// e.g. "B" and 100 for B001..B100.
	BoardPrefix string `koanf:"board_prefix"`
	BoardCount  int    `koanf:"board_count"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		Addr:           ":9080",
		Store:          StoreMemory,
		DatabaseURL:    "",
		MigrationsPath: "internal/adapters/repository/postgres/migrations",
		BoardPrefix:    "B",
		BoardCount:     100,
	}
}
