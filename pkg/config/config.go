// pkg/config/config.go
package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the application configuration
type Config struct {
	// Engine behaviour
	Engine *EngineConfig

	// Backing stores (Postgres is nil unless configured)
	SQLite   *SQLiteConfig
	Postgres *PostgresConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// EngineConfig holds the exploration engine's tunables
type EngineConfig struct {
	// Default page size when a dataset view opens
	DefaultRowsPerPage int
	// Settle window for free-text search input
	SearchDebounce time.Duration
	// Per-fetch timeout against the backing store
	FetchTimeout time.Duration
	// Maximum rows included in the print fragment
	PrintRowLimit int
}

// SQLiteConfig holds the embedded store's settings
type SQLiteConfig struct {
	Path string
}

// LoadConfig loads configuration from environment variables. A .env file
// in the working directory is read first if present.
func LoadConfig() (*Config, error) {
	// Missing .env is fine; real env vars still apply
	_ = godotenv.Load()

	cfg := &Config{
		Engine: &EngineConfig{
			DefaultRowsPerPage: getEnvAsInt("DEFAULT_ROWS_PER_PAGE", 25),
			SearchDebounce:     time.Duration(getEnvAsInt("SEARCH_DEBOUNCE_MS", 300)) * time.Millisecond,
			FetchTimeout:       time.Duration(getEnvAsInt("FETCH_TIMEOUT_SECONDS", 30)) * time.Second,
			PrintRowLimit:      getEnvAsInt("PRINT_ROW_LIMIT", 100),
		},
		SQLite: &SQLiteConfig{
			Path: getEnv("SQLITE_PATH", "explorer.db"),
		},
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	// Postgres is optional: only configured when a host is given
	if os.Getenv("POSTGRES_HOST") != "" {
		pgConfig, err := LoadPostgresConfig()
		if err != nil {
			return nil, errors.New("failed to load PostgreSQL configuration: " + err.Error())
		}
		cfg.Postgres = pgConfig
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures all required configuration is present and valid
func (c *Config) Validate() error {
	if c.Engine == nil {
		return errors.New("engine configuration is required")
	}

	if c.Engine.DefaultRowsPerPage <= 0 {
		return errors.New("default rows per page must be positive")
	}

	if c.Engine.SearchDebounce < 0 {
		return errors.New("search debounce cannot be negative")
	}

	if c.Engine.PrintRowLimit <= 0 {
		return errors.New("print row limit must be positive")
	}

	return nil
}

// Helper functions for environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
