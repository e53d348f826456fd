package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

// Config holds application configuration
type Config struct {
	Store          string
	DatabaseURL    string
	SQLitePath     string
	AssetsCSV      string
	CurrencySymbol string
	Cache          bool
	CacheTTL       time.Duration
	Retries        int
	Port           int
	LogLevel       string
	LogPretty      bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Store:          getEnv("STOCKSIM_STORE", StoreSQLite),
		DatabaseURL:    getEnv("STOCKSIM_DATABASE_URL", ""),
		SQLitePath:     getEnv("STOCKSIM_SQLITE_PATH", "data/stocksim.db"),
		AssetsCSV:      getEnv("STOCKSIM_ASSETS_CSV", "ativos_b3.csv"),
		CurrencySymbol: getEnv("STOCKSIM_CURRENCY_SYMBOL", "R$"),
		Cache:          getEnvAsBool("STOCKSIM_CACHE", true),
		CacheTTL:       getEnvAsDuration("STOCKSIM_CACHE_TTL", 5*time.Minute),
		Retries:        getEnvAsInt("STOCKSIM_RETRIES", 2),
		Port:           getEnvAsInt("STOCKSIM_PORT", 8080),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogPretty:      getEnvAsBool("LOG_PRETTY", false),
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	switch c.Store {
	case StoreSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("STOCKSIM_SQLITE_PATH is required for the sqlite store")
		}
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("STOCKSIM_DATABASE_URL is required for the postgres store")
		}
	default:
		return fmt.Errorf("STOCKSIM_STORE must be %q or %q, got %q", StoreSQLite, StorePostgres, c.Store)
	}
	if c.Cache && c.CacheTTL <= 0 {
		return fmt.Errorf("STOCKSIM_CACHE_TTL must be positive, got %s", c.CacheTTL)
	}
	if c.Retries < 0 {
		return fmt.Errorf("STOCKSIM_RETRIES must not be negative")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("STOCKSIM_PORT must be a valid port, got %d", c.Port)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
