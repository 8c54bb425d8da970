package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds application configuration
type Config struct {
	Port         int
	DevMode      bool
	LogLevel     string
	DatabasePath string

	// Market data providers
	FinnhubBaseURL      string
	FinnhubAPIKey       string
	CoinMarketCapBaseURL string
	CoinMarketCapAPIKey  string

	// Price resolution
	QuoteTimeout  time.Duration // Upstream call timeout (trade path fails closed on expiry)
	PriceCacheTTL time.Duration // Freshness window for cached quotes

	// Portfolios
	StartingCash decimal.Decimal // Cash balance for newly created portfolios

	// Snapshots
	SnapshotSchedule string // Cron expression for periodic snapshot capture
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:                 getEnvAsInt("PORT", 8080),
		DevMode:              getEnvAsBool("DEV_MODE", false),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		DatabasePath:         getEnv("DATABASE_PATH", "./data/invested.db"),
		FinnhubBaseURL:       getEnv("FINNHUB_BASE_URL", "https://finnhub.io/api/v1"),
		FinnhubAPIKey:        getEnv("FINNHUB_API_KEY", ""),
		CoinMarketCapBaseURL: getEnv("COINMARKETCAP_BASE_URL", "https://pro-api.coinmarketcap.com"),
		CoinMarketCapAPIKey:  getEnv("COINMARKETCAP_API_KEY", ""),
		QuoteTimeout:         getEnvAsDuration("QUOTE_TIMEOUT", 10*time.Second),
		PriceCacheTTL:        getEnvAsDuration("PRICE_CACHE_TTL", 60*time.Second),
		StartingCash:         getEnvAsDecimal("STARTING_CASH", decimal.NewFromInt(10000)),
		SnapshotSchedule:     getEnv("SNAPSHOT_SCHEDULE", "@daily"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}

	if c.QuoteTimeout <= 0 {
		return fmt.Errorf("QUOTE_TIMEOUT must be positive")
	}

	if c.StartingCash.IsNegative() {
		return fmt.Errorf("STARTING_CASH must not be negative")
	}

	// Note: provider API keys optional; quote endpoints reject without them

	return nil
}

// Helper functions
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

func getEnvAsDecimal(key string, defaultValue decimal.Decimal) decimal.Decimal {
	if value := os.Getenv(key); value != "" {
		if d, err := decimal.NewFromString(value); err == nil {
			return d
		}
	}
	return defaultValue
}
