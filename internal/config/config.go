// Package config handles loading and validating configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the whale feed engine.
type Config struct {
	// Polymarket data API (consumed by the backend watcher)
	PolymarketDataURL string
	TradePollInterval time.Duration
	RecentTradeLimit  int

	// Scoring thresholds
	MinNotionalUSD     float64
	NewWalletMaxTrades int
	MaxWalletTrades    int
	MinPriceDeviation  float64
	MinInsiderScore    float64

	// Insider score presentation buckets
	ScoreHighThreshold   float64
	ScoreMediumThreshold float64

	// Backend API
	BackendListenAddr string
	DBPath            string

	// Proxy boundary
	ProxyListenAddr string
	BackendURL      string
	UpstreamTimeout time.Duration

	// Feed client
	FeedURL          string
	FeedPollInterval time.Duration

	// UI
	EnableTUI     bool
	UIRefreshRate time.Duration

	// Logging
	LogLevel string
}

// Load reads configuration from environment variables with fallback to .env file.
// Priority order: Environment variables > .env file > hardcoded defaults
func Load() (*Config, error) {
	// Attempt to load .env file (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		// Polymarket
		PolymarketDataURL: getEnv("POLYMARKET_DATA_URL", "https://data-api.polymarket.com"),
		TradePollInterval: time.Duration(getEnvInt("TRADE_POLL_INTERVAL_SECONDS", 5)) * time.Second,
		RecentTradeLimit:  getEnvInt("RECENT_TRADE_LIMIT", 200),

		// Scoring
		MinNotionalUSD:     getEnvFloat("MIN_NOTIONAL_USD", 3000),
		NewWalletMaxTrades: getEnvInt("NEW_WALLET_MAX_TRADES", 3),
		MaxWalletTrades:    getEnvInt("MAX_WALLET_TRADES", 20),
		MinPriceDeviation:  getEnvFloat("MIN_PRICE_DEVIATION", 0.07),
		MinInsiderScore:    getEnvFloat("MIN_INSIDER_SCORE", 60),

		// Buckets
		ScoreHighThreshold:   getEnvFloat("SCORE_HIGH_THRESHOLD", 80),
		ScoreMediumThreshold: getEnvFloat("SCORE_MEDIUM_THRESHOLD", 60),

		// Backend
		BackendListenAddr: getEnv("BACKEND_LISTEN_ADDR", ":5001"),
		DBPath:            getEnv("DB_PATH", "./data/trades.db"),

		// Proxy
		ProxyListenAddr: getEnv("PROXY_LISTEN_ADDR", ":3000"),
		BackendURL:      getEnv("BACKEND_URL", "http://localhost:5001/get_trades"),
		UpstreamTimeout: time.Duration(getEnvInt("UPSTREAM_TIMEOUT_SECONDS", 10)) * time.Second,

		// Feed client
		FeedURL:          getEnv("FEED_URL", "http://localhost:3000/api/trades"),
		FeedPollInterval: time.Duration(getEnvInt("FEED_POLL_INTERVAL_SECONDS", 5)) * time.Second,

		// UI
		EnableTUI:     getEnvBool("ENABLE_TUI", true),
		UIRefreshRate: time.Duration(getEnvInt("UI_REFRESH_MS", 500)) * time.Millisecond,

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "INFO"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration values are set and valid.
func (c *Config) Validate() error {
	if c.PolymarketDataURL == "" {
		return fmt.Errorf("POLYMARKET_DATA_URL is required")
	}

	if c.BackendURL == "" {
		return fmt.Errorf("BACKEND_URL is required")
	}

	if c.FeedURL == "" {
		return fmt.Errorf("FEED_URL is required")
	}

	if c.MinNotionalUSD <= 0 {
		return fmt.Errorf("MIN_NOTIONAL_USD must be positive")
	}

	if c.RecentTradeLimit < 1 {
		return fmt.Errorf("RECENT_TRADE_LIMIT must be at least 1")
	}

	if c.UpstreamTimeout <= 0 {
		return fmt.Errorf("UPSTREAM_TIMEOUT_SECONDS must be positive")
	}

	if c.ScoreMediumThreshold > c.ScoreHighThreshold {
		return fmt.Errorf("SCORE_MEDIUM_THRESHOLD must not exceed SCORE_HIGH_THRESHOLD")
	}

	return nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an environment variable as an integer or returns a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvFloat retrieves an environment variable as a float64 or returns a default.
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

// getEnvBool retrieves an environment variable as a boolean or returns a default.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
