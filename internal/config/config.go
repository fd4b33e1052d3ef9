package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// API settings
	APIAddr string
	APIKey  string
	DevMode bool

	// Redis settings
	RedisAddr    string
	RedisEnabled bool

	// ClickHouse settings
	ClickHouseAddr     string
	ClickHouseDatabase string
	ClickHouseUsername string
	ClickHousePassword string
	LedgerEnabled      bool

	// AI settings
	OpenRouterAPIKey string

	// HTTP client settings
	HTTPTimeout  time.Duration
	MaxRetries   int
	RetryBackoff time.Duration
}

func Load() *Config {
	return &Config{
		// API
		APIAddr: getEnv("API_ADDR", ":8090"),
		APIKey:  getEnv("API_KEY", ""),
		DevMode: getBoolEnv("DEV_MODE", false),

		// Redis
		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
		RedisEnabled: getBoolEnv("REDIS_ENABLED", true),

		// ClickHouse
		ClickHouseAddr:     getEnv("CLICKHOUSE_ADDR", "localhost:9000"),
		ClickHouseDatabase: getEnv("CLICKHOUSE_DATABASE", "launchpad"),
		ClickHouseUsername: getEnv("CLICKHOUSE_USERNAME", "default"),
		ClickHousePassword: getEnv("CLICKHOUSE_PASSWORD", ""),
		LedgerEnabled:      getBoolEnv("LEDGER_ENABLED", false),

		// AI
		OpenRouterAPIKey: getEnv("OPENROUTER_API_KEY", ""),

		// HTTP
		HTTPTimeout:  getDurationEnv("HTTP_TIMEOUT", 30*time.Second),
		MaxRetries:   getIntEnv("MAX_RETRIES", 5),
		RetryBackoff: getDurationEnv("RETRY_BACKOFF", 2*time.Second),
	}
}

// Validate rejects combinations the server cannot start with.
func (c *Config) Validate() error {
	if c.APIAddr == "" {
		return fmt.Errorf("API_ADDR must not be empty")
	}
	if c.RedisEnabled && c.RedisAddr == "" {
		return fmt.Errorf("REDIS_ADDR must not be empty when Redis is enabled")
	}
	if c.LedgerEnabled && c.ClickHouseAddr == "" {
		return fmt.Errorf("CLICKHOUSE_ADDR must not be empty when the ledger is enabled")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getIntEnv(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getBoolEnv(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

func getDurationEnv(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
