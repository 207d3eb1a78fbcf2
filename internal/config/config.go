package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Store backend selectors.
const (
	StoreBackendPebble   = "pebble"
	StoreBackendPostgres = "postgres"
)

// Config holds all application configuration.
type Config struct {
	Feed     FeedConfig
	Store    StoreConfig
	Database DatabaseConfig
	Telegram TelegramConfig
	Proxy    ProxyConfig
	Logger   LoggerConfig
}

// FeedConfig holds the upstream catalog/stock feed configuration.
type FeedConfig struct {
	ProductURL string
	StockURL   string
	BaseURL    string // site base, used for image and product URL synthesis
	Timeout    time.Duration
	Retries    int
	RetryDelay time.Duration
}

// StoreConfig selects and configures the record store backend.
type StoreConfig struct {
	Backend string // "pebble" or "postgres"
	Path    string // pebble database directory
}

// DatabaseConfig holds PostgreSQL settings for the postgres store backend.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	MaxConnections  int
	MinConnections  int
	MaxConnLifetime int // seconds
}

// TelegramConfig holds the operator notification channel settings. When the
// token or chat ID is empty, notifications degrade to log output only.
type TelegramConfig struct {
	BotToken string
	ChatID   string
}

// ProxyConfig holds the optional outbound proxy list settings.
type ProxyConfig struct {
	File      string // local proxy list file; empty disables proxying
	S3Enabled bool
	S3Bucket  string
	S3Region  string
	S3Key     string
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string
	Format string // "json" or "console"
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Feed: FeedConfig{
			ProductURL: getEnv("PRODUCT_URL", ""),
			StockURL:   getEnv("STOCK_URL", ""),
			BaseURL:    getEnv("BASE_URL", "https://www.finewineandgoodspirits.com"),
			Timeout:    time.Duration(getEnvAsInt("HTTP_TIMEOUT", 30)) * time.Second,
			Retries:    getEnvAsInt("FETCH_RETRIES", 3),
			RetryDelay: time.Duration(getEnvAsInt("FETCH_RETRY_DELAY", 5)) * time.Second,
		},
		Store: StoreConfig{
			Backend: getEnv("STORE_BACKEND", StoreBackendPebble),
			Path:    getEnv("STORE_PATH", "products.db"),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			Database:        getEnv("DB_NAME", "shelfwatch"),
			MaxConnections:  getEnvAsInt("DB_MAX_CONNECTIONS", 5),
			MinConnections:  getEnvAsInt("DB_MIN_CONNECTIONS", 1),
			MaxConnLifetime: getEnvAsInt("DB_MAX_CONN_LIFETIME", 300),
		},
		Telegram: TelegramConfig{
			BotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
			ChatID:   getEnv("TELEGRAM_CHAT_ID", ""),
		},
		Proxy: ProxyConfig{
			File:      getEnv("PROXY_FILE", ""),
			S3Enabled: getEnvAsBool("PROXY_S3_ENABLED", false),
			S3Bucket:  getEnv("PROXY_S3_BUCKET", ""),
			S3Region:  getEnv("PROXY_S3_REGION", "us-east-1"),
			S3Key:     getEnv("PROXY_S3_KEY", "proxies.txt"),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "console"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Feed.BaseURL == "" {
		return fmt.Errorf("base URL is required")
	}

	if c.Feed.Retries < 1 {
		return fmt.Errorf("fetch retries must be at least 1")
	}

	switch c.Store.Backend {
	case StoreBackendPebble:
		if c.Store.Path == "" {
			return fmt.Errorf("store path is required for the pebble backend")
		}
	case StoreBackendPostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if c.Database.Port < 1 || c.Database.Port > 65535 {
			return fmt.Errorf("invalid database port: %d", c.Database.Port)
		}
		if c.Database.User == "" {
			return fmt.Errorf("database user is required")
		}
		if c.Database.Database == "" {
			return fmt.Errorf("database name is required")
		}
		if c.Database.MaxConnections < 1 {
			return fmt.Errorf("database max connections must be at least 1")
		}
		if c.Database.MinConnections < 1 {
			return fmt.Errorf("database min connections must be at least 1")
		}
		if c.Database.MinConnections > c.Database.MaxConnections {
			return fmt.Errorf("database min connections cannot exceed max connections")
		}
	default:
		return fmt.Errorf("invalid store backend: %s (must be pebble or postgres)", c.Store.Backend)
	}

	if c.Proxy.S3Enabled {
		if c.Proxy.S3Bucket == "" {
			return fmt.Errorf("proxy S3 bucket is required when proxy S3 is enabled")
		}
		if c.Proxy.S3Region == "" {
			return fmt.Errorf("proxy S3 region is required when proxy S3 is enabled")
		}
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	return nil
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value.
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
