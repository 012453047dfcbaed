// Package common provides shared utilities for Divvy
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for Divvy
type Config struct {
	Environment string          `toml:"environment"`
	Server      ServerConfig    `toml:"server"`
	Storage     StorageConfig   `toml:"storage"`
	Clients     ClientsConfig   `toml:"clients"`
	Valuation   ValuationConfig `toml:"valuation"`
	Sync        SyncConfig      `toml:"sync"`
	Logging     LoggingConfig   `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig holds the SurrealDB connection settings for the holdings table.
type StorageConfig struct {
	Address   string `toml:"address"`
	Username  string `toml:"username"`
	Password  string `toml:"password"`
	Namespace string `toml:"namespace"`
	Database  string `toml:"database"`
	Table     string `toml:"table"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	Yahoo YahooConfig `toml:"yahoo"`
}

// YahooConfig holds Yahoo Finance quote API configuration
type YahooConfig struct {
	BaseURL   string `toml:"base_url"`
	RateLimit int    `toml:"rate_limit"` // requests per second
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *YahooConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// ValuationConfig holds the valuation and recommendation settings.
// DiscountPct is the default percentage below the 52-week high used as the
// target price; callers may override it per sync run.
type ValuationConfig struct {
	DiscountPct float64         `toml:"discount_pct"`
	Thresholds  []TierThreshold `toml:"thresholds"`
}

// TierThreshold is one rung of the recommendation ladder: upside at or above
// MinUpside maps to Tier. Rungs are evaluated top-down, first match wins.
type TierThreshold struct {
	MinUpside float64 `toml:"min_upside"`
	Tier      string  `toml:"tier"`
}

// SyncConfig holds batch synchronization settings.
type SyncConfig struct {
	RequestInterval string `toml:"request_interval"` // minimum delay between provider calls
	RefreshCron     string `toml:"refresh_cron"`     // optional cron spec for automatic full syncs
}

// GetRequestInterval parses and returns the inter-call delay duration.
func (c *SyncConfig) GetRequestInterval() time.Duration {
	d, err := time.ParseDuration(c.RequestInterval)
	if err != nil || d < 0 {
		return 500 * time.Millisecond
	}
	return d
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level      string   `toml:"level"`
	Format     string   `toml:"format"`
	Outputs    []string `toml:"outputs"`
	FilePath   string   `toml:"file_path"`
	MaxSizeMB  int      `toml:"max_size_mb"`
	MaxBackups int      `toml:"max_backups"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Storage: StorageConfig{
			Address:   "ws://localhost:8000/rpc",
			Username:  "root",
			Password:  "root",
			Namespace: "divvy",
			Database:  "divvy",
			Table:     "holding",
		},
		Clients: ClientsConfig{
			Yahoo: YahooConfig{
				BaseURL:   "https://query1.finance.yahoo.com",
				RateLimit: 2,
				Timeout:   "30s",
			},
		},
		Valuation: ValuationConfig{
			DiscountPct: 5,
			Thresholds: []TierThreshold{
				{MinUpside: 50, Tier: "strong_buy"},
				{MinUpside: 10, Tier: "accumulate"},
				{MinUpside: 3, Tier: "hold"},
				{MinUpside: -10, Tier: "pause"},
			},
		},
		Sync: SyncConfig{
			RequestInterval: "500ms",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			Outputs:    []string{"console", "file"},
			FilePath:   "./logs/divvy.log",
			MaxSizeMB:  100,
			MaxBackups: 3,
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	if err := validateConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("DIVVY_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("DIVVY_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("DIVVY_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("DIVVY_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if addr := os.Getenv("DIVVY_STORAGE_ADDRESS"); addr != "" {
		config.Storage.Address = addr
	}
	if user := os.Getenv("DIVVY_STORAGE_USERNAME"); user != "" {
		config.Storage.Username = user
	}
	if pass := os.Getenv("DIVVY_STORAGE_PASSWORD"); pass != "" {
		config.Storage.Password = pass
	}

	if pct := os.Getenv("DIVVY_DISCOUNT_PCT"); pct != "" {
		if v, err := strconv.ParseFloat(pct, 64); err == nil {
			config.Valuation.DiscountPct = v
		}
	}

	if cron := os.Getenv("DIVVY_REFRESH_CRON"); cron != "" {
		config.Sync.RefreshCron = cron
	}
}

// validateConfig normalizes values that have a defined legal range.
func validateConfig(config *Config) error {
	config.Valuation.DiscountPct = ClampDiscountPct(config.Valuation.DiscountPct)

	if len(config.Valuation.Thresholds) == 0 {
		config.Valuation.Thresholds = NewDefaultConfig().Valuation.Thresholds
	}

	for i := 1; i < len(config.Valuation.Thresholds); i++ {
		if config.Valuation.Thresholds[i].MinUpside >= config.Valuation.Thresholds[i-1].MinUpside {
			return fmt.Errorf("valuation thresholds must be strictly decreasing: rung %d (%.2f) >= rung %d (%.2f)",
				i, config.Valuation.Thresholds[i].MinUpside, i-1, config.Valuation.Thresholds[i-1].MinUpside)
		}
	}

	return nil
}

// ClampDiscountPct forces a discount percentage into the legal [1,10] range.
func ClampDiscountPct(pct float64) float64 {
	if pct < 1 {
		return 1
	}
	if pct > 10 {
		return 10
	}
	return pct
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
