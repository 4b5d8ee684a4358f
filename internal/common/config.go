// Package common provides shared utilities for Folio
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for Folio
type Config struct {
	Environment string        `toml:"environment"`
	Server      ServerConfig  `toml:"server"`
	Storage     StorageConfig `toml:"storage"`
	Clients     ClientsConfig `toml:"clients"`
	Auth        AuthConfig    `toml:"auth"`
	Pricing     PricingConfig `toml:"pricing"`
	Metrics     MetricsConfig `toml:"metrics"`
	Logging     LoggingConfig `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig holds SurrealDB connection configuration.
type StorageConfig struct {
	Address   string `toml:"address"`
	Username  string `toml:"username"`
	Password  string `toml:"password"`
	Namespace string `toml:"namespace"`
	Database  string `toml:"database"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	Finnhub FinnhubConfig `toml:"finnhub"`
}

// FinnhubConfig holds Finnhub API configuration
type FinnhubConfig struct {
	BaseURL   string `toml:"base_url"`
	APIKey    string `toml:"api_key"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *FinnhubConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 5 * time.Second
	}
	return d
}

// AuthConfig holds session configuration.
type AuthConfig struct {
	SessionLifetime string `toml:"session_lifetime"` // duration string, default "168h" (7 days)
	SweepInterval   string `toml:"sweep_interval"`   // duration string, default "1h"
}

// GetSessionLifetime parses and returns the session lifetime duration.
func (c *AuthConfig) GetSessionLifetime() time.Duration {
	d, err := time.ParseDuration(c.SessionLifetime)
	if err != nil {
		return 7 * 24 * time.Hour
	}
	return d
}

// GetSweepInterval parses and returns the expired-session sweep interval.
func (c *AuthConfig) GetSweepInterval() time.Duration {
	d, err := time.ParseDuration(c.SweepInterval)
	if err != nil {
		return time.Hour
	}
	return d
}

// PricingConfig tunes the batch price resolver.
type PricingConfig struct {
	BatchSize    int    `toml:"batch_size"`    // tickers per provider batch
	Concurrency  int    `toml:"concurrency"`   // concurrent fetches within a batch
	FetchTimeout string `toml:"fetch_timeout"` // per-ticker timeout
}

// GetFetchTimeout parses and returns the per-ticker fetch timeout.
func (c *PricingConfig) GetFetchTimeout() time.Duration {
	d, err := time.ParseDuration(c.FetchTimeout)
	if err != nil {
		return 5 * time.Second
	}
	return d
}

// MetricsConfig holds the portfolio metrics refresh job configuration.
type MetricsConfig struct {
	RefreshSchedule string `toml:"refresh_schedule"` // cron spec, default "@every 15m"
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `toml:"level"`
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
			Address:   "ws://localhost:8000",
			Username:  "root",
			Password:  "root",
			Namespace: "folio",
			Database:  "folio",
		},
		Clients: ClientsConfig{
			Finnhub: FinnhubConfig{
				BaseURL:   "https://finnhub.io/api/v1",
				RateLimit: 10,
				Timeout:   "5s",
			},
		},
		Auth: AuthConfig{
			SessionLifetime: "168h",
			SweepInterval:   "1h",
		},
		Pricing: PricingConfig{
			BatchSize:    20,
			Concurrency:  20,
			FetchTimeout: "5s",
		},
		Metrics: MetricsConfig{
			RefreshSchedule: "@every 15m",
		},
		Logging: LoggingConfig{
			Level: "info",
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

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("FOLIO_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("FOLIO_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("FOLIO_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("FOLIO_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if addr := os.Getenv("FOLIO_STORAGE_ADDRESS"); addr != "" {
		config.Storage.Address = addr
	}
	if user := os.Getenv("FOLIO_STORAGE_USERNAME"); user != "" {
		config.Storage.Username = user
	}
	if pass := os.Getenv("FOLIO_STORAGE_PASSWORD"); pass != "" {
		config.Storage.Password = pass
	}
	if ns := os.Getenv("FOLIO_STORAGE_NAMESPACE"); ns != "" {
		config.Storage.Namespace = ns
	}
	if db := os.Getenv("FOLIO_STORAGE_DATABASE"); db != "" {
		config.Storage.Database = db
	}

	// FINNHUB_API_KEY matches the provider's own docs; FOLIO_FINNHUB_API_KEY wins.
	if key := os.Getenv("FINNHUB_API_KEY"); key != "" {
		config.Clients.Finnhub.APIKey = key
	}
	if key := os.Getenv("FOLIO_FINNHUB_API_KEY"); key != "" {
		config.Clients.Finnhub.APIKey = key
	}

	if v := os.Getenv("FOLIO_SESSION_LIFETIME"); v != "" {
		config.Auth.SessionLifetime = v
	}
	if v := os.Getenv("FOLIO_METRICS_SCHEDULE"); v != "" {
		config.Metrics.RefreshSchedule = v
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
