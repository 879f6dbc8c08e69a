// Package common provides shared utilities for Vantage
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for Vantage
type Config struct {
	Environment string        `toml:"environment"`
	Server      ServerConfig  `toml:"server"`
	Clients     ClientsConfig `toml:"clients"`
	Cache       CacheConfig   `toml:"cache"`
	Logging     LoggingConfig `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	Provider string      `toml:"provider"` // "yahoo" (default) or "alpha"
	Yahoo    YahooConfig `toml:"yahoo"`
	Alpha    AlphaConfig `toml:"alpha"`
}

// YahooConfig holds Yahoo Finance client configuration
type YahooConfig struct {
	BaseURL       string `toml:"base_url"`
	RateLimit     int    `toml:"rate_limit"`
	Timeout       string `toml:"timeout"`
	QuoteFallback bool   `toml:"quote_fallback"` // enable finance-go quote fallback
}

// GetTimeout parses and returns the timeout duration
func (c *YahooConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// AlphaConfig holds Alpha Vantage / NewsAPI client configuration
type AlphaConfig struct {
	BaseURL    string `toml:"base_url"`
	APIKey     string `toml:"api_key"`
	NewsAPIKey string `toml:"news_api_key"`
	RateLimit  int    `toml:"rate_limit"`
	Timeout    string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *AlphaConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// CacheConfig holds response cache configuration
type CacheConfig struct {
	Backend  string `toml:"backend"`  // "memory" (default) or "badger"
	Path     string `toml:"path"`     // badger data directory
	Capacity int    `toml:"capacity"` // max entries for the memory backend
	TTL      string `toml:"ttl"`      // snapshot TTL for the primary provider path
	AltTTL   string `toml:"alt_ttl"`  // snapshot TTL for the alternate provider path
}

// GetTTL parses and returns the primary-path TTL
func (c *CacheConfig) GetTTL() time.Duration {
	d, err := time.ParseDuration(c.TTL)
	if err != nil {
		return TTLSnapshot
	}
	return d
}

// GetAltTTL parses and returns the alternate-path TTL
func (c *CacheConfig) GetAltTTL() time.Duration {
	d, err := time.ParseDuration(c.AltTTL)
	if err != nil {
		return TTLAlternate
	}
	return d
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
		Clients: ClientsConfig{
			Provider: "yahoo",
			Yahoo: YahooConfig{
				BaseURL:       "https://query1.finance.yahoo.com",
				RateLimit:     5,
				Timeout:       "10s",
				QuoteFallback: true,
			},
			Alpha: AlphaConfig{
				BaseURL:   "https://www.alphavantage.co",
				RateLimit: 1,
				Timeout:   "10s",
			},
		},
		Cache: CacheConfig{
			Backend:  "memory",
			Path:     "data/cache",
			Capacity: 512,
			TTL:      "5m",
			AltTTL:   "15m",
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
	if env := os.Getenv("VANTAGE_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("VANTAGE_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("VANTAGE_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("VANTAGE_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if provider := os.Getenv("VANTAGE_PROVIDER"); provider != "" {
		config.Clients.Provider = strings.ToLower(provider)
	}

	if v := os.Getenv("ALPHA_VANTAGE_API_KEY"); v != "" {
		config.Clients.Alpha.APIKey = v
	}
	if v := os.Getenv("NEWS_API_KEY"); v != "" {
		config.Clients.Alpha.NewsAPIKey = v
	}

	if path := os.Getenv("VANTAGE_CACHE_PATH"); path != "" {
		config.Cache.Path = path
	}
	if backend := os.Getenv("VANTAGE_CACHE_BACKEND"); backend != "" {
		config.Cache.Backend = strings.ToLower(backend)
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
