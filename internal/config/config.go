// Package config loads and persists the application configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration.
type Config struct {
	// Database configuration
	Database DatabaseConfig `toml:"database"`

	// Card catalog configuration
	Catalog CatalogConfig `toml:"catalog"`

	// API server configuration
	API APIConfig `toml:"api"`

	// Application configuration
	App AppConfig `toml:"app"`
}

// DatabaseConfig contains database settings.
type DatabaseConfig struct {
	Path        string `toml:"path"`         // Path to the SQLite database file
	AutoMigrate bool   `toml:"auto_migrate"` // Run pending migrations on startup
}

// CatalogConfig contains card catalog settings.
type CatalogConfig struct {
	FilePath string `toml:"file_path"` // Path to the catalog JSON dump
	Watch    bool   `toml:"watch"`     // Reload the catalog when the file changes
}

// APIConfig contains API server settings.
type APIConfig struct {
	Port           int     `toml:"port"`             // Listen port
	RateLimitRPS   float64 `toml:"rate_limit_rps"`   // Requests per second (0 = unlimited)
	RateLimitBurst int     `toml:"rate_limit_burst"` // Burst size for the rate limiter
}

// AppConfig contains general application settings.
type AppConfig struct {
	DebugMode bool `toml:"debug_mode"` // Enable debug logging
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:        "",
			AutoMigrate: true,
		},
		Catalog: CatalogConfig{
			FilePath: "",
			Watch:    true,
		},
		API: APIConfig{
			Port:           8080,
			RateLimitRPS:   50,
			RateLimitBurst: 100,
		},
		App: AppConfig{
			DebugMode: false,
		},
	}
}

// configPath returns the path to the configuration file.
func configPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".overpower-deckbuilder")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}

	return filepath.Join(configDir, "config.toml"), nil
}

// Load loads the configuration from disk. Returns default config if the file
// doesn't exist.
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom loads the configuration from an explicit path. Returns default
// config if the file doesn't exist.
func LoadFrom(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return &config, nil
}

// Save saves the configuration to disk.
func (c *Config) Save() error {
	path, err := configPath()
	if err != nil {
		return err
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if c.API.Port <= 0 || c.API.Port > 65535 {
		return fmt.Errorf("invalid API port: %d", c.API.Port)
	}
	if c.API.RateLimitRPS < 0 {
		return fmt.Errorf("rate limit cannot be negative: %v", c.API.RateLimitRPS)
	}
	if c.API.RateLimitBurst < 0 {
		return fmt.Errorf("rate limit burst cannot be negative: %d", c.API.RateLimitBurst)
	}
	return nil
}
