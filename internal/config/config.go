// Package config handles configuration loading and defaults.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// Default values.
const (
	DefaultListenAddr     = ":8080"
	DefaultDBPath         = "data/tasks.db"
	DefaultRequestTimeout = 30
)

// Config holds the full configuration for the server.
type Config struct {
	// ListenAddr is the host:port the HTTP server binds to.
	ListenAddr string `toml:"listen_addr"`

	// DBPath is the SQLite database file. The parent directory is
	// created on startup if it does not exist.
	DBPath string `toml:"db_path"`

	// RequestTimeoutSeconds bounds each request handled by the router.
	RequestTimeoutSeconds int `toml:"request_timeout_seconds"`

	// CORSOrigins lists allowed browser origins. Empty means the API
	// is only served to the embedded client on the same origin.
	CORSOrigins []string `toml:"cors_origins"`
}

// Load builds the configuration in priority order: defaults, then a
// TOML config file if one is found, then environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	setDefaults(cfg)

	if path := findConfigFile(); path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	loadFromEnv(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(cfg *Config) {
	cfg.ListenAddr = DefaultListenAddr
	cfg.DBPath = DefaultDBPath
	cfg.RequestTimeoutSeconds = DefaultRequestTimeout
}

// findConfigFile looks for a config file: the TODO_CONFIG path if set,
// otherwise todoapp.toml or .todoapp.toml in the current directory.
func findConfigFile() string {
	if path := os.Getenv("TODO_CONFIG"); path != "" {
		return path
	}
	for _, name := range []string{"todoapp.toml", ".todoapp.toml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// loadFromEnv overrides config from TODO_-prefixed environment variables.
func loadFromEnv(cfg *Config) {
	if v := os.Getenv("TODO_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("TODO_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("TODO_REQUEST_TIMEOUT"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.RequestTimeoutSeconds = i
		}
	}
	if v := os.Getenv("TODO_CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = splitAndTrim(v, ",")
	}
}

func (cfg *Config) validate() error {
	if cfg.ListenAddr == "" {
		return fmt.Errorf("listen_addr cannot be empty")
	}
	if cfg.DBPath == "" {
		return fmt.Errorf("db_path cannot be empty")
	}
	if cfg.RequestTimeoutSeconds <= 0 {
		return fmt.Errorf("request_timeout_seconds must be positive, got %d", cfg.RequestTimeoutSeconds)
	}
	return nil
}

// splitAndTrim splits a string by sep and trims whitespace from each part.
func splitAndTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
