// Package config provides configuration loading for the trail server.
package config

import (
	"fmt"
	"time"
)

// Config is the full server configuration.
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Store   StoreConfig   `koanf:"store"`
	Redis   RedisConfig   `koanf:"redis"`
	Logging LoggingConfig `koanf:"logging"`
	Metrics MetricsConfig `koanf:"metrics"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Addr            string        `koanf:"addr"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	// Backend is "memory" or "bolt".
	Backend string `koanf:"backend"`
	// Path is the bolt database file, used when Backend is "bolt".
	Path string `koanf:"path"`
}

// RedisConfig controls the optional Redis session slot and lock. When
// disabled, sessions live in process memory and locking is local only.
type RedisConfig struct {
	Enabled bool          `koanf:"enabled"`
	Addr    string        `koanf:"addr"`
	Prefix  string        `koanf:"prefix"`
	LockTTL time.Duration `koanf:"lock_ttl"`
	SlotTTL time.Duration `koanf:"slot_ttl"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level string `koanf:"level"`
}

// MetricsConfig controls Prometheus instrumentation.
type MetricsConfig struct {
	Enabled bool `koanf:"enabled"`
}

// Validate checks the configuration for invalid combinations.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case "memory":
	case "bolt":
		if c.Store.Path == "" {
			return fmt.Errorf("store.path is required for the bolt backend")
		}
	default:
		return fmt.Errorf("unknown store backend %q (want memory or bolt)", c.Store.Backend)
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required when redis is enabled")
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown logging level %q", c.Logging.Level)
	}
	return nil
}
