package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "TRAIL_"

// Load reads configuration from an optional YAML file, then overrides
// with TRAIL_* environment variables.
//
// Precedence (highest to lowest):
//  1. Environment variables (TRAIL_SERVER_ADDR, TRAIL_STORE_BACKEND, ...)
//  2. YAML config file
//  3. Defaults
//
// Environment variables split on the first underscore after the prefix:
//
//	TRAIL_SERVER_ADDR        -> server.addr
//	TRAIL_STORE_BACKEND      -> store.backend
//	TRAIL_REDIS_LOCK_TTL     -> redis.lock_ttl
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if configPath != "" {
		content, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		// TRAIL_SERVER_ADDR -> server.addr; the section is the part up
		// to the first underscore, the rest keeps its underscores.
		lower := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		parts := strings.SplitN(lower, "_", 2)
		if len(parts) == 1 {
			return lower
		}
		return parts[0] + "." + parts[1]
	}), nil); err != nil {
		return nil, fmt.Errorf("load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = "memory"
	}
	if cfg.Redis.Prefix == "" {
		cfg.Redis.Prefix = "trail:"
	}
	if cfg.Redis.LockTTL == 0 {
		cfg.Redis.LockTTL = 30 * time.Second
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}
