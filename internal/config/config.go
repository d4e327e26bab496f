// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Nerdam Contributors

// Package config loads and validates server configuration.
//
// Configuration is assembled in layers: built-in defaults, then an optional
// YAML file, then environment variables for secrets, then command-line flags.
// The resulting Config is validated once at startup and injected explicitly
// into every component that needs it.
package config

import (
	"os"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// MinSecretLength is the minimum length of the session secret in bytes.
const MinSecretLength = 32

// Config holds all server configuration.
type Config struct {
	Server    ServerConfig   `koanf:"server"`
	Database  DatabaseConfig `koanf:"database"`
	Redis     RedisConfig    `koanf:"redis"`
	Session   SessionConfig  `koanf:"session"`
	LogFormat string         `koanf:"log_format"`
}

// ServerConfig holds HTTP listener configuration.
type ServerConfig struct {
	Addr        string `koanf:"addr"`
	MetricsAddr string `koanf:"metrics_addr"`

	// AllowedOrigins lists origins permitted to make credentialed
	// cross-origin requests. Empty means same-origin only.
	AllowedOrigins []string `koanf:"allowed_origins"`
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	URL string `koanf:"url"`
}

// RedisConfig holds the session store backend configuration.
type RedisConfig struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

// SessionConfig holds session cookie configuration.
type SessionConfig struct {
	CookieName string        `koanf:"cookie_name"`
	MaxAge     time.Duration `koanf:"max_age"`
	Secure     bool          `koanf:"secure"`
	Secret     string        `koanf:"secret"`
}

// Default returns the built-in configuration defaults.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:        ":4000",
			MetricsAddr: "127.0.0.1:9100",
		},
		Redis: RedisConfig{
			Addr: "127.0.0.1:6379",
		},
		Session: SessionConfig{
			CookieName: "nerdAM",
			MaxAge:     10 * 365 * 24 * time.Hour,
			Secure:     false,
		},
		LogFormat: "json",
	}
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"addr":         "server.addr",
	"metrics-addr": "server.metrics_addr",
	"log-format":   "log_format",
}

// Load assembles configuration from defaults, an optional YAML file,
// environment variables, and command-line flags (in increasing precedence).
// path may be empty; flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_FILE_FAILED").With("path", path).Wrap(err)
		}
	}

	// Secrets and connection strings come from the environment, never flags.
	for env, key := range map[string]string{
		"DATABASE_URL":   "database.url",
		"REDIS_ADDR":     "redis.addr",
		"REDIS_PASSWORD": "redis.password",
		"SESSION_SECRET": "session.secret",
	} {
		if v := os.Getenv(env); v != "" {
			if err := k.Set(key, v); err != nil {
				return nil, oops.Code("CONFIG_ENV_FAILED").With("env", env).Wrap(err)
			}
		}
	}

	if flags != nil {
		// Only flags the user actually set participate; flag defaults are
		// placeholders and must not shadow Default() or file values.
		provider := posflag.ProviderWithValue(flags, ".", k, func(key, value string) (string, any) {
			mapped, ok := flagKeys[key]
			if !ok || !flags.Changed(key) {
				return "", nil
			}
			return mapped, value
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, oops.Code("CONFIG_FLAGS_FAILED").Wrap(err)
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code("CONFIG_UNMARSHAL_FAILED").Wrap(err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the configuration is complete and consistent.
// It fails fast so the process never serves with a broken configuration.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return oops.Code("CONFIG_INVALID").Errorf("server.addr is required")
	}
	if c.Database.URL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("database.url is required (set DATABASE_URL)")
	}
	if c.Redis.Addr == "" {
		return oops.Code("CONFIG_INVALID").Errorf("redis.addr is required")
	}
	if c.Session.Secret == "" {
		return oops.Code("CONFIG_INVALID").Errorf("session.secret is required (set SESSION_SECRET)")
	}
	if len(c.Session.Secret) < MinSecretLength {
		return oops.Code("CONFIG_INVALID").
			With("min", MinSecretLength).
			Errorf("session.secret must be at least %d bytes", MinSecretLength)
	}
	if c.Session.CookieName == "" {
		return oops.Code("CONFIG_INVALID").Errorf("session.cookie_name is required")
	}
	if c.Session.MaxAge <= 0 {
		return oops.Code("CONFIG_INVALID").Errorf("session.max_age must be positive")
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return oops.Code("CONFIG_INVALID").Errorf("log_format must be 'json' or 'text', got %q", c.LogFormat)
	}
	return nil
}
