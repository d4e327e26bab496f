// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Nerdam Contributors

package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerdam/nerdam/internal/config"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func setRequiredEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/nerdam")
	t.Setenv("SESSION_SECRET", testSecret)
}

// serveStyleFlags registers the flag set the way the serve command does:
// empty string defaults, real values only when parsed.
func serveStyleFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("addr", "", "")
	flags.String("metrics-addr", "", "")
	flags.String("log-format", "", "")
	return flags
}

func TestLoad(t *testing.T) {
	t.Run("defaults with env secrets", func(t *testing.T) {
		setRequiredEnv(t)

		cfg, err := config.Load("", nil)
		require.NoError(t, err)

		assert.Equal(t, ":4000", cfg.Server.Addr)
		assert.Equal(t, "127.0.0.1:9100", cfg.Server.MetricsAddr)
		assert.Equal(t, "127.0.0.1:6379", cfg.Redis.Addr)
		assert.Equal(t, "nerdAM", cfg.Session.CookieName)
		assert.Equal(t, 10*365*24*time.Hour, cfg.Session.MaxAge)
		assert.False(t, cfg.Session.Secure)
		assert.Equal(t, "json", cfg.LogFormat)
	})

	t.Run("yaml file overrides defaults", func(t *testing.T) {
		setRequiredEnv(t)

		path := filepath.Join(t.TempDir(), "nerdam.yaml")
		yaml := strings.Join([]string{
			"server:",
			"  addr: \":8080\"",
			"session:",
			"  cookie_name: sid",
			"  max_age: 24h",
			"  secure: true",
			"log_format: text",
		}, "\n")
		require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

		cfg, err := config.Load(path, nil)
		require.NoError(t, err)

		assert.Equal(t, ":8080", cfg.Server.Addr)
		assert.Equal(t, "sid", cfg.Session.CookieName)
		assert.Equal(t, 24*time.Hour, cfg.Session.MaxAge)
		assert.True(t, cfg.Session.Secure)
		assert.Equal(t, "text", cfg.LogFormat)
	})

	t.Run("changed flags take precedence over file", func(t *testing.T) {
		setRequiredEnv(t)

		path := filepath.Join(t.TempDir(), "nerdam.yaml")
		require.NoError(t, os.WriteFile(path, []byte("server:\n  addr: \":8080\"\nlog_format: text\n"), 0o600))

		flags := serveStyleFlags()
		require.NoError(t, flags.Parse([]string{"--addr", ":9999"}))

		cfg, err := config.Load(path, flags)
		require.NoError(t, err)

		assert.Equal(t, ":9999", cfg.Server.Addr)
		// Unchanged flags must not shadow file values with their defaults.
		assert.Equal(t, "text", cfg.LogFormat)
	})

	t.Run("unset flags keep built-in defaults", func(t *testing.T) {
		setRequiredEnv(t)

		// Registered exactly as the serve command does: empty placeholder
		// defaults, nothing parsed.
		cfg, err := config.Load("", serveStyleFlags())
		require.NoError(t, err)

		assert.Equal(t, ":4000", cfg.Server.Addr)
		assert.Equal(t, "127.0.0.1:9100", cfg.Server.MetricsAddr)
		assert.Equal(t, "json", cfg.LogFormat)
	})

	t.Run("missing file fails", func(t *testing.T) {
		setRequiredEnv(t)

		_, err := config.Load("/nonexistent/nerdam.yaml", nil)
		require.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	valid := func() config.Config {
		cfg := config.Default()
		cfg.Database.URL = "postgres://localhost:5432/nerdam"
		cfg.Session.Secret = testSecret
		return cfg
	}

	t.Run("valid config passes", func(t *testing.T) {
		cfg := valid()
		require.NoError(t, cfg.Validate())
	})

	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"missing database url", func(c *config.Config) { c.Database.URL = "" }, "database.url"},
		{"missing secret", func(c *config.Config) { c.Session.Secret = "" }, "session.secret"},
		{"short secret", func(c *config.Config) { c.Session.Secret = "tooshort" }, "at least"},
		{"missing cookie name", func(c *config.Config) { c.Session.CookieName = "" }, "cookie_name"},
		{"non-positive max age", func(c *config.Config) { c.Session.MaxAge = 0 }, "max_age"},
		{"missing redis addr", func(c *config.Config) { c.Redis.Addr = "" }, "redis.addr"},
		{"bad log format", func(c *config.Config) { c.LogFormat = "xml" }, "log_format"},
		{"missing server addr", func(c *config.Config) { c.Server.Addr = "" }, "server.addr"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
