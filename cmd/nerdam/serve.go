// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Nerdam Contributors

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/nerdam/nerdam/internal/auth"
	authpg "github.com/nerdam/nerdam/internal/auth/postgres"
	"github.com/nerdam/nerdam/internal/config"
	"github.com/nerdam/nerdam/internal/graphql"
	"github.com/nerdam/nerdam/internal/httpserver"
	"github.com/nerdam/nerdam/internal/logging"
	"github.com/nerdam/nerdam/internal/observability"
	"github.com/nerdam/nerdam/internal/post"
	postpg "github.com/nerdam/nerdam/internal/post/postgres"
	"github.com/nerdam/nerdam/internal/session"
	"github.com/nerdam/nerdam/internal/store"
	"github.com/nerdam/nerdam/internal/xdg"
)

const shutdownTimeout = 10 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long: `Start the API server: applies pending database migrations, then
serves the GraphQL endpoint and the observability endpoints until
interrupted.`,
		RunE: runServe,
	}

	cmd.Flags().String("addr", "", "API listen address (overrides config)")
	cmd.Flags().String("metrics-addr", "", "metrics listen address (overrides config)")
	cmd.Flags().String("log-format", "", "log format: json or text (overrides config)")

	return cmd
}

//nolint:funlen // Startup wiring is one linear sequence.
func runServe(cmd *cobra.Command, _ []string) error {
	path := configFile
	if path == "" {
		path = xdg.DefaultConfigFile()
	}

	cfg, err := config.Load(path, cmd.Flags())
	if err != nil {
		return err
	}

	logging.SetDefault(version, cfg.LogFormat)
	logger := slog.Default()

	ctx := cmd.Context()

	// Storage. Migrations run before anything serves traffic.
	pool, err := store.NewPool(ctx, cfg.Database.URL)
	if err != nil {
		return oops.Code("DB_CONNECT_FAILED").With("operation", "connect to database").Wrap(err)
	}
	defer pool.Close()

	migrator, err := store.NewMigrator(cfg.Database.URL)
	if err != nil {
		return err
	}
	if err := migrator.Up(); err != nil {
		_ = migrator.Close()
		return err
	}
	if err := migrator.Close(); err != nil {
		return err
	}
	logger.Info("migrations applied")

	// Session store.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer func() { _ = redisClient.Close() }()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return oops.Code("REDIS_CONNECT_FAILED").With("addr", cfg.Redis.Addr).Wrap(err)
	}

	sessions := session.NewManager(
		session.NewRedisStore(redisClient),
		session.Options{
			Name:   cfg.Session.CookieName,
			MaxAge: cfg.Session.MaxAge,
			Secure: cfg.Session.Secure,
			Secret: cfg.Session.Secret,
		},
	)

	// Services.
	authSvc := auth.NewService(authpg.NewUserRepository(pool), auth.NewArgon2idHasher())
	postSvc := post.NewService(postpg.NewPostRepository(pool))

	// Observability server first so readiness reflects API startup.
	var ready atomic.Bool
	obsServer := observability.NewServer(cfg.Server.MetricsAddr, ready.Load)
	obsErrCh, err := obsServer.Start()
	if err != nil {
		return err
	}

	schema, err := graphql.NewSchema(authSvc, postSvc, logger, obsServer.Metrics())
	if err != nil {
		return oops.Code("SCHEMA_INIT_FAILED").Wrap(err)
	}

	apiServer := httpserver.NewServer(
		httpserver.Options{
			Addr:           cfg.Server.Addr,
			AllowedOrigins: cfg.Server.AllowedOrigins,
		},
		graphql.NewHandler(schema, sessions, logger, obsServer.Metrics()),
		logger,
	)
	apiErrCh, err := apiServer.Start()
	if err != nil {
		stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = obsServer.Stop(stopCtx)
		return err
	}
	ready.Store(true)

	// Run until interrupted or a server fails.
	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var serveErr error
	select {
	case <-sigCtx.Done():
		logger.Info("shutdown signal received")
	case serveErr = <-apiErrCh:
	case serveErr = <-obsErrCh:
	}
	ready.Store(false)

	stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := apiServer.Stop(stopCtx); err != nil {
		logger.Error("api server shutdown failed", slog.Any("error", err))
	}
	if err := obsServer.Stop(stopCtx); err != nil {
		logger.Error("observability server shutdown failed", slog.Any("error", err))
	}

	return serveErr
}
