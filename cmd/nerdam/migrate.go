// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Nerdam Contributors

package main

import (
	"os"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/nerdam/nerdam/internal/store"
)

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long: `Apply all pending database migrations against the PostgreSQL
database. Use --status to only report the current schema version, or
--down to roll every migration back.`,
		RunE: runMigrate,
	}

	cmd.Flags().Bool("down", false, "roll back all migrations (drops all tables and data)")
	cmd.Flags().Bool("status", false, "report the current migration version without migrating")

	return cmd
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	// The serve command reads the full config; migrations only need the
	// database and run fine without a session secret.
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("DATABASE_URL environment variable is required")
	}

	down, err := cmd.Flags().GetBool("down")
	if err != nil {
		return oops.Code("CONFIG_INVALID").Wrap(err)
	}
	status, err := cmd.Flags().GetBool("status")
	if err != nil {
		return oops.Code("CONFIG_INVALID").Wrap(err)
	}
	if down && status {
		return oops.Code("CONFIG_INVALID").Errorf("--down and --status are mutually exclusive")
	}

	migrator, err := store.NewMigrator(databaseURL)
	if err != nil {
		return oops.Code("MIGRATION_FAILED").With("operation", "create migrator").Wrap(err)
	}
	defer func() { _ = migrator.Close() }()

	switch {
	case status:
		// Report only; no schema changes.
	case down:
		cmd.Println("Rolling back all migrations...")
		if err := migrator.Down(); err != nil {
			return oops.Code("MIGRATION_FAILED").With("operation", "roll back migrations").Wrap(err)
		}
	default:
		cmd.Println("Running migrations...")
		if err := migrator.Up(); err != nil {
			return oops.Code("MIGRATION_FAILED").With("operation", "run migrations").Wrap(err)
		}
	}

	ver, dirty, err := migrator.Version()
	if err != nil {
		return oops.Code("MIGRATION_FAILED").With("operation", "read version").Wrap(err)
	}

	cmd.Printf("Schema version %d (dirty=%v)\n", ver, dirty)
	return nil
}
