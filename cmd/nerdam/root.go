package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the nerdam CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nerdam",
		Short: "nerdam - a forum backend",
		Long: `nerdam is a forum backend serving a GraphQL API with
cookie sessions backed by Redis and storage in PostgreSQL.`,
	}

	// Global flag for config file path
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	// Add subcommands
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())

	return cmd
}
