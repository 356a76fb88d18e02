// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ventura Contributors

package main

import (
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/venturalabs/ventura/internal/config"
	"github.com/venturalabs/ventura/internal/store"
)

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database migrations",
		Long:  `Apply, roll back, or inspect schema migrations on the PostgreSQL database.`,
		RunE:  runMigrateUp,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE:  runMigrateUp,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back all migrations",
		RunE:  runMigrateDown,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the current migration version",
		RunE:  runMigrateStatus,
	})

	return cmd
}

// newMigrator builds a migrator from the loaded configuration.
func newMigrator(cmd *cobra.Command) (*store.Migrator, error) {
	cfg, err := config.Load(resolveConfigFile(), cmd.Flags())
	if err != nil {
		return nil, err
	}
	if cfg.Database.URL == "" {
		return nil, oops.Code("CONFIG_INVALID").Errorf("database URL is required (set DATABASE_URL or database.url)")
	}
	return store.NewMigrator(cfg.Database.URL)
}

func runMigrateUp(cmd *cobra.Command, _ []string) error {
	m, err := newMigrator(cmd)
	if err != nil {
		return err
	}
	defer m.Close() //nolint:errcheck // close error is secondary to the migration result

	cmd.Println("Running migrations...")
	if err := m.Up(); err != nil {
		return oops.Code("MIGRATION_FAILED").With("operation", "migrate up").Wrap(err)
	}
	cmd.Println("Migrations completed successfully")
	return nil
}

func runMigrateDown(cmd *cobra.Command, _ []string) error {
	m, err := newMigrator(cmd)
	if err != nil {
		return err
	}
	defer m.Close() //nolint:errcheck // close error is secondary to the migration result

	cmd.Println("Rolling back migrations...")
	if err := m.Down(); err != nil {
		return oops.Code("MIGRATION_FAILED").With("operation", "migrate down").Wrap(err)
	}
	cmd.Println("Rollback completed successfully")
	return nil
}

func runMigrateStatus(cmd *cobra.Command, _ []string) error {
	m, err := newMigrator(cmd)
	if err != nil {
		return err
	}
	defer m.Close() //nolint:errcheck // close error is secondary to the status result

	version, dirty, err := m.Version()
	if err != nil {
		return oops.Code("MIGRATION_FAILED").With("operation", "migrate status").Wrap(err)
	}
	if version == 0 {
		cmd.Println("No migrations applied")
		return nil
	}
	cmd.Printf("Version: %d (dirty: %t)\n", version, dirty)
	return nil
}
