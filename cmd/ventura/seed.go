// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ventura Contributors

package main

import (
	"context"
	"errors"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/venturalabs/ventura/internal/auth"
	authpg "github.com/venturalabs/ventura/internal/auth/postgres"
	"github.com/venturalabs/ventura/internal/config"
	"github.com/venturalabs/ventura/internal/store"
)

// Default timeout for seed command.
const defaultSeedTimeout = 30 * time.Second

// seedConfig holds configuration for the seed command.
type seedConfig struct {
	timeout time.Duration
}

// NewSeedCmd creates the seed subcommand.
func NewSeedCmd() *cobra.Command {
	cfg := &seedConfig{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed the demo account",
		Long: `Creates the shared demo account used by the one-click demo sign-in.
This command is idempotent - it will not create duplicates if run multiple times.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, args, cfg)
		},
	}

	cmd.Flags().DurationVar(&cfg.timeout, "timeout", defaultSeedTimeout, "timeout for database operations (e.g., 30s, 1m)")

	return cmd
}

func runSeed(cmd *cobra.Command, _ []string, seedCfg *seedConfig) error {
	cfg, err := config.Load(resolveConfigFile(), cmd.Flags())
	if err != nil {
		return err
	}
	if cfg.Database.URL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("database URL is required (set DATABASE_URL or database.url)")
	}

	// Use cmd.Context() to respect SIGINT/SIGTERM signals.
	ctx, cancel := context.WithTimeout(cmd.Context(), seedCfg.timeout)
	defer cancel()

	cmd.Println("Connecting to database...")
	pool, err := store.Connect(ctx, cfg.Database.URL)
	if err != nil {
		return oops.Code("DB_CONNECT_FAILED").With("operation", "connect to database").Wrap(err)
	}
	defer pool.Close()

	cmd.Println("Running migrations...")
	migrator, err := store.NewMigrator(cfg.Database.URL)
	if err != nil {
		return oops.Code("MIGRATION_FAILED").With("operation", "create migrator").Wrap(err)
	}
	defer migrator.Close() //nolint:errcheck // close error is secondary to the seed result
	if err := migrator.Up(); err != nil {
		return oops.Code("MIGRATION_FAILED").With("operation", "run migrations").Wrap(err)
	}

	hasher := auth.NewPBKDF2Hasher()
	passwordHash, err := hasher.Hash(auth.DemoPassword)
	if err != nil {
		return oops.Code("SEED_FAILED").With("operation", "hash demo password").Wrap(err)
	}

	user, err := auth.NewUser(auth.DemoEmail, passwordHash, auth.DemoName, "")
	if err != nil {
		return oops.Code("SEED_FAILED").With("operation", "build demo user").Wrap(err)
	}

	users := authpg.NewUserRepository(pool)
	if err := users.Create(ctx, user); err != nil {
		// A concurrent or earlier seed already created the account.
		if errors.Is(err, auth.ErrDuplicateEmail) {
			cmd.Println("Demo account already exists, nothing to do")
			return nil
		}
		return oops.Code("SEED_FAILED").With("operation", "create demo user").Wrap(err)
	}

	cmd.Printf("Demo account created: %s\n", auth.DemoEmail)
	return nil
}
