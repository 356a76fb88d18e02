// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ventura Contributors

package main

import (
	"github.com/spf13/cobra"

	"github.com/venturalabs/ventura/internal/xdg"
)

// Global flags available to all subcommands.
var configFile string

// resolveConfigFile returns the --config flag value when set, otherwise
// the config file from the XDG config directory if one exists.
func resolveConfigFile() string {
	if configFile != "" {
		return configFile
	}
	return xdg.DefaultConfigFile()
}

// NewRootCmd creates the root command for the Ventura CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ventura",
		Short: "Ventura - a study-tracking service",
		Long: `Ventura is a study-tracking service with session-based
authentication, shared study rooms, and a studying leaderboard.`,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewSeedCmd())

	return cmd
}
