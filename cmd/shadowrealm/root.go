// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ShadowRealm Contributors

package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the ShadowRealm CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shadowrealm",
		Short: "ShadowRealm - multiplayer game backend",
		Long: `ShadowRealm is the backend service for the ShadowRealm game:
player accounts, position persistence, and quest progression.`,
	}

	// Global flag for config file path
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	// Add subcommands
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewSeedCmd())

	return cmd
}
