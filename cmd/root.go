// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Maheshgx/postgres-to-snowflake-migration-agent/internal/config"
)

// Version is the CLI's version string.
var Version = "development"

var cfg = config.New()

func init() {
	rootCmd.PersistentFlags().String("request", "", "Path to a YAML migration request file")
	rootCmd.PersistentFlags().String("artifacts-dir", "./artifacts", "Base directory runs write their artifacts under")
	rootCmd.PersistentFlags().String("temp-dir", "./tmp", "Base directory runs write extracted chunk files under")

	cfg.BindPFlag("request_file", rootCmd.PersistentFlags().Lookup("request"))
	cfg.BindPFlag("artifacts_dir", rootCmd.PersistentFlags().Lookup("artifacts-dir"))
	cfg.BindPFlag("temp_dir", rootCmd.PersistentFlags().Lookup("temp-dir"))
}

var rootCmd = &cobra.Command{
	Use:          "pgsfmig",
	Short:        "Migrate a PostgreSQL database to Snowflake",
	SilenceUsage: true,
	Version:      Version,
}

// Execute runs the root command.
func Execute() error {
	rootCmd.AddCommand(startCmd())
	rootCmd.AddCommand(statusCmd())
	rootCmd.AddCommand(cancelCmd())
	rootCmd.AddCommand(artifactsCmd())

	return rootCmd.Execute()
}
