// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/Maheshgx/postgres-to-snowflake-migration-agent/internal/config"
	"github.com/Maheshgx/postgres-to-snowflake-migration-agent/pkg/migrate"
)

func startCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Analyze the source database, generate a migration plan, and (with --confirm) execute it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.BindFlags(cfg, cmd.Flags()); err != nil {
				return err
			}

			req, err := config.Load(cfg, cfg.GetString("request_file"))
			if err != nil {
				return err
			}

			orch, err := migrate.New(req, cfg.GetString("artifacts_dir"), cfg.GetString("temp_dir"))
			if err != nil {
				return err
			}

			sp, _ := pterm.DefaultSpinner.WithText("Starting migration run " + orch.RunID() + "...").Start()

			outcome, err := orch.RunComplete(cmd.Context())
			if err != nil {
				sp.Fail(fmt.Sprintf("Migration failed: %s", err))
				return err
			}

			sp.Success(outcome.Message)

			out, err := json.MarshalIndent(outcome, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))

			return nil
		},
	}

	cmd.Flags().String("postgres-host", "", "Source PostgreSQL host")
	cmd.Flags().Int("postgres-port", 5432, "Source PostgreSQL port")
	cmd.Flags().String("postgres-database", "", "Source PostgreSQL database")
	cmd.Flags().String("postgres-username", "", "Source PostgreSQL username")
	cmd.Flags().String("postgres-password", "", "Source PostgreSQL password")
	cmd.Flags().String("snowflake-account", "", "Target Snowflake account")
	cmd.Flags().String("snowflake-warehouse", "", "Target Snowflake warehouse")
	cmd.Flags().String("snowflake-database", "", "Target Snowflake database")
	cmd.Flags().String("snowflake-schema", "", "Target Snowflake schema")
	cmd.Flags().String("snowflake-stage", "", "Target Snowflake stage")
	cmd.Flags().Bool("dry-run", false, "Generate the plan and artifacts without executing")
	cmd.Flags().Bool("confirm", false, "Execute the migration after planning (required to move past awaiting_confirmation)")
	cmd.Flags().String("run-id", "", "Use this run id instead of generating a new one (every phase still runs from the start)")

	return cmd
}
