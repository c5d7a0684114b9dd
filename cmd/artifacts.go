// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func artifactsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "artifacts",
		Short: "Inspect the artifacts a migration run produced",
	}

	cmd.AddCommand(artifactsListCmd())
	cmd.AddCommand(artifactsReadCmd())
	cmd.AddCommand(artifactsDeleteCmd())

	return cmd
}

func artifactsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <run-id>",
		Short: "List the artifact files written by a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := filepath.Join(cfg.GetString("artifacts_dir"), args[0])

			entries, err := os.ReadDir(dir)
			if err != nil {
				return err
			}

			for _, e := range entries {
				if e.IsDir() {
					continue
				}
				info, err := e.Info()
				if err != nil {
					return err
				}
				fmt.Printf("%-30s %8d bytes\n", e.Name(), info.Size())
			}

			return nil
		},
	}
}

func artifactsReadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "read <run-id> <artifact>",
		Short: "Print the contents of a single artifact file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := filepath.Join(cfg.GetString("artifacts_dir"), args[0], args[1])

			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			fmt.Println(string(data))
			return nil
		},
	}
}

func artifactsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <run-id>",
		Short: "Remove a run's artifacts and temp directories",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runID := args[0]

			if err := os.RemoveAll(filepath.Join(cfg.GetString("artifacts_dir"), runID)); err != nil {
				return err
			}
			if err := os.RemoveAll(filepath.Join(cfg.GetString("temp_dir"), runID)); err != nil {
				return err
			}

			fmt.Printf("Removed artifacts and temp data for run %q\n", runID)
			return nil
		},
	}
}
