// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func cancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <run-id>",
		Short: "Signal a running migration to stop at the next phase boundary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runID := args[0]
			dir := filepath.Join(cfg.GetString("temp_dir"), runID)

			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}

			sentinel := filepath.Join(dir, "CANCELLED")
			if err := os.WriteFile(sentinel, []byte{}, 0o644); err != nil {
				return err
			}

			fmt.Printf("Cancellation requested for run %q\n", runID)
			return nil
		},
	}
}
