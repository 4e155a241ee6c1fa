package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default .tarefitasrc",
	Long: `Write a .tarefitasrc with default settings into the base directory.

Safe to run repeatedly: an existing file is left untouched.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if ConfigMgr == nil {
			return fmt.Errorf("configuration manager not initialized")
		}

		path, created, err := ConfigMgr.WriteDefaultConfig()
		if err != nil {
			return fmt.Errorf("initializing config: %w", err)
		}

		if created {
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Skipped %s (already exists)\n", path)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
