package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/valter-silva-au/tarefitas/internal/core"
)

var (
	idCount int
	idParse string
)

var idCmd = &cobra.Command{
	Use:   "id",
	Short: "Generate task identifiers",
	Long: `Generate one or more identifiers of the form <unix-ms>-<8 hex chars>,
exactly as the desktop shell receives them from generate_id.

With --parse, decode an existing identifier instead and print its timestamp.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		if idParse != "" {
			parts, err := core.ParseID(idParse)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "timestamp: %d\n", parts.Millis)
			fmt.Fprintf(out, "time:      %s\n", parts.Time().Format(time.RFC3339Nano))
			fmt.Fprintf(out, "suffix:    %s\n", parts.Suffix)
			return nil
		}

		if Router == nil {
			return fmt.Errorf("command router not initialized")
		}
		if idCount < 1 {
			return fmt.Errorf("--count must be at least 1, got %d", idCount)
		}

		for i := 0; i < idCount; i++ {
			result, err := Router.Invoke(context.Background(), core.CommandGenerateID, nil)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, result)
		}
		return nil
	},
}

func init() {
	idCmd.Flags().IntVarP(&idCount, "count", "n", 1, "Number of identifiers to generate")
	idCmd.Flags().StringVar(&idParse, "parse", "", "Decode an identifier instead of generating one")
	rootCmd.AddCommand(idCmd)
}
