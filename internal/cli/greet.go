package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/valter-silva-au/tarefitas/internal/core"
)

var greetCmd = &cobra.Command{
	Use:   "greet [name]",
	Short: "Print the backend greeting for a name",
	Long: `Print the greeting the greet command returns. The name is used verbatim;
omit it to greet the empty name.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Router == nil {
			return fmt.Errorf("command router not initialized")
		}

		name := ""
		if len(args) > 0 {
			name = args[0]
		}
		payload, err := json.Marshal(core.GreetArgs{Name: &name})
		if err != nil {
			return fmt.Errorf("encoding arguments: %w", err)
		}

		result, err := Router.Invoke(context.Background(), core.CommandGreet, payload)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(greetCmd)
}
