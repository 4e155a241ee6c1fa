package cli

import (
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/spf13/cobra"

	"github.com/valter-silva-au/tarefitas/pkg/models"
)

var schemaCmd = &cobra.Command{
	Use:   "schema [task|subtask]",
	Short: "Print the JSON Schema of the task records",
	Long: `Print the JSON Schema describing the Task or Subtask record exchanged with
the presentation layer. Defaults to task.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"task", "subtask"},
	RunE: func(cmd *cobra.Command, args []string) error {
		record := "task"
		if len(args) > 0 {
			record = args[0]
		}

		var (
			s   *jsonschema.Schema
			err error
		)
		switch record {
		case "task":
			s, err = models.TaskSchema()
		case "subtask":
			s, err = models.SubtaskSchema()
		default:
			return fmt.Errorf("unknown record %q (use task or subtask)", record)
		}
		if err != nil {
			return err
		}

		data, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return fmt.Errorf("formatting schema: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
