package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var invokeYAML bool

var invokeCmd = &cobra.Command{
	Use:   "invoke <command> [json-args]",
	Short: "Invoke a backend command the way the desktop shell does",
	Long: `Invoke a named command with a JSON object of arguments and print the
result as JSON (or YAML with --yaml).

Examples:
  tarefitas invoke generate_id
  tarefitas invoke greet '{"name":"World"}'`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Router == nil {
			return fmt.Errorf("command router not initialized")
		}

		var payload json.RawMessage
		if len(args) == 2 {
			if !json.Valid([]byte(args[1])) {
				return fmt.Errorf("arguments for %s are not valid JSON: %s", args[0], args[1])
			}
			payload = json.RawMessage(args[1])
		}

		result, err := Router.Invoke(context.Background(), args[0], payload)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if invokeYAML {
			data, err := yaml.Marshal(result)
			if err != nil {
				return fmt.Errorf("formatting result as YAML: %w", err)
			}
			fmt.Fprint(out, string(data))
			return nil
		}

		enc := json.NewEncoder(out)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("formatting result as JSON: %w", err)
		}
		return nil
	},
}

var commandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "List the commands the backend accepts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Router == nil {
			return fmt.Errorf("command router not initialized")
		}
		for _, name := range Router.Commands() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

func init() {
	invokeCmd.Flags().BoolVar(&invokeYAML, "yaml", false, "Print the result as YAML")
	rootCmd.AddCommand(invokeCmd)
	rootCmd.AddCommand(commandsCmd)
}
