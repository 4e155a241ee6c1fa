package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	tmcp "github.com/valter-silva-au/tarefitas/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  "Commands for running the tarefitas MCP (Model Context Protocol) server.",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the tarefitas MCP server on stdio",
	Long: `Start the tarefitas MCP server on stdio transport.

Every backend command is exposed as an MCP tool: generate_id, greet,
list_commands, and open_url when the opener is enabled.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Router == nil {
			return fmt.Errorf("command router not initialized")
		}

		name := ""
		if Config != nil {
			name = Config.MCP.Name
		}
		srv := tmcp.NewServer(Router, name, appVersion)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		if Logger != nil {
			Logger.Info("mcp server starting", "name", name, "commands", len(Router.Commands()))
		}
		if err := srv.Run(ctx); err != nil {
			return fmt.Errorf("running MCP server: %w", err)
		}

		return nil
	},
}

func init() {
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}
