package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/valter-silva-au/tarefitas/internal/integration"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Answer command requests on stdin/stdout",
	Long: `Run as a sidecar of the desktop shell. Each line on stdin is a request:

  {"id": 1, "cmd": "greet", "args": {"name": "World"}}

and each line written to stdout is the matching response:

  {"id": 1, "ok": true, "result": "Hello, World! You've been greeted from Rust!"}

The server exits when stdin is closed or on SIGINT/SIGTERM. Logs go to stderr.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Router == nil {
			return fmt.Errorf("command router not initialized")
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := integration.NewIPCServer(Router, Logger)
		err := srv.Serve(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("serving commands: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
