package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/valter-silva-au/tarefitas/internal/core"
)

var testEpochMillis = time.UnixMilli(1700000000000)

// newTestRouter builds a router with a fixed clock and random source so that
// generate_id is deterministic.
func newTestRouter(t *testing.T) core.CommandRouter {
	t.Helper()
	idGen := core.NewIDGenerator(core.IDGeneratorOptions{
		Now:    func() time.Time { return testEpochMillis },
		Random: func() (uuid.UUID, error) { return uuid.MustParse("9f1c2b3a-0000-4000-8000-000000000000"), nil },
	})
	router := core.NewCommandRouter(nil)
	if err := core.RegisterBuiltinCommands(router, idGen, nil); err != nil {
		t.Fatalf("registering builtin commands: %v", err)
	}
	return router
}

// withRouter installs router as the package Router for the duration of t.
func withRouter(t *testing.T, router core.CommandRouter) {
	t.Helper()
	orig := Router
	Router = router
	t.Cleanup(func() { Router = orig })
}

// runCLI executes the root command with args and returns captured stdout.
// Flag variables are reset first since cobra keeps them between runs.
func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	idCount = 1
	idParse = ""
	invokeYAML = false
	metricsJSON = false
	metricsSince = "7d"

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetArgs(nil)
	})

	err := Execute()
	return stdout.String(), err
}
