package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/valter-silva-au/tarefitas/internal/core"
)

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()
	orig := ConfigMgr
	ConfigMgr = core.NewConfigurationManager(dir)
	defer func() { ConfigMgr = orig }()

	out, err := runCLI(t, "", "init")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	path := filepath.Join(dir, core.ConfigFileName)
	if !strings.Contains(out, "Created "+path) {
		t.Errorf("output = %q, want Created line", out)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config not written: %v", err)
	}

	out, err = runCLI(t, "", "init")
	if err != nil {
		t.Fatalf("unexpected error on rerun: %v", err)
	}
	if !strings.Contains(out, "Skipped "+path) {
		t.Errorf("output = %q, want Skipped line", out)
	}
}

func TestInitCommand_NilManager(t *testing.T) {
	orig := ConfigMgr
	ConfigMgr = nil
	defer func() { ConfigMgr = orig }()

	_, err := runCLI(t, "", "init")
	if err == nil || !strings.Contains(err.Error(), "configuration manager not initialized") {
		t.Errorf("err = %v, want not initialized", err)
	}
}
