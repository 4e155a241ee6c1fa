package core

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/valter-silva-au/tarefitas/pkg/models"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func TestLoadConfig_Defaults_WhenNoFile(t *testing.T) {
	cm := NewConfigurationManager(t.TempDir())

	cfg, err := cm.LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := DefaultConfig()
	if *cfg != *want {
		t.Errorf("LoadConfig() = %+v, want %+v", cfg, want)
	}
}

func TestLoadConfig_ReadsFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ConfigFileName, `
log:
  level: DEBUG
  format: json
events:
  enabled: false
  path: /var/log/tarefitas.jsonl
opener:
  enabled: true
mcp:
  name: tarefitas-dev
`)

	cfg, err := NewConfigurationManager(dir).LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Log.Format = %q, want json", cfg.Log.Format)
	}
	if cfg.Events.Enabled {
		t.Error("Events.Enabled = true, want false")
	}
	if cfg.Events.Path != "/var/log/tarefitas.jsonl" {
		t.Errorf("Events.Path = %q", cfg.Events.Path)
	}
	if !cfg.Opener.Enabled {
		t.Error("Opener.Enabled = false, want true")
	}
	if cfg.MCP.Name != "tarefitas-dev" {
		t.Errorf("MCP.Name = %q", cfg.MCP.Name)
	}
}

func TestLoadConfig_PartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ConfigFileName, "log:\n  format: json\n")

	cfg, err := NewConfigurationManager(dir).LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Log.Format = %q, want json", cfg.Log.Format)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want default info", cfg.Log.Level)
	}
	if !cfg.Events.Enabled {
		t.Error("Events.Enabled should default to true")
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ConfigFileName, "log:\n  level: info\n")
	t.Setenv("TAREFITAS_LOG_LEVEL", "warn")
	t.Setenv("TAREFITAS_OPENER_ENABLED", "true")

	cfg, err := NewConfigurationManager(dir).LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want warn from env", cfg.Log.Level)
	}
	if !cfg.Opener.Enabled {
		t.Error("Opener.Enabled should be true from env")
	}
}

func TestLoadConfig_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ConfigFileName, "log: [unterminated\n")

	if _, err := NewConfigurationManager(dir).LoadConfig(); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}

func TestValidateConfig(t *testing.T) {
	cm := NewConfigurationManager(t.TempDir())

	if err := cm.ValidateConfig(DefaultConfig()); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
	if err := cm.ValidateConfig(nil); err == nil {
		t.Error("expected error for nil config")
	}

	bad := &models.Config{
		Log:    models.LogConfig{Level: "verbose", Format: "xml"},
		Events: models.EventsConfig{Enabled: true},
	}
	err := cm.ValidateConfig(bad)
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"log.level", "log.format", "events.path", "mcp.name"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in error:\n%v", want, err)
		}
	}

	disabled := DefaultConfig()
	disabled.Events = models.EventsConfig{Enabled: false}
	if err := cm.ValidateConfig(disabled); err != nil {
		t.Errorf("empty events.path is fine when disabled, got %v", err)
	}
}

func TestWriteDefaultConfig(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	cm := NewConfigurationManager(dir)

	path, created, err := cm.WriteDefaultConfig()
	if err != nil {
		t.Fatalf("WriteDefaultConfig: %v", err)
	}
	if !created {
		t.Error("expected created = true on first write")
	}
	if path != filepath.Join(dir, ConfigFileName) {
		t.Errorf("path = %q", path)
	}

	cfg, err := cm.LoadConfig()
	if err != nil {
		t.Fatalf("reloading written config: %v", err)
	}
	if *cfg != *DefaultConfig() {
		t.Errorf("round-tripped config = %+v, want defaults", cfg)
	}

	writeFile(t, dir, ConfigFileName, "log:\n  level: error\n")
	_, created, err = cm.WriteDefaultConfig()
	if err != nil {
		t.Fatalf("second WriteDefaultConfig: %v", err)
	}
	if created {
		t.Error("expected created = false when file exists")
	}
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "level: error") {
		t.Errorf("existing file was overwritten:\n%s", data)
	}
}

func TestResolveEventLogPath(t *testing.T) {
	cfg := DefaultConfig()
	if got := ResolveEventLogPath("/home/u", cfg); got != filepath.Join("/home/u", ".tarefitas_events.jsonl") {
		t.Errorf("relative path resolved to %q", got)
	}
	cfg.Events.Path = "/tmp/ev.jsonl"
	if got := ResolveEventLogPath("/home/u", cfg); got != "/tmp/ev.jsonl" {
		t.Errorf("absolute path resolved to %q", got)
	}
}
