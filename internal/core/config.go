// Package core contains the business logic for the Tarefitas backend:
// identifier generation, greeting formatting, the command router that the
// host shell invokes, and configuration loading.
package core

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/valter-silva-au/tarefitas/pkg/models"
)

// ConfigFileName is the name of the YAML configuration file.
const ConfigFileName = ".tarefitasrc"

// envPrefix is prepended to upper-cased config keys for environment
// overrides, e.g. TAREFITAS_LOG_LEVEL.
const envPrefix = "TAREFITAS"

var (
	validLogLevels  = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	validLogFormats = map[string]bool{"text": true, "json": true}
)

// ConfigurationManager defines the interface for loading, validating, and
// initializing the backend configuration.
type ConfigurationManager interface {
	LoadConfig() (*models.Config, error)
	ValidateConfig(cfg *models.Config) error
	WriteDefaultConfig() (path string, created bool, err error)
}

// viperConfigManager implements ConfigurationManager using Viper for reading
// YAML configuration files and environment overrides.
type viperConfigManager struct {
	// basePath is the directory where .tarefitasrc resides.
	basePath string
}

// NewConfigurationManager creates a ConfigurationManager that reads
// configuration relative to basePath.
func NewConfigurationManager(basePath string) ConfigurationManager {
	return &viperConfigManager{basePath: basePath}
}

// DefaultConfig returns a Config populated with defaults.
func DefaultConfig() *models.Config {
	return &models.Config{
		Log: models.LogConfig{
			Level:  "info",
			Format: "text",
		},
		Events: models.EventsConfig{
			Enabled: true,
			Path:    ".tarefitas_events.jsonl",
		},
		Opener: models.OpenerConfig{Enabled: false},
		MCP:    models.MCPConfig{Name: "tarefitas"},
	}
}

// LoadConfig reads .tarefitasrc from the base path, applies TAREFITAS_*
// environment overrides, and returns the result. A missing file yields the
// defaults (still subject to environment overrides).
func (cm *viperConfigManager) LoadConfig() (*models.Config, error) {
	def := DefaultConfig()

	v := viper.New()
	v.SetConfigName(ConfigFileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(cm.basePath)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.format", def.Log.Format)
	v.SetDefault("events.enabled", def.Events.Enabled)
	v.SetDefault("events.path", def.Events.Path)
	v.SetDefault("opener.enabled", def.Opener.Enabled)
	v.SetDefault("mcp.name", def.MCP.Name)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading %s: %w", ConfigFileName, err)
		}
	}

	cfg := &models.Config{
		Log: models.LogConfig{
			Level:  strings.ToLower(v.GetString("log.level")),
			Format: strings.ToLower(v.GetString("log.format")),
		},
		Events: models.EventsConfig{
			Enabled: v.GetBool("events.enabled"),
			Path:    v.GetString("events.path"),
		},
		Opener: models.OpenerConfig{Enabled: v.GetBool("opener.enabled")},
		MCP:    models.MCPConfig{Name: v.GetString("mcp.name")},
	}

	return cfg, nil
}

// ValidateConfig checks the configuration for invalid values and reports
// every problem found in a single error.
func (cm *viperConfigManager) ValidateConfig(cfg *models.Config) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}

	var errs []string

	if !validLogLevels[cfg.Log.Level] {
		errs = append(errs, fmt.Sprintf("log.level %q is invalid, must be one of: debug, info, warn, error", cfg.Log.Level))
	}
	if !validLogFormats[cfg.Log.Format] {
		errs = append(errs, fmt.Sprintf("log.format %q is invalid, must be one of: text, json", cfg.Log.Format))
	}
	if cfg.Events.Enabled && cfg.Events.Path == "" {
		errs = append(errs, "events.path must not be empty when events.enabled is true")
	}
	if cfg.MCP.Name == "" {
		errs = append(errs, "mcp.name must not be empty")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// WriteDefaultConfig writes a .tarefitasrc with default values into the base
// path. An existing file is left untouched and reported with created=false.
func (cm *viperConfigManager) WriteDefaultConfig() (string, bool, error) {
	path := filepath.Join(cm.basePath, ConfigFileName)

	if _, err := os.Stat(path); err == nil {
		return path, false, nil
	} else if !os.IsNotExist(err) {
		return "", false, fmt.Errorf("checking %s: %w", path, err)
	}

	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return "", false, fmt.Errorf("marshalling default config: %w", err)
	}

	if err := os.MkdirAll(cm.basePath, 0o750); err != nil {
		return "", false, fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", false, fmt.Errorf("writing %s: %w", path, err)
	}
	return path, true, nil
}

// ResolveEventLogPath returns the event log path from cfg, anchored at
// basePath when relative.
func ResolveEventLogPath(basePath string, cfg *models.Config) string {
	if filepath.IsAbs(cfg.Events.Path) {
		return cfg.Events.Path
	}
	return filepath.Join(basePath, cfg.Events.Path)
}
