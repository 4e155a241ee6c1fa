// Package internal provides the App struct that wires all components of the
// tarefitas backend together and initializes the CLI layer.
package internal

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/valter-silva-au/tarefitas/internal/cli"
	"github.com/valter-silva-au/tarefitas/internal/core"
	"github.com/valter-silva-au/tarefitas/internal/integration"
	"github.com/valter-silva-au/tarefitas/internal/observability"
	"github.com/valter-silva-au/tarefitas/pkg/models"
)

// App holds all service dependencies for the tarefitas backend.
type App struct {
	BasePath string

	// Configuration
	ConfigMgr core.ConfigurationManager
	Config    *models.Config

	// Core services
	IDGen  core.IDGenerator
	Router core.CommandRouter

	// Integration services
	Opener integration.Opener

	// Observability
	Logger      *slog.Logger
	EventLog    observability.EventLog
	MetricsCalc observability.MetricsCalculator
}

// NewApp creates and wires all components of the backend. basePath is the
// directory holding .tarefitasrc and the event log. Logs are written to
// logOut, typically os.Stderr.
func NewApp(basePath string, logOut io.Writer) (*App, error) {
	app := &App{BasePath: basePath}

	// --- Configuration ---
	app.ConfigMgr = core.NewConfigurationManager(basePath)
	cfg, err := app.ConfigMgr.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := app.ConfigMgr.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	app.Config = cfg

	// --- Logging ---
	app.Logger, err = observability.NewLogger(logOut, cfg.Log.Level, cfg.Log.Format, "tarefitas")
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	// --- Observability ---
	if cfg.Events.Enabled {
		path := core.ResolveEventLogPath(basePath, cfg)
		eventLog, err := observability.NewJSONLEventLog(path)
		if err != nil {
			// Non-fatal: commands still work without the event log.
			app.Logger.Warn("event log unavailable", "path", path, "error", err)
		} else {
			app.EventLog = eventLog
			app.MetricsCalc = observability.NewMetricsCalculator(eventLog)
		}
	}

	// --- Core services ---
	app.IDGen = core.NewIDGenerator(core.IDGeneratorOptions{})

	var evtAdapter core.EventLogger
	if app.EventLog != nil {
		evtAdapter = &eventLogAdapter{log: app.EventLog}
	}
	app.Router = core.NewCommandRouter(evtAdapter)

	var opener core.URLOpener
	if cfg.Opener.Enabled {
		app.Opener = integration.NewOpener(nil)
		opener = app.Opener
	}
	if err := core.RegisterBuiltinCommands(app.Router, app.IDGen, opener); err != nil {
		return nil, err
	}
	app.Logger.Debug("backend initialized", "base_path", basePath, "commands", app.Router.Commands())

	// --- Wire CLI package-level variables ---
	cli.Config = cfg
	cli.ConfigMgr = app.ConfigMgr
	cli.Router = app.Router
	cli.Logger = app.Logger
	cli.MetricsCalc = app.MetricsCalc

	return app, nil
}

// Close releases resources held by the App, such as the event log file handle.
// It is safe to call Close on an App whose EventLog is nil.
func (a *App) Close() error {
	if a.EventLog != nil {
		return a.EventLog.Close()
	}
	return nil
}

// ResolveBasePath determines the base directory. It checks TAREFITAS_HOME,
// then the nearest ancestor of the working directory containing
// .tarefitasrc, then falls back to the working directory.
func ResolveBasePath() string {
	if home := os.Getenv("TAREFITAS_HOME"); home != "" {
		return home
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}
	// Walk up to find a directory containing .tarefitasrc.
	dir := cwd
	for {
		if _, err := os.Stat(filepath.Join(dir, core.ConfigFileName)); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return cwd
}

// --- Adapters ---

// eventLogAdapter adapts observability.EventLog to core.EventLogger.
type eventLogAdapter struct {
	log observability.EventLog
}

func (a *eventLogAdapter) LogEvent(eventType string, data map[string]any) error {
	level := observability.LevelInfo
	if eventType == observability.EventCommandFailed {
		level = observability.LevelError
	}
	return a.log.Write(observability.Event{
		Time:    time.Now().UTC(),
		Level:   level,
		Type:    eventType,
		Message: eventType,
		Data:    data,
	})
}
