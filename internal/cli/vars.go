package cli

import (
	"log/slog"

	"github.com/valter-silva-au/tarefitas/internal/core"
	"github.com/valter-silva-au/tarefitas/internal/observability"
	"github.com/valter-silva-au/tarefitas/pkg/models"
)

// Service instances, set during app initialization in app.go.
var (
	Config    *models.Config
	ConfigMgr core.ConfigurationManager
	Router    core.CommandRouter
	Logger    *slog.Logger
)

// MetricsCalc is nil when events are disabled.
var MetricsCalc observability.MetricsCalculator
