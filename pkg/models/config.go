package models

// LogConfig controls the structured logger.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// EventsConfig controls the JSONL invocation event log.
type EventsConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" mapstructure:"path"`
}

// OpenerConfig controls the open_url command.
type OpenerConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
}

// MCPConfig controls the MCP server identity.
type MCPConfig struct {
	Name string `yaml:"name" mapstructure:"name"`
}

// Config holds backend settings read from .tarefitasrc via Viper.
type Config struct {
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
	Events EventsConfig `yaml:"events" mapstructure:"events"`
	Opener OpenerConfig `yaml:"opener" mapstructure:"opener"`
	MCP    MCPConfig    `yaml:"mcp" mapstructure:"mcp"`
}
