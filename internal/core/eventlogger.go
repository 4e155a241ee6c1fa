package core

// EventLogger receives command lifecycle events from the CommandRouter. The
// app wiring adapts the observability event log to it so that core does not
// import observability.
type EventLogger interface {
	LogEvent(eventType string, data map[string]any) error
}
