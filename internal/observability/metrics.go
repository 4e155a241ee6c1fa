package observability

import (
	"fmt"
	"sort"
	"strconv"
	"time"
)

// CommandStats aggregates the invocations of a single command.
type CommandStats struct {
	Invocations   int   `json:"invocations"`
	Failures      int   `json:"failures"`
	TotalDuration int64 `json:"total_duration_ms"`
}

// Metrics holds usage figures derived from the event log.
type Metrics struct {
	Commands    map[string]*CommandStats `json:"commands"`
	Invocations int                      `json:"invocations"`
	Failures    int                      `json:"failures"`
	EventCount  int                      `json:"event_count"`
	OldestEvent *time.Time               `json:"oldest_event,omitempty"`
	NewestEvent *time.Time               `json:"newest_event,omitempty"`
}

// CommandNames returns the commands present in m, sorted.
func (m *Metrics) CommandNames() []string {
	names := make([]string, 0, len(m.Commands))
	for name := range m.Commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MetricsCalculator derives metrics from the event log.
type MetricsCalculator interface {
	Calculate(since time.Time) (*Metrics, error)
}

type metricsCalculator struct {
	eventLog EventLog
}

// NewMetricsCalculator creates a MetricsCalculator reading from eventLog.
func NewMetricsCalculator(eventLog EventLog) MetricsCalculator {
	return &metricsCalculator{eventLog: eventLog}
}

// Calculate aggregates every event at or after since. Both successful and
// failed invocations count toward Invocations.
func (mc *metricsCalculator) Calculate(since time.Time) (*Metrics, error) {
	events, err := mc.eventLog.Read(EventFilter{Since: &since})
	if err != nil {
		return nil, fmt.Errorf("reading events for metrics: %w", err)
	}

	m := &Metrics{Commands: make(map[string]*CommandStats)}
	m.EventCount = len(events)

	for _, event := range events {
		t := event.Time
		if m.OldestEvent == nil || t.Before(*m.OldestEvent) {
			m.OldestEvent = &t
		}
		if m.NewestEvent == nil || t.After(*m.NewestEvent) {
			m.NewestEvent = &t
		}

		if event.Type != EventCommandInvoked && event.Type != EventCommandFailed {
			continue
		}

		name := event.Command()
		stats, ok := m.Commands[name]
		if !ok {
			stats = &CommandStats{}
			m.Commands[name] = stats
		}
		stats.Invocations++
		m.Invocations++
		if event.Type == EventCommandFailed {
			stats.Failures++
			m.Failures++
		}
		stats.TotalDuration += durationMillis(event.Data["duration_ms"])
	}

	return m, nil
}

// durationMillis reads a duration_ms value that may have been decoded from
// JSON (float64) or written in-process (int64).
func durationMillis(v any) int64 {
	switch d := v.(type) {
	case float64:
		return int64(d)
	case int64:
		return d
	case int:
		return int64(d)
	default:
		return 0
	}
}

// ParseSince parses a human-friendly window like "7d" or "24h" into the
// point in time that far before now.
func ParseSince(s string, now time.Time) (time.Time, error) {
	if len(s) < 2 {
		return time.Time{}, fmt.Errorf("invalid duration %q", s)
	}

	suffix := s[len(s)-1]
	num, err := strconv.Atoi(s[:len(s)-1])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	if num < 0 {
		return time.Time{}, fmt.Errorf("invalid duration %q: must not be negative", s)
	}

	switch suffix {
	case 'd':
		return now.AddDate(0, 0, -num), nil
	case 'h':
		return now.Add(-time.Duration(num) * time.Hour), nil
	default:
		return time.Time{}, fmt.Errorf("unsupported duration suffix %q (use d or h)", string(suffix))
	}
}
