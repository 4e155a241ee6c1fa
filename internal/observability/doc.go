// Package observability records command invocations in an append-only JSON
// Lines log and derives per-command usage metrics from it on demand.
package observability
