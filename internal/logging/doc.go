// Package logging assembles structured slog loggers and formatting helpers used
// across driller.
//
// It owns the console and JSON handlers, level parsing, and output plumbing,
// and exposes context-aware helpers so commands can tag log lines with the
// capture they operate on. Console output goes to stderr so command output on
// stdout stays machine-readable; when a log directory is configured every
// record is also appended as JSON to driller.log.
//
// Prefer these constructors over hand-rolled slog setup. Library packages take
// a *slog.Logger and fall back to NewNop when given nil.
package logging
