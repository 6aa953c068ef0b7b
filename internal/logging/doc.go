// Package logging assembles structured slog loggers and formatting helpers used
// across tidydir.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so organizer code can tag log
// lines with the run ID, root directory, and operation. The package also
// provides a no-op logger for tests and wiring code that cannot fail.
//
// Logs are diagnostics and go to stderr (plus an optional file); per-file
// progress lines are written by the organizer to its own output writer.
package logging
