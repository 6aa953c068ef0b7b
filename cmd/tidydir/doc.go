// Package main hosts the tidydir CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration once, builds the structured
// logger, opens the run journal, and hands the root directory to the
// organizer. Per-file progress goes to stdout so it can be piped; logs go to
// stderr and, when configured, to a log file.
//
// Keep this package lean: new behaviour belongs in the internal packages and
// is surfaced here through dedicated commands or flags.
package main
