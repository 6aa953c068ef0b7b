// Package journal records organizer runs and individual file moves in SQLite.
//
// The Store manages database connections, schema initialization, busy retries,
// and the run/move tables that back the history, show, and undo commands. A
// run row is opened before the first move and closed with final counts; every
// attempted move gets a row whether it succeeded, was skipped, or failed, so a
// crash mid-run still leaves an undoable record of what already happened.
//
// Schema changes bump schemaVersion in schema.go; users delete journal.db to
// adopt the new schema.
package journal
