// Package failure classifies filesystem and workflow errors for tidydir.
//
// Every error that leaves the organizer is tagged with one of the exported
// markers so the CLI can choose an exit code and the journal can record a
// stable reason. Wrap adds stage and operation context in the same shape
// everywhere; Classify maps raw syscall and io/fs errors onto the markers.
package failure
