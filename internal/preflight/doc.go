// Package preflight provides readiness checks for the directories and
// state tidydir depends on.
//
// The CLI "tidydir check" command runs RunAll and prints each Result. The
// organizer itself never calls these checks; a missing or unreadable root
// surfaces from directory enumeration instead.
package preflight
