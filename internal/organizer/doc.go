// Package organizer sorts the immediate children of a root directory into
// category folders named after each file's uppercased extension.
//
// A pass is planned first: entries are read once, sorted by name, and each
// regular file gets a decision (move, skip, or fail) computed against a
// simulated view of the root so earlier moves free or claim names for later
// ones. Organize executes the plan under a per-root lock, printing one
// "Moved <file> --> <dir>" line per file and recording every decision in the
// journal. Undo replays a journaled run backwards and removes the category
// folders that run created once they are empty.
//
// Subdirectories are never moved or descended into, which is what makes a
// second pass over an organized root a no-op.
package organizer
