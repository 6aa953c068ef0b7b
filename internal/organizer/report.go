package organizer

import (
	"tidydir/internal/journal"
)

// Result is the outcome of one plan entry.
type Result struct {
	Entry      PlanEntry
	Status     journal.MoveStatus
	CreatedDir bool
	Err        error
}

// Report summarizes an organize or undo pass.
type Report struct {
	RunID   string
	Root    string
	DryRun  bool
	Aborted bool
	Results []Result
}

// Counts tallies results by status. Planned results count as moved so dry runs
// report what would have happened.
func (r *Report) Counts() journal.Counts {
	var c journal.Counts
	if r == nil {
		return c
	}
	for _, res := range r.Results {
		switch res.Status {
		case journal.MoveMoved, journal.MovePlanned, journal.MoveUndone:
			c.Moved++
		case journal.MoveSkipped:
			c.Skipped++
		case journal.MoveFailed:
			c.Failed++
		}
	}
	return c
}
