package journal

import "time"

// RunStatus is the lifecycle state of an organizer run.
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunAborted   RunStatus = "aborted"
	RunUndone    RunStatus = "undone"
)

// MoveStatus is the outcome of a single file decision.
type MoveStatus string

const (
	MovePlanned MoveStatus = "planned"
	MoveMoved   MoveStatus = "moved"
	MoveSkipped MoveStatus = "skipped"
	MoveFailed  MoveStatus = "failed"
	MoveUndone  MoveStatus = "undone"
)

// Run is one organize pass over a root directory.
type Run struct {
	ID         string
	Root       string
	DryRun     bool
	Status     RunStatus
	StartedAt  time.Time
	FinishedAt time.Time
	Moved      int
	Skipped    int
	Failed     int
	Error      string
}

// Undoable reports whether the run has moves that can be reversed.
func (r *Run) Undoable() bool {
	if r == nil || r.DryRun {
		return false
	}
	return r.Status != RunUndone && r.Status != RunRunning && r.Moved > 0
}

// Counts are the final tallies written when a run finishes.
type Counts struct {
	Moved   int
	Skipped int
	Failed  int
}

// Move is a journaled file decision.
type Move struct {
	ID          int64
	RunID       string
	Seq         int
	Source      string
	Destination string
	Category    string
	CreatedDir  bool
	Status      MoveStatus
	Reason      string
	Error       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
