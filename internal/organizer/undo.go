package organizer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"tidydir/internal/config"
	"tidydir/internal/failure"
	"tidydir/internal/journal"
	"tidydir/internal/logging"
	"tidydir/internal/runctx"
	"tidydir/internal/runlock"
)

// Undo moves every file a journaled run relocated back to its original path,
// newest first, then removes the category folders that run created if they
// are empty. A run is marked undone only when every move was reversed.
func (o *Organizer) Undo(ctx context.Context, runID string) (*Report, error) {
	ctx = runctx.WithOperation(ctx, "undo")
	if o.journal == nil {
		return nil, failure.Wrap(failure.ErrValidation, "undo", "load run",
			"Journal is disabled; enable [journal] to record undoable runs", nil)
	}

	run, err := o.journal.GetRun(ctx, runID)
	if err != nil {
		if errors.Is(err, journal.ErrRunNotFound) {
			return nil, failure.Wrap(failure.ErrNotFound, "undo", "load run", "", err)
		}
		return nil, failure.Wrap(failure.ErrValidation, "undo", "load run", "", err)
	}
	if run.DryRun {
		return nil, failure.Wrap(failure.ErrValidation, "undo", "load run",
			fmt.Sprintf("Run %s was a dry run; nothing to undo", run.ID), nil)
	}
	if run.Status == journal.RunUndone {
		return nil, failure.Wrap(failure.ErrValidation, "undo", "load run",
			fmt.Sprintf("Run %s was already undone", run.ID), nil)
	}

	ctx = runctx.WithRunID(runctx.WithRoot(ctx, run.Root), run.ID)
	logger := logging.WithContext(ctx, o.logger)

	if !o.dryRun {
		lock, err := runlock.TryAcquire(o.cfg.LockDir(), run.Root)
		if err != nil {
			return nil, err
		}
		defer func() { _ = lock.Release() }()
	}

	moves, err := o.journal.Moves(ctx, run.ID)
	if err != nil {
		return nil, failure.Wrap(nil, "undo", "load moves", "", err)
	}

	report := &Report{RunID: run.ID, Root: run.Root, DryRun: o.dryRun}
	logger.Info("undo pass starting", logging.Int("journaled_moves", len(moves)), logging.Bool("dry_run", o.dryRun))

	var (
		errs        []error
		createdDirs []string
		pending     int
		removed     int
	)
	for i := len(moves) - 1; i >= 0; i-- {
		m := moves[i]
		if m.Status != journal.MoveMoved {
			continue
		}
		pending++
		if m.CreatedDir {
			createdDirs = append(createdDirs, filepath.Dir(m.Destination))
		}
		if err := ctx.Err(); err != nil {
			errs = append(errs, fmt.Errorf("undo interrupted: %w", err))
			report.Aborted = true
			break
		}

		result := o.restore(ctx, m)
		report.Results = append(report.Results, result)
		// The move that created a folder is the oldest one into it, so every
		// later file has already left. Dropping the folder now frees its name
		// for an older move that restores a file called the same.
		if result.Err == nil && m.CreatedDir && !o.dryRun {
			removed += removeEmptyDirs([]string{filepath.Dir(m.Destination)})
		}
		if result.Err != nil {
			errs = append(errs, result.Err)
			logging.ErrorWithContext(logger, "restore failed", "restore_failed",
				logging.String("file", filepath.Base(m.Source)),
				logging.String("reason", failure.Reason(result.Err)),
				logging.Error(result.Err),
			)
			if o.cfg.Organize.OnError != config.OnErrorContinue {
				report.Aborted = true
				break
			}
		}
	}

	if o.dryRun {
		return report, errors.Join(errs...)
	}

	removed += removeEmptyDirs(createdDirs)
	restored := report.Counts().Moved
	if restored == pending && len(errs) == 0 {
		if err := o.journal.SetRunStatus(context.WithoutCancel(ctx), run.ID, journal.RunUndone); err != nil {
			logging.WarnWithContext(logger, "failed to mark run undone", "journal_update_failed", logging.Error(err))
		}
	}

	logger.Info("undo pass finished",
		logging.Int("restored", restored),
		logging.Int("pending", pending-restored),
		logging.Int("removed_dirs", removed),
	)
	return report, errors.Join(errs...)
}

func (o *Organizer) restore(ctx context.Context, m journal.Move) Result {
	name := filepath.Base(m.Source)
	root := filepath.Dir(m.Source)
	result := Result{Entry: PlanEntry{
		Name:        name,
		Source:      m.Destination,
		Category:    m.Category,
		Dir:         root,
		Destination: m.Source,
		Decision:    DecisionMove,
	}}

	if o.dryRun {
		result.Status = journal.MovePlanned
		fmt.Fprintf(o.out, "Would restore %s --> %s\n", name, root)
		return result
	}

	if err := o.mover.Move(m.Destination, m.Source, o.moveOptions(false)); err != nil {
		result.Status = journal.MoveFailed
		result.Err = failure.Wrap(nil, "undo", "restore",
			fmt.Sprintf("move %s back to %s", filepath.Base(m.Destination), root), err)
		return result
	}
	if err := o.journal.MarkMoveUndone(context.WithoutCancel(ctx), m.ID); err != nil {
		logging.WarnWithContext(o.logger, "failed to journal restore", "journal_record_failed",
			logging.String("file", name), logging.Error(err))
	}
	result.Status = journal.MoveUndone
	fmt.Fprintf(o.out, "Restored %s --> %s\n", name, root)
	return result
}

// removeEmptyDirs deletes each directory that is empty and returns how many
// were removed. Non-empty or missing directories are left alone.
func removeEmptyDirs(dirs []string) int {
	seen := make(map[string]bool, len(dirs))
	removed := 0
	for _, dir := range dirs {
		if seen[dir] {
			continue
		}
		seen[dir] = true
		if err := os.Remove(dir); err == nil {
			removed++
		}
	}
	return removed
}
