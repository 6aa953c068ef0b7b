package organizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"tidydir/internal/config"
	"tidydir/internal/failure"
	"tidydir/internal/fileutil"
	"tidydir/internal/journal"
	"tidydir/internal/logging"
	"tidydir/internal/runctx"
	"tidydir/internal/runlock"
)

// Organize moves every regular file directly under root into its category
// folder. With on_error = abort the pass stops at the first failure; with
// continue every failure is collected and returned joined. The report always
// lists what already happened.
func (o *Organizer) Organize(ctx context.Context, root string) (*Report, error) {
	ctx = runctx.WithOperation(ctx, "organize")
	root, err := validateRoot(root)
	if err != nil {
		return nil, err
	}
	ctx = runctx.WithRoot(ctx, root)

	if !o.dryRun {
		lock, err := runlock.TryAcquire(o.cfg.LockDir(), root)
		if err != nil {
			return nil, err
		}
		defer func() {
			if err := lock.Release(); err != nil {
				logging.WarnWithContext(o.logger, "failed to release root lock", "lock_release_failed",
					logging.Error(err), logging.String("lock", lock.Path()))
			}
		}()
	}

	plan, err := o.Plan(ctx, root)
	if err != nil {
		return nil, err
	}

	report := &Report{Root: root, DryRun: o.dryRun}
	runID := o.beginRun(ctx, root)
	report.RunID = runID
	ctx = runctx.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, o.logger)

	start := time.Now()
	logger.Info("organize pass starting",
		logging.Int("files", len(plan.Entries)),
		logging.Int("directories", len(plan.Directories)),
		logging.Bool("dry_run", o.dryRun),
	)

	var errs []error
	for i, entry := range plan.Entries {
		if err := ctx.Err(); err != nil {
			errs = append(errs, fmt.Errorf("organize interrupted: %w", err))
			report.Aborted = true
			break
		}
		result := o.apply(ctx, logger, entry)
		report.Results = append(report.Results, result)
		o.recordMove(ctx, logger, runID, i+1, result)

		if result.Err != nil {
			errs = append(errs, result.Err)
			if o.cfg.Organize.OnError != config.OnErrorContinue {
				report.Aborted = true
				break
			}
		}
	}

	runErr := errors.Join(errs...)
	o.finishRun(ctx, logger, runID, report, runErr)

	counts := report.Counts()
	logger.Info("organize pass finished",
		logging.Int("moved", counts.Moved),
		logging.Int("skipped", counts.Skipped),
		logging.Int("failed", counts.Failed),
		logging.Bool("aborted", report.Aborted),
		logging.Duration("elapsed", time.Since(start)),
	)
	return report, runErr
}

func (o *Organizer) apply(ctx context.Context, logger *slog.Logger, entry PlanEntry) Result {
	result := Result{Entry: entry}
	switch entry.Decision {
	case DecisionSkip:
		result.Status = journal.MoveSkipped
		logger.Info("file skipped",
			logging.Args(append(logging.DecisionAttrs("file_move", "skip", entry.Reason),
				logging.String("file", entry.Name))...)...)
		return result
	case DecisionFail:
		result.Status = journal.MoveFailed
		result.Err = entry.Err
		logging.ErrorWithContext(logger, "file cannot be moved", "move_rejected",
			logging.String("file", entry.Name),
			logging.String("reason", entry.Reason),
			logging.Error(entry.Err),
			logging.String(logging.FieldErrorHint, rejectionHint(entry.Reason)),
		)
		return result
	}

	if o.dryRun {
		result.Status = journal.MovePlanned
		fmt.Fprintf(o.out, "Would move %s --> %s\n", entry.Name, entry.Dir)
		return result
	}

	created, err := o.ensureCategoryDir(entry.Dir)
	if err != nil {
		result.Status = journal.MoveFailed
		result.Err = err
		o.logMoveFailure(logger, entry, err)
		return result
	}
	result.CreatedDir = created

	if err := o.mover.Move(entry.Source, entry.Destination, o.moveOptions(entry.Replace)); err != nil {
		if created {
			_ = os.Remove(entry.Dir)
			result.CreatedDir = false
		}
		if fileutil.IsExists(err) && o.cfg.Organize.OnExists == config.OnExistsSkip {
			result.Status = journal.MoveSkipped
			result.Entry.Reason = ReasonDestinationExists
			return result
		}
		result.Status = journal.MoveFailed
		result.Err = failure.Wrap(nil, "organize", "move",
			fmt.Sprintf("move %s to %s", entry.Name, entry.Dir), err)
		o.logMoveFailure(logger, entry, result.Err)
		return result
	}
	if err := verifyMoved(entry.Source, entry.Destination, logger); err != nil {
		result.Status = journal.MoveFailed
		result.Err = err
		return result
	}

	result.Status = journal.MoveMoved
	fmt.Fprintf(o.out, "Moved %s --> %s\n", entry.Name, entry.Dir)
	logger.Debug("file moved",
		logging.String("file", entry.Name),
		logging.String("destination", entry.Destination),
		logging.Bool("created_dir", created),
	)
	return result
}

// ensureCategoryDir creates dir when absent and reports whether it did.
func (o *Organizer) ensureCategoryDir(dir string) (bool, error) {
	err := os.Mkdir(dir, o.cfg.DirMode())
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, os.ErrExist) {
		return false, failure.Wrap(nil, "organize", "create category folder", dir, err)
	}
	info, statErr := os.Stat(dir)
	if statErr != nil {
		return false, failure.Wrap(nil, "organize", "create category folder", dir, statErr)
	}
	if !info.IsDir() {
		return false, failure.Wrap(failure.ErrCategoryConflict, "organize", "create category folder",
			fmt.Sprintf("%s exists and is not a directory", dir), nil)
	}
	return false, nil
}

func (o *Organizer) logMoveFailure(logger *slog.Logger, entry PlanEntry, err error) {
	logging.ErrorWithContext(logger, "file move failed", "move_failed",
		logging.String("file", entry.Name),
		logging.String("destination", entry.Destination),
		logging.String("reason", failure.Reason(err)),
		logging.Error(err),
	)
}

func rejectionHint(reason string) string {
	switch reason {
	case ReasonCategoryConflict:
		return "rename the file or set organize.category_conflict = \"skip\""
	case ReasonDestinationExists:
		return "set organize.on_exists to skip, rename, or overwrite"
	default:
		return "check logs for details"
	}
}

func (o *Organizer) beginRun(ctx context.Context, root string) string {
	if o.journal == nil {
		return ""
	}
	run, err := o.journal.BeginRun(ctx, root, o.dryRun)
	if err != nil {
		logging.WarnWithContext(o.logger, "journal unavailable; run will not be undoable", "journal_begin_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "history and undo unavailable for this run"),
		)
		return ""
	}
	return run.ID
}

func (o *Organizer) recordMove(ctx context.Context, logger *slog.Logger, runID string, seq int, result Result) {
	if o.journal == nil || runID == "" {
		return
	}
	move := journal.Move{
		Seq:         seq,
		Source:      result.Entry.Source,
		Destination: result.Entry.Destination,
		Category:    result.Entry.Category,
		CreatedDir:  result.CreatedDir,
		Status:      result.Status,
		Reason:      result.Entry.Reason,
	}
	if result.Err != nil {
		move.Error = result.Err.Error()
		if move.Reason == "" {
			move.Reason = failure.Reason(result.Err)
		}
	}
	// A cancelled ctx must not lose the record of a move that already happened.
	if _, err := o.journal.RecordMove(context.WithoutCancel(ctx), runID, move); err != nil {
		logging.WarnWithContext(logger, "failed to journal move", "journal_record_failed",
			logging.String("file", result.Entry.Name),
			logging.Error(err),
			logging.String(logging.FieldImpact, "this move cannot be undone automatically"),
		)
	}
}

func (o *Organizer) finishRun(ctx context.Context, logger *slog.Logger, runID string, report *Report, runErr error) {
	if o.journal == nil || runID == "" {
		return
	}
	ctx = context.WithoutCancel(ctx)
	status := journal.RunCompleted
	if report.Aborted {
		status = journal.RunAborted
	}
	if err := o.journal.FinishRun(ctx, runID, status, report.Counts(), runErr); err != nil {
		logging.WarnWithContext(logger, "failed to finish journal run", "journal_finish_failed", logging.Error(err))
	}
	if keep := o.cfg.Journal.KeepRuns; keep > 0 {
		if _, err := o.journal.Prune(ctx, keep); err != nil {
			logging.WarnWithContext(logger, "failed to prune journal", "journal_prune_failed", logging.Error(err))
		}
	}
}
