package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrRunNotFound is returned when no run matches the requested identifier.
var ErrRunNotFound = errors.New("run not found")

// ErrAmbiguousRun is returned when a run ID prefix matches more than one run.
var ErrAmbiguousRun = errors.New("run id prefix is ambiguous")

const runColumns = `id, root, dry_run, status, started_at, finished_at, moved, skipped, failed, error`

// BeginRun opens a run row in the running state.
func (s *Store) BeginRun(ctx context.Context, root string, dryRun bool) (*Run, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, errors.New("begin run: root is required")
	}
	run := &Run{
		ID:        uuid.NewString(),
		Root:      root,
		DryRun:    dryRun,
		Status:    RunRunning,
		StartedAt: time.Now().UTC(),
	}
	_, err := s.execWithRetry(ctx,
		`INSERT INTO runs (id, root, dry_run, status, started_at) VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.Root, boolToInt(run.DryRun), string(run.Status), formatTime(run.StartedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}
	return run, nil
}

// FinishRun records the final status and counts of a run.
func (s *Store) FinishRun(ctx context.Context, runID string, status RunStatus, counts Counts, runErr error) error {
	var errText sql.NullString
	if runErr != nil {
		errText = sql.NullString{String: runErr.Error(), Valid: true}
	}
	res, err := s.execWithRetry(ctx,
		`UPDATE runs SET status = ?, finished_at = ?, moved = ?, skipped = ?, failed = ?, error = ? WHERE id = ?`,
		string(status), formatTime(time.Now()), counts.Moved, counts.Skipped, counts.Failed, errText, runID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return requireAffected(res, runID)
}

// SetRunStatus updates only the status column, e.g. after an undo.
func (s *Store) SetRunStatus(ctx context.Context, runID string, status RunStatus) error {
	res, err := s.execWithRetry(ctx, `UPDATE runs SET status = ? WHERE id = ?`, string(status), runID)
	if err != nil {
		return fmt.Errorf("update run status: %w", err)
	}
	return requireAffected(res, runID)
}

// GetRun fetches a run by full ID or unique prefix.
func (s *Store) GetRun(ctx context.Context, idOrPrefix string) (*Run, error) {
	idOrPrefix = strings.TrimSpace(idOrPrefix)
	if idOrPrefix == "" {
		return nil, ErrRunNotFound
	}
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT `+runColumns+` FROM runs WHERE id = ? OR id LIKE ? ESCAPE '\' ORDER BY started_at DESC, rowid DESC LIMIT 2`,
		idOrPrefix, escapeLike(idOrPrefix)+"%",
	)
	if err != nil {
		return nil, fmt.Errorf("query run: %w", err)
	}
	defer rows.Close()

	runs, err := scanRuns(rows)
	if err != nil {
		return nil, err
	}
	for _, run := range runs {
		if run.ID == idOrPrefix {
			return run, nil
		}
	}
	switch len(runs) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, idOrPrefix)
	case 1:
		return runs[0], nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrAmbiguousRun, idOrPrefix)
	}
}

// LatestUndoableRun returns the most recent run that moved files and has not
// been undone. root filters by directory when non-empty.
func (s *Store) LatestUndoableRun(ctx context.Context, root string) (*Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs
        WHERE dry_run = 0 AND moved > 0 AND status IN (?, ?)`
	args := []any{string(RunCompleted), string(RunAborted)}
	if root = strings.TrimSpace(root); root != "" {
		query += ` AND root = ?`
		args = append(args, root)
	}
	query += ` ORDER BY started_at DESC, rowid DESC LIMIT 1`

	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("query latest run: %w", err)
	}
	defer rows.Close()
	runs, err := scanRuns(rows)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, ErrRunNotFound
	}
	return runs[0], nil
}

// ListRuns returns the most recent runs first. limit <= 0 returns all runs.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC, rowid DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()
	return scanRuns(rows)
}

// Prune deletes all but the newest keep runs (and their moves). keep <= 0 is a no-op.
func (s *Store) Prune(ctx context.Context, keep int) (int64, error) {
	if keep <= 0 {
		return 0, nil
	}
	res, err := s.execWithRetry(ctx,
		`DELETE FROM runs WHERE id NOT IN (SELECT id FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?)`,
		keep,
	)
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	return res.RowsAffected()
}

func scanRuns(rows *sql.Rows) ([]*Run, error) {
	var runs []*Run
	for rows.Next() {
		var (
			run        Run
			dryRun     int
			status     string
			startedAt  sql.NullString
			finishedAt sql.NullString
			errText    sql.NullString
		)
		if err := rows.Scan(&run.ID, &run.Root, &dryRun, &status, &startedAt, &finishedAt,
			&run.Moved, &run.Skipped, &run.Failed, &errText); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.DryRun = dryRun != 0
		run.Status = RunStatus(status)
		run.StartedAt = parseTime(startedAt)
		run.FinishedAt = parseTime(finishedAt)
		run.Error = errText.String
		runs = append(runs, &run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

func requireAffected(res sql.Result, runID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return nil
}

// escapeLike makes a user-supplied prefix match literally under ESCAPE '\'.
func escapeLike(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)
	return replacer.Replace(value)
}
