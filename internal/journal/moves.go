package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const moveColumns = `id, run_id, seq, source, destination, category, created_dir, status, reason, error, created_at, updated_at`

// RecordMove inserts a move row for the run and returns its ID.
func (s *Store) RecordMove(ctx context.Context, runID string, move Move) (int64, error) {
	if runID == "" {
		return 0, errors.New("record move: run id is required")
	}
	if move.Status == "" {
		move.Status = MovePlanned
	}
	now := formatTime(time.Now())
	res, err := s.execWithRetry(ctx,
		`INSERT INTO moves (run_id, seq, source, destination, category, created_dir, status, reason, error, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, move.Seq, move.Source, move.Destination, move.Category, boolToInt(move.CreatedDir),
		string(move.Status), nullString(move.Reason), nullString(move.Error), now, now,
	)
	if err != nil {
		return 0, fmt.Errorf("insert move: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("move id: %w", err)
	}
	return id, nil
}

// Moves returns every move recorded for a run in execution order.
func (s *Store) Moves(ctx context.Context, runID string) ([]Move, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT `+moveColumns+` FROM moves WHERE run_id = ? ORDER BY seq, id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query moves: %w", err)
	}
	defer rows.Close()

	var moves []Move
	for rows.Next() {
		var (
			m          Move
			createdDir int
			status     string
			reason     sql.NullString
			errText    sql.NullString
			createdAt  sql.NullString
			updatedAt  sql.NullString
		)
		if err := rows.Scan(&m.ID, &m.RunID, &m.Seq, &m.Source, &m.Destination, &m.Category,
			&createdDir, &status, &reason, &errText, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan move: %w", err)
		}
		m.CreatedDir = createdDir != 0
		m.Status = MoveStatus(status)
		m.Reason = reason.String
		m.Error = errText.String
		m.CreatedAt = parseTime(createdAt)
		m.UpdatedAt = parseTime(updatedAt)
		moves = append(moves, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate moves: %w", err)
	}
	return moves, nil
}

// MarkMoveUndone flags a move as reversed.
func (s *Store) MarkMoveUndone(ctx context.Context, moveID int64) error {
	res, err := s.execWithRetry(ctx,
		`UPDATE moves SET status = ?, updated_at = ? WHERE id = ?`,
		string(MoveUndone), formatTime(time.Now()), moveID,
	)
	if err != nil {
		return fmt.Errorf("mark move undone: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("mark move undone: move %d not found", moveID)
	}
	return nil
}

func nullString(value string) sql.NullString {
	if value == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: value, Valid: true}
}
