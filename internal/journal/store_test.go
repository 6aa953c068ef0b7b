package journal_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	_ "modernc.org/sqlite"

	"tidydir/internal/journal"
	"tidydir/internal/testsupport"
)

func TestBeginAndFinishRun(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)

	ctx := context.Background()
	run, err := store.BeginRun(ctx, "/in", false)
	if err != nil {
		t.Fatalf("BeginRun failed: %v", err)
	}
	if run.ID == "" || run.Status != journal.RunRunning {
		t.Fatalf("unexpected run: %#v", run)
	}

	if err := store.FinishRun(ctx, run.ID, journal.RunCompleted, journal.Counts{Moved: 3, Skipped: 1}, nil); err != nil {
		t.Fatalf("FinishRun failed: %v", err)
	}

	fetched, err := store.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if fetched.Status != journal.RunCompleted || fetched.Moved != 3 || fetched.Skipped != 1 {
		t.Fatalf("unexpected fetched run: %#v", fetched)
	}
	if fetched.FinishedAt.IsZero() || fetched.StartedAt.IsZero() {
		t.Fatalf("expected timestamps, got %#v", fetched)
	}
	if !fetched.Undoable() {
		t.Fatal("expected completed run with moves to be undoable")
	}
}

func TestFinishRunRecordsError(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)

	ctx := context.Background()
	run, err := store.BeginRun(ctx, "/in", false)
	if err != nil {
		t.Fatalf("BeginRun failed: %v", err)
	}
	if err := store.FinishRun(ctx, run.ID, journal.RunAborted, journal.Counts{Failed: 1}, errors.New("boom")); err != nil {
		t.Fatalf("FinishRun failed: %v", err)
	}
	fetched, err := store.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if fetched.Error != "boom" || fetched.Status != journal.RunAborted {
		t.Fatalf("unexpected run: %#v", fetched)
	}
}

func TestFinishRunUnknownID(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)

	err := store.FinishRun(context.Background(), "missing", journal.RunCompleted, journal.Counts{}, nil)
	if !errors.Is(err, journal.ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got %v", err)
	}
}

func TestBeginRunRequiresRoot(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)

	if _, err := store.BeginRun(context.Background(), "  ", false); err == nil {
		t.Fatal("expected error for blank root")
	}
}

func TestGetRunByPrefix(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)

	ctx := context.Background()
	run, err := store.BeginRun(ctx, "/in", false)
	if err != nil {
		t.Fatalf("BeginRun failed: %v", err)
	}

	fetched, err := store.GetRun(ctx, run.ID[:8])
	if err != nil {
		t.Fatalf("GetRun by prefix failed: %v", err)
	}
	if fetched.ID != run.ID {
		t.Fatalf("expected %s, got %s", run.ID, fetched.ID)
	}

	if _, err := store.GetRun(ctx, "zzzz"); !errors.Is(err, journal.ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got %v", err)
	}
	if _, err := store.GetRun(ctx, ""); !errors.Is(err, journal.ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound for blank id, got %v", err)
	}
}

func TestGetRunTreatsWildcardsLiterally(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)

	ctx := context.Background()
	if _, err := store.BeginRun(ctx, "/in", false); err != nil {
		t.Fatalf("BeginRun failed: %v", err)
	}

	for _, arg := range []string{"%", "_", "________", `\`, "%-%"} {
		if _, err := store.GetRun(ctx, arg); !errors.Is(err, journal.ErrRunNotFound) {
			t.Fatalf("GetRun(%q): expected ErrRunNotFound, got %v", arg, err)
		}
	}
}

func TestRecordAndListMoves(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)

	ctx := context.Background()
	run, err := store.BeginRun(ctx, "/in", false)
	if err != nil {
		t.Fatalf("BeginRun failed: %v", err)
	}

	moves := []journal.Move{
		{Seq: 1, Source: "/in/a.txt", Destination: "/in/TXT/a.txt", Category: "TXT", CreatedDir: true, Status: journal.MoveMoved},
		{Seq: 2, Source: "/in/Others", Destination: "/in/Others/Others", Category: "Others", Status: journal.MoveSkipped, Reason: "category_conflict"},
		{Seq: 3, Source: "/in/c", Destination: "/in/Others/c", Category: "Others", Status: journal.MoveFailed, Error: "permission denied"},
	}
	var ids []int64
	for _, m := range moves {
		id, err := store.RecordMove(ctx, run.ID, m)
		if err != nil {
			t.Fatalf("RecordMove failed: %v", err)
		}
		ids = append(ids, id)
	}

	listed, err := store.Moves(ctx, run.ID)
	if err != nil {
		t.Fatalf("Moves failed: %v", err)
	}
	if len(listed) != len(moves) {
		t.Fatalf("expected %d moves, got %d", len(moves), len(listed))
	}
	for i, m := range listed {
		if m.ID != ids[i] || m.Source != moves[i].Source || m.Status != moves[i].Status {
			t.Fatalf("move %d mismatch: %#v", i, m)
		}
	}
	if !listed[0].CreatedDir || listed[1].Reason != "category_conflict" || listed[2].Error != "permission denied" {
		t.Fatalf("unexpected move details: %#v", listed)
	}

	if err := store.MarkMoveUndone(ctx, ids[0]); err != nil {
		t.Fatalf("MarkMoveUndone failed: %v", err)
	}
	listed, err = store.Moves(ctx, run.ID)
	if err != nil {
		t.Fatalf("Moves failed: %v", err)
	}
	if listed[0].Status != journal.MoveUndone {
		t.Fatalf("expected undone status, got %s", listed[0].Status)
	}
	if err := store.MarkMoveUndone(ctx, 9999); err == nil {
		t.Fatal("expected error for unknown move")
	}
}

func TestRecordMoveRequiresRun(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)

	if _, err := store.RecordMove(context.Background(), "", journal.Move{}); err == nil {
		t.Fatal("expected error for missing run id")
	}
	if _, err := store.RecordMove(context.Background(), "no-such-run", journal.Move{Source: "a", Destination: "b", Category: "X"}); err == nil {
		t.Fatal("expected foreign key failure for unknown run")
	}
}

func TestLatestUndoableRun(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)

	ctx := context.Background()
	if _, err := store.LatestUndoableRun(ctx, ""); !errors.Is(err, journal.ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound on empty journal, got %v", err)
	}

	applied, err := store.BeginRun(ctx, "/in", false)
	if err != nil {
		t.Fatalf("BeginRun failed: %v", err)
	}
	if err := store.FinishRun(ctx, applied.ID, journal.RunCompleted, journal.Counts{Moved: 2}, nil); err != nil {
		t.Fatalf("FinishRun failed: %v", err)
	}

	dry, err := store.BeginRun(ctx, "/in", true)
	if err != nil {
		t.Fatalf("BeginRun failed: %v", err)
	}
	if err := store.FinishRun(ctx, dry.ID, journal.RunCompleted, journal.Counts{Moved: 2}, nil); err != nil {
		t.Fatalf("FinishRun failed: %v", err)
	}

	other, err := store.BeginRun(ctx, "/other", false)
	if err != nil {
		t.Fatalf("BeginRun failed: %v", err)
	}
	if err := store.FinishRun(ctx, other.ID, journal.RunCompleted, journal.Counts{Moved: 1}, nil); err != nil {
		t.Fatalf("FinishRun failed: %v", err)
	}

	latest, err := store.LatestUndoableRun(ctx, "/in")
	if err != nil {
		t.Fatalf("LatestUndoableRun failed: %v", err)
	}
	if latest.ID != applied.ID {
		t.Fatalf("expected applied run %s, got %s", applied.ID, latest.ID)
	}

	latest, err = store.LatestUndoableRun(ctx, "")
	if err != nil {
		t.Fatalf("LatestUndoableRun failed: %v", err)
	}
	if latest.ID != other.ID {
		t.Fatalf("expected newest run %s, got %s", other.ID, latest.ID)
	}

	if err := store.SetRunStatus(ctx, other.ID, journal.RunUndone); err != nil {
		t.Fatalf("SetRunStatus failed: %v", err)
	}
	latest, err = store.LatestUndoableRun(ctx, "")
	if err != nil {
		t.Fatalf("LatestUndoableRun failed: %v", err)
	}
	if latest.ID != applied.ID {
		t.Fatalf("expected undone run to be skipped, got %s", latest.ID)
	}
}

func TestListRunsAndPrune(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)

	ctx := context.Background()
	var ids []string
	for i := 0; i < 5; i++ {
		run, err := store.BeginRun(ctx, fmt.Sprintf("/root-%d", i), false)
		if err != nil {
			t.Fatalf("BeginRun failed: %v", err)
		}
		if _, err := store.RecordMove(ctx, run.ID, journal.Move{Seq: 1, Source: "a", Destination: "b", Category: "X", Status: journal.MoveMoved}); err != nil {
			t.Fatalf("RecordMove failed: %v", err)
		}
		ids = append(ids, run.ID)
	}

	runs, err := store.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != ids[4] || runs[1].ID != ids[3] {
		t.Fatalf("expected newest two runs first, got %#v", runs)
	}

	removed, err := store.Prune(ctx, 3)
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 pruned runs, got %d", removed)
	}
	runs, err = store.ListRuns(ctx, 0)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs after prune, got %d", len(runs))
	}
	moves, err := store.Moves(ctx, ids[0])
	if err != nil {
		t.Fatalf("Moves failed: %v", err)
	}
	if len(moves) != 0 {
		t.Fatalf("expected pruned run moves to cascade, got %d", len(moves))
	}

	if n, err := store.Prune(ctx, 0); err != nil || n != 0 {
		t.Fatalf("expected Prune(0) no-op, got %d %v", n, err)
	}
}

func TestOpenRejectsSchemaMismatch(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)
	path := store.Path()
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open raw db: %v", err)
	}
	if _, err := db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	_ = db.Close()

	if _, err := journal.Open(cfg); !errors.Is(err, journal.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}
