package organizer_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"

	"tidydir/internal/config"
	"tidydir/internal/failure"
	"tidydir/internal/fileutil"
	"tidydir/internal/journal"
	"tidydir/internal/logging"
	"tidydir/internal/organizer"
	"tidydir/internal/runlock"
	"tidydir/internal/testsupport"
)

func newOrganizer(t *testing.T, cfg *config.Config, opts ...organizer.Option) (*organizer.Organizer, *journal.Store, *bytes.Buffer) {
	t.Helper()
	var store *journal.Store
	var j organizer.Journal
	if cfg.Journal.Enabled {
		store = testsupport.MustOpenJournal(t, cfg)
		j = store
	}
	out := &bytes.Buffer{}
	opts = append([]organizer.Option{organizer.WithOutput(out)}, opts...)
	return organizer.New(cfg, j, logging.NewNop(), opts...), store, out
}

func writeFiles(t *testing.T, root string, names ...string) {
	t.Helper()
	testsupport.WriteFiles(t, root, names...)
}

func requireFile(t *testing.T, path string) {
	t.Helper()
	info, err := os.Lstat(path)
	if err != nil {
		t.Fatalf("expected %s to exist: %v", path, err)
	}
	if info.IsDir() {
		t.Fatalf("expected %s to be a file", path)
	}
}

func requireMissing(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Lstat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected %s to be absent, got %v", path, err)
	}
}

func readString(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func rootEntries(t *testing.T, root string) []string {
	t.Helper()
	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatalf("read root: %v", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestOrganizeSortsByExtension(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	org, _, out := newOrganizer(t, cfg)
	root := t.TempDir()
	writeFiles(t, root, "a.txt", "b.JPG", "c")

	report, err := org.Organize(context.Background(), root)
	if err != nil {
		t.Fatalf("Organize: %v", err)
	}

	testsupport.RequireContent(t, filepath.Join(root, "TXT", "a.txt"), "a.txt")
	testsupport.RequireContent(t, filepath.Join(root, "JPG", "b.JPG"), "b.JPG")
	testsupport.RequireContent(t, filepath.Join(root, "Others", "c"), "c")
	for _, name := range []string{"a.txt", "b.JPG", "c"} {
		requireMissing(t, filepath.Join(root, name))
	}

	if got := report.Counts(); got.Moved != 3 || got.Skipped != 0 || got.Failed != 0 {
		t.Fatalf("unexpected counts: %+v", got)
	}
	want := strings.Join([]string{
		"Moved a.txt --> " + filepath.Join(root, "TXT"),
		"Moved b.JPG --> " + filepath.Join(root, "JPG"),
		"Moved c --> " + filepath.Join(root, "Others"),
	}, "\n") + "\n"
	if out.String() != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", out.String(), want)
	}
}

func TestOrganizeMergesExtensionCase(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	org, _, _ := newOrganizer(t, cfg)
	root := t.TempDir()
	writeFiles(t, root, "b.JPG", "c.jpg", "d.Jpg", "archive.tar.gz", ".bashrc", "notes.")

	if _, err := org.Organize(context.Background(), root); err != nil {
		t.Fatalf("Organize: %v", err)
	}
	for _, name := range []string{"b.JPG", "c.jpg", "d.Jpg"} {
		requireFile(t, filepath.Join(root, "JPG", name))
	}
	requireFile(t, filepath.Join(root, "GZ", "archive.tar.gz"))
	requireFile(t, filepath.Join(root, "Others", ".bashrc"))
	requireFile(t, filepath.Join(root, "Others", "notes."))
}

func TestOrganizeLeavesSubdirectoriesAlone(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	org, _, _ := newOrganizer(t, cfg)
	root := t.TempDir()
	writeFiles(t, root, "a.txt", filepath.Join("sub", "inner.txt"), filepath.Join("sub.d", "x"))

	if _, err := org.Organize(context.Background(), root); err != nil {
		t.Fatalf("Organize: %v", err)
	}
	requireFile(t, filepath.Join(root, "sub", "inner.txt"))
	requireFile(t, filepath.Join(root, "sub.d", "x"))
	requireMissing(t, filepath.Join(root, "D"))
	requireFile(t, filepath.Join(root, "TXT", "a.txt"))
}

func TestOrganizeSecondRunMovesNothing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	org, _, out := newOrganizer(t, cfg)
	root := t.TempDir()
	writeFiles(t, root, "a.txt", "b.JPG", "c")

	if _, err := org.Organize(context.Background(), root); err != nil {
		t.Fatalf("first Organize: %v", err)
	}
	before := rootEntries(t, root)
	out.Reset()

	report, err := org.Organize(context.Background(), root)
	if err != nil {
		t.Fatalf("second Organize: %v", err)
	}
	if len(report.Results) != 0 {
		t.Fatalf("expected no results, got %+v", report.Results)
	}
	if out.Len() != 0 {
		t.Fatalf("expected no output, got %q", out.String())
	}
	after := rootEntries(t, root)
	if strings.Join(before, ",") != strings.Join(after, ",") {
		t.Fatalf("root changed: %v -> %v", before, after)
	}
}

func TestOrganizeEmptyRoot(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	org, _, out := newOrganizer(t, cfg)

	report, err := org.Organize(context.Background(), t.TempDir())
	if err != nil {
		t.Fatalf("Organize: %v", err)
	}
	if len(report.Results) != 0 || out.Len() != 0 {
		t.Fatalf("expected empty report, got %+v / %q", report, out.String())
	}
}

func TestOrganizeMissingRoot(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	org, _, _ := newOrganizer(t, cfg)

	_, err := org.Organize(context.Background(), filepath.Join(t.TempDir(), "missing"))
	if !errors.Is(err, failure.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if code := failure.ExitCode(err); code != failure.ExitNotFound {
		t.Fatalf("expected exit code %d, got %d", failure.ExitNotFound, code)
	}
}

func TestOrganizeBlankRoot(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	org, _, _ := newOrganizer(t, cfg)

	if _, err := org.Organize(context.Background(), "  "); !errors.Is(err, failure.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestOrganizeDryRunChangesNothing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	org, store, out := newOrganizer(t, cfg, organizer.WithDryRun(true))
	root := t.TempDir()
	writeFiles(t, root, "a.txt", "c")

	report, err := org.Organize(context.Background(), root)
	if err != nil {
		t.Fatalf("Organize: %v", err)
	}
	requireFile(t, filepath.Join(root, "a.txt"))
	requireFile(t, filepath.Join(root, "c"))
	requireMissing(t, filepath.Join(root, "TXT"))
	requireMissing(t, filepath.Join(root, "Others"))

	if !strings.Contains(out.String(), "Would move a.txt --> "+filepath.Join(root, "TXT")) {
		t.Fatalf("unexpected output %q", out.String())
	}

	run, err := store.GetRun(context.Background(), report.RunID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if !run.DryRun || run.Undoable() {
		t.Fatalf("expected non-undoable dry run, got %+v", run)
	}
	if _, err := org.Undo(context.Background(), run.ID); !errors.Is(err, failure.ErrValidation) {
		t.Fatalf("expected dry run undo to fail validation, got %v", err)
	}
}

func TestOrganizeHiddenFiles(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithSkipHidden(true))
	org, _, _ := newOrganizer(t, cfg)
	root := t.TempDir()
	writeFiles(t, root, ".env", ".hidden.txt", "shown.txt")

	report, err := org.Organize(context.Background(), root)
	if err != nil {
		t.Fatalf("Organize: %v", err)
	}
	requireFile(t, filepath.Join(root, ".env"))
	requireFile(t, filepath.Join(root, ".hidden.txt"))
	requireFile(t, filepath.Join(root, "TXT", "shown.txt"))
	if got := report.Counts(); got.Skipped != 2 || got.Moved != 1 {
		t.Fatalf("unexpected counts: %+v", got)
	}
}

func TestOrganizeCategoryConflictPolicies(t *testing.T) {
	t.Run("error aborts", func(t *testing.T) {
		cfg := testsupport.NewConfig(t)
		org, _, _ := newOrganizer(t, cfg)
		root := t.TempDir()
		writeFiles(t, root, "Others", "a.txt", "c")

		report, err := org.Organize(context.Background(), root)
		if !errors.Is(err, failure.ErrCategoryConflict) {
			t.Fatalf("expected ErrCategoryConflict, got %v", err)
		}
		if !report.Aborted {
			t.Fatal("expected aborted report")
		}
		requireFile(t, filepath.Join(root, "a.txt"))
		requireFile(t, filepath.Join(root, "Others"))
	})

	t.Run("error continue", func(t *testing.T) {
		cfg := testsupport.NewConfig(t, testsupport.WithOnError(config.OnErrorContinue))
		org, _, _ := newOrganizer(t, cfg)
		root := t.TempDir()
		writeFiles(t, root, "Others", "a.txt", "c")

		report, err := org.Organize(context.Background(), root)
		if !errors.Is(err, failure.ErrCategoryConflict) {
			t.Fatalf("expected ErrCategoryConflict, got %v", err)
		}
		if got := report.Counts(); got.Moved != 1 || got.Failed != 2 {
			t.Fatalf("unexpected counts: %+v", got)
		}
		requireFile(t, filepath.Join(root, "TXT", "a.txt"))
		requireFile(t, filepath.Join(root, "c"))
	})

	t.Run("skip", func(t *testing.T) {
		cfg := testsupport.NewConfig(t, testsupport.WithCategoryConflict(config.CategoryConflictSkip))
		org, _, _ := newOrganizer(t, cfg)
		root := t.TempDir()
		writeFiles(t, root, "Others", "a.txt", "c")

		report, err := org.Organize(context.Background(), root)
		if err != nil {
			t.Fatalf("Organize: %v", err)
		}
		if got := report.Counts(); got.Moved != 1 || got.Skipped != 2 {
			t.Fatalf("unexpected counts: %+v", got)
		}
		requireFile(t, filepath.Join(root, "Others"))
		requireFile(t, filepath.Join(root, "c"))
	})

	t.Run("earlier move frees the name", func(t *testing.T) {
		cfg := testsupport.NewConfig(t)
		org, _, _ := newOrganizer(t, cfg)
		root := t.TempDir()
		writeFiles(t, root, "TXT", "a.txt")

		if _, err := org.Organize(context.Background(), root); err != nil {
			t.Fatalf("Organize: %v", err)
		}
		requireFile(t, filepath.Join(root, "Others", "TXT"))
		requireFile(t, filepath.Join(root, "TXT", "a.txt"))
	})
}

func TestOrganizeOnExistsPolicies(t *testing.T) {
	setup := func(t *testing.T) string {
		root := t.TempDir()
		if err := os.MkdirAll(filepath.Join(root, "TXT"), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(root, "TXT", "a.txt"), []byte("old"), 0o644); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(root, "a.txt"), []byte("new"), 0o644); err != nil {
			t.Fatal(err)
		}
		return root
	}

	t.Run("error", func(t *testing.T) {
		cfg := testsupport.NewConfig(t)
		org, _, _ := newOrganizer(t, cfg)
		root := setup(t)

		_, err := org.Organize(context.Background(), root)
		if !errors.Is(err, failure.ErrCollision) {
			t.Fatalf("expected ErrCollision, got %v", err)
		}
		if got := readString(t, filepath.Join(root, "TXT", "a.txt")); got != "old" {
			t.Fatalf("existing destination clobbered: %q", got)
		}
		requireFile(t, filepath.Join(root, "a.txt"))
	})

	t.Run("skip", func(t *testing.T) {
		cfg := testsupport.NewConfig(t, testsupport.WithOnExists(config.OnExistsSkip))
		org, _, _ := newOrganizer(t, cfg)
		root := setup(t)

		report, err := org.Organize(context.Background(), root)
		if err != nil {
			t.Fatalf("Organize: %v", err)
		}
		if report.Counts().Skipped != 1 {
			t.Fatalf("expected one skip, got %+v", report.Counts())
		}
		requireFile(t, filepath.Join(root, "a.txt"))
	})

	t.Run("rename", func(t *testing.T) {
		cfg := testsupport.NewConfig(t, testsupport.WithOnExists(config.OnExistsRename))
		org, _, _ := newOrganizer(t, cfg)
		root := setup(t)
		if err := os.WriteFile(filepath.Join(root, "a (1).txt"), []byte("other"), 0o644); err != nil {
			t.Fatal(err)
		}

		if _, err := org.Organize(context.Background(), root); err != nil {
			t.Fatalf("Organize: %v", err)
		}
		if got := readString(t, filepath.Join(root, "TXT", "a.txt")); got != "old" {
			t.Fatalf("existing file changed: %q", got)
		}
		if got := readString(t, filepath.Join(root, "TXT", "a (1).txt")); got != "other" {
			t.Fatalf("unexpected a (1).txt: %q", got)
		}
		if got := readString(t, filepath.Join(root, "TXT", "a (2).txt")); got != "new" {
			t.Fatalf("unexpected renamed file: %q", got)
		}
	})

	t.Run("overwrite", func(t *testing.T) {
		cfg := testsupport.NewConfig(t, testsupport.WithOnExists(config.OnExistsOverwrite))
		org, _, _ := newOrganizer(t, cfg)
		root := setup(t)

		if _, err := org.Organize(context.Background(), root); err != nil {
			t.Fatalf("Organize: %v", err)
		}
		if got := readString(t, filepath.Join(root, "TXT", "a.txt")); got != "new" {
			t.Fatalf("expected overwrite, got %q", got)
		}
		requireMissing(t, filepath.Join(root, "a.txt"))
	})
}

func TestOrganizeCrossDevicePolicy(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithCrossDevice(config.CrossDeviceError))
	var seen []fileutil.MoveOptions
	mover := organizer.MoverFunc(func(src, dst string, opts fileutil.MoveOptions) error {
		seen = append(seen, opts)
		return &os.LinkError{Op: "rename", Old: src, New: dst, Err: syscall.EXDEV}
	})
	org, _, _ := newOrganizer(t, cfg, organizer.WithMover(mover))
	root := t.TempDir()
	writeFiles(t, root, "a.txt")

	_, err := org.Organize(context.Background(), root)
	if !errors.Is(err, failure.ErrCrossDevice) {
		t.Fatalf("expected ErrCrossDevice, got %v", err)
	}
	if code := failure.ExitCode(err); code != failure.ExitCrossDevice {
		t.Fatalf("expected exit code %d, got %d", failure.ExitCrossDevice, code)
	}
	if len(seen) != 1 || seen[0].CrossDeviceCopy {
		t.Fatalf("expected one move without copy fallback, got %+v", seen)
	}
	requireMissing(t, filepath.Join(root, "TXT"))
	requireFile(t, filepath.Join(root, "a.txt"))
}

func TestOrganizeDetectsSilentMover(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	mover := organizer.MoverFunc(func(string, string, fileutil.MoveOptions) error { return nil })
	org, _, _ := newOrganizer(t, cfg, organizer.WithMover(mover))
	root := t.TempDir()
	writeFiles(t, root, "a.txt")

	if _, err := org.Organize(context.Background(), root); !errors.Is(err, failure.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestOrganizeSymlinks(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	org, _, _ := newOrganizer(t, cfg)
	root := t.TempDir()
	outside := t.TempDir()
	writeFiles(t, outside, "target.txt")
	if err := os.Symlink(outside, filepath.Join(root, "linkdir")); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(filepath.Join(outside, "target.txt"), filepath.Join(root, "link.txt")); err != nil {
		t.Fatal(err)
	}

	if _, err := org.Organize(context.Background(), root); err != nil {
		t.Fatalf("Organize: %v", err)
	}
	if info, err := os.Lstat(filepath.Join(root, "linkdir")); err != nil || info.Mode()&os.ModeSymlink == 0 {
		t.Fatalf("expected directory link left in place: %v", err)
	}
	info, err := os.Lstat(filepath.Join(root, "TXT", "link.txt"))
	if err != nil || info.Mode()&os.ModeSymlink == 0 {
		t.Fatalf("expected file link moved as a link: %v", err)
	}
	requireFile(t, filepath.Join(outside, "target.txt"))
}

func TestOrganizeRespectsLock(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	org, _, _ := newOrganizer(t, cfg)
	root := t.TempDir()
	writeFiles(t, root, "a.txt")

	lock, err := runlock.TryAcquire(cfg.LockDir(), root)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer lock.Release()

	if _, err := org.Organize(context.Background(), root); !errors.Is(err, failure.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
	requireFile(t, filepath.Join(root, "a.txt"))
}

func TestOrganizeCancelledContext(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	org, _, _ := newOrganizer(t, cfg)
	root := t.TempDir()
	writeFiles(t, root, "a.txt")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := org.Organize(ctx, root); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	requireFile(t, filepath.Join(root, "a.txt"))
}

func TestOrganizeJournalsMoves(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	org, store, _ := newOrganizer(t, cfg)
	root := t.TempDir()
	writeFiles(t, root, "a.txt", "c")

	report, err := org.Organize(context.Background(), root)
	if err != nil {
		t.Fatalf("Organize: %v", err)
	}
	run, err := store.GetRun(context.Background(), report.RunID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if run.Status != journal.RunCompleted || run.Moved != 2 || run.Root != root {
		t.Fatalf("unexpected run: %+v", run)
	}
	moves, err := store.Moves(context.Background(), run.ID)
	if err != nil {
		t.Fatalf("Moves: %v", err)
	}
	if len(moves) != 2 || !moves[0].CreatedDir || moves[0].Destination != filepath.Join(root, "TXT", "a.txt") {
		t.Fatalf("unexpected moves: %+v", moves)
	}
}

func TestOrganizeWithoutJournal(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithJournalDisabled())
	org, _, _ := newOrganizer(t, cfg)
	root := t.TempDir()
	writeFiles(t, root, "a.txt")

	report, err := org.Organize(context.Background(), root)
	if err != nil {
		t.Fatalf("Organize: %v", err)
	}
	if report.RunID != "" {
		t.Fatalf("expected no run id, got %q", report.RunID)
	}
	if _, err := org.Undo(context.Background(), "anything"); !errors.Is(err, failure.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestUndoRestoresLayout(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	org, store, out := newOrganizer(t, cfg)
	root := t.TempDir()
	writeFiles(t, root, "a.txt", "b.JPG", "c", filepath.Join("TXT", "existing.txt"))

	report, err := org.Organize(context.Background(), root)
	if err != nil {
		t.Fatalf("Organize: %v", err)
	}
	out.Reset()

	undo, err := org.Undo(context.Background(), report.RunID[:8])
	if err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if undo.Counts().Moved != 3 {
		t.Fatalf("expected 3 restores, got %+v", undo.Counts())
	}
	for _, name := range []string{"a.txt", "b.JPG", "c"} {
		requireFile(t, filepath.Join(root, name))
	}
	requireMissing(t, filepath.Join(root, "JPG"))
	requireMissing(t, filepath.Join(root, "Others"))
	requireFile(t, filepath.Join(root, "TXT", "existing.txt"))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 || lines[0] != "Restored c --> "+root {
		t.Fatalf("unexpected undo output %q", out.String())
	}

	run, err := store.GetRun(context.Background(), report.RunID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if run.Status != journal.RunUndone {
		t.Fatalf("expected undone run, got %s", run.Status)
	}
	if _, err := org.Undo(context.Background(), report.RunID); !errors.Is(err, failure.ErrValidation) {
		t.Fatalf("expected second undo to fail validation, got %v", err)
	}
}

func TestUndoFileNamedLikeLaterCategory(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	org, store, _ := newOrganizer(t, cfg)
	root := t.TempDir()
	writeFiles(t, root, "TXT", "a.txt")

	report, err := org.Organize(context.Background(), root)
	if err != nil {
		t.Fatalf("Organize: %v", err)
	}
	testsupport.RequireContent(t, filepath.Join(root, "Others", "TXT"), "TXT")
	testsupport.RequireContent(t, filepath.Join(root, "TXT", "a.txt"), "a.txt")

	if _, err := org.Undo(context.Background(), report.RunID); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if got := rootEntries(t, root); strings.Join(got, ",") != "TXT,a.txt" {
		t.Fatalf("unexpected root after undo: %v", got)
	}
	testsupport.RequireContent(t, filepath.Join(root, "TXT"), "TXT")
	testsupport.RequireContent(t, filepath.Join(root, "a.txt"), "a.txt")

	run, err := store.GetRun(context.Background(), report.RunID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if run.Status != journal.RunUndone {
		t.Fatalf("expected undone run, got %s", run.Status)
	}
}

func TestUndoBlockedByReplacement(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	org, store, _ := newOrganizer(t, cfg)
	root := t.TempDir()
	writeFiles(t, root, "a.txt")

	report, err := org.Organize(context.Background(), root)
	if err != nil {
		t.Fatalf("Organize: %v", err)
	}
	writeFiles(t, root, "a.txt")

	if _, err := org.Undo(context.Background(), report.RunID); !errors.Is(err, failure.ErrCollision) {
		t.Fatalf("expected ErrCollision, got %v", err)
	}
	requireFile(t, filepath.Join(root, "TXT", "a.txt"))
	run, err := store.GetRun(context.Background(), report.RunID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if run.Status == journal.RunUndone {
		t.Fatal("partial undo must not mark the run undone")
	}
}

func TestUndoUnknownRun(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	org, _, _ := newOrganizer(t, cfg)

	if _, err := org.Undo(context.Background(), "does-not-exist"); !errors.Is(err, failure.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUndoDryRunPreviews(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	org, store, _ := newOrganizer(t, cfg)
	root := t.TempDir()
	writeFiles(t, root, "a.txt")

	report, err := org.Organize(context.Background(), root)
	if err != nil {
		t.Fatalf("Organize: %v", err)
	}

	out := &bytes.Buffer{}
	preview := organizer.New(cfg, store, logging.NewNop(), organizer.WithDryRun(true), organizer.WithOutput(out))
	if _, err := preview.Undo(context.Background(), report.RunID); err != nil {
		t.Fatalf("Undo dry run: %v", err)
	}
	if !strings.HasPrefix(out.String(), "Would restore a.txt --> ") {
		t.Fatalf("unexpected output %q", out.String())
	}
	requireFile(t, filepath.Join(root, "TXT", "a.txt"))
}

func TestPlanDecisions(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithOthersLabel("Misc"))
	org, _, _ := newOrganizer(t, cfg)
	root := t.TempDir()
	writeFiles(t, root, "b.png", "a", filepath.Join("docs", "x.md"))

	plan, err := org.Plan(context.Background(), root)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(plan.Entries) != 2 || len(plan.Directories) != 1 {
		t.Fatalf("unexpected plan: %+v", plan)
	}
	if len(plan.CategoryFolders) != 0 {
		t.Fatalf("docs is not a category folder: %v", plan.CategoryFolders)
	}
	if plan.Entries[0].Name != "a" || plan.Entries[0].Category != "Misc" || !plan.Entries[0].CreatesDir {
		t.Fatalf("unexpected first entry: %+v", plan.Entries[0])
	}
	if plan.Entries[1].Category != "PNG" || plan.Entries[1].Decision != organizer.DecisionMove {
		t.Fatalf("unexpected second entry: %+v", plan.Entries[1])
	}
	if plan.Count(organizer.DecisionMove) != 2 {
		t.Fatalf("expected 2 moves, got %d", plan.Count(organizer.DecisionMove))
	}
	requireFile(t, filepath.Join(root, "a"))
}
