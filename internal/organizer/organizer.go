package organizer

import (
	"context"
	"io"
	"log/slog"

	"tidydir/internal/category"
	"tidydir/internal/config"
	"tidydir/internal/fileutil"
	"tidydir/internal/journal"
	"tidydir/internal/logging"
)

// Journal persists runs and moves. A nil Journal disables history and undo.
type Journal interface {
	BeginRun(ctx context.Context, root string, dryRun bool) (*journal.Run, error)
	RecordMove(ctx context.Context, runID string, move journal.Move) (int64, error)
	FinishRun(ctx context.Context, runID string, status journal.RunStatus, counts journal.Counts, runErr error) error
	GetRun(ctx context.Context, idOrPrefix string) (*journal.Run, error)
	Moves(ctx context.Context, runID string) ([]journal.Move, error)
	MarkMoveUndone(ctx context.Context, moveID int64) error
	SetRunStatus(ctx context.Context, runID string, status journal.RunStatus) error
	Prune(ctx context.Context, keep int) (int64, error)
}

// Mover relocates a single file.
type Mover interface {
	Move(src, dst string, opts fileutil.MoveOptions) error
}

// MoverFunc adapts a function to the Mover interface.
type MoverFunc func(src, dst string, opts fileutil.MoveOptions) error

// Move calls f.
func (f MoverFunc) Move(src, dst string, opts fileutil.MoveOptions) error {
	return f(src, dst, opts)
}

// FileMover moves files with rename semantics and a verified cross-device fallback.
var FileMover Mover = MoverFunc(fileutil.MoveFile)

// Organizer plans and applies category moves for a root directory.
type Organizer struct {
	cfg        *config.Config
	journal    Journal
	logger     *slog.Logger
	classifier category.Classifier
	out        io.Writer
	mover      Mover
	dryRun     bool
}

// Option customizes an Organizer.
type Option func(*Organizer)

// WithDryRun reports moves without touching the filesystem.
func WithDryRun(dryRun bool) Option {
	return func(o *Organizer) {
		o.dryRun = dryRun
	}
}

// WithOutput sets the writer that receives per-file progress lines.
func WithOutput(w io.Writer) Option {
	return func(o *Organizer) {
		if w != nil {
			o.out = w
		}
	}
}

// WithMover replaces the file mover (used in tests).
func WithMover(m Mover) Option {
	return func(o *Organizer) {
		if m != nil {
			o.mover = m
		}
	}
}

// New constructs an Organizer. store may be nil when the journal is disabled.
func New(cfg *config.Config, store Journal, logger *slog.Logger, opts ...Option) *Organizer {
	if cfg == nil {
		defaults := config.Default()
		cfg = &defaults
	}
	o := &Organizer{
		cfg:        cfg,
		journal:    store,
		logger:     logging.NewComponentLogger(logger, "organizer"),
		classifier: category.New(cfg.Organize.OthersLabel),
		out:        io.Discard,
		mover:      FileMover,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// DryRun reports whether the organizer only previews moves.
func (o *Organizer) DryRun() bool {
	return o.dryRun
}

func (o *Organizer) moveOptions(replace bool) fileutil.MoveOptions {
	return fileutil.MoveOptions{
		Replace:         replace,
		CrossDeviceCopy: o.cfg.Organize.CrossDevice == config.CrossDeviceCopy,
	}
}
