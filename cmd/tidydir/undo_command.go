package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"tidydir/internal/failure"
	"tidydir/internal/journal"
	"tidydir/internal/organizer"
)

func newUndoCommand(ctx *commandContext) *cobra.Command {
	var (
		last   bool
		root   string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "undo [run-id]",
		Short: "Move the files of a previous run back where they were",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if last == (len(args) == 1) {
				return failure.Wrap(failure.ErrValidation, "cli", "parse args",
					"Pass either a run id or --last", nil)
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.Journal.Enabled {
				return failure.Wrap(failure.ErrValidation, "undo", "load run",
					"Journal is disabled; set [journal] enabled = true", nil)
			}
			return ctx.withOrganizer(cmd, cfg, dryRun, func(org *organizer.Organizer, store *journal.Store) error {
				runID := ""
				if len(args) == 1 {
					runID = strings.TrimSpace(args[0])
				} else {
					filter := strings.TrimSpace(root)
					if filter != "" {
						abs, err := filepath.Abs(filter)
						if err != nil {
							return failure.Wrap(failure.ErrValidation, "cli", "parse args", "", err)
						}
						filter = abs
					}
					run, err := store.LatestUndoableRun(cmd.Context(), filter)
					if err != nil {
						if errors.Is(err, journal.ErrRunNotFound) {
							return failure.Wrap(failure.ErrNotFound, "undo", "find last run", "No undoable run found", nil)
						}
						return err
					}
					runID = run.ID
				}

				report, err := org.Undo(cmd.Context(), runID)
				if report != nil && !dryRun {
					fmt.Fprintf(cmd.ErrOrStderr(), "Restored %d file(s) from run %s\n", report.Counts().Moved, shortID(report.RunID))
				}
				return err
			})
		},
	}

	cmd.Flags().BoolVar(&last, "last", false, "Undo the most recent undoable run")
	cmd.Flags().StringVar(&root, "root", "", "With --last, only consider runs over this directory")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Print the restores without performing them")
	return cmd
}
