package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"tidydir/internal/failure"
	"tidydir/internal/journal"
)

const timestampLayout = "2006-01-02 15:04:05"

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent organize runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withJournal(func(store *journal.Store) error {
				runs, err := store.ListRuns(cmd.Context(), limit)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(runs) == 0 {
					fmt.Fprintln(out, "No runs recorded")
					return nil
				}
				fmt.Fprintln(out, renderRunsTable(runs))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "Maximum number of runs to list (0 for all)")
	return cmd
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show the moves recorded for a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withJournal(func(store *journal.Store) error {
				run, err := store.GetRun(cmd.Context(), args[0])
				if err != nil {
					if errors.Is(err, journal.ErrRunNotFound) {
						return failure.Wrap(failure.ErrNotFound, "show", "load run", "", err)
					}
					return err
				}
				moves, err := store.Moves(cmd.Context(), run.ID)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Run:      %s\n", run.ID)
				fmt.Fprintf(out, "Root:     %s\n", run.Root)
				fmt.Fprintf(out, "Mode:     %s\n", runMode(run))
				fmt.Fprintf(out, "Status:   %s\n", run.Status)
				fmt.Fprintf(out, "Started:  %s\n", formatTimestamp(run.StartedAt))
				fmt.Fprintf(out, "Finished: %s\n", formatTimestamp(run.FinishedAt))
				fmt.Fprintf(out, "Counts:   moved %d, skipped %d, failed %d\n", run.Moved, run.Skipped, run.Failed)
				if run.Error != "" {
					fmt.Fprintf(out, "Error:    %s\n", run.Error)
				}
				if len(moves) > 0 {
					fmt.Fprintln(out)
					fmt.Fprintln(out, renderMovesTable(moves))
				}
				return nil
			})
		},
	}
}

func renderRunsTable(runs []*journal.Run) string {
	headers := []string{"ID", "Started", "Root", "Mode", "Status", "Moved", "Skipped", "Failed"}
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, []string{
			shortID(r.ID),
			formatTimestamp(r.StartedAt),
			r.Root,
			runMode(r),
			string(r.Status),
			strconv.Itoa(r.Moved),
			strconv.Itoa(r.Skipped),
			strconv.Itoa(r.Failed),
		})
	}
	aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight}
	return renderTable(headers, rows, aligns)
}

func renderMovesTable(moves []journal.Move) string {
	headers := []string{"#", "Source", "Destination", "Category", "Status", "Detail"}
	rows := make([][]string, 0, len(moves))
	for _, m := range moves {
		detail := m.Reason
		if m.Error != "" {
			detail = m.Error
		}
		rows = append(rows, []string{
			strconv.Itoa(m.Seq),
			m.Source,
			m.Destination,
			m.Category,
			string(m.Status),
			dashIfEmpty(detail),
		})
	}
	return renderTable(headers, rows, []columnAlignment{alignRight})
}

func runMode(r *journal.Run) string {
	if r.DryRun {
		return "dry-run"
	}
	return "apply"
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(timestampLayout)
}
