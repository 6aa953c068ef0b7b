package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tidydir/internal/config"
	"tidydir/internal/failure"
	"tidydir/internal/journal"
	"tidydir/internal/organizer"
)

// policyFlags are per-invocation overrides of the [organize] section.
type policyFlags struct {
	onError          string
	onExists         string
	categoryConflict string
	othersLabel      string
	skipHidden       bool
}

func (p *policyFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&p.onError, "on-error", "", "Failure policy: abort or continue")
	cmd.Flags().StringVar(&p.onExists, "on-exists", "", "Existing destination policy: error, skip, rename, or overwrite")
	cmd.Flags().StringVar(&p.categoryConflict, "category-conflict", "", "Policy for files named like their category folder: error or skip")
	cmd.Flags().StringVar(&p.othersLabel, "others-label", "", "Folder name for files without an extension")
	cmd.Flags().BoolVar(&p.skipHidden, "skip-hidden", false, "Leave dot files in place")
}

// apply returns a copy of cfg with the flags that were set layered on top.
func (p *policyFlags) apply(cmd *cobra.Command, cfg *config.Config) (*config.Config, error) {
	out := *cfg
	flags := cmd.Flags()
	if flags.Changed("on-error") {
		out.Organize.OnError = strings.ToLower(strings.TrimSpace(p.onError))
	}
	if flags.Changed("on-exists") {
		out.Organize.OnExists = strings.ToLower(strings.TrimSpace(p.onExists))
	}
	if flags.Changed("category-conflict") {
		out.Organize.CategoryConflict = strings.ToLower(strings.TrimSpace(p.categoryConflict))
	}
	if flags.Changed("others-label") {
		out.Organize.OthersLabel = strings.TrimSpace(p.othersLabel)
	}
	if flags.Changed("skip-hidden") {
		out.Organize.SkipHidden = p.skipHidden
	}
	if err := out.Validate(); err != nil {
		return nil, failure.Wrap(failure.ErrConfiguration, "cli", "apply flags", "", err)
	}
	return &out, nil
}

func newOrganizeCommand(ctx *commandContext) *cobra.Command {
	var (
		policies policyFlags
		dryRun   bool
	)

	cmd := &cobra.Command{
		Use:   "organize <root>",
		Short: "Move each file in root into a folder named after its extension",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cfg, err = policies.apply(cmd, cfg)
			if err != nil {
				return err
			}
			return ctx.withOrganizer(cmd, cfg, dryRun, func(org *organizer.Organizer, _ *journal.Store) error {
				report, err := org.Organize(cmd.Context(), args[0])
				if report != nil && report.RunID != "" && !dryRun && report.Counts().Moved > 0 {
					fmt.Fprintf(cmd.ErrOrStderr(), "Run %s recorded; undo with `tidydir undo %s`\n", shortID(report.RunID), shortID(report.RunID))
				}
				return err
			})
		},
	}

	policies.register(cmd)
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Print the moves without performing them")
	return cmd
}

func newPlanCommand(ctx *commandContext) *cobra.Command {
	var policies policyFlags

	cmd := &cobra.Command{
		Use:   "plan <root>",
		Short: "Show what organize would do as a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cfg, err = policies.apply(cmd, cfg)
			if err != nil {
				return err
			}
			logger, logs, err := ctx.logger(cmd, cfg)
			if err != nil {
				return err
			}
			defer logs.Close()
			org := organizer.New(cfg, nil, logger, organizer.WithDryRun(true))
			plan, err := org.Plan(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(plan.Entries) == 0 {
				fmt.Fprintf(out, "Nothing to organize in %s\n", plan.Root)
				return nil
			}
			fmt.Fprintln(out, renderPlanTable(plan))
			fmt.Fprintf(out, "%d to move, %d skipped, %d failing; %d directories left in place (%d category folders)\n",
				plan.Count(organizer.DecisionMove),
				plan.Count(organizer.DecisionSkip),
				plan.Count(organizer.DecisionFail),
				len(plan.Directories),
				len(plan.CategoryFolders),
			)
			if len(plan.Directories) > 0 {
				fmt.Fprintln(out, renderDirectoryTable(plan))
			}
			return nil
		},
	}

	policies.register(cmd)
	return cmd
}

func renderPlanTable(plan *organizer.Plan) string {
	headers := []string{"File", "Category", "Decision", "Reason", "Destination"}
	rows := make([][]string, 0, len(plan.Entries))
	for _, e := range plan.Entries {
		dest := e.Destination
		if e.Decision != organizer.DecisionMove {
			dest = "-"
		}
		category := e.Category
		if e.CreatesDir && e.Decision == organizer.DecisionMove {
			category += " (new)"
		}
		rows = append(rows, []string{e.Name, category, string(e.Decision), dashIfEmpty(e.Reason), dest})
	}
	return renderTable(headers, rows, nil)
}

func renderDirectoryTable(plan *organizer.Plan) string {
	isCategory := make(map[string]bool, len(plan.CategoryFolders))
	for _, name := range plan.CategoryFolders {
		isCategory[name] = true
	}
	rows := make([][]string, 0, len(plan.Directories))
	for _, name := range plan.Directories {
		kind := "subdirectory"
		if isCategory[name] {
			kind = "category folder"
		}
		rows = append(rows, []string{name, kind})
	}
	return renderTable([]string{"Directory", "Kind"}, rows, nil)
}

func dashIfEmpty(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}
