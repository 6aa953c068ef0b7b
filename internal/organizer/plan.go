package organizer

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"tidydir/internal/category"
	"tidydir/internal/config"
	"tidydir/internal/failure"
	"tidydir/internal/logging"
	"tidydir/internal/runctx"
)

// Decision is what a pass will do with one root entry.
type Decision string

const (
	DecisionMove Decision = "move"
	DecisionSkip Decision = "skip"
	DecisionFail Decision = "fail"
)

// Reasons attached to non-default decisions.
const (
	ReasonCategoryConflict  = "category_conflict"
	ReasonDestinationExists = "destination_exists"
	ReasonHidden            = "hidden"
	ReasonRenamed           = "renamed"
	ReasonOverwrite         = "overwrite"
)

// PlanEntry is the decision for one regular file in the root.
type PlanEntry struct {
	Name        string
	Source      string
	Category    string
	Dir         string
	Destination string
	Decision    Decision
	Reason      string
	CreatesDir  bool
	Replace     bool
	Err         error
}

// Plan lists decisions for every regular file in a root, in name order.
// CategoryFolders is the subset of Directories whose names a pass could have
// produced; the rest are unrelated subdirectories.
type Plan struct {
	Root            string
	Entries         []PlanEntry
	Directories     []string
	CategoryFolders []string
}

// Count returns how many entries carry the decision.
func (p *Plan) Count(d Decision) int {
	if p == nil {
		return 0
	}
	n := 0
	for _, e := range p.Entries {
		if e.Decision == d {
			n++
		}
	}
	return n
}

type entryKind int

const (
	kindFile entryKind = iota
	kindDir
)

// layout simulates the root's immediate children as the plan progresses.
type layout struct {
	names   map[string]entryKind
	claimed map[string]bool
}

// Plan reads root once and decides what a pass would do with each file. It
// does not modify the filesystem.
func (o *Organizer) Plan(ctx context.Context, root string) (*Plan, error) {
	root, err := validateRoot(root)
	if err != nil {
		return nil, err
	}
	ctx = runctx.WithRoot(ctx, root)
	logger := logging.WithContext(ctx, o.logger)

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, failure.Wrap(nil, "organize", "read root", fmt.Sprintf("list %s", root), err)
	}

	state := &layout{names: make(map[string]entryKind, len(entries)), claimed: make(map[string]bool)}
	isDir := make(map[string]bool, len(entries))
	for _, entry := range entries {
		dir := entryIsDir(root, entry)
		isDir[entry.Name()] = dir
		if dir {
			state.names[entry.Name()] = kindDir
		} else {
			state.names[entry.Name()] = kindFile
		}
	}

	plan := &Plan{Root: root}
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := entry.Name()
		if isDir[name] {
			plan.Directories = append(plan.Directories, name)
			if o.classifier.IsCategoryFolder(name) {
				plan.CategoryFolders = append(plan.CategoryFolders, name)
			}
			continue
		}
		pe := o.planEntry(root, name, state)
		if pe.Decision != DecisionMove {
			logger.Debug("file decision",
				logging.Args(append(logging.DecisionAttrs("file_move", string(pe.Decision), pe.Reason),
					logging.String("file", name),
					logging.String("category", pe.Category))...)...)
		}
		plan.Entries = append(plan.Entries, pe)
	}

	logger.Debug("plan computed",
		logging.Int("files", len(plan.Entries)),
		logging.Int("directories", len(plan.Directories)),
		logging.Int("category_folders", len(plan.CategoryFolders)),
		logging.Int("moves", plan.Count(DecisionMove)),
	)
	return plan, nil
}

func (o *Organizer) planEntry(root, name string, state *layout) PlanEntry {
	cat := o.classifier.Category(name)
	dir := filepath.Join(root, cat)
	pe := PlanEntry{
		Name:        name,
		Source:      filepath.Join(root, name),
		Category:    cat,
		Dir:         dir,
		Destination: filepath.Join(dir, name),
	}
	policy := o.cfg.Organize

	if policy.SkipHidden && strings.HasPrefix(name, ".") {
		pe.Decision = DecisionSkip
		pe.Reason = ReasonHidden
		return pe
	}

	kind, exists := state.names[cat]
	if exists && kind != kindDir {
		pe.Reason = ReasonCategoryConflict
		if policy.CategoryConflict == config.CategoryConflictSkip {
			pe.Decision = DecisionSkip
			return pe
		}
		pe.Decision = DecisionFail
		pe.Err = failure.Wrap(failure.ErrCategoryConflict, "organize", "plan",
			fmt.Sprintf("file %q occupies the category folder name for %q", cat, name), nil)
		return pe
	}
	pe.CreatesDir = !exists

	if exists {
		if taken, takenByDir := state.destinationTaken(pe.Destination); taken {
			pe.Reason = ReasonDestinationExists
			switch {
			case policy.OnExists == config.OnExistsSkip:
				pe.Decision = DecisionSkip
				return pe
			case policy.OnExists == config.OnExistsRename:
				pe.Destination = state.nextFreeName(dir, name)
				pe.Reason = ReasonRenamed
			case policy.OnExists == config.OnExistsOverwrite && !takenByDir:
				pe.Replace = true
				pe.Reason = ReasonOverwrite
			default:
				pe.Decision = DecisionFail
				pe.Err = failure.Wrap(failure.ErrCollision, "organize", "plan",
					fmt.Sprintf("%s already exists", pe.Destination), nil)
				return pe
			}
		}
	}

	pe.Decision = DecisionMove
	state.claimed[pe.Destination] = true
	state.names[cat] = kindDir
	if name != cat {
		delete(state.names, name)
	}
	return pe
}

// destinationTaken reports whether path is claimed by this plan or present on
// disk, and whether the occupant is a directory.
func (l *layout) destinationTaken(path string) (bool, bool) {
	if l.claimed[path] {
		return true, false
	}
	info, err := os.Lstat(path)
	if err != nil {
		return false, false
	}
	return true, info.IsDir()
}

// nextFreeName appends " (N)" before the extension until the name is free.
func (l *layout) nextFreeName(dir, name string) string {
	stem, ext := splitName(name)
	for counter := 1; ; counter++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s (%d)%s", stem, counter, ext))
		if taken, _ := l.destinationTaken(candidate); !taken {
			return candidate
		}
	}
}

// splitName separates name into stem and ".ext" using the same rules as
// category.Extension.
func splitName(name string) (string, string) {
	ext := category.Extension(name)
	if ext == "" {
		if strings.HasSuffix(name, ".") && strings.TrimLeft(name, ".") != "" {
			return strings.TrimSuffix(name, "."), "."
		}
		return name, ""
	}
	return name[:len(name)-len(ext)-1], "." + ext
}

// entryIsDir follows symlinks so a link to a directory is treated like one.
// Broken links count as files.
func entryIsDir(root string, entry fs.DirEntry) bool {
	if entry.Type()&fs.ModeSymlink == 0 {
		return entry.IsDir()
	}
	info, err := os.Stat(filepath.Join(root, entry.Name()))
	if err != nil {
		return false
	}
	return info.IsDir()
}
