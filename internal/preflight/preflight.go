package preflight

import (
	"tidydir/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every check for organizing root with cfg. Lock and journal
// checks run only once the state directory is usable.
func RunAll(cfg *config.Config, root string) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{CheckRoot(root)}

	state := CheckStateDir(cfg)
	results = append(results, state)
	if !state.Passed {
		return results
	}

	results = append(results, CheckJournal(cfg), CheckLock(cfg, root))
	return results
}

// AllPassed reports whether every result passed.
func AllPassed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return false
		}
	}
	return true
}
