package preflight

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"tidydir/internal/config"
	"tidydir/internal/failure"
	"tidydir/internal/journal"
	"tidydir/internal/runlock"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckRoot verifies the directory to organize.
func CheckRoot(root string) Result {
	return CheckDirectoryAccess("Root directory", root)
}

// CheckStateDir creates the state directories when missing and verifies access.
func CheckStateDir(cfg *config.Config) Result {
	const name = "State directory"
	if err := cfg.EnsureDirectories(); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", cfg.Paths.StateDir, err)}
	}
	return CheckDirectoryAccess(name, cfg.Paths.StateDir)
}

// CheckJournal opens and closes the journal database.
func CheckJournal(cfg *config.Config) Result {
	const name = "Journal"
	if !cfg.Journal.Enabled {
		return Result{Name: name, Passed: true, Detail: "Disabled"}
	}
	store, err := journal.Open(cfg)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", cfg.JournalPath(), err)}
	}
	_ = store.Close()
	return Result{Name: name, Passed: true, Detail: cfg.JournalPath()}
}

// CheckLock reports whether another process is organizing root.
func CheckLock(cfg *config.Config, root string) Result {
	const name = "Root lock"
	lock, err := runlock.TryAcquire(cfg.LockDir(), root)
	if err != nil {
		if errors.Is(err, failure.ErrLocked) {
			return Result{Name: name, Detail: "held by another tidydir process"}
		}
		return Result{Name: name, Detail: fmt.Sprintf("error: %v", err)}
	}
	_ = lock.Release()
	return Result{Name: name, Passed: true, Detail: "free"}
}
