// Package runlock serializes organize and undo passes over the same root
// directory across processes using advisory file locks.
package runlock

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"tidydir/internal/failure"
)

// Lock is a held or releasable per-root lock.
type Lock struct {
	root string
	path string
	lock *flock.Flock
}

// PathFor returns the lock file used for root inside lockDir.
func PathFor(lockDir, root string) string {
	sum := sha256.Sum256([]byte(filepath.Clean(root)))
	return filepath.Join(lockDir, hex.EncodeToString(sum[:])[:16]+".lock")
}

// TryAcquire takes the lock for root without blocking. It returns an error
// marked failure.ErrLocked when another process already holds it.
func TryAcquire(lockDir, root string) (*Lock, error) {
	if err := os.MkdirAll(lockDir, 0o755); err != nil {
		return nil, fmt.Errorf("create lock dir: %w", err)
	}
	path := PathFor(lockDir, root)
	l := &Lock{root: root, path: path, lock: flock.New(path)}

	ok, err := l.lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, failure.Wrap(failure.ErrLocked, "runlock", "acquire",
			fmt.Sprintf("another tidydir process is working on %s", root), nil)
	}
	return l, nil
}

// Path returns the lock file location.
func (l *Lock) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Release unlocks. It is safe to call on a nil Lock and more than once.
func (l *Lock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return l.lock.Unlock()
}
