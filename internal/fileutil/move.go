package fileutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"syscall"
)

// MoveOptions controls how MoveFile treats existing destinations and
// filesystem boundaries.
type MoveOptions struct {
	// Replace allows an existing regular file at dst to be overwritten.
	Replace bool
	// CrossDeviceCopy falls back to a verified copy plus delete when a rename
	// crosses filesystems.
	CrossDeviceCopy bool
}

// MoveFile relocates src to dst. Without Replace an existing dst fails with an
// error satisfying errors.Is(err, fs.ErrExist).
func MoveFile(src, dst string, opts MoveOptions) error {
	err := Rename(src, dst, opts.Replace)
	if err == nil {
		return nil
	}
	if !IsCrossDevice(err) || !opts.CrossDeviceCopy {
		return err
	}
	if err := copyAcross(src, dst, opts.Replace); err != nil {
		return fmt.Errorf("copy file across devices: %w", err)
	}
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("remove source after copy: %w", err)
	}
	return nil
}

func copyAcross(src, dst string, replace bool) error {
	info, err := os.Lstat(src)
	if err != nil {
		return err
	}
	if info.Mode()&os.ModeSymlink != 0 {
		target, err := os.Readlink(src)
		if err != nil {
			return err
		}
		if replace {
			if err := removeExistingFile(dst); err != nil {
				return err
			}
		}
		return os.Symlink(target, dst)
	}
	if replace {
		return CopyFileVerified(src, dst)
	}
	return copyVerified(src, dst, true)
}

func removeExistingFile(path string) error {
	info, err := os.Lstat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	if info.IsDir() {
		return &os.PathError{Op: "remove", Path: path, Err: syscall.EISDIR}
	}
	return os.Remove(path)
}

// IsCrossDevice reports whether err came from a rename across filesystems.
func IsCrossDevice(err error) bool {
	return errors.Is(err, syscall.EXDEV)
}

// IsExists reports whether err indicates the destination already exists.
func IsExists(err error) bool {
	return errors.Is(err, fs.ErrExist)
}

// renameChecked is the portable no-replace rename: an Lstat probe followed by
// os.Rename. It leaves a window between the probe and the rename.
func renameChecked(src, dst string) error {
	if _, err := os.Lstat(dst); err == nil {
		return &os.LinkError{Op: "rename", Old: src, New: dst, Err: syscall.EEXIST}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.Rename(src, dst)
}
