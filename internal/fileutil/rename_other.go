//go:build !linux

package fileutil

import "os"

// Rename moves src to dst. When replace is false an existing dst is reported
// as fs.ErrExist instead of being overwritten.
func Rename(src, dst string, replace bool) error {
	if replace {
		return os.Rename(src, dst)
	}
	return renameChecked(src, dst)
}
