//go:build !windows

package diskspace

import (
	"path/filepath"
	"syscall"
)

// availableSpace stats the filesystem containing path's directory.
// Bavail counts blocks available to unprivileged processes.
func availableSpace(path string) int64 {
	dir := filepath.Dir(path)

	var stat syscall.Statfs_t
	if err := syscall.Statfs(dir, &stat); err != nil {
		return 0
	}
	return int64(stat.Bavail) * int64(stat.Bsize)
}
