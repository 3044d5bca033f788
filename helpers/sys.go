//go:build !windows

package helpers

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// DiskUsage reports the capacity of the file system that contains path.
func DiskUsage(path string) (*DiskInfo, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return nil, fmt.Errorf("statfs %s: %w", path, err)
	}

	bsize := uint64(stat.Bsize)
	return newDiskInfo(uint64(stat.Blocks)*bsize, uint64(stat.Bavail)*bsize, uint64(stat.Bfree)*bsize), nil
}
