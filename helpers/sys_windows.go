package helpers

import (
	"fmt"

	"golang.org/x/sys/windows"
)

func DiskUsage(path string) (*DiskInfo, error) {
	dir, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return nil, err
	}

	var avail, total, free uint64
	if err := windows.GetDiskFreeSpaceEx(dir, &avail, &total, &free); err != nil {
		return nil, fmt.Errorf("GetDiskFreeSpaceEx %s: %w", path, err)
	}

	return newDiskInfo(total, avail, free), nil
}
