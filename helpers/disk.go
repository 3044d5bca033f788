package helpers

import "fmt"

type DiskInfo struct {
	TotalBytes       uint64  `json:"totalBytes"`
	AvailBytes       uint64  `json:"availBytes"`
	UsedBytes        uint64  `json:"usedBytes"`
	UsedPct          float64 `json:"usedPct"`
	SizeFormattedGb  string  `json:"sizeFormattedGb"`
	AvailFormattedGb string  `json:"availFormattedGb"`
}

const gb = 1 << 30

// newDiskInfo derives usage from raw counters. avail is what an
// unprivileged process may still write, free includes reserved blocks.
func newDiskInfo(total, avail, free uint64) *DiskInfo {
	used := total - free
	info := &DiskInfo{
		TotalBytes:       total,
		AvailBytes:       avail,
		UsedBytes:        used,
		SizeFormattedGb:  fmt.Sprintf("%dG", total/gb),
		AvailFormattedGb: fmt.Sprintf("%dG", avail/gb),
	}
	if used+avail > 0 {
		info.UsedPct = float64(used) / float64(used+avail) * 100
	}
	return info
}
