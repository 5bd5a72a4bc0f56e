//go:build !windows

package probe

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// VolumeCapacity returns the total and available bytes of the volume
// containing path.
func VolumeCapacity(path string) (Capacity, error) {
	var stat unix.Statfs_t

	if err := unix.Statfs(path, &stat); err != nil {
		return Capacity{}, fmt.Errorf("could not get capacity of %s: %w", path, err)
	}

	return Capacity{
		Total:     int64(stat.Blocks * uint64(stat.Bsize)),
		Available: int64(stat.Bavail * uint64(stat.Bsize)),
	}, nil
}
