//go:build windows

package probe

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// VolumeCapacity returns the total and available bytes of the volume
// containing path.
func VolumeCapacity(path string) (Capacity, error) {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return Capacity{}, fmt.Errorf("invalid path %s: %w", path, err)
	}

	var available, total, free uint64
	if err := windows.GetDiskFreeSpaceEx(p, &available, &total, &free); err != nil {
		return Capacity{}, fmt.Errorf("could not get capacity of %s: %w", path, err)
	}

	return Capacity{Total: int64(total), Available: int64(available)}, nil
}
