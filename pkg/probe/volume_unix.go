//go:build !windows

package probe

import (
	"path/filepath"
	"strings"
)

// NormalizeVolume turns a volume identifier into the root path that is
// probed. An empty identifier denotes the filesystem root.
func NormalizeVolume(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return "/"
	}

	if abs, err := filepath.Abs(id); err == nil {
		return abs
	}
	return filepath.Clean(id)
}
