//go:build windows

package probe

import (
	"strings"
)

// NormalizeVolume turns a drive letter ("C", "C:") or a mount folder into a
// root path with a trailing separator.
func NormalizeVolume(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		id = "C"
	}

	if len(id) == 1 {
		id += ":"
	}

	if !strings.HasSuffix(id, `\`) {
		id += `\`
	}
	return id
}
