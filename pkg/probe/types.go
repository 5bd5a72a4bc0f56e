package probe

import (
	"time"
)

// Capacity holds the size figures of a volume in bytes.
type Capacity struct {
	Total     int64 `json:"total"`
	Available int64 `json:"available"`
}

// CapacityFunc reports the capacity of the volume containing path.
type CapacityFunc func(path string) (Capacity, error)

// Result describes the outcome of a single probe.
type Result struct {
	Path       string        `json:"path"`
	StartedAt  time.Time     `json:"startedAt"`
	Duration   time.Duration `json:"duration"`
	OK         bool          `json:"ok"`
	Entries    int           `json:"entries"`
	Capacity   *Capacity     `json:"capacity,omitempty"`
	WriteCycle bool          `json:"writeCycle"`
	Err        error         `json:"-"`
	WriteErr   error         `json:"-"`
}

type StatusResponse struct {
	Running bool    `json:"running"`
	Last    *Result `json:"last,omitempty"`
	Message string  `json:"message,omitempty"`
	Warning string  `json:"warning,omitempty"`
}
