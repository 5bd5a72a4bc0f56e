package config

import (
	"runtime"
)

const (
	DefaultInterval = 300
	DefaultLogLevel = "info"
)

// Volume is the runtime configuration of keepdisk. It is assembled once at
// startup and passed around by value afterwards.
type Volume struct {
	Drive           string `hcl:"drive"`
	Interval        int    `hcl:"interval"`
	Service         bool   `hcl:"service"`
	PIDFile         string `hcl:"pidfile"`
	StatusPort      int    `hcl:"statusPort"`
	LogLevel        string `hcl:"logLevel"`
	FallbackLogFile string `hcl:"fallbackLog"`
}

// DefaultDrive returns the system volume of the current platform.
func DefaultDrive() string {
	if runtime.GOOS == "windows" {
		return "C"
	}
	return "/"
}

func Defaults() Volume {
	return Volume{
		Drive:    DefaultDrive(),
		Interval: DefaultInterval,
		LogLevel: DefaultLogLevel,
	}
}
