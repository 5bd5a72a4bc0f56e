//go:build !windows

package pidfile

import (
	"os"
	"syscall"
)

func processAlive(pid int) bool {
	if pid == os.Getpid() {
		return true
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	return process.Signal(syscall.Signal(0)) == nil
}
