package pidfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// PIDFile guards against two keepdisk instances probing at the same time.
// An empty path disables it.
type PIDFile struct {
	path string
	file *os.File
}

func New(path string) *PIDFile {
	return &PIDFile{
		path: path,
	}
}

func (f *PIDFile) Acquire() error {
	if f.path == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return errors.Wrapf(err, "failed to create pid file directory %q", filepath.Dir(f.path))
	}

	file, err := os.OpenFile(f.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	switch {
	case os.IsExist(err):
		if err := f.removePIDFileIfOutdated(); err != nil {
			return err
		}

		return f.Acquire()
	case err == nil:
		if _, err := file.WriteString(strconv.Itoa(os.Getpid())); err != nil {
			_ = file.Close()
			return errors.Wrapf(err, "failed to write pid to pid file %q", f.path)
		}

		log.WithField("kind", "pidfile").Info("acquired pid file ", f.path)
	default:
		return errors.Wrapf(err, "failed to open pid file %q", f.path)
	}

	f.file = file
	return nil
}

func (f *PIDFile) removePIDFileIfOutdated() error {
	pidStr, err := os.ReadFile(f.path)
	if err != nil {
		return errors.Wrapf(err, "failed to read pid file '%s'", f.path)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(pidStr)))
	if err != nil {
		return errors.Wrapf(err, "failed to parse pid file '%s'", f.path)
	}

	if processAlive(pid) {
		return fmt.Errorf("pid file %q already exists and contains the PID of a running process", f.path)
	}

	log.WithField("kind", "pidfile").Info("existing pid file contains the PID of a non-running process; removing it")

	if err := os.Remove(f.path); err != nil {
		return errors.Wrapf(err, "failed to remove pid file %q", f.path)
	}

	return nil
}

func (f *PIDFile) Release() error {
	if f.path == "" || f.file == nil {
		return nil
	}

	if err := f.file.Close(); err != nil {
		return errors.Wrapf(err, "failed to close pid file %q", f.path)
	}
	f.file = nil

	if err := os.Remove(f.path); err != nil {
		return errors.Wrapf(err, "failed to remove pid file %q", f.path)
	}

	log.WithField("kind", "pidfile").Info("released pid file ", f.path)
	return nil
}
