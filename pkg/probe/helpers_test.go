package probe_test

import (
	"os"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/mittwald/keepdisk/pkg/probe"
	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/spf13/afero"
)

// denyingFs refuses to open anything once deny is set.
type denyingFs struct {
	afero.Fs
	deny atomic.Bool
}

func (d *denyingFs) Open(name string) (afero.File, error) {
	if d.deny.Load() {
		return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrPermission}
	}
	return d.Fs.Open(name)
}

// failingFs reports an I/O error on every open once fail is set.
type failingFs struct {
	afero.Fs
	fail atomic.Bool
}

func (f *failingFs) Open(name string) (afero.File, error) {
	if f.fail.Load() {
		return nil, &os.PathError{Op: "open", Path: name, Err: syscall.EIO}
	}
	return f.Fs.Open(name)
}

// slowFs delays every directory listing and records how many listings ran
// at the same time.
type slowFs struct {
	afero.Fs
	delay time.Duration

	calls      atomic.Int32
	active     atomic.Int32
	maxActive  atomic.Int32
	listingDir string
}

func (s *slowFs) Open(name string) (afero.File, error) {
	if name == s.listingDir {
		n := s.active.Add(1)
		defer s.active.Add(-1)
		for {
			m := s.maxActive.Load()
			if n <= m || s.maxActive.CompareAndSwap(m, n) {
				break
			}
		}
		s.calls.Add(1)
		time.Sleep(s.delay)
	}
	return s.Fs.Open(name)
}

func newVolumeFs(entries ...string) afero.Fs {
	fs := afero.NewMemMapFs()
	_ = fs.MkdirAll("/vol", 0o755)
	for _, e := range entries {
		_ = afero.WriteFile(fs, "/vol/"+e, []byte(e), 0o644)
	}
	return fs
}

func newTestLogger() (*log.Entry, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(log.DebugLevel)
	return logger.WithField("kind", "probe"), hook
}

func fixedCapacity(total, available int64) probe.CapacityFunc {
	return func(string) (probe.Capacity, error) {
		return probe.Capacity{Total: total, Available: available}, nil
	}
}

func messages(hook *test.Hook) []string {
	var out []string
	for _, e := range hook.AllEntries() {
		out = append(out, e.Message)
	}
	return out
}

func indexOf(list []string, prefix string) int {
	for i, s := range list {
		if len(s) >= len(prefix) && s[:len(prefix)] == prefix {
			return i
		}
	}
	return -1
}
