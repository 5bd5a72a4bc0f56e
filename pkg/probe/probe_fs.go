package probe

import (
	"bytes"
	"path/filepath"
	"time"

	"github.com/atuleu/go-humanize"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// MarkerFileName is the file written, read back and deleted on every probe.
const MarkerFileName = ".keep_alive_test"

// VolumeProbe generates I/O on a single volume.
type VolumeProbe struct {
	fs       afero.Fs
	capacity CapacityFunc
	logger   *log.Entry
	now      func() time.Time
}

func NewVolumeProbe(fs afero.Fs, capacity CapacityFunc, logger *log.Entry) *VolumeProbe {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if capacity == nil {
		capacity = VolumeCapacity
	}
	if logger == nil {
		logger = log.WithField("kind", "probe")
	}

	return &VolumeProbe{
		fs:       fs,
		capacity: capacity,
		logger:   logger,
		now:      time.Now,
	}
}

// Check verifies that path is an existing, readable directory.
func (p *VolumeProbe) Check(path string) error {
	info, err := p.fs.Stat(path)
	if err != nil {
		return &ProbeError{Kind: KindVolumeUnavailable, Path: path, Err: err}
	}

	if !info.IsDir() {
		return &ProbeError{Kind: KindVolumeUnavailable, Path: path, Err: errors.New("not a directory")}
	}

	dir, err := p.fs.Open(path)
	if err != nil {
		return &ProbeError{Kind: KindVolumeUnavailable, Path: path, Err: err}
	}

	return dir.Close()
}

// ProbeOnce lists path, queries its capacity if the listing is empty and
// cycles the marker file. Failures are logged and recorded in the result,
// never returned.
func (p *VolumeProbe) ProbeOnce(path string) *Result {
	res := &Result{Path: path, StartedAt: p.now()}
	defer func() {
		res.Duration = p.now().Sub(res.StartedAt)
	}()

	l := p.logger.WithField("path", path)

	entries, err := afero.ReadDir(p.fs, path)
	if err != nil {
		pe := newProbeError(path, err)
		res.Err = pe
		logProbeError(l, pe)
		return res
	}

	res.OK = true
	res.Entries = len(entries)
	l.WithField("entries", res.Entries).Infof("Found %d entries in %s", res.Entries, path)

	if res.Entries == 0 {
		if c, err := p.capacity(path); err != nil {
			l.WithError(err).Warnf("could not read capacity of %s", path)
		} else {
			res.Capacity = &c
			l.WithFields(log.Fields{"total": c.Total, "available": c.Available}).
				Infof("Volume %s - total size: %s, available space: %s",
					path, humanize.ByteSize(c.Total), humanize.ByteSize(c.Available))
		}
	}

	if err := p.cycleMarker(path); err != nil {
		res.WriteErr = &ProbeError{Kind: KindWriteNotPermitted, Path: path, Err: err}
		l.Warn(res.WriteErr.Error())
	} else {
		res.WriteCycle = true
		l.Infof("Test file operation completed on %s", path)
	}

	l.Infof("Successfully read volume %s", path)
	return res
}

func (p *VolumeProbe) cycleMarker(path string) (err error) {
	marker := filepath.Join(path, MarkerFileName)
	content := []byte(p.now().Format(time.RFC3339Nano))

	if err := afero.WriteFile(p.fs, marker, content, 0o644); err != nil {
		return err
	}

	defer func() {
		if rmErr := p.fs.Remove(marker); rmErr != nil && err == nil {
			err = errors.Wrapf(rmErr, "failed to delete %s", marker)
		}
	}()

	read, err := afero.ReadFile(p.fs, marker)
	if err != nil {
		return errors.Wrapf(err, "failed to read back %s", marker)
	}

	if !bytes.Equal(read, content) {
		return errors.Errorf("content of %s changed while probing", marker)
	}

	return nil
}

func logProbeError(l *log.Entry, err *ProbeError) {
	l = l.WithField("error", err.Kind.String())
	switch err.Kind {
	case KindVolumeUnavailable:
		l.Warnf("Directory not found %s: %s", err.Path, err.Err)
	case KindAccessDenied:
		l.Warnf("Access denied to %s: %s", err.Path, err.Err)
	default:
		l.Warnf("IO error accessing %s: %s", err.Path, err.Err)
	}
}
