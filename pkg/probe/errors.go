package probe

import (
	"io/fs"
	"syscall"

	"github.com/pkg/errors"
)

// Kind classifies a probe failure.
type Kind int

const (
	KindIOError Kind = iota
	KindVolumeUnavailable
	KindAccessDenied
	KindWriteNotPermitted
)

func (k Kind) String() string {
	switch k {
	case KindVolumeUnavailable:
		return "VolumeUnavailable"
	case KindAccessDenied:
		return "AccessDenied"
	case KindWriteNotPermitted:
		return "WriteNotPermitted"
	default:
		return "IOError"
	}
}

// ErrVolumeUnavailable is matched by every error of kind KindVolumeUnavailable.
var ErrVolumeUnavailable = errors.New("volume unavailable")

type ProbeError struct {
	Kind Kind
	Path string
	Err  error
}

func (e *ProbeError) Error() string {
	switch e.Kind {
	case KindVolumeUnavailable:
		return "volume " + e.Path + " does not exist or is not accessible: " + e.Err.Error()
	case KindAccessDenied:
		return "access denied to " + e.Path + ": " + e.Err.Error()
	case KindWriteNotPermitted:
		return "could not create test file on " + e.Path + ": " + e.Err.Error()
	default:
		return "IO error accessing " + e.Path + ": " + e.Err.Error()
	}
}

func (e *ProbeError) Unwrap() error {
	return e.Err
}

func (e *ProbeError) Is(target error) bool {
	return target == ErrVolumeUnavailable && e.Kind == KindVolumeUnavailable
}

// KindOf returns the kind of a probe error. Errors not produced by this
// package are classified by their cause.
func KindOf(err error) Kind {
	var pe *ProbeError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return classify(err)
}

func classify(err error) Kind {
	switch {
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, syscall.ENOTDIR):
		return KindVolumeUnavailable
	case errors.Is(err, fs.ErrPermission):
		return KindAccessDenied
	default:
		return KindIOError
	}
}

func newProbeError(path string, err error) *ProbeError {
	return &ProbeError{Kind: classify(err), Path: path, Err: err}
}
