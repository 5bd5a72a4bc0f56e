//go:build windows

package logsink

import (
	log "github.com/sirupsen/logrus"
	"golang.org/x/sys/windows/svc/eventlog"
)

const (
	eventIDInfo uint32 = iota + 1
	eventIDWarning
	eventIDError
)

// newSystemHook writes to the Windows application event log. Registering
// the event source needs administrative rights; a failure there is ignored
// and the source is opened anyway.
func newSystemHook(name string) (log.Hook, func(), error) {
	_ = eventlog.InstallAsEventCreate(name, eventlog.Error|eventlog.Warning|eventlog.Info)

	elog, err := eventlog.Open(name)
	if err != nil {
		return nil, nil, err
	}

	return &eventLogHook{elog: elog}, func() { _ = elog.Close() }, nil
}

type eventLogHook struct {
	elog *eventlog.Log
}

func (h *eventLogHook) Levels() []log.Level {
	return log.AllLevels
}

func (h *eventLogHook) Fire(entry *log.Entry) error {
	msg := systemMessage(entry)

	switch {
	case entry.Level <= log.ErrorLevel:
		return h.elog.Error(eventIDError, msg)
	case entry.Level == log.WarnLevel:
		return h.elog.Warning(eventIDWarning, msg)
	default:
		return h.elog.Info(eventIDInfo, msg)
	}
}
