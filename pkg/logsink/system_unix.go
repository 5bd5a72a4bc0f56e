//go:build !windows

package logsink

import (
	"log/syslog"
	"regexp"
	"strings"

	"github.com/coreos/go-systemd/v22/journal"
	log "github.com/sirupsen/logrus"
	lsyslog "github.com/sirupsen/logrus/hooks/syslog"
)

// newSystemHook prefers the systemd journal and falls back to syslog.
func newSystemHook(name string) (log.Hook, func(), error) {
	if journal.Enabled() {
		return &journalHook{identifier: name}, func() {}, nil
	}

	hook, err := lsyslog.NewSyslogHook("", "", syslog.LOG_INFO|syslog.LOG_DAEMON, name)
	if err != nil {
		return nil, nil, err
	}

	return hook, func() { _ = hook.Writer.Close() }, nil
}

type journalHook struct {
	identifier string
}

var invalidJournalField = regexp.MustCompile(`[^A-Z0-9_]`)

func (h *journalHook) Levels() []log.Level {
	return log.AllLevels
}

func (h *journalHook) Fire(entry *log.Entry) error {
	vars := map[string]string{"SYSLOG_IDENTIFIER": h.identifier}
	for k, v := range entry.Data {
		vars[journalField(k)] = stringify(v)
	}

	return journal.Send(entry.Message, journalPriority(entry.Level), vars)
}

func journalField(key string) string {
	key = invalidJournalField.ReplaceAllString(strings.ToUpper(key), "_")
	return "KEEPDISK_" + key
}

func journalPriority(level log.Level) journal.Priority {
	switch level {
	case log.PanicLevel:
		return journal.PriEmerg
	case log.FatalLevel:
		return journal.PriCrit
	case log.ErrorLevel:
		return journal.PriErr
	case log.WarnLevel:
		return journal.PriWarning
	case log.InfoLevel:
		return journal.PriInfo
	default:
		return journal.PriDebug
	}
}
