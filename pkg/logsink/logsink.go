// Package logsink selects where keepdisk writes its log: the console in
// foreground mode, the system log in service mode. When the system log
// cannot be written, entries are appended to a local fallback file. None of
// the sinks ever reports an error back to the caller.
package logsink

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/adrg/xdg"
	log "github.com/sirupsen/logrus"
)

type Mode int

const (
	Console Mode = iota
	Service
)

// HookFactory creates the system log hook for the given source name. The
// returned function releases the hook.
type HookFactory func(name string) (log.Hook, func(), error)

type Options struct {
	Name         string
	Level        log.Level
	FallbackFile string

	// SystemHook defaults to the platform system log.
	SystemHook HookFactory
}

// DefaultFallbackFile is used when the system log is unavailable and no
// other file was configured.
func DefaultFallbackFile(name string) string {
	return filepath.Join(xdg.DataHome, name, "service.log")
}

// Configure wires logger for the given mode and returns a function that
// releases the sinks.
func Configure(logger *log.Logger, mode Mode, opts Options) func() {
	logger.SetLevel(opts.Level)

	if mode == Console {
		logger.SetOutput(os.Stderr)
		logger.SetFormatter(&ConsoleFormatter{TimestampFormat: "2006-01-02 15:04:05"})
		return func() {}
	}

	if opts.FallbackFile == "" {
		opts.FallbackFile = DefaultFallbackFile(opts.Name)
	}
	if opts.SystemHook == nil {
		opts.SystemHook = newSystemHook
	}

	hook := &fallbackHook{fallback: newFileHook(opts.FallbackFile)}
	release := func() {}

	if primary, closer, err := opts.SystemHook(opts.Name); err != nil {
		hook.unavailable = fmt.Errorf("system log unavailable: %w", err)
	} else {
		hook.primary = primary
		if closer != nil {
			release = closer
		}
	}

	logger.SetOutput(io.Discard)
	logger.AddHook(hook)

	return release
}

// fallbackHook fires the primary hook and writes to the fallback file when
// that fails.
type fallbackHook struct {
	primary     log.Hook
	unavailable error
	fallback    *fileHook
}

func (h *fallbackHook) Levels() []log.Level {
	return log.AllLevels
}

func (h *fallbackHook) Fire(entry *log.Entry) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = nil
		}
	}()

	sinkErr := h.unavailable
	if h.primary != nil {
		if sinkErr = h.fireLevel(entry); sinkErr == nil {
			return nil
		}
	}

	_ = h.fallback.write(entry, sinkErr)
	return nil
}

func (h *fallbackHook) fireLevel(entry *log.Entry) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("system log panicked: %v", r)
		}
	}()

	for _, l := range h.primary.Levels() {
		if l == entry.Level {
			return h.primary.Fire(entry)
		}
	}
	return nil
}

type fileHook struct {
	mu        sync.Mutex
	path      string
	formatter log.Formatter
}

func newFileHook(path string) *fileHook {
	return &fileHook{
		path: path,
		formatter: &log.TextFormatter{
			DisableColors:   true,
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		},
	}
}

func (f *fileHook) write(entry *log.Entry, sinkErr error) error {
	e := entry
	if sinkErr != nil {
		e = entry.WithField("sinkError", sinkErr.Error())
		e.Level = entry.Level
		e.Message = entry.Message
	}

	line, err := f.formatter.Format(e)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return err
	}

	file, err := os.OpenFile(f.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = file.Write(line)
	return err
}

// formatFields renders entry fields as sorted key=value pairs.
func formatFields(data log.Fields) string {
	if len(data) == 0 {
		return ""
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+stringify(data[k]))
	}
	return strings.Join(parts, " ")
}

// systemMessage is the text handed to the system log.
func systemMessage(entry *log.Entry) string {
	if fields := formatFields(entry.Data); fields != "" {
		return entry.Message + " " + fields
	}
	return entry.Message
}

func stringify(v interface{}) string {
	if err, ok := v.(error); ok {
		return err.Error()
	}
	return fmt.Sprint(v)
}
