package logsink_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mittwald/keepdisk/pkg/logsink"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHook struct {
	mu       sync.Mutex
	fail     error
	panics   bool
	messages []string
}

func (h *recordingHook) Levels() []log.Level {
	return log.AllLevels
}

func (h *recordingHook) Fire(entry *log.Entry) error {
	if h.panics {
		panic("sink exploded")
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = append(h.messages, entry.Message)
	return h.fail
}

func factoryFor(hook log.Hook, released *bool) logsink.HookFactory {
	return func(string) (log.Hook, func(), error) {
		return hook, func() { *released = true }, nil
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(content)
}

func TestServiceModeWritesToSystemLog(t *testing.T) {
	fallback := filepath.Join(t.TempDir(), "keepdisk", "service.log")
	hook := &recordingHook{}
	released := false

	logger := log.New()
	release := logsink.Configure(logger, logsink.Service, logsink.Options{
		Name:         "keepdisk",
		Level:        log.InfoLevel,
		FallbackFile: fallback,
		SystemHook:   factoryFor(hook, &released),
	})

	logger.Info("probe started")
	logger.Debug("not logged")
	release()

	assert.Equal(t, []string{"probe started"}, hook.messages)
	assert.True(t, released)

	_, err := os.Stat(fallback)
	assert.True(t, os.IsNotExist(err), "fallback file must not be used while the system log works")
}

func TestServiceModeFallsBackWhenSystemLogUnavailable(t *testing.T) {
	fallback := filepath.Join(t.TempDir(), "nested", "service.log")

	logger := log.New()
	logsink.Configure(logger, logsink.Service, logsink.Options{
		Name:         "keepdisk",
		Level:        log.InfoLevel,
		FallbackFile: fallback,
		SystemHook: func(string) (log.Hook, func(), error) {
			return nil, nil, errors.New("access is denied")
		},
	})

	logger.WithField("path", "/vol").Warn("Access denied to /vol")
	logger.Info("second line")

	content := readFile(t, fallback)
	assert.Contains(t, content, "Access denied to /vol")
	assert.Contains(t, content, "path=/vol")
	assert.Contains(t, content, "system log unavailable: access is denied")
	assert.Contains(t, content, "second line")
	assert.Equal(t, 2, strings.Count(content, "\n"))
}

func TestServiceModeFallsBackWhenSystemLogFails(t *testing.T) {
	fallback := filepath.Join(t.TempDir(), "service.log")
	hook := &recordingHook{fail: errors.New("event log full")}
	released := false

	logger := log.New()
	logsink.Configure(logger, logsink.Service, logsink.Options{
		Name:         "keepdisk",
		Level:        log.InfoLevel,
		FallbackFile: fallback,
		SystemHook:   factoryFor(hook, &released),
	})

	logger.Error("could not start")

	content := readFile(t, fallback)
	assert.Contains(t, content, "could not start")
	assert.Contains(t, content, "event log full")
	assert.Contains(t, content, "level=error")
}

func TestServiceModeSwallowsPanicsAndFileErrors(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("file, not a directory"), 0o644))
	released := false

	logger := log.New()
	logsink.Configure(logger, logsink.Service, logsink.Options{
		Name:         "keepdisk",
		Level:        log.InfoLevel,
		FallbackFile: filepath.Join(blocker, "service.log"),
		SystemHook:   factoryFor(&recordingHook{panics: true}, &released),
	})

	assert.NotPanics(t, func() {
		logger.Info("nowhere to go")
		logger.Error("still nowhere")
	})
}

func TestDefaultFallbackFile(t *testing.T) {
	path := logsink.DefaultFallbackFile("keepdisk")
	assert.Equal(t, "service.log", filepath.Base(path))
	assert.Equal(t, "keepdisk", filepath.Base(filepath.Dir(path)))
}

func TestConsoleFormatter(t *testing.T) {
	f := &logsink.ConsoleFormatter{TimestampFormat: "2006-01-02 15:04:05"}
	ts := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)

	info, err := f.Format(&log.Entry{Time: ts, Level: log.InfoLevel, Message: "Found 3 entries in /", Data: log.Fields{}})
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01 12:30:00 - Found 3 entries in /\n", string(info))

	errLine, err := f.Format(&log.Entry{Time: ts, Level: log.ErrorLevel, Message: "boom", Data: log.Fields{"path": "/"}})
	require.NoError(t, err)
	assert.Contains(t, string(errLine), "ERROR: 2024-05-01 12:30:00 - boom")
	assert.Contains(t, string(errLine), "path=/")

	warnLine, err := f.Format(&log.Entry{Time: ts, Level: log.WarnLevel, Message: "careful", Data: log.Fields{}})
	require.NoError(t, err)
	assert.Contains(t, string(warnLine), "WARNING: 2024-05-01 12:30:00 - careful")
}

func TestConsoleModeUsesConsoleFormatter(t *testing.T) {
	logger := log.New()
	release := logsink.Configure(logger, logsink.Console, logsink.Options{Level: log.DebugLevel})
	defer release()

	assert.IsType(t, &logsink.ConsoleFormatter{}, logger.Formatter)
	assert.Equal(t, log.DebugLevel, logger.GetLevel())
}
