package logsink

import (
	"github.com/charmbracelet/lipgloss"
	log "github.com/sirupsen/logrus"
)

var styleError = lipgloss.NewStyle().Foreground(lipgloss.Color("#e1244c")).Bold(true)
var styleWarning = lipgloss.NewStyle().Foreground(lipgloss.Color("#e08dff"))
var styleFields = lipgloss.NewStyle().Foreground(lipgloss.Color("#5D689C"))

// ConsoleFormatter renders "timestamp - message" lines. Errors and warnings
// are prefixed and highlighted.
type ConsoleFormatter struct {
	TimestampFormat string
}

func (f *ConsoleFormatter) Format(entry *log.Entry) ([]byte, error) {
	line := entry.Time.Format(f.TimestampFormat) + " - " + entry.Message

	switch {
	case entry.Level <= log.ErrorLevel:
		line = styleError.Render("ERROR: " + line)
	case entry.Level == log.WarnLevel:
		line = styleWarning.Render("WARNING: " + line)
	}

	if fields := formatFields(entry.Data); fields != "" {
		line += " " + styleFields.Render(fields)
	}

	return []byte(line + "\n"), nil
}
