package components

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/sirupsen/logrus"

	"github.com/relentnet/scrollr/pkg/tui/styles"
)

const maxLogLines = 200

// logLine is one rendered log entry.
type logLine struct {
	time    time.Time
	level   logrus.Level
	message string
}

// LogsModel keeps a bounded buffer of recent log lines in a scrollable
// viewport, pinned to the bottom as entries arrive.
type LogsModel struct {
	viewport viewport.Model
	lines    []logLine
	width    int
	height   int
	ready    bool
}

// NewLogsModel creates an empty log pane.
func NewLogsModel() LogsModel {
	return LogsModel{lines: make([]logLine, 0, maxLogLines)}
}

// Append adds a log line, trimming the buffer.
func (m *LogsModel) Append(t time.Time, level logrus.Level, message string) {
	m.lines = append(m.lines, logLine{time: t, level: level, message: message})
	if len(m.lines) > maxLogLines {
		m.lines = m.lines[len(m.lines)-maxLogLines:]
	}
	m.refreshContent()
}

// SetSize sets the render dimensions.
func (m *LogsModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	if !m.ready {
		m.viewport = viewport.New(width, height)
		m.ready = true
	} else {
		m.viewport.Width = width
		m.viewport.Height = height
	}
	m.refreshContent()
}

func (m *LogsModel) refreshContent() {
	if !m.ready {
		return
	}
	var b strings.Builder
	for _, line := range m.lines {
		b.WriteString(styles.LogTimestampStyle.Render(line.time.Format("15:04:05")))
		b.WriteByte(' ')
		b.WriteString(levelStyle(line.level).Render(strings.ToUpper(line.level.String()[:4])))
		b.WriteByte(' ')
		msg := line.message
		if m.width > 14 && len(msg) > m.width-14 {
			msg = msg[:m.width-14]
		}
		b.WriteString(msg)
		b.WriteByte('\n')
	}
	m.viewport.SetContent(strings.TrimRight(b.String(), "\n"))
	m.viewport.GotoBottom()
}

// View renders the pane.
func (m LogsModel) View() string {
	if !m.ready {
		return ""
	}
	return m.viewport.View()
}

func levelStyle(level logrus.Level) interface{ Render(...string) string } {
	switch level {
	case logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel:
		return styles.LogErrorStyle
	case logrus.WarnLevel:
		return styles.LogWarnStyle
	case logrus.DebugLevel, logrus.TraceLevel:
		return styles.LogDebugStyle
	default:
		return styles.LogInfoStyle
	}
}
