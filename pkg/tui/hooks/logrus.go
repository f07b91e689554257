// Package hooks bridges logrus into the TUI log pane.
package hooks

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Entry is one captured log line.
type Entry struct {
	Time    time.Time
	Level   logrus.Level
	Message string
}

// TUILogHook captures logrus entries and forwards them to the TUI over a
// channel. Forwarding is non-blocking; a stalled TUI drops lines rather
// than stalling the logger.
type TUILogHook struct {
	ch     chan<- Entry
	levels []logrus.Level
}

// NewTUILogHook creates a hook that writes to ch.
func NewTUILogHook(ch chan<- Entry) *TUILogHook {
	return &TUILogHook{
		ch:     ch,
		levels: logrus.AllLevels,
	}
}

// Levels returns the log levels this hook handles.
func (h *TUILogHook) Levels() []logrus.Level {
	return h.levels
}

// Fire is called when a log entry is made.
func (h *TUILogHook) Fire(entry *logrus.Entry) error {
	select {
	case h.ch <- Entry{Time: entry.Time, Level: entry.Level, Message: entry.Message}:
	default:
	}
	return nil
}
