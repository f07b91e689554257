package tui

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/relentnet/scrollr/pkg/events"
	"github.com/relentnet/scrollr/pkg/registry"
)

// StoreEventMsg wraps a bus event for the TUI.
type StoreEventMsg struct {
	Event events.Event
}

// LogEntryMsg represents a log message to display.
type LogEntryMsg struct {
	Level   logrus.Level
	Message string
	Time    time.Time
}

// ActionDoneMsg reports the outcome of a store mutation started by a key
// press. Err is nil on success; failures also surface via the log pane.
type ActionDoneMsg struct {
	Action  string
	Channel registry.Type
	Err     error
}

// ShutdownMsg signals the TUI to shut down.
type ShutdownMsg struct{}
