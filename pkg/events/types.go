package events

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/relentnet/scrollr/pkg/scrollrapi"
)

// EventType identifies a dashboard event.
type EventType int

const (
	// Channel lifecycle
	ChannelAdded EventType = iota
	ChannelRemoved
	ChannelUpdated
	ChannelsReplaced

	// Tab routing
	ActiveChanged

	// Realtime feed
	StreamStatusChanged
	PreferencesUpdated
	TradesUpdated
	GamesUpdated

	// Logging
	LogMessage

	// Application lifecycle
	ShutdownStarted
)

// String returns a string representation of the event type.
func (e EventType) String() string {
	switch e {
	case ChannelAdded:
		return "ChannelAdded"
	case ChannelRemoved:
		return "ChannelRemoved"
	case ChannelUpdated:
		return "ChannelUpdated"
	case ChannelsReplaced:
		return "ChannelsReplaced"
	case ActiveChanged:
		return "ActiveChanged"
	case StreamStatusChanged:
		return "StreamStatusChanged"
	case PreferencesUpdated:
		return "PreferencesUpdated"
	case TradesUpdated:
		return "TradesUpdated"
	case GamesUpdated:
		return "GamesUpdated"
	case LogMessage:
		return "LogMessage"
	case ShutdownStarted:
		return "ShutdownStarted"
	default:
		return "Unknown"
	}
}

// Event carries the data for one dashboard event. Only the fields relevant
// to the Type are populated.
type Event struct {
	Type      EventType
	Timestamp time.Time

	// Channel identification
	ChannelType string

	// Realtime feed
	StreamStatus string // "connected" or "disconnected"

	// Payloads
	Trades []scrollrapi.Trade
	Games  []scrollrapi.Game

	// Log info
	LogLevel   logrus.Level
	LogMessage string

	// Failure attached to the event, if any (e.g. a rolled-back mutation)
	Err error
}

// NewChannelEvent creates a channel lifecycle event.
func NewChannelEvent(eventType EventType, channelType string) Event {
	return Event{
		Type:        eventType,
		Timestamp:   time.Now(),
		ChannelType: channelType,
	}
}

// NewStreamStatusEvent creates a connection status transition event.
func NewStreamStatusEvent(status string) Event {
	return Event{
		Type:         StreamStatusChanged,
		Timestamp:    time.Now(),
		StreamStatus: status,
	}
}

// NewLogEvent creates a log message event.
func NewLogEvent(level logrus.Level, message string) Event {
	return Event{
		Type:       LogMessage,
		Timestamp:  time.Now(),
		LogLevel:   level,
		LogMessage: message,
	}
}
