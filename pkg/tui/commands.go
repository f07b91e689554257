package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/relentnet/scrollr/pkg/events"
	"github.com/relentnet/scrollr/pkg/registry"
	"github.com/relentnet/scrollr/pkg/tui/hooks"
)

const mutationTimeout = 15 * time.Second

// ListenEvents creates a command that waits for one bus event.
func ListenEvents(eventCh <-chan events.Event) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-eventCh
		if !ok {
			return nil
		}
		return StoreEventMsg{Event: event}
	}
}

// ListenLogs creates a command that waits for one captured log entry.
func ListenLogs(logCh <-chan hooks.Entry) tea.Cmd {
	return func() tea.Msg {
		entry, ok := <-logCh
		if !ok {
			return nil
		}
		return LogEntryMsg{Level: entry.Level, Message: entry.Message, Time: entry.Time}
	}
}

// ListenShutdown creates a command that waits for the external stop signal.
func ListenShutdown(stopCh <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-stopCh
		return ShutdownMsg{}
	}
}

// mutate runs a store mutation off the UI loop and reports its outcome.
func mutate(action string, t registry.Type, fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), mutationTimeout)
		defer cancel()
		return ActionDoneMsg{Action: action, Channel: t, Err: fn(ctx)}
	}
}
