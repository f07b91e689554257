// Package tui is the live dashboard: a bubbletea program over the channel
// store. The store and realtime feed publish events on the bus; the TUI
// consumes them, pulls fresh snapshots, and issues mutations as commands.
// While the dashboard runs, logrus output is redirected into the log pane.
package tui

import (
	"context"
	"io"
	"os"
	"sync"
	"time"

	"github.com/bep/debounce"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	log "github.com/sirupsen/logrus"

	"github.com/relentnet/scrollr/pkg/channelstore"
	"github.com/relentnet/scrollr/pkg/events"
	"github.com/relentnet/scrollr/pkg/registry"
	"github.com/relentnet/scrollr/pkg/tui/components"
	"github.com/relentnet/scrollr/pkg/tui/hooks"
	"github.com/relentnet/scrollr/pkg/tui/styles"
)

// Version is set by the main package before the dashboard starts.
var Version = "dev"

// Manager owns the TUI lifecycle: program, event plumbing and the logrus
// redirection that keeps terminal output from corrupting the screen.
type Manager struct {
	program     *tea.Program
	store       *channelstore.Store
	bus         *events.Bus
	eventCh     chan events.Event
	logCh       chan hooks.Entry
	logHook     *hooks.TUILogHook
	originalOut io.Writer
	unsubscribe events.UnsubscribeFunc
	stopChan    chan struct{}
	stopOnce    sync.Once

	// Bursty feed payloads are coalesced: only the latest within the
	// debounce window reaches the program.
	feedDebounce func(func())
	feedMu       sync.Mutex
	latestFeed   *events.Event

	triggerShutdown func()
}

// NewManager wires a manager over a started store and bus.
func NewManager(store *channelstore.Store, bus *events.Bus, identity string, triggerShutdown func()) *Manager {
	m := &Manager{
		store:           store,
		bus:             bus,
		eventCh:         make(chan events.Event, 256),
		logCh:           make(chan hooks.Entry, 256),
		stopChan:        make(chan struct{}),
		feedDebounce:    debounce.New(200 * time.Millisecond),
		triggerShutdown: triggerShutdown,
	}

	m.unsubscribe = bus.SubscribeAll(m.forwardEvent)

	model := newRootModel(store, identity, m.eventCh, m.logCh, m.stopChan, m.requestShutdown)
	m.program = tea.NewProgram(model, tea.WithAltScreen())
	return m
}

// forwardEvent pushes bus events toward the program. Feed payload bursts
// collapse to the latest event per debounce window; everything else is
// forwarded as-is, dropped if the TUI is backed up.
func (m *Manager) forwardEvent(e events.Event) {
	switch e.Type {
	case events.TradesUpdated, events.GamesUpdated:
		m.feedMu.Lock()
		ev := e
		m.latestFeed = &ev
		m.feedMu.Unlock()
		m.feedDebounce(func() {
			m.feedMu.Lock()
			latest := m.latestFeed
			m.latestFeed = nil
			m.feedMu.Unlock()
			if latest != nil {
				m.send(*latest)
			}
		})
	default:
		m.send(e)
	}
}

func (m *Manager) send(e events.Event) {
	select {
	case m.eventCh <- e:
	default:
	}
}

// Run starts the dashboard and blocks until it exits.
func (m *Manager) Run() error {
	if os.Getenv("TERM") == "" {
		os.Setenv("TERM", "xterm-256color")
	}

	m.logHook = hooks.NewTUILogHook(m.logCh)
	m.originalOut = log.StandardLogger().Out
	log.AddHook(m.logHook)
	log.SetOutput(io.Discard)

	_, err := m.program.Run()

	log.SetOutput(m.originalOut)

	if m.triggerShutdown != nil {
		m.triggerShutdown()
	}
	return err
}

// Stop shuts the dashboard down from outside (signal handling).
func (m *Manager) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopChan)
		if m.unsubscribe != nil {
			m.unsubscribe()
		}
	})
}

// requestShutdown is invoked from the model when the user quits.
func (m *Manager) requestShutdown() {
	m.Stop()
}

// RootModel is the main bubbletea model.
type RootModel struct {
	tabs      components.TabsModel
	table     components.ChannelTableModel
	feed      components.FeedModel
	statusBar components.StatusBarModel
	logs      components.LogsModel
	picker    components.PickerModel
	help      components.HelpModel

	store    *channelstore.Store
	identity string

	width    int
	height   int
	quitting bool

	eventCh <-chan events.Event
	logCh   <-chan hooks.Entry
	stopCh  <-chan struct{}

	requestShutdown func()
}

func newRootModel(store *channelstore.Store, identity string, eventCh <-chan events.Event, logCh <-chan hooks.Entry, stopCh <-chan struct{}, requestShutdown func()) *RootModel {
	m := &RootModel{
		tabs:            components.NewTabsModel(),
		table:           components.NewChannelTableModel(),
		feed:            components.NewFeedModel(),
		statusBar:       components.NewStatusBarModel(),
		logs:            components.NewLogsModel(),
		picker:          components.NewPickerModel(),
		help:            components.NewHelpModel(),
		store:           store,
		identity:        identity,
		eventCh:         eventCh,
		logCh:           logCh,
		stopCh:          stopCh,
		requestShutdown: requestShutdown,
	}
	m.refresh()
	return m
}

// Init starts the listeners.
func (m *RootModel) Init() tea.Cmd {
	return tea.Batch(
		ListenEvents(m.eventCh),
		ListenLogs(m.logCh),
		ListenShutdown(m.stopCh),
	)
}

// refresh pulls fresh snapshots from the store into the components.
func (m *RootModel) refresh() {
	channels := m.store.Channels()
	active := m.store.Active()

	m.tabs.SetChannels(channels, active)
	m.table.SetChannels(channels)
	m.statusBar.SetStreamStatus(m.store.StreamStatus())
	m.statusBar.SetChannelCount(len(channels))
	m.statusBar.SetIdentity(m.identity)
	if prefs := m.store.Preferences(); prefs != nil {
		m.statusBar.SetTier(prefs.SubscriptionTier)
	}
}

// Update handles messages.
func (m *RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateSizes()
		return m, nil

	case StoreEventMsg:
		return m, m.handleStoreEvent(msg.Event)

	case LogEntryMsg:
		m.logs.Append(msg.Time, msg.Level, msg.Message)
		return m, ListenLogs(m.logCh)

	case ActionDoneMsg:
		if msg.Err != nil {
			log.Errorf("%s %s failed: %v", msg.Action, msg.Channel, msg.Err)
		}
		m.refresh()
		return m, nil

	case ShutdownMsg:
		m.quitting = true
		return m, tea.Quit

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *RootModel) handleStoreEvent(e events.Event) tea.Cmd {
	switch e.Type {
	case events.TradesUpdated:
		m.feed.SetTrades(e.Trades)
	case events.GamesUpdated:
		m.feed.SetGames(e.Games)
	default:
		m.refresh()
	}
	return ListenEvents(m.eventCh)
}

func (m *RootModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.picker.Visible() {
		return m.handlePickerKey(msg)
	}
	if m.help.Visible() {
		m.help.Toggle()
		return m, nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		if m.requestShutdown != nil {
			m.requestShutdown()
		}
		return m, tea.Quit

	case "left", "h", "shift+tab":
		m.store.CycleActive(-1)
		m.refresh()

	case "right", "l", "tab":
		m.store.CycleActive(1)
		m.refresh()

	case " ":
		if t := m.store.Active(); t != "" {
			return m, mutate("toggle", t, func(ctx context.Context) error {
				return m.store.ToggleVisibility(ctx, t)
			})
		}
		log.Warn("No channel selected to toggle")

	case "a":
		configured := map[registry.Type]bool{}
		for _, ch := range m.store.Channels() {
			configured[registry.Type(ch.ChannelType)] = true
		}
		if !m.picker.Open(configured) {
			log.Info("All channel types are already configured")
		}

	case "d":
		if t := m.store.Active(); t != "" {
			return m, mutate("delete", t, func(ctx context.Context) error {
				return m.store.Delete(ctx, t)
			})
		}
		log.Warn("No channel selected to delete")

	case "G":
		return m, mutate("quick start", "", func(ctx context.Context) error {
			return m.store.QuickStart(ctx)
		})

	case "r":
		return m, mutate("refresh", "", func(ctx context.Context) error {
			return m.store.FetchAll(ctx)
		})

	case "?":
		m.help.Toggle()
	}
	return m, nil
}

func (m *RootModel) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.picker.Move(-1)
	case "down", "j":
		m.picker.Move(1)
	case "esc":
		m.picker.Close()
	case "enter":
		if man, ok := m.picker.Selected(); ok {
			m.picker.Close()
			t := man.Type
			return m, mutate("add", t, func(ctx context.Context) error {
				return m.store.Add(ctx, t, nil)
			})
		}
	}
	return m, nil
}

func (m *RootModel) updateSizes() {
	m.tabs.SetWidth(m.width)
	m.table.SetWidth(m.width)
	m.feed.SetWidth(m.width)
	m.statusBar.SetWidth(m.width)

	logsHeight := m.height - 24
	if logsHeight < 4 {
		logsHeight = 4
	}
	m.logs.SetSize(m.width, logsHeight)
}

// View renders the dashboard.
func (m *RootModel) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	header := lipgloss.JoinHorizontal(lipgloss.Top,
		styles.HeaderTitleStyle.Render("Scrollr"),
		"  ",
		styles.HeaderVersionStyle.Render(Version),
	)

	middle := m.feed.View(m.store.Active())
	if m.picker.Visible() {
		middle = m.picker.View()
	} else if m.help.Visible() {
		middle = m.help.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		m.tabs.View(),
		m.table.View(),
		middle,
		styles.SectionTitleStyle.Render("Activity"),
		m.logs.View(),
		m.statusBar.View(),
	)
}
