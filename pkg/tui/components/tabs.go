package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/relentnet/scrollr/pkg/registry"
	"github.com/relentnet/scrollr/pkg/scrollrapi"
	"github.com/relentnet/scrollr/pkg/tui/styles"
)

// TabsModel renders one tab per configured channel. The active tab mirrors
// the store's active channel; rendering metadata comes from the registry.
type TabsModel struct {
	channels []scrollrapi.Channel
	active   registry.Type
	width    int
}

// NewTabsModel creates an empty tab row.
func NewTabsModel() TabsModel {
	return TabsModel{}
}

// SetChannels replaces the channel list backing the tabs.
func (m *TabsModel) SetChannels(channels []scrollrapi.Channel, active registry.Type) {
	m.channels = channels
	m.active = active
}

// SetWidth sets the render width.
func (m *TabsModel) SetWidth(w int) {
	m.width = w
}

// View renders the tab row.
func (m TabsModel) View() string {
	if len(m.channels) == 0 {
		return styles.TabInactiveStyle.Render("no channels - press 'a' to add or 'G' for quick start")
	}

	var tabs []string
	for _, ch := range m.channels {
		t := registry.Type(ch.ChannelType)
		label := ch.ChannelType
		if man, ok := registry.Lookup(t); ok {
			label = man.Icon + " " + man.Label
		}
		switch {
		case t == m.active:
			tabs = append(tabs, styles.TabActiveStyle.Render(label))
		case !ch.Visible:
			tabs = append(tabs, styles.TabDisabledStyle.Render(label))
		default:
			tabs = append(tabs, styles.TabInactiveStyle.Render(label))
		}
	}

	row := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	if m.width > 0 && lipgloss.Width(row) > m.width {
		row = row[:m.width]
	}
	return row
}

// ActiveIndex returns the position of the active tab, or -1.
func (m TabsModel) ActiveIndex() int {
	for i, ch := range m.channels {
		if registry.Type(ch.ChannelType) == m.active {
			return i
		}
	}
	return -1
}

// Titles returns plain-text tab titles, used by tests.
func (m TabsModel) Titles() []string {
	out := make([]string, 0, len(m.channels))
	for _, ch := range m.channels {
		t := registry.Type(ch.ChannelType)
		if man, ok := registry.Lookup(t); ok {
			out = append(out, man.Label)
			continue
		}
		out = append(out, ch.ChannelType)
	}
	return out
}
