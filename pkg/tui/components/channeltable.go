package components

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/evertras/bubble-table/table"

	"github.com/relentnet/scrollr/pkg/registry"
	"github.com/relentnet/scrollr/pkg/scrollrapi"
	"github.com/relentnet/scrollr/pkg/tui/styles"
)

// Column keys
const (
	colKeyType    = "type"
	colKeyLabel   = "label"
	colKeyEnabled = "enabled"
	colKeyVisible = "visible"
	colKeyUpdated = "updated"
)

// ChannelTableModel displays the configured channels.
type ChannelTableModel struct {
	table table.Model
	width int
}

// NewChannelTableModel creates the channel table.
func NewChannelTableModel() ChannelTableModel {
	columns := []table.Column{
		table.NewColumn(colKeyType, "Type", 10),
		table.NewFlexColumn(colKeyLabel, "Channel", 1),
		table.NewColumn(colKeyEnabled, "Enabled", 9),
		table.NewColumn(colKeyVisible, "Visible", 9),
		table.NewColumn(colKeyUpdated, "Updated", 17),
	}

	m := ChannelTableModel{}
	m.table = table.New(columns).
		WithBaseStyle(lipgloss.NewStyle().Padding(0, 1)).
		BorderRounded().
		HeaderStyle(styles.TableHeaderStyle).
		HighlightStyle(styles.TableSelectedStyle).
		Focused(true).
		WithPageSize(8).
		WithFooterVisibility(false)
	return m
}

// SetChannels rebuilds the rows from a channel snapshot.
func (m *ChannelTableModel) SetChannels(channels []scrollrapi.Channel) {
	rows := make([]table.Row, 0, len(channels))
	for _, ch := range channels {
		label := ch.ChannelType
		if man, ok := registry.Lookup(registry.Type(ch.ChannelType)); ok {
			label = man.Label + " - " + man.Description
		}
		enabled := styles.ChannelHiddenStyle.Render("off")
		if ch.Enabled {
			enabled = styles.ChannelEnabledStyle.Render("on")
		}
		visible := styles.ChannelHiddenStyle.Render("hidden")
		if ch.Visible {
			visible = styles.ChannelEnabledStyle.Render("shown")
		}
		rows = append(rows, table.NewRow(table.RowData{
			colKeyType:    ch.ChannelType,
			colKeyLabel:   label,
			colKeyEnabled: enabled,
			colKeyVisible: visible,
			colKeyUpdated: ch.UpdatedAt.Format("Jan 02 15:04:05"),
		}))
	}
	m.table = m.table.WithRows(rows)
}

// SetWidth resizes the table.
func (m *ChannelTableModel) SetWidth(w int) {
	m.width = w
	m.table = m.table.WithTargetWidth(w)
}

// View renders the table.
func (m ChannelTableModel) View() string {
	return m.table.View()
}
