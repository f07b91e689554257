package components

import (
	"strings"

	"github.com/relentnet/scrollr/pkg/tui/styles"
)

// helpBinding is one key/description pair.
type helpBinding struct {
	key  string
	desc string
}

var helpBindings = []helpBinding{
	{"←/→, tab", "switch channel tab"},
	{"space", "toggle channel visibility"},
	{"a", "add a channel"},
	{"d", "delete the active channel"},
	{"G", "quick start (finance, sports, rss)"},
	{"r", "refresh from server"},
	{"?", "toggle this help"},
	{"q", "quit"},
}

// HelpModel renders the help overlay.
type HelpModel struct {
	visible bool
}

// NewHelpModel creates a hidden help overlay.
func NewHelpModel() HelpModel {
	return HelpModel{}
}

// Toggle flips visibility.
func (m *HelpModel) Toggle() {
	m.visible = !m.visible
}

// Visible reports whether the overlay is showing.
func (m HelpModel) Visible() bool {
	return m.visible
}

// View renders the overlay.
func (m HelpModel) View() string {
	if !m.visible {
		return ""
	}
	var b strings.Builder
	b.WriteString(styles.HelpTitleStyle.Render("Keyboard shortcuts"))
	b.WriteByte('\n')
	for _, hb := range helpBindings {
		b.WriteString(styles.HelpKeyStyle.Render(hb.key))
		b.WriteString(styles.HelpDescStyle.Render(hb.desc))
		b.WriteByte('\n')
	}
	return styles.HelpModalStyle.Render(strings.TrimRight(b.String(), "\n"))
}
