package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/relentnet/scrollr/pkg/tui/styles"
)

// StatusBarModel renders the bottom status line: feed connection state,
// subscription tier, identity and the help hint.
type StatusBarModel struct {
	streamStatus string
	tier         string
	identity     string
	channelCount int
	width        int
}

// NewStatusBarModel creates the status bar.
func NewStatusBarModel() StatusBarModel {
	return StatusBarModel{streamStatus: "disconnected"}
}

// SetStreamStatus updates the feed connection state.
func (m *StatusBarModel) SetStreamStatus(status string) {
	m.streamStatus = status
}

// SetTier updates the subscription tier.
func (m *StatusBarModel) SetTier(tier string) {
	m.tier = tier
}

// SetIdentity updates the displayed identity.
func (m *StatusBarModel) SetIdentity(identity string) {
	m.identity = identity
}

// SetChannelCount updates the channel counter.
func (m *StatusBarModel) SetChannelCount(n int) {
	m.channelCount = n
}

// SetWidth sets the render width.
func (m *StatusBarModel) SetWidth(w int) {
	m.width = w
}

// View renders the status bar.
func (m StatusBarModel) View() string {
	conn := styles.StatusDisconnectedStyle.Render("● " + m.streamStatus)
	if m.streamStatus == "connected" {
		conn = styles.StatusConnectedStyle.Render("● connected")
	}

	left := conn
	if m.tier != "" {
		left += "  " + styles.StatusTierStyle.Render(m.tier)
	}
	if m.identity != "" {
		left += "  " + styles.StatusBarStyle.Render(m.identity)
	}
	left += "  " + styles.StatusBarStyle.Render(fmt.Sprintf("%d channels", m.channelCount))

	right := styles.StatusBarHelpStyle.Render("? help  q quit")

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return left
	}
	return left + lipgloss.NewStyle().Width(gap).Render("") + right
}
