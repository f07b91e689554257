package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// color returns a lipgloss.Color, choosing light or dark variant based on
// the current theme set by SetDarkTheme.
func color(light, dark string) lipgloss.Color {
	if isDark {
		return lipgloss.Color(dark)
	}
	return lipgloss.Color(light)
}

// isDark tracks the current theme. Default follows the terminal background.
var isDark = true

// SetDarkTheme switches the color palette. Call before the TUI starts.
func SetDarkTheme(dark bool) {
	isDark = dark
	applyTheme()
}

// DetectTheme picks the palette from the terminal background color.
func DetectTheme() {
	SetDarkTheme(termenv.HasDarkBackground())
}

func applyTheme() {
	colorYellow := color("136", "226")
	colorBlue := color("27", "39")
	colorGreen := color("28", "42")
	colorRed := color("160", "196")
	colorGray := color("243", "240")
	colorWhite := color("16", "255")
	colorCyan := color("30", "51")
	colorFocused := color("62", "62")
	colorSelectedBg := color("254", "237")

	HeaderTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
	HeaderIdentityStyle = lipgloss.NewStyle().Foreground(colorCyan)
	HeaderVersionStyle = lipgloss.NewStyle().Foreground(colorWhite)

	TabActiveStyle = lipgloss.NewStyle().Foreground(color("255", "255")).Background(colorBlue).Bold(true).Padding(0, 1)
	TabInactiveStyle = lipgloss.NewStyle().Foreground(colorGray).Padding(0, 1)
	TabDisabledStyle = lipgloss.NewStyle().Foreground(colorGray).Faint(true).Padding(0, 1)

	TableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
	TableSelectedStyle = lipgloss.NewStyle().Background(colorSelectedBg).Foreground(colorWhite)

	ChannelEnabledStyle = lipgloss.NewStyle().Foreground(colorGreen)
	ChannelHiddenStyle = lipgloss.NewStyle().Foreground(colorGray)

	FeedUpStyle = lipgloss.NewStyle().Foreground(colorGreen)
	FeedDownStyle = lipgloss.NewStyle().Foreground(colorRed)
	FeedLabelStyle = lipgloss.NewStyle().Foreground(colorGray)
	FeedValueStyle = lipgloss.NewStyle().Foreground(colorWhite)
	FeedPanelStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorFocused).Padding(0, 1)

	StatusBarStyle = lipgloss.NewStyle().Foreground(colorWhite)
	StatusConnectedStyle = lipgloss.NewStyle().Foreground(colorGreen)
	StatusDisconnectedStyle = lipgloss.NewStyle().Foreground(colorRed)
	StatusTierStyle = lipgloss.NewStyle().Foreground(colorCyan)
	StatusBarHelpStyle = lipgloss.NewStyle().Foreground(colorGray)

	LogErrorStyle = lipgloss.NewStyle().Foreground(colorRed)
	LogWarnStyle = lipgloss.NewStyle().Foreground(colorYellow)
	LogInfoStyle = lipgloss.NewStyle().Foreground(colorGreen)
	LogDebugStyle = lipgloss.NewStyle().Foreground(colorBlue)
	LogTimestampStyle = lipgloss.NewStyle().Foreground(colorGray)

	HelpModalStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorFocused).Padding(1, 2)
	HelpTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorYellow).MarginBottom(1)
	HelpKeyStyle = lipgloss.NewStyle().Foreground(colorBlue).Width(12)
	HelpDescStyle = lipgloss.NewStyle().Foreground(colorWhite)

	PickerModalStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorFocused).Padding(1, 2)
	PickerTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
	PickerItemStyle = lipgloss.NewStyle().Foreground(colorWhite)
	PickerSelectedStyle = lipgloss.NewStyle().Background(colorSelectedBg).Foreground(colorWhite)
	PickerHintStyle = lipgloss.NewStyle().Foreground(colorGray)

	SectionTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
}

// All style variables, initialized with the dark theme.
var (
	HeaderTitleStyle    lipgloss.Style
	HeaderIdentityStyle lipgloss.Style
	HeaderVersionStyle  lipgloss.Style

	TabActiveStyle   lipgloss.Style
	TabInactiveStyle lipgloss.Style
	TabDisabledStyle lipgloss.Style

	TableHeaderStyle   lipgloss.Style
	TableSelectedStyle lipgloss.Style

	ChannelEnabledStyle lipgloss.Style
	ChannelHiddenStyle  lipgloss.Style

	FeedUpStyle    lipgloss.Style
	FeedDownStyle  lipgloss.Style
	FeedLabelStyle lipgloss.Style
	FeedValueStyle lipgloss.Style
	FeedPanelStyle lipgloss.Style

	StatusBarStyle          lipgloss.Style
	StatusConnectedStyle    lipgloss.Style
	StatusDisconnectedStyle lipgloss.Style
	StatusTierStyle         lipgloss.Style
	StatusBarHelpStyle      lipgloss.Style

	LogErrorStyle     lipgloss.Style
	LogWarnStyle      lipgloss.Style
	LogInfoStyle      lipgloss.Style
	LogDebugStyle     lipgloss.Style
	LogTimestampStyle lipgloss.Style

	HelpModalStyle lipgloss.Style
	HelpTitleStyle lipgloss.Style
	HelpKeyStyle   lipgloss.Style
	HelpDescStyle  lipgloss.Style

	PickerModalStyle    lipgloss.Style
	PickerTitleStyle    lipgloss.Style
	PickerItemStyle     lipgloss.Style
	PickerSelectedStyle lipgloss.Style
	PickerHintStyle     lipgloss.Style

	SectionTitleStyle lipgloss.Style
)

func init() {
	applyTheme()
}
