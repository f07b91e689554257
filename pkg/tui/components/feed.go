package components

import (
	"fmt"
	"strings"

	"github.com/relentnet/scrollr/pkg/registry"
	"github.com/relentnet/scrollr/pkg/scrollrapi"
	"github.com/relentnet/scrollr/pkg/tui/styles"
)

const maxFeedRows = 12

// FeedModel renders the panel for the active tab from the latest realtime
// payloads. Trades and games are retained between pushes; a tab with no
// data yet shows a waiting note.
type FeedModel struct {
	trades []scrollrapi.Trade
	games  []scrollrapi.Game
	width  int
}

// NewFeedModel creates an empty feed panel.
func NewFeedModel() FeedModel {
	return FeedModel{}
}

// SetTrades replaces the finance snapshot.
func (m *FeedModel) SetTrades(trades []scrollrapi.Trade) {
	m.trades = trades
}

// SetGames replaces the sports snapshot.
func (m *FeedModel) SetGames(games []scrollrapi.Game) {
	m.games = games
}

// SetWidth sets the render width.
func (m *FeedModel) SetWidth(w int) {
	m.width = w
}

// View renders the panel for the given channel type.
func (m FeedModel) View(active registry.Type) string {
	var body string
	switch active {
	case registry.Finance:
		body = m.viewTrades()
	case registry.Sports:
		body = m.viewGames()
	case registry.RSS:
		body = styles.FeedLabelStyle.Render("Headlines appear in the extension overlay. Manage feeds at scrollr.app/dashboard.")
	case registry.Fantasy:
		body = styles.FeedLabelStyle.Render("Fantasy matchups require a linked Yahoo account. Run: scrollr connect yahoo")
	default:
		body = styles.FeedLabelStyle.Render("No channel selected.")
	}

	panel := styles.FeedPanelStyle
	if m.width > 4 {
		panel = panel.Width(m.width - 2)
	}
	return panel.Render(body)
}

func (m FeedModel) viewTrades() string {
	if len(m.trades) == 0 {
		return styles.FeedLabelStyle.Render("Waiting for ticker data...")
	}
	var b strings.Builder
	b.WriteString(styles.SectionTitleStyle.Render("Tickers"))
	b.WriteByte('\n')
	for i, t := range m.trades {
		if i >= maxFeedRows {
			break
		}
		arrow := styles.FeedUpStyle.Render("▲")
		change := styles.FeedUpStyle.Render(fmt.Sprintf("%+.2f (%+.2f%%)", t.PriceChange, t.PercentageChange))
		if t.Direction == "down" || t.PriceChange < 0 {
			arrow = styles.FeedDownStyle.Render("▼")
			change = styles.FeedDownStyle.Render(fmt.Sprintf("%+.2f (%+.2f%%)", t.PriceChange, t.PercentageChange))
		}
		b.WriteString(fmt.Sprintf("%s %s %s %s\n",
			arrow,
			styles.FeedValueStyle.Render(fmt.Sprintf("%-8s", t.Symbol)),
			styles.FeedValueStyle.Render(fmt.Sprintf("%10.2f", t.Price)),
			change,
		))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m FeedModel) viewGames() string {
	if len(m.games) == 0 {
		return styles.FeedLabelStyle.Render("Waiting for scores...")
	}
	var b strings.Builder
	b.WriteString(styles.SectionTitleStyle.Render("Scoreboard"))
	b.WriteByte('\n')
	for i, g := range m.games {
		if i >= maxFeedRows {
			break
		}
		b.WriteString(fmt.Sprintf("%s %s %d - %d %s  %s\n",
			styles.FeedLabelStyle.Render(fmt.Sprintf("%-4s", strings.ToUpper(g.League))),
			styles.FeedValueStyle.Render(g.AwayTeamName),
			g.AwayTeamScore,
			g.HomeTeamScore,
			styles.FeedValueStyle.Render(g.HomeTeamName),
			styles.FeedLabelStyle.Render(g.ShortDetail),
		))
	}
	return strings.TrimRight(b.String(), "\n")
}
