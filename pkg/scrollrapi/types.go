package scrollrapi

import "time"

// Channel is a user's configured data source. At most one channel exists
// per (user, channel type); the server enforces this with a 409 on create.
type Channel struct {
	ID          int                    `json:"id"`
	ChannelType string                 `json:"channel_type"`
	Enabled     bool                   `json:"enabled"`
	Visible     bool                   `json:"visible"`
	Config      map[string]interface{} `json:"config"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// Preferences holds the user's extension display preferences. The server is
// the source of truth; clients treat these as last-write-wins.
type Preferences struct {
	FeedMode         string   `json:"feed_mode"`
	FeedPosition     string   `json:"feed_position"`
	FeedBehavior     string   `json:"feed_behavior"`
	FeedEnabled      bool     `json:"feed_enabled"`
	EnabledSites     []string `json:"enabled_sites"`
	DisabledSites    []string `json:"disabled_sites"`
	SubscriptionTier string   `json:"subscription_tier"`
	UpdatedAt        string   `json:"updated_at"`
}

// Trade is a finance ticker snapshot pushed by the ingestion service.
type Trade struct {
	Symbol           string    `json:"symbol"`
	Price            float64   `json:"price"`
	PreviousClose    float64   `json:"previous_close"`
	PriceChange      float64   `json:"price_change"`
	PercentageChange float64   `json:"percentage_change"`
	Direction        string    `json:"direction"`
	LastUpdated      time.Time `json:"last_updated"`
}

// Game is a sports scoreboard snapshot pushed by the ingestion service.
type Game struct {
	ID            int       `json:"id"`
	League        string    `json:"league"`
	Link          string    `json:"link"`
	HomeTeamName  string    `json:"home_team_name"`
	HomeTeamScore int       `json:"home_team_score"`
	AwayTeamName  string    `json:"away_team_name"`
	AwayTeamScore int       `json:"away_team_score"`
	StartTime     time.Time `json:"start_time"`
	ShortDetail   string    `json:"short_detail"`
	State         string    `json:"state"`
}

// Health is the aggregated backend health report.
type Health struct {
	Status   string            `json:"status"`
	Database string            `json:"database"`
	Redis    string            `json:"redis"`
	Services map[string]string `json:"services"`
}

// Integration describes a backend integration from the discovery registry.
type Integration struct {
	Name         string   `json:"name"`
	DisplayName  string   `json:"display_name"`
	Capabilities []string `json:"capabilities"`
	Connected    bool     `json:"connected"`
}

// channelList is the envelope returned by GET /channels.
type channelList struct {
	Channels []Channel `json:"channels"`
}

// viewerCount is the envelope returned by GET /events/count.
type viewerCount struct {
	Count int `json:"count"`
}

// apiError is the backend's standard error body.
type apiError struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}
