package scrollrapi

// PreferencesDelta is a partial preferences update from the realtime feed.
// Pointer and nil-able fields distinguish "absent" from "set to zero", so
// a merge never clobbers fields the push did not include.
type PreferencesDelta struct {
	FeedMode         *string  `json:"feed_mode,omitempty"`
	FeedPosition     *string  `json:"feed_position,omitempty"`
	FeedBehavior     *string  `json:"feed_behavior,omitempty"`
	FeedEnabled      *bool    `json:"feed_enabled,omitempty"`
	EnabledSites     []string `json:"enabled_sites,omitempty"`
	DisabledSites    []string `json:"disabled_sites,omitempty"`
	SubscriptionTier *string  `json:"subscription_tier,omitempty"`
	UpdatedAt        *string  `json:"updated_at,omitempty"`
}

// ApplyTo merges the delta into p, field-wise, last-write-wins.
func (d PreferencesDelta) ApplyTo(p *Preferences) {
	if d.FeedMode != nil {
		p.FeedMode = *d.FeedMode
	}
	if d.FeedPosition != nil {
		p.FeedPosition = *d.FeedPosition
	}
	if d.FeedBehavior != nil {
		p.FeedBehavior = *d.FeedBehavior
	}
	if d.FeedEnabled != nil {
		p.FeedEnabled = *d.FeedEnabled
	}
	if d.EnabledSites != nil {
		p.EnabledSites = d.EnabledSites
	}
	if d.DisabledSites != nil {
		p.DisabledSites = d.DisabledSites
	}
	if d.SubscriptionTier != nil {
		p.SubscriptionTier = *d.SubscriptionTier
	}
	if d.UpdatedAt != nil {
		p.UpdatedAt = *d.UpdatedAt
	}
}

// Empty reports whether the delta carries no fields.
func (d PreferencesDelta) Empty() bool {
	return d.FeedMode == nil && d.FeedPosition == nil && d.FeedBehavior == nil &&
		d.FeedEnabled == nil && d.EnabledSites == nil && d.DisabledSites == nil &&
		d.SubscriptionTier == nil && d.UpdatedAt == nil
}
