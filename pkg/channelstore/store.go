// Package channelstore holds the authoritative-as-known list of the user's
// channels and the active tab selection. All state is owned by a single
// writer goroutine; mutations are enqueued as closures, so an optimistic
// apply, its network call resolution, and any realtime merge can never
// interleave mid-update. Optimistic edits are provisional: the local list
// must converge to the server's list, and a failed mutation rolls back to
// the snapshot taken when the edit was applied.
package channelstore

import (
	"context"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"github.com/relentnet/scrollr/pkg/events"
	"github.com/relentnet/scrollr/pkg/registry"
	"github.com/relentnet/scrollr/pkg/scrollrapi"
)

// Stream connection states. Before the first push arrives the feed is
// disconnected with no preferences.
const (
	StreamConnected    = "connected"
	StreamDisconnected = "disconnected"
)

// ChannelService is the slice of the API client the store drives.
type ChannelService interface {
	Channels(ctx context.Context) ([]scrollrapi.Channel, error)
	CreateChannel(ctx context.Context, channelType string, config map[string]interface{}) (*scrollrapi.Channel, error)
	UpdateChannel(ctx context.Context, channelType string, enabled, visible bool) (*scrollrapi.Channel, error)
	DeleteChannel(ctx context.Context, channelType string) error
}

// Store is the channel state container.
type Store struct {
	svc   ChannelService
	bus   *events.Bus
	cache *Cache

	ops      chan func()
	stopChan chan struct{}
	doneChan chan struct{}

	// State below is owned by the run goroutine. Access only via do().
	channels     []scrollrapi.Channel
	active       registry.Type // "" when no channel is selected
	prefs        *scrollrapi.Preferences
	streamStatus string
}

// Option configures a Store.
type Option func(*Store)

// WithCache persists the last fetched channel list so a later session can
// start stale-but-available when the initial fetch fails.
func WithCache(c *Cache) Option {
	return func(s *Store) { s.cache = c }
}

// NewStore creates a stopped store. Call Start before use.
func NewStore(svc ChannelService, bus *events.Bus, opts ...Option) *Store {
	s := &Store{
		svc:          svc,
		bus:          bus,
		ops:          make(chan func(), 64),
		stopChan:     make(chan struct{}),
		doneChan:     make(chan struct{}),
		channels:     []scrollrapi.Channel{},
		streamStatus: StreamDisconnected,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start launches the writer goroutine.
func (s *Store) Start() {
	go s.run()
}

// Stop shuts down the writer goroutine after draining queued ops.
func (s *Store) Stop() {
	close(s.stopChan)
	<-s.doneChan
}

func (s *Store) run() {
	defer close(s.doneChan)
	for {
		select {
		case op := <-s.ops:
			op()
		case <-s.stopChan:
			for {
				select {
				case op := <-s.ops:
					op()
				default:
					return
				}
			}
		}
	}
}

// do runs fn on the writer goroutine and waits for it to complete. Once the
// writer has exited, a queued op will never run; waiting on doneChan instead
// of stopChan keeps a late caller from blocking on an op nobody will serve.
func (s *Store) do(fn func()) {
	done := make(chan struct{})
	select {
	case s.ops <- func() { fn(); close(done) }:
		select {
		case <-done:
		case <-s.doneChan:
		}
	case <-s.doneChan:
	}
}

func (s *Store) publish(e events.Event) {
	if s.bus != nil {
		s.bus.Publish(e)
	}
}

// index returns the position of a channel type, or -1. Writer goroutine only.
func (s *Store) index(t registry.Type) int {
	for i := range s.channels {
		if s.channels[i].ChannelType == string(t) {
			return i
		}
	}
	return -1
}

// reroute moves the active selection to the first configured channel when
// the current selection is gone. Writer goroutine only.
func (s *Store) reroute() {
	if s.active != "" && s.index(s.active) >= 0 {
		return
	}
	prev := s.active
	if len(s.channels) > 0 {
		s.active = registry.Type(s.channels[0].ChannelType)
	} else {
		s.active = ""
	}
	if s.active != prev {
		s.publish(events.NewChannelEvent(events.ActiveChanged, string(s.active)))
	}
}

// persistCache snapshots the current list to disk. Writer goroutine only.
func (s *Store) persistCache() {
	if s.cache == nil {
		return
	}
	if err := s.cache.Put(s.channels); err != nil {
		log.Debugf("Channel cache write failed: %v", err)
	}
}

// FetchAll replaces local state with the server's channel list. On failure
// the prior state is left untouched: stale-but-available.
func (s *Store) FetchAll(ctx context.Context) error {
	list, err := s.svc.Channels(ctx)
	if err != nil {
		return err
	}
	s.do(func() {
		s.channels = list
		s.reroute()
		s.persistCache()
		s.publish(events.Event{Type: events.ChannelsReplaced})
	})
	return nil
}

// Seed loads the cached channel list from a previous session. Used only
// when the store is empty and the initial fetch failed; a later successful
// FetchAll replaces it wholesale.
func (s *Store) Seed() bool {
	if s.cache == nil {
		return false
	}
	list, ok := s.cache.Get()
	if !ok {
		return false
	}
	seeded := false
	s.do(func() {
		if len(s.channels) > 0 {
			return
		}
		s.channels = list
		s.reroute()
		s.publish(events.Event{Type: events.ChannelsReplaced})
		seeded = true
	})
	return seeded
}

// ToggleVisibility flips enabled and visible together for a channel. The
// flip is applied optimistically; on request failure the channel is rolled
// back to the exact pre-toggle snapshot, not to whatever the server holds
// now. Rapid repeated toggles each capture their own snapshot through the
// writer queue, so enabled and visible can never diverge.
func (s *Store) ToggleVisibility(ctx context.Context, t registry.Type) error {
	var (
		found                    bool
		next                     bool
		snapEnabled, snapVisible bool
	)
	s.do(func() {
		i := s.index(t)
		if i < 0 {
			return
		}
		found = true
		ch := &s.channels[i]
		snapEnabled, snapVisible = ch.Enabled, ch.Visible
		next = !ch.Visible
		ch.Enabled, ch.Visible = next, next
		s.publish(events.NewChannelEvent(events.ChannelUpdated, string(t)))
	})
	if !found {
		return errors.Errorf("no %s channel configured", t)
	}

	updated, err := s.svc.UpdateChannel(ctx, string(t), next, next)

	s.do(func() {
		i := s.index(t)
		if i < 0 {
			// Channel removed while the update was in flight; nothing to
			// resolve against.
			return
		}
		if err != nil {
			s.channels[i].Enabled, s.channels[i].Visible = snapEnabled, snapVisible
			ev := events.NewChannelEvent(events.ChannelUpdated, string(t))
			ev.Err = err
			s.publish(ev)
			return
		}
		if updated != nil {
			s.channels[i] = *updated
		}
		s.persistCache()
		s.publish(events.NewChannelEvent(events.ChannelUpdated, string(t)))
	})
	return err
}

// Add creates a channel of the given type and makes it the active tab.
// There is no optimistic apply: on failure local state is unchanged. A
// server 409 means the channel already exists and is a no-op success.
func (s *Store) Add(ctx context.Context, t registry.Type, config map[string]interface{}) error {
	if config == nil {
		if man, ok := registry.Lookup(t); ok {
			config = man.DefaultConfig
		}
	}

	ch, err := s.svc.CreateChannel(ctx, string(t), config)
	if err != nil {
		if scrollrapi.IsConflict(err) {
			log.Debugf("Channel %s already exists, treating create as no-op", t)
			return nil
		}
		return err
	}

	s.do(func() {
		if s.index(t) < 0 {
			s.channels = append(s.channels, *ch)
		}
		s.active = t
		s.persistCache()
		s.publish(events.NewChannelEvent(events.ChannelAdded, string(t)))
		s.publish(events.NewChannelEvent(events.ActiveChanged, string(t)))
	})
	return nil
}

// Delete removes a channel. Removal is optimistic with a coarse rollback:
// on failure the full pre-delete list and the prior active selection are
// restored, because a removal is harder to partially undo than a flag flip.
func (s *Store) Delete(ctx context.Context, t registry.Type) error {
	var (
		found      bool
		snapshot   []scrollrapi.Channel
		snapActive registry.Type
	)
	s.do(func() {
		i := s.index(t)
		if i < 0 {
			return
		}
		found = true
		snapshot = make([]scrollrapi.Channel, len(s.channels))
		copy(snapshot, s.channels)
		snapActive = s.active

		s.channels = append(s.channels[:i], s.channels[i+1:]...)
		s.reroute()
		s.publish(events.NewChannelEvent(events.ChannelRemoved, string(t)))
	})
	if !found {
		return nil
	}

	err := s.svc.DeleteChannel(ctx, string(t))

	s.do(func() {
		if err != nil {
			s.channels = snapshot
			if s.active != snapActive {
				s.active = snapActive
				s.publish(events.NewChannelEvent(events.ActiveChanged, string(s.active)))
			}
			ev := events.Event{Type: events.ChannelsReplaced, Err: err}
			s.publish(ev)
			return
		}
		s.persistCache()
	})
	return err
}

// QuickStart creates the recommended starter set minus channels the user
// already has. A per-create 409 is benign. Any other per-create failure
// triggers a full FetchAll re-sync instead of piecemeal reconciliation: a
// batch has no single rollback target, so consistency wins over partial
// optimism. The aggregate error is returned so the failure is observable.
func (s *Store) QuickStart(ctx context.Context) error {
	existing := map[registry.Type]bool{}
	s.do(func() {
		for _, ch := range s.channels {
			existing[registry.Type(ch.ChannelType)] = true
		}
	})

	var failed error
	for _, t := range registry.QuickStartSet {
		if existing[t] {
			continue
		}
		var config map[string]interface{}
		if man, ok := registry.Lookup(t); ok {
			config = man.DefaultConfig
		}
		ch, err := s.svc.CreateChannel(ctx, string(t), config)
		if err != nil {
			if scrollrapi.IsConflict(err) {
				continue
			}
			log.Warnf("Quick start: creating %s failed: %v", t, err)
			failed = multierr.Append(failed, errors.Wrapf(err, "quick start %s", t))
			continue
		}
		created := *ch
		s.do(func() {
			if s.index(t) < 0 {
				s.channels = append(s.channels, created)
			}
			s.reroute()
			s.publish(events.NewChannelEvent(events.ChannelAdded, string(t)))
		})
	}

	if failed != nil {
		if err := s.FetchAll(ctx); err != nil {
			failed = multierr.Append(failed, errors.Wrap(err, "quick start re-sync"))
		}
		return failed
	}

	s.do(func() {
		s.reroute()
		s.persistCache()
	})
	return nil
}

// SetActive routes the active tab. Raw values come from user input or a
// saved tab parameter; anything unknown to the registry or not configured
// coerces to the first configured channel rather than dangling.
func (s *Store) SetActive(raw string) registry.Type {
	t, ok := registry.Parse(raw)
	var result registry.Type
	s.do(func() {
		if ok && s.index(t) >= 0 {
			if s.active != t {
				s.active = t
				s.publish(events.NewChannelEvent(events.ActiveChanged, string(t)))
			}
		} else {
			s.active = ""
			s.reroute()
		}
		result = s.active
	})
	return result
}

// CycleActive moves the active tab by delta (+1 next, -1 previous),
// wrapping around the configured channels.
func (s *Store) CycleActive(delta int) registry.Type {
	var result registry.Type
	s.do(func() {
		n := len(s.channels)
		if n == 0 {
			result = ""
			return
		}
		i := s.index(s.active)
		if i < 0 {
			i = 0
		} else {
			i = ((i+delta)%n + n) % n
		}
		t := registry.Type(s.channels[i].ChannelType)
		if s.active != t {
			s.active = t
			s.publish(events.NewChannelEvent(events.ActiveChanged, string(t)))
		}
		result = s.active
	})
	return result
}

// SetPreferences replaces the full preferences snapshot (initial fetch).
func (s *Store) SetPreferences(p *scrollrapi.Preferences) {
	s.do(func() {
		s.prefs = p
		s.publish(events.Event{Type: events.PreferencesUpdated})
	})
}

// MergePreferences applies a realtime preference delta. Only fields
// present in the push are written; absent fields never clobber.
func (s *Store) MergePreferences(d scrollrapi.PreferencesDelta) {
	s.do(func() {
		if s.prefs == nil {
			s.prefs = &scrollrapi.Preferences{}
		}
		d.ApplyTo(s.prefs)
		s.publish(events.Event{Type: events.PreferencesUpdated})
	})
}

// SetStreamStatus records the realtime feed connection state.
func (s *Store) SetStreamStatus(status string) {
	s.do(func() {
		if s.streamStatus == status {
			return
		}
		s.streamStatus = status
		s.publish(events.NewStreamStatusEvent(status))
	})
}

// Channels returns a snapshot copy of the channel list.
func (s *Store) Channels() []scrollrapi.Channel {
	var out []scrollrapi.Channel
	s.do(func() {
		out = make([]scrollrapi.Channel, len(s.channels))
		copy(out, s.channels)
	})
	return out
}

// Channel returns a copy of one channel by type.
func (s *Store) Channel(t registry.Type) (scrollrapi.Channel, bool) {
	var (
		out scrollrapi.Channel
		ok  bool
	)
	s.do(func() {
		if i := s.index(t); i >= 0 {
			out = s.channels[i]
			ok = true
		}
	})
	return out, ok
}

// Active returns the active channel type, or "" when none is selected.
func (s *Store) Active() registry.Type {
	var out registry.Type
	s.do(func() { out = s.active })
	return out
}

// Preferences returns a copy of the known preferences, or nil before any
// fetch or push has delivered them.
func (s *Store) Preferences() *scrollrapi.Preferences {
	var out *scrollrapi.Preferences
	s.do(func() {
		if s.prefs != nil {
			p := *s.prefs
			out = &p
		}
	})
	return out
}

// StreamStatus returns the realtime feed connection state.
func (s *Store) StreamStatus() string {
	var out string
	s.do(func() { out = s.streamStatus })
	return out
}

// Count returns the number of configured channels.
func (s *Store) Count() int {
	var n int
	s.do(func() { n = len(s.channels) })
	return n
}
