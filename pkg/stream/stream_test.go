package stream

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/relentnet/scrollr/pkg/channelstore"
	"github.com/relentnet/scrollr/pkg/events"
	"github.com/relentnet/scrollr/pkg/scrollrapi"
)

type fakeChannelService struct{}

func (fakeChannelService) Channels(context.Context) ([]scrollrapi.Channel, error) {
	return nil, nil
}
func (fakeChannelService) CreateChannel(context.Context, string, map[string]interface{}) (*scrollrapi.Channel, error) {
	return nil, nil
}
func (fakeChannelService) UpdateChannel(context.Context, string, bool, bool) (*scrollrapi.Channel, error) {
	return nil, nil
}
func (fakeChannelService) DeleteChannel(context.Context, string) error {
	return nil
}

func newStreamStore(t *testing.T) *channelstore.Store {
	t.Helper()
	s := channelstore.NewStore(fakeChannelService{}, nil)
	s.Start()
	t.Cleanup(s.Stop)
	return s
}

// sseHandler writes an event-stream preamble and the given payloads, each
// as one data frame, then holds the connection open until the request ends.
func sseHandler(t *testing.T, payloads ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Accept"); got != "text/event-stream" {
			t.Errorf("expected event-stream accept header, got %q", got)
		}
		w.Header().Set("Content-Type", "text/event-stream")
		flusher, ok := w.(http.Flusher)
		if !ok {
			t.Fatal("response writer is not a flusher")
		}

		fmt.Fprint(w, "retry: 3000\n\n")
		fmt.Fprint(w, ": ping\n\n")
		for _, p := range payloads {
			fmt.Fprintf(w, "data: %s\n\n", p)
		}
		flusher.Flush()
		<-r.Context().Done()
	}
}

func TestConsume_SetsConnectedAndMergesPreferences(t *testing.T) {
	srv := httptest.NewServer(sseHandler(t,
		`{"status":"connected"}`,
		`{"preferences":{"feed_mode":"compact","subscription_tier":"pro"}}`,
	))
	defer srv.Close()

	store := newStreamStore(t)
	store.SetPreferences(&scrollrapi.Preferences{FeedMode: "comfort", FeedPosition: "bottom"})

	c := NewConsumer(srv.URL, store, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		_ = c.consume(ctx)
		close(done)
	}()

	waitFor(t, func() bool {
		p := store.Preferences()
		return p != nil && p.FeedMode == "compact"
	})

	if got := store.StreamStatus(); got != channelstore.StreamConnected {
		t.Fatalf("expected connected, got %q", got)
	}
	p := store.Preferences()
	if p.SubscriptionTier != "pro" {
		t.Fatalf("expected merged tier, got %+v", p)
	}
	if p.FeedPosition != "bottom" {
		t.Fatalf("absent field clobbered: %+v", p)
	}

	cancel()
	<-done
}

func TestConsume_PublishesFeedPayloads(t *testing.T) {
	srv := httptest.NewServer(sseHandler(t,
		`{"latestTrades":[{"symbol":"AAPL","price":190.5,"price_change":1.2,"percentage_change":0.6,"direction":"up"}]}`,
		`{"latestGames":[{"id":1,"league":"nfl","home_team_name":"Bills","home_team_score":21,"away_team_name":"Jets","away_team_score":14}]}`,
	))
	defer srv.Close()

	bus := events.NewBus(16)
	bus.Start()
	defer bus.Stop()

	var mu sync.Mutex
	var trades []scrollrapi.Trade
	var games []scrollrapi.Game
	bus.Subscribe(events.TradesUpdated, func(e events.Event) {
		mu.Lock()
		trades = e.Trades
		mu.Unlock()
	})
	bus.Subscribe(events.GamesUpdated, func(e events.Event) {
		mu.Lock()
		games = e.Games
		mu.Unlock()
	})

	store := newStreamStore(t)
	c := NewConsumer(srv.URL, store, bus)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		_ = c.consume(ctx)
		close(done)
	}()

	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(trades) == 1 && len(games) == 1
	})

	mu.Lock()
	if trades[0].Symbol != "AAPL" {
		t.Errorf("unexpected trade: %+v", trades[0])
	}
	if games[0].HomeTeamName != "Bills" {
		t.Errorf("unexpected game: %+v", games[0])
	}
	mu.Unlock()

	cancel()
	<-done
}

func TestConsume_IgnoresMalformedAndUnknownStatus(t *testing.T) {
	srv := httptest.NewServer(sseHandler(t,
		`{not json`,
		`{"status":"rebooting"}`,
		`{"status":"connected"}`,
	))
	defer srv.Close()

	store := newStreamStore(t)
	c := NewConsumer(srv.URL, store, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		_ = c.consume(ctx)
		close(done)
	}()

	waitFor(t, func() bool {
		return store.StreamStatus() == channelstore.StreamConnected
	})

	cancel()
	<-done
}

func TestConsume_NonOKStatusIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	store := newStreamStore(t)
	c := NewConsumer(srv.URL, store, nil)
	if err := c.consume(context.Background()); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestConsume_ServerCloseIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"status\":\"connected\"}\n\n")
	}))
	defer srv.Close()

	store := newStreamStore(t)
	c := NewConsumer(srv.URL, store, nil)
	if err := c.consume(context.Background()); err == nil {
		t.Fatal("expected error when the server closes the stream")
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}
