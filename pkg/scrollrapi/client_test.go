package scrollrapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pkg/errors"
)

func TestChannels_DecodesEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/channels" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("expected bearer token, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"channels":[{"id":1,"channel_type":"finance","enabled":true,"visible":true}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok")
	channels, err := c.Channels(context.Background())
	if err != nil {
		t.Fatalf("channels failed: %v", err)
	}
	if len(channels) != 1 || channels[0].ChannelType != "finance" {
		t.Fatalf("unexpected channels: %+v", channels)
	}
}

func TestChannels_EmptyListNotNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"channels":null}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok")
	channels, err := c.Channels(context.Background())
	if err != nil {
		t.Fatalf("channels failed: %v", err)
	}
	if channels == nil {
		t.Fatal("expected empty slice, got nil")
	}
}

func TestCreateChannel_SendsTypeAndConfig(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/channels" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body["channel_type"] != "sports" {
			t.Errorf("expected channel_type sports, got %v", body["channel_type"])
		}
		if _, ok := body["config"]; !ok {
			t.Error("expected config key present even when empty")
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":2,"channel_type":"sports","enabled":true,"visible":true}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok")
	ch, err := c.CreateChannel(context.Background(), "sports", nil)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if ch.ChannelType != "sports" {
		t.Fatalf("unexpected channel: %+v", ch)
	}
}

func TestCreateChannel_ConflictMapsToSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"status":"error","error":"channel already exists"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok")
	_, err := c.CreateChannel(context.Background(), "finance", nil)
	if !IsConflict(err) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestUpdateChannel_PatchesBothFlags(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch || r.URL.Path != "/channels/finance" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body map[string]bool
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body["enabled"] != false || body["visible"] != false {
			t.Errorf("expected both flags false, got %v", body)
		}
		_, _ = w.Write([]byte(`{"id":1,"channel_type":"finance","enabled":false,"visible":false}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok")
	ch, err := c.UpdateChannel(context.Background(), "finance", false, false)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if ch.Enabled || ch.Visible {
		t.Fatalf("unexpected echo: %+v", ch)
	}
}

func TestDeleteChannel_Issues404AsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/channels/rss" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok")
	err := c.DeleteChannel(context.Background(), "rss")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUnauthorized_MapsToSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	_, err := c.Channels(context.Background())
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestStatusError_CarriesServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"status":"error","error":"database down"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok")
	_, err := c.Health(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StatusError, got %T: %v", errors.Cause(err), err)
	}
	if se.Code != 500 || !strings.Contains(se.Message, "database down") {
		t.Fatalf("unexpected status error: %+v", se)
	}
}

func TestHealth_Decodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"status":"ok","database":"connected","redis":"connected","services":{"finance":"up","sports":"up"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok")
	h, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("health failed: %v", err)
	}
	if h.Status != "ok" || h.Services["sports"] != "up" {
		t.Fatalf("unexpected health: %+v", h)
	}
}

func TestViewerCount_Decodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/events/count" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"count":42}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok")
	n, err := c.ViewerCount(context.Background())
	if err != nil {
		t.Fatalf("viewer count failed: %v", err)
	}
	if n != 42 {
		t.Fatalf("expected 42, got %d", n)
	}
}

func TestEventsURL_EscapesToken(t *testing.T) {
	c := NewClient("https://api.example.com/", "a b+c")
	got := c.EventsURL()
	want := "https://api.example.com/events?token=a+b%2Bc"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestYahooStartURL_EscapesSubject(t *testing.T) {
	c := NewClient("https://api.example.com", "tok")
	got := c.YahooStartURL("user|123")
	want := "https://api.example.com/yahoo/start?logto_sub=user%7C123"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestPreferencesDelta_ApplyTo(t *testing.T) {
	p := Preferences{
		FeedMode:     "comfort",
		FeedPosition: "bottom",
		FeedEnabled:  true,
	}

	mode := "compact"
	enabled := false
	d := PreferencesDelta{FeedMode: &mode, FeedEnabled: &enabled}
	d.ApplyTo(&p)

	if p.FeedMode != "compact" || p.FeedEnabled {
		t.Fatalf("delta not applied: %+v", p)
	}
	if p.FeedPosition != "bottom" {
		t.Fatalf("absent field clobbered: %+v", p)
	}
}

func TestPreferencesDelta_Empty(t *testing.T) {
	var d PreferencesDelta
	if !d.Empty() {
		t.Fatal("zero delta should be empty")
	}
	mode := "compact"
	d.FeedMode = &mode
	if d.Empty() {
		t.Fatal("delta with a field should not be empty")
	}
}
