package localapi

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/relentnet/scrollr/pkg/channelstore"
	"github.com/relentnet/scrollr/pkg/scrollrapi"
)

type stubService struct {
	channels []scrollrapi.Channel
}

func (s *stubService) Channels(context.Context) ([]scrollrapi.Channel, error) {
	return s.channels, nil
}
func (s *stubService) CreateChannel(context.Context, string, map[string]interface{}) (*scrollrapi.Channel, error) {
	return nil, nil
}
func (s *stubService) UpdateChannel(context.Context, string, bool, bool) (*scrollrapi.Channel, error) {
	return nil, nil
}
func (s *stubService) DeleteChannel(context.Context, string) error {
	return nil
}

func newTestManager(t *testing.T, channels ...scrollrapi.Channel) *Manager {
	t.Helper()
	store := channelstore.NewStore(&stubService{channels: channels}, nil)
	store.Start()
	t.Cleanup(store.Stop)
	if err := store.FetchAll(context.Background()); err != nil {
		t.Fatalf("seed store: %v", err)
	}
	return NewManager("127.0.0.1:0", "test", store, nil)
}

func performRequest(m *Manager, method, path, body string) *httptest.ResponseRecorder {
	var req = httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	m.Router().ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	m := newTestManager(t)
	w := performRequest(m, "GET", "/api/health", "")
	if w.Code != 200 {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "healthy" || body["stream"] != "disconnected" {
		t.Fatalf("unexpected health body: %v", body)
	}
}

func TestListChannels(t *testing.T) {
	m := newTestManager(t,
		scrollrapi.Channel{ID: 1, ChannelType: "finance", Enabled: true, Visible: true},
		scrollrapi.Channel{ID: 2, ChannelType: "sports", Enabled: true, Visible: true},
	)
	w := performRequest(m, "GET", "/api/v1/channels", "")
	if w.Code != 200 {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body struct {
		Channels []scrollrapi.Channel `json:"channels"`
		Active   string               `json:"active"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Channels) != 2 || body.Active != "finance" {
		t.Fatalf("unexpected list: %+v", body)
	}
}

func TestGetChannel_UnknownType(t *testing.T) {
	m := newTestManager(t)
	w := performRequest(m, "GET", "/api/v1/channels/minesweeper", "")
	if w.Code != 400 {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestGetChannel_NotConfigured(t *testing.T) {
	m := newTestManager(t, scrollrapi.Channel{ID: 1, ChannelType: "finance"})
	w := performRequest(m, "GET", "/api/v1/channels/fantasy", "")
	if w.Code != 404 {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestSetActive_CoercesUnknown(t *testing.T) {
	m := newTestManager(t,
		scrollrapi.Channel{ID: 1, ChannelType: "finance", Enabled: true, Visible: true},
	)
	w := performRequest(m, "POST", "/api/v1/active", `{"type":"minesweeper"}`)
	if w.Code != 200 {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body struct {
		Active string `json:"active"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Active != "finance" {
		t.Fatalf("expected coercion to finance, got %q", body.Active)
	}
}

func TestSetActive_RoutesToConfigured(t *testing.T) {
	m := newTestManager(t,
		scrollrapi.Channel{ID: 1, ChannelType: "finance", Enabled: true, Visible: true},
		scrollrapi.Channel{ID: 2, ChannelType: "sports", Enabled: true, Visible: true},
	)
	w := performRequest(m, "POST", "/api/v1/active", `{"type":"sports"}`)
	var body struct {
		Active string `json:"active"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Active != "sports" {
		t.Fatalf("expected sports, got %q", body.Active)
	}
}

func TestPreferences_NilBeforeFetch(t *testing.T) {
	m := newTestManager(t)
	w := performRequest(m, "GET", "/api/v1/preferences", "")
	if w.Code != 200 {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"preferences":null`) {
		t.Fatalf("expected null preferences, got %s", w.Body.String())
	}
}

func TestEvents_NoBus(t *testing.T) {
	m := newTestManager(t)
	w := performRequest(m, "GET", "/api/v1/events", "")
	if w.Code != 503 {
		t.Fatalf("expected 503 without a bus, got %d", w.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	m := newTestManager(t)
	w := performRequest(m, "OPTIONS", "/api/health", "")
	if w.Code != 204 {
		t.Fatalf("expected 204 for preflight, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatal("missing CORS header")
	}
}
