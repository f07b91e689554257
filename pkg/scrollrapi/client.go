// Package scrollrapi is the REST client for the Scrollr backend. It covers
// channel CRUD, preferences, status telemetry and the Yahoo OAuth bridge.
// Errors are explicit: 409 maps to ErrConflict, 401 to ErrUnauthorized,
// other non-2xx responses to *StatusError. The client never swallows a
// failure; call sites decide what surfaces.
package scrollrapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const defaultTimeout = 15 * time.Second

// Client talks to one Scrollr API deployment on behalf of one user.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client, used by tests and
// by callers that need custom transport settings.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a client for the given base URL and bearer token.
func NewClient(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured API base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// Channels fetches the full channel list for the authenticated user.
func (c *Client) Channels(ctx context.Context) ([]Channel, error) {
	var list channelList
	if err := c.do(ctx, http.MethodGet, "/channels", nil, &list); err != nil {
		return nil, errors.Wrap(err, "fetch channels")
	}
	if list.Channels == nil {
		list.Channels = []Channel{}
	}
	return list.Channels, nil
}

// CreateChannel creates a channel of the given type. A server 409 returns
// ErrConflict so callers can treat the create as an idempotent no-op.
func (c *Client) CreateChannel(ctx context.Context, channelType string, config map[string]interface{}) (*Channel, error) {
	if config == nil {
		config = map[string]interface{}{}
	}
	body := map[string]interface{}{
		"channel_type": channelType,
		"config":       config,
	}
	var ch Channel
	if err := c.do(ctx, http.MethodPost, "/channels", body, &ch); err != nil {
		return nil, errors.Wrapf(err, "create channel %s", channelType)
	}
	return &ch, nil
}

// UpdateChannel patches the enabled/visible pair for a channel. The two
// flags travel together; the store keeps them in lockstep.
func (c *Client) UpdateChannel(ctx context.Context, channelType string, enabled, visible bool) (*Channel, error) {
	body := map[string]interface{}{
		"enabled": enabled,
		"visible": visible,
	}
	var ch Channel
	if err := c.do(ctx, http.MethodPatch, "/channels/"+url.PathEscape(channelType), body, &ch); err != nil {
		return nil, errors.Wrapf(err, "update channel %s", channelType)
	}
	return &ch, nil
}

// DeleteChannel removes a channel by type.
func (c *Client) DeleteChannel(ctx context.Context, channelType string) error {
	if err := c.do(ctx, http.MethodDelete, "/channels/"+url.PathEscape(channelType), nil, nil); err != nil {
		return errors.Wrapf(err, "delete channel %s", channelType)
	}
	return nil
}

// Preferences fetches the user's preferences.
func (c *Client) Preferences(ctx context.Context) (*Preferences, error) {
	var p Preferences
	if err := c.do(ctx, http.MethodGet, "/users/me/preferences", nil, &p); err != nil {
		return nil, errors.Wrap(err, "fetch preferences")
	}
	return &p, nil
}

// Health fetches the aggregated backend health report.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var h Health
	if err := c.do(ctx, http.MethodGet, "/health", nil, &h); err != nil {
		return nil, errors.Wrap(err, "fetch health")
	}
	return &h, nil
}

// ViewerCount returns the number of connected realtime clients.
func (c *Client) ViewerCount(ctx context.Context) (int, error) {
	var vc viewerCount
	if err := c.do(ctx, http.MethodGet, "/events/count", nil, &vc); err != nil {
		return 0, errors.Wrap(err, "fetch viewer count")
	}
	return vc.Count, nil
}

// Integrations fetches the backend integration registry.
func (c *Client) Integrations(ctx context.Context) ([]Integration, error) {
	var list []Integration
	if err := c.do(ctx, http.MethodGet, "/integrations", nil, &list); err != nil {
		return nil, errors.Wrap(err, "fetch integrations")
	}
	return list, nil
}

// EventsURL builds the SSE endpoint URL. Auth travels as a query parameter
// because EventSource-style clients cannot set headers.
func (c *Client) EventsURL() string {
	return c.baseURL + "/events?token=" + url.QueryEscape(c.token)
}

// YahooStartURL builds the browser URL that begins the Yahoo OAuth flow.
func (c *Client) YahooStartURL(logtoSub string) string {
	return c.baseURL + "/yahoo/start?logto_sub=" + url.QueryEscape(logtoSub)
}

// do issues one request and decodes the response into out when non-nil.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "marshal request")
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.statusError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "decode response")
	}
	return nil
}

// statusError maps a non-2xx response to the error taxonomy.
func (c *Client) statusError(resp *http.Response) error {
	var body apiError
	_ = json.NewDecoder(resp.Body).Decode(&body)

	switch resp.StatusCode {
	case http.StatusConflict:
		return ErrConflict
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	}
	return &StatusError{Code: resp.StatusCode, Message: body.Error}
}
