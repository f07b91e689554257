// Package stream consumes the Scrollr server-sent-event feed. The feed
// delivers snapshots and deltas as JSON `data:` payloads with `: ping`
// heartbeats. The consumer owns reconnection (exponential backoff, reset
// on a successful connect) and publishes connection transitions; the rest
// of the app must tolerate arbitrarily delayed or absent pushes.
package stream

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/relentnet/scrollr/pkg/channelstore"
	"github.com/relentnet/scrollr/pkg/events"
	"github.com/relentnet/scrollr/pkg/scrollrapi"
)

// Envelope is one push from the feed. Every field is optional; the
// consumer dispatches only what is present.
type Envelope struct {
	Status       *string                      `json:"status,omitempty"`
	Preferences  *scrollrapi.PreferencesDelta `json:"preferences,omitempty"`
	LatestTrades []scrollrapi.Trade           `json:"latestTrades,omitempty"`
	LatestGames  []scrollrapi.Game            `json:"latestGames,omitempty"`
	Yahoo        json.RawMessage              `json:"yahoo,omitempty"`
}

// Consumer maintains the single long-lived feed connection.
type Consumer struct {
	url        string
	store      *channelstore.Store
	bus        *events.Bus
	httpClient *http.Client
}

// NewConsumer creates a consumer for the given events URL.
func NewConsumer(url string, store *channelstore.Store, bus *events.Bus) *Consumer {
	return &Consumer{
		url:   url,
		store: store,
		bus:   bus,
		// No client timeout: the stream is expected to stay open.
		httpClient: &http.Client{},
	}
}

// Run connects and consumes until ctx is cancelled, reconnecting with
// exponential backoff after any disconnect.
func (c *Consumer) Run(ctx context.Context) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = time.Second
	bo.MaxInterval = 30 * time.Second
	bo.MaxElapsedTime = 0 // retry forever

	for {
		err := c.consume(ctx)
		c.store.SetStreamStatus(channelstore.StreamDisconnected)
		if ctx.Err() != nil {
			return
		}
		wait := bo.NextBackOff()
		if err != nil {
			log.Warnf("Event stream disconnected: %v (retrying in %s)", err, wait.Round(time.Millisecond))
		}
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return
		}
	}
}

// consume opens one connection and reads messages until it drops.
func (c *Consumer) consume(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return errors.Wrap(err, "build stream request")
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "connect")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("stream: unexpected status %d", resp.StatusCode)
	}

	log.Info("Event stream connected")
	c.store.SetStreamStatus(channelstore.StreamConnected)

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var data bytes.Buffer
	for scanner.Scan() {
		line := scanner.Text()

		// A blank line terminates one event.
		if line == "" {
			if data.Len() > 0 {
				c.handleMessage(data.Bytes())
				data.Reset()
			}
			continue
		}
		// Comment lines are heartbeats.
		if strings.HasPrefix(line, ":") {
			continue
		}
		if payload, ok := strings.CutPrefix(line, "data:"); ok {
			if data.Len() > 0 {
				data.WriteByte('\n')
			}
			data.WriteString(strings.TrimPrefix(payload, " "))
			continue
		}
		// retry:, event:, id: fields are advisory here.
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrap(err, "read")
	}
	return errors.New("stream closed by server")
}

// handleMessage dispatches one decoded envelope. Fields absent from the
// push are never merged.
func (c *Consumer) handleMessage(payload []byte) {
	var env Envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		log.Debugf("Dropping malformed stream message: %v", err)
		return
	}

	if env.Status != nil {
		switch *env.Status {
		case channelstore.StreamConnected, channelstore.StreamDisconnected:
			c.store.SetStreamStatus(*env.Status)
		}
	}
	if env.Preferences != nil && !env.Preferences.Empty() {
		c.store.MergePreferences(*env.Preferences)
	}
	if len(env.LatestTrades) > 0 && c.bus != nil {
		c.bus.Publish(events.Event{
			Type:      events.TradesUpdated,
			Timestamp: time.Now(),
			Trades:    env.LatestTrades,
		})
	}
	if len(env.LatestGames) > 0 && c.bus != nil {
		c.bus.Publish(events.Event{
			Type:      events.GamesUpdated,
			Timestamp: time.Now(),
			Games:     env.LatestGames,
		})
	}
}
