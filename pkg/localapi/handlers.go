package localapi

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/relentnet/scrollr/pkg/channelstore"
	"github.com/relentnet/scrollr/pkg/events"
	"github.com/relentnet/scrollr/pkg/registry"
)

// handlers serves the read-mostly automation endpoints over store snapshots.
type handlers struct {
	version   string
	startTime time.Time
	store     *channelstore.Store
	bus       *events.Bus
}

func newHandlers(version string, startTime time.Time, store *channelstore.Store, bus *events.Bus) *handlers {
	return &handlers{version: version, startTime: startTime, store: store, bus: bus}
}

// Health returns dashboard process health.
func (h *handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"version": h.version,
		"uptime":  time.Since(h.startTime).Round(time.Second).String(),
		"stream":  h.store.StreamStatus(),
	})
}

// ListChannels returns the channel list snapshot.
func (h *handlers) ListChannels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"channels": h.store.Channels(),
		"active":   h.store.Active(),
	})
}

// GetChannel returns one channel by type.
func (h *handlers) GetChannel(c *gin.Context) {
	t, ok := registry.Parse(c.Param("type"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   gin.H{"code": "INVALID_TYPE", "message": "unknown channel type"},
		})
		return
	}
	ch, ok := h.store.Channel(t)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   gin.H{"code": "NOT_FOUND", "message": "channel not configured"},
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "channel": ch})
}

// GetActive returns the active tab.
func (h *handlers) GetActive(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "active": h.store.Active()})
}

// SetActive routes the active tab. Unknown values coerce to the store's
// default rather than erroring, matching tab routing everywhere else.
func (h *handlers) SetActive(c *gin.Context) {
	var body struct {
		Type string `json:"type"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   gin.H{"code": "INVALID_BODY", "message": err.Error()},
		})
		return
	}
	active := h.store.SetActive(body.Type)
	c.JSON(http.StatusOK, gin.H{"success": true, "active": active})
}

// Preferences returns the known preferences snapshot.
func (h *handlers) Preferences(c *gin.Context) {
	p := h.store.Preferences()
	if p == nil {
		c.JSON(http.StatusOK, gin.H{"success": true, "preferences": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "preferences": p})
}

// StreamStatus returns the realtime feed connection state.
func (h *handlers) StreamStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "stream": h.store.StreamStatus()})
}

// Events re-emits bus events as an SSE stream until the client disconnects.
func (h *handlers) Events(c *gin.Context) {
	if h.bus == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error":   gin.H{"code": "NO_BUS", "message": "event stream unavailable"},
		})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Connection", "keep-alive")

	eventCh := make(chan events.Event, 64)
	unsub := h.bus.SubscribeAll(func(e events.Event) {
		select {
		case eventCh <- e:
		default:
		}
	})
	defer unsub()

	c.Stream(func(w io.Writer) bool {
		select {
		case e := <-eventCh:
			buf, err := json.Marshal(gin.H{
				"type":    e.Type.String(),
				"channel": e.ChannelType,
				"status":  e.StreamStatus,
			})
			if err != nil {
				return true
			}
			c.SSEvent("message", string(buf))
			return true
		case <-time.After(30 * time.Second):
			c.SSEvent("ping", "")
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
