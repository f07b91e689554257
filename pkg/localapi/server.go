// Package localapi serves a loopback automation API while the dashboard
// runs. Scripts and local tooling read channel state, preferences and
// stream health, drive the active tab, and follow live events over SSE
// without talking to the Scrollr backend directly.
package localapi

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/relentnet/scrollr/pkg/channelstore"
	"github.com/relentnet/scrollr/pkg/events"
)

// Manager manages the local API server lifecycle.
type Manager struct {
	server    *http.Server
	router    *gin.Engine
	addr      string
	version   string
	startTime time.Time

	store *channelstore.Store
	bus   *events.Bus
}

// NewManager creates a manager bound to addr. The store is read through
// its snapshot accessors; the bus feeds the SSE endpoint.
func NewManager(addr, version string, store *channelstore.Store, bus *events.Bus) *Manager {
	m := &Manager{
		addr:      addr,
		version:   version,
		startTime: time.Now(),
		store:     store,
		bus:       bus,
	}
	m.router = m.setupRouter()
	return m
}

// setupRouter creates and configures the Gin router with all routes.
func (m *Manager) setupRouter() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(Recovery())
	r.Use(RequestLogger())
	r.Use(CORS())
	r.Use(NoCache())

	api := r.Group("/api")
	{
		h := newHandlers(m.version, m.startTime, m.store, m.bus)
		api.GET("/health", h.Health)

		v1 := api.Group("/v1")
		{
			v1.GET("/channels", h.ListChannels)
			v1.GET("/channels/:type", h.GetChannel)
			v1.GET("/active", h.GetActive)
			v1.POST("/active", h.SetActive)
			v1.GET("/preferences", h.Preferences)
			v1.GET("/stream", h.StreamStatus)
			v1.GET("/events", h.Events)
		}
	}

	return r
}

// Start begins serving. It binds synchronously so callers see bind errors,
// then serves in the background.
func (m *Manager) Start() error {
	ln, err := net.Listen("tcp", m.addr)
	if err != nil {
		return errors.Wrapf(err, "local api bind %s", m.addr)
	}

	m.server = &http.Server{Handler: m.router}
	go func() {
		if err := m.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			log.Errorf("Local API server error: %v", err)
		}
	}()

	log.Infof("Local API listening on http://%s/api", ln.Addr())
	return nil
}

// Stop shuts the server down, allowing in-flight requests to finish.
func (m *Manager) Stop() {
	if m.server == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := m.server.Shutdown(ctx); err != nil {
		log.Debugf("Local API shutdown: %v", err)
	}
}

// Router exposes the handler for tests.
func (m *Manager) Router() http.Handler {
	return m.router
}
