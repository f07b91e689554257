// Package scrollrmcp provides an MCP (Model Context Protocol) server over
// the channel store. AI assistants can list, add, remove and toggle
// channels, run quick start and read status through the same store the
// dashboard uses, so every mutation carries the same optimistic-update and
// rollback semantics.
package scrollrmcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/relentnet/scrollr/pkg/channelstore"
	"github.com/relentnet/scrollr/pkg/scrollrapi"
)

// StatusProvider is the slice of the API client the status tool reads.
type StatusProvider interface {
	Health(ctx context.Context) (*scrollrapi.Health, error)
	ViewerCount(ctx context.Context) (int, error)
}

// Server manages the MCP server lifecycle.
type Server struct {
	mcpServer *mcp.Server
	version   string

	store  *channelstore.Store
	status StatusProvider

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewServer creates an MCP server over a started store.
func NewServer(version string, store *channelstore.Store, status StatusProvider) *Server {
	s := &Server{
		version: version,
		store:   store,
		status:  status,
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
	s.setupServer()
	return s
}

// setupServer creates the MCP server and registers tools.
func (s *Server) setupServer() {
	s.mcpServer = mcp.NewServer(&mcp.Implementation{
		Name:    "scrollr",
		Version: s.version,
	}, nil)

	s.registerTools()
}

// Run starts the MCP server on stdio transport (blocking).
func (s *Server) Run(ctx context.Context) error {
	defer close(s.doneCh)

	runCtx, cancel := context.WithCancel(ctx)
	go func() {
		select {
		case <-s.stopCh:
			cancel()
		case <-runCtx.Done():
		}
	}()

	return s.mcpServer.Run(runCtx, &mcp.StdioTransport{})
}

// Stop signals the server to stop.
func (s *Server) Stop() {
	close(s.stopCh)
}

// Done returns a channel that closes when the server stops.
func (s *Server) Done() <-chan struct{} {
	return s.doneCh
}
