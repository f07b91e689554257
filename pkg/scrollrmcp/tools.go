package scrollrmcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/relentnet/scrollr/pkg/registry"
)

// Tool input types

type ListChannelsInput struct{}

type AddChannelInput struct {
	Type string `json:"type" jsonschema:"Channel type: finance, sports, rss, or fantasy"`
}

type RemoveChannelInput struct {
	Type string `json:"type" jsonschema:"Channel type to remove"`
}

type ToggleChannelInput struct {
	Type string `json:"type" jsonschema:"Channel type to toggle on or off"`
}

type QuickStartInput struct{}

type GetStatusInput struct{}

type GetPreferencesInput struct{}

// registerTools registers all MCP tools.
func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_channels",
		Description: "List the user's configured Scrollr channels with enabled/visible flags and the active tab.",
	}, s.handleListChannels)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_channel",
		Description: "Add a channel of the given type with its default configuration. Adding a type that already exists is a no-op.",
	}, s.handleAddChannel)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "remove_channel",
		Description: "Remove a channel by type. The active tab falls back to the first remaining channel.",
	}, s.handleRemoveChannel)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "toggle_channel",
		Description: "Toggle a channel's visibility. Enabled and visible always flip together; a failed toggle rolls back.",
	}, s.handleToggleChannel)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "quick_start",
		Description: "Create the recommended starter channels (finance, sports, rss), skipping any that already exist.",
	}, s.handleQuickStart)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_status",
		Description: "Get backend health per service, realtime feed connection state, and connected viewer count.",
	}, s.handleGetStatus)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_preferences",
		Description: "Get the user's extension display preferences and subscription tier.",
	}, s.handleGetPreferences)
}

func parseType(raw string) (registry.Type, error) {
	t, ok := registry.Parse(raw)
	if !ok {
		return "", fmt.Errorf("unknown channel type %q (valid: %v)", raw, registry.Types())
	}
	return t, nil
}

func (s *Server) handleListChannels(ctx context.Context, req *mcp.CallToolRequest, input ListChannelsInput) (*mcp.CallToolResult, any, error) {
	channels := s.store.Channels()

	list := make([]map[string]interface{}, 0, len(channels))
	for _, ch := range channels {
		entry := map[string]interface{}{
			"type":    ch.ChannelType,
			"enabled": ch.Enabled,
			"visible": ch.Visible,
		}
		if man, ok := registry.Lookup(registry.Type(ch.ChannelType)); ok {
			entry["label"] = man.Label
			entry["description"] = man.Description
		}
		list = append(list, entry)
	}

	result := map[string]interface{}{
		"channels": list,
		"active":   string(s.store.Active()),
		"stream":   s.store.StreamStatus(),
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("%d channels configured, active tab: %s", len(channels), s.store.Active())},
		},
	}, result, nil
}

func (s *Server) handleAddChannel(ctx context.Context, req *mcp.CallToolRequest, input AddChannelInput) (*mcp.CallToolResult, any, error) {
	t, err := parseType(input.Type)
	if err != nil {
		return nil, nil, err
	}

	if err := s.store.Add(ctx, t, nil); err != nil {
		return nil, nil, fmt.Errorf("add channel %s: %w", t, err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("Channel %s added and made active", t)},
		},
	}, map[string]interface{}{"type": string(t), "active": true}, nil
}

func (s *Server) handleRemoveChannel(ctx context.Context, req *mcp.CallToolRequest, input RemoveChannelInput) (*mcp.CallToolResult, any, error) {
	t, err := parseType(input.Type)
	if err != nil {
		return nil, nil, err
	}

	if err := s.store.Delete(ctx, t); err != nil {
		return nil, nil, fmt.Errorf("remove channel %s: %w", t, err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("Channel %s removed, active tab: %s", t, s.store.Active())},
		},
	}, map[string]interface{}{"type": string(t), "active": string(s.store.Active())}, nil
}

func (s *Server) handleToggleChannel(ctx context.Context, req *mcp.CallToolRequest, input ToggleChannelInput) (*mcp.CallToolResult, any, error) {
	t, err := parseType(input.Type)
	if err != nil {
		return nil, nil, err
	}

	if err := s.store.ToggleVisibility(ctx, t); err != nil {
		return nil, nil, fmt.Errorf("toggle channel %s: %w", t, err)
	}

	ch, ok := s.store.Channel(t)
	if !ok {
		return nil, nil, fmt.Errorf("channel %s not found after toggle", t)
	}

	state := "off"
	if ch.Visible {
		state = "on"
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("Channel %s toggled %s", t, state)},
		},
	}, map[string]interface{}{"type": string(t), "enabled": ch.Enabled, "visible": ch.Visible}, nil
}

func (s *Server) handleQuickStart(ctx context.Context, req *mcp.CallToolRequest, input QuickStartInput) (*mcp.CallToolResult, any, error) {
	if err := s.store.QuickStart(ctx); err != nil {
		return nil, nil, fmt.Errorf("quick start: %w", err)
	}

	channels := s.store.Channels()
	types := make([]string, 0, len(channels))
	for _, ch := range channels {
		types = append(types, ch.ChannelType)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("Quick start complete: %d channels configured", len(channels))},
		},
	}, map[string]interface{}{"channels": types}, nil
}

func (s *Server) handleGetStatus(ctx context.Context, req *mcp.CallToolRequest, input GetStatusInput) (*mcp.CallToolResult, any, error) {
	if s.status == nil {
		return nil, nil, fmt.Errorf("status provider not available")
	}

	result := map[string]interface{}{
		"stream":   s.store.StreamStatus(),
		"channels": s.store.Count(),
	}

	health, err := s.status.Health(ctx)
	if err != nil {
		result["health_error"] = err.Error()
	} else {
		result["health"] = health
	}

	if count, err := s.status.ViewerCount(ctx); err == nil {
		result["viewers"] = count
	}

	text := "Backend unreachable"
	if health != nil {
		text = fmt.Sprintf("Backend %s, stream %s", health.Status, s.store.StreamStatus())
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}, result, nil
}

func (s *Server) handleGetPreferences(ctx context.Context, req *mcp.CallToolRequest, input GetPreferencesInput) (*mcp.CallToolResult, any, error) {
	p := s.store.Preferences()
	if p == nil {
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: "Preferences not loaded yet"}},
		}, map[string]interface{}{"preferences": nil}, nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("Feed %s/%s, tier: %s", p.FeedMode, p.FeedPosition, p.SubscriptionTier)},
		},
	}, map[string]interface{}{"preferences": *p}, nil
}
