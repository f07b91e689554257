// Package mcp provides the MCP (Model Context Protocol) subcommand. It
// starts a stdio MCP server so AI assistants can manage Scrollr channels
// with the same optimistic-mutation semantics as the dashboard.
package mcp

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/relentnet/scrollr/pkg/auth"
	"github.com/relentnet/scrollr/pkg/channelstore"
	"github.com/relentnet/scrollr/pkg/config"
	"github.com/relentnet/scrollr/pkg/scrollrapi"
	"github.com/relentnet/scrollr/pkg/scrollrmcp"
)

var verbose bool

// Version is set by the main package
var Version string

func init() {
	Cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
}

// Cmd is the MCP subcommand
var Cmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server (stdio)",
	Long: `Start an MCP (Model Context Protocol) server on stdio.

Configure your MCP client (e.g., Claude Code):
  {
    "mcpServers": {
      "scrollr": {
        "command": "scrollr",
        "args": ["mcp"]
      }
    }
  }

Tools: list_channels, add_channel, remove_channel, toggle_channel,
quick_start, get_status, get_preferences.`,
	Run: runCmd,
}

func runCmd(cmd *cobra.Command, args []string) {
	if verbose {
		log.SetLevel(log.DebugLevel)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	if _, err := auth.ParseClaims(cfg.Token); err != nil {
		log.Fatalf("Authentication error: %v", err)
	}

	client := scrollrapi.NewClient(cfg.APIURL, cfg.Token)
	store := channelstore.NewStore(client, nil)
	store.Start()
	defer store.Stop()

	fetchCtx, fetchCancel := context.WithTimeout(context.Background(), 15*time.Second)
	if err := store.FetchAll(fetchCtx); err != nil {
		// Tools will retry through the store; surface the condition on stderr.
		log.Warnf("Initial channel fetch failed: %v", err)
	}
	fetchCancel()

	server := scrollrmcp.NewServer(Version, store, client)
	if err := server.Run(context.Background()); err != nil {
		log.Fatalf("MCP server error: %v", err)
	}
}
