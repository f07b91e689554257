// Package dashboard provides the interactive TUI subcommand. It wires the
// full client stack: config, API client, event bus, channel store with its
// disk cache, the realtime feed consumer, the optional local automation
// API, and the bubbletea dashboard on top.
package dashboard

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/relentnet/scrollr/pkg/auth"
	"github.com/relentnet/scrollr/pkg/channelstore"
	"github.com/relentnet/scrollr/pkg/config"
	"github.com/relentnet/scrollr/pkg/events"
	"github.com/relentnet/scrollr/pkg/localapi"
	"github.com/relentnet/scrollr/pkg/scrollrapi"
	"github.com/relentnet/scrollr/pkg/stream"
	"github.com/relentnet/scrollr/pkg/tui"
	"github.com/relentnet/scrollr/pkg/tui/styles"
)

// cmdline arguments
var apiMode bool
var lightTheme bool
var verbose bool

// Version is set by the main package
var Version string

func init() {
	Cmd.Flags().BoolVar(&apiMode, "api", false, "Enable the local automation API (bind address from api_addr config)")
	Cmd.Flags().BoolVar(&lightTheme, "light", false, "Use the light color theme")
	Cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
}

var Cmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"dash", "ui"},
	Short:   "Open the interactive channel dashboard",
	Long: `Open the interactive dashboard: one tab per configured channel, live
ticker and scoreboard data from the realtime feed, and keyboard-driven
channel management. All edits are optimistic and roll back on failure.`,
	Example: "  scrollr dashboard\n" +
		"  scrollr dashboard --api       # also serve the local automation API\n" +
		"  scrollr dashboard --light",
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

	claims, err := auth.ParseClaims(cfg.Token)
	if err != nil {
		log.Fatalf("Authentication error: %v", err)
	}
	if claims.Expired() {
		log.Warn("Access token is expired; API requests will fail until it is refreshed")
	}

	if lightTheme || cfg.Theme == "light" {
		styles.SetDarkTheme(false)
	} else if cfg.Theme == "auto" {
		styles.DetectTheme()
	}

	client := scrollrapi.NewClient(cfg.APIURL, cfg.Token)

	bus := events.NewBus(256)
	bus.Start()

	var opts []channelstore.Option
	if dir, err := cfg.CacheDir(); err == nil {
		opts = append(opts, channelstore.WithCache(channelstore.NewCache(dir)))
	} else {
		log.Debugf("Channel cache unavailable: %v", err)
	}

	store := channelstore.NewStore(client, bus, opts...)
	store.Start()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fetchCtx, fetchCancel := context.WithTimeout(ctx, 15*time.Second)
	if err := store.FetchAll(fetchCtx); err != nil {
		log.Warnf("Initial channel fetch failed: %v", err)
		if store.Seed() {
			log.Info("Showing cached channels until the server is reachable")
		}
	}
	fetchCancel()

	go func() {
		prefCtx, prefCancel := context.WithTimeout(ctx, 15*time.Second)
		defer prefCancel()
		if p, err := client.Preferences(prefCtx); err != nil {
			log.Debugf("Preferences fetch failed: %v", err)
		} else {
			store.SetPreferences(p)
		}
	}()

	consumer := stream.NewConsumer(client.EventsURL(), store, bus)
	go consumer.Run(ctx)

	if apiMode {
		api := localapi.NewManager(cfg.APIAddr, Version, store, bus)
		if err := api.Start(); err != nil {
			log.Errorf("Local API failed to start: %v", err)
		} else {
			defer api.Stop()
		}
	}

	tui.Version = Version
	mgr := tui.NewManager(store, bus, claims.DisplayName(), cancel)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		mgr.Stop()
	}()

	if err := mgr.Run(); err != nil {
		log.Errorf("Dashboard error: %v", err)
	}

	cancel()
	store.Stop()
	bus.Stop()
}
