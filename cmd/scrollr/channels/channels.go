// Package channels provides the non-interactive channel management
// subcommands: list, add, rm, toggle and quickstart. They drive the same
// store the dashboard uses, so semantics (conflict-as-no-op, rollback,
// batch re-sync) are identical.
package channels

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/relentnet/scrollr/pkg/auth"
	"github.com/relentnet/scrollr/pkg/channelstore"
	"github.com/relentnet/scrollr/pkg/config"
	"github.com/relentnet/scrollr/pkg/registry"
	"github.com/relentnet/scrollr/pkg/scrollrapi"
)

var verbose bool

// Version is set by the main package
var Version string

const opTimeout = 30 * time.Second

func init() {
	Cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	Cmd.AddCommand(listCmd, addCmd, rmCmd, toggleCmd, quickStartCmd)
}

// Cmd is the channels subcommand group.
var Cmd = &cobra.Command{
	Use:     "channels",
	Aliases: []string{"channel", "ch"},
	Short:   "Manage channels without the dashboard",
	Example: "  scrollr channels list\n" +
		"  scrollr channels add sports\n" +
		"  scrollr channels toggle finance\n" +
		"  scrollr channels rm rss\n" +
		"  scrollr channels quickstart",
}

// newStore builds a started store over the configured API. Callers must
// Stop it.
func newStore() (*channelstore.Store, context.Context, context.CancelFunc) {
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

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	return store, ctx, cancel
}

func mustType(arg string) registry.Type {
	t, ok := registry.Parse(arg)
	if !ok {
		log.Fatalf("Unknown channel type %q (valid: %v)", arg, registry.Types())
	}
	return t
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List configured channels",
	Run: func(cmd *cobra.Command, args []string) {
		store, ctx, cancel := newStore()
		defer cancel()
		defer store.Stop()

		if err := store.FetchAll(ctx); err != nil {
			log.Fatalf("Fetch channels: %v", err)
		}

		channels := store.Channels()
		if len(channels) == 0 {
			fmt.Println("No channels configured. Try: scrollr channels quickstart")
			return
		}

		bold := color.New(color.Bold)
		on := color.New(color.FgGreen).SprintFunc()
		off := color.New(color.FgRed).SprintFunc()

		tbl := uitable.New()
		tbl.AddRow(bold.Sprint("TYPE"), bold.Sprint("LABEL"), bold.Sprint("ENABLED"), bold.Sprint("VISIBLE"), bold.Sprint("UPDATED"))
		for _, ch := range channels {
			label := ch.ChannelType
			if man, ok := registry.Lookup(registry.Type(ch.ChannelType)); ok {
				label = man.Label
			}
			enabled := off("no")
			if ch.Enabled {
				enabled = on("yes")
			}
			visible := off("hidden")
			if ch.Visible {
				visible = on("shown")
			}
			updated := ""
			if !ch.UpdatedAt.IsZero() {
				updated = ch.UpdatedAt.Local().Format("2006-01-02 15:04")
			}
			tbl.AddRow(ch.ChannelType, label, enabled, visible, updated)
		}
		fmt.Println(tbl)
	},
}

var addCmd = &cobra.Command{
	Use:   "add [type]",
	Short: "Add a channel with its default configuration",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		t := mustType(args[0])
		store, ctx, cancel := newStore()
		defer cancel()
		defer store.Stop()

		if err := store.FetchAll(ctx); err != nil {
			log.Fatalf("Fetch channels: %v", err)
		}
		if err := store.Add(ctx, t, nil); err != nil {
			log.Fatalf("Add channel %s: %v", t, err)
		}
		fmt.Printf("Channel %s added\n", t)
	},
}

var rmCmd = &cobra.Command{
	Use:     "rm [type]",
	Aliases: []string{"remove", "delete"},
	Short:   "Remove a channel",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		t := mustType(args[0])
		store, ctx, cancel := newStore()
		defer cancel()
		defer store.Stop()

		if err := store.FetchAll(ctx); err != nil {
			log.Fatalf("Fetch channels: %v", err)
		}
		if _, ok := store.Channel(t); !ok {
			fmt.Printf("No %s channel configured\n", t)
			os.Exit(1)
		}
		if err := store.Delete(ctx, t); err != nil {
			log.Fatalf("Remove channel %s: %v", t, err)
		}
		fmt.Printf("Channel %s removed\n", t)
	},
}

var toggleCmd = &cobra.Command{
	Use:   "toggle [type]",
	Short: "Toggle a channel on or off",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		t := mustType(args[0])
		store, ctx, cancel := newStore()
		defer cancel()
		defer store.Stop()

		if err := store.FetchAll(ctx); err != nil {
			log.Fatalf("Fetch channels: %v", err)
		}
		if err := store.ToggleVisibility(ctx, t); err != nil {
			log.Fatalf("Toggle channel %s: %v", t, err)
		}
		ch, _ := store.Channel(t)
		state := "off"
		if ch.Visible {
			state = "on"
		}
		fmt.Printf("Channel %s is now %s\n", t, state)
	},
}

var quickStartCmd = &cobra.Command{
	Use:     "quickstart",
	Aliases: []string{"quick-start"},
	Short:   "Create the recommended starter channels",
	Long: `Create the recommended starter set (finance, sports, rss), skipping any
channel you already have. If part of the batch fails, local state is
re-synced from the server and the failure is reported.`,
	Run: func(cmd *cobra.Command, args []string) {
		store, ctx, cancel := newStore()
		defer cancel()
		defer store.Stop()

		if err := store.FetchAll(ctx); err != nil {
			log.Fatalf("Fetch channels: %v", err)
		}
		if err := store.QuickStart(ctx); err != nil {
			log.Fatalf("Quick start: %v", err)
		}
		fmt.Printf("Quick start complete: %d channels configured\n", store.Count())
	},
}
