// Package connect provides the connect subcommand for linking third-party
// accounts. The OAuth handshake happens in the browser against the
// backend's bridge endpoints; the CLI opens the start URL and polls the
// integration registry until the link shows up.
package connect

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/browser"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/relentnet/scrollr/pkg/auth"
	"github.com/relentnet/scrollr/pkg/config"
	"github.com/relentnet/scrollr/pkg/scrollrapi"
)

var noBrowser bool
var pollTimeout time.Duration

func init() {
	yahooCmd.Flags().BoolVar(&noBrowser, "no-browser", false, "Print the authorization URL instead of opening a browser")
	yahooCmd.Flags().DurationVar(&pollTimeout, "timeout", 3*time.Minute, "How long to wait for the link to complete")

	Cmd.AddCommand(yahooCmd)
}

// Cmd is the connect subcommand group.
var Cmd = &cobra.Command{
	Use:   "connect",
	Short: "Link third-party accounts",
	Example: "  scrollr connect yahoo\n" +
		"  scrollr connect yahoo --no-browser",
}

var yahooCmd = &cobra.Command{
	Use:   "yahoo",
	Short: "Link a Yahoo account for fantasy sports",
	Long: `Link your Yahoo account so the fantasy channel can show league matchups.
The authorization happens in your browser; this command waits until the
backend reports the account as connected.`,
	Run: runYahoo,
}

func runYahoo(cmd *cobra.Command, args []string) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	claims, err := auth.ParseClaims(cfg.Token)
	if err != nil {
		log.Fatalf("Authentication error: %v", err)
	}

	client := scrollrapi.NewClient(cfg.APIURL, cfg.Token)
	ctx, cancel := context.WithTimeout(context.Background(), pollTimeout)
	defer cancel()

	if connected, _ := yahooConnected(ctx, client); connected {
		fmt.Println("Yahoo account already linked.")
		return
	}

	startURL := client.YahooStartURL(claims.Sub)
	if noBrowser {
		fmt.Printf("Open this URL to authorize:\n\n  %s\n\n", startURL)
	} else {
		fmt.Println("Opening your browser to authorize with Yahoo...")
		if err := browser.OpenURL(startURL); err != nil {
			log.Warnf("Could not open browser: %v", err)
			fmt.Printf("Open this URL to authorize:\n\n  %s\n\n", startURL)
		}
	}

	fmt.Println("Waiting for authorization to complete (ctrl+c to abort)...")
	ticker := time.NewTicker(3 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Fatalf("Timed out waiting for the Yahoo link after %s", pollTimeout)
		case <-ticker.C:
			connected, err := yahooConnected(ctx, client)
			if err != nil {
				log.Debugf("Integration poll failed: %v", err)
				continue
			}
			if connected {
				fmt.Println("Yahoo account linked. The fantasy channel is ready: scrollr channels add fantasy")
				return
			}
		}
	}
}

// yahooConnected reads the integration registry and reports whether the
// yahoo entry shows as connected.
func yahooConnected(ctx context.Context, client *scrollrapi.Client) (bool, error) {
	integrations, err := client.Integrations(ctx)
	if err != nil {
		return false, err
	}
	for _, in := range integrations {
		if in.Name == "yahoo" {
			return in.Connected, nil
		}
	}
	return false, nil
}
