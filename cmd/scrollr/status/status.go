// Package status provides the status subcommand: backend health per
// ingestion service, realtime viewer count, and token identity.
package status

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/relentnet/scrollr/pkg/auth"
	"github.com/relentnet/scrollr/pkg/config"
	"github.com/relentnet/scrollr/pkg/scrollrapi"
)

var Cmd = &cobra.Command{
	Use:   "status",
	Short: "Show backend health and connection status",
	Run:   runCmd,
}

func runCmd(cmd *cobra.Command, args []string) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	client := scrollrapi.NewClient(cfg.APIURL, cfg.Token)
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	up := color.New(color.FgGreen).SprintFunc()
	down := color.New(color.FgRed).SprintFunc()
	bold := color.New(color.Bold)

	health, err := client.Health(ctx)
	if err != nil {
		log.Fatalf("Backend unreachable at %s: %v", cfg.APIURL, err)
	}

	statusText := up(health.Status)
	if health.Status != "ok" && health.Status != "healthy" {
		statusText = down(health.Status)
	}
	fmt.Printf("%s %s (%s)\n\n", bold.Sprint("Backend:"), statusText, cfg.APIURL)

	tbl := uitable.New()
	tbl.AddRow(bold.Sprint("COMPONENT"), bold.Sprint("STATUS"))
	tbl.AddRow("database", colorize(health.Database, up, down))
	tbl.AddRow("redis", colorize(health.Redis, up, down))

	names := make([]string, 0, len(health.Services))
	for name := range health.Services {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		tbl.AddRow(name, colorize(health.Services[name], up, down))
	}
	fmt.Println(tbl)

	if count, err := client.ViewerCount(ctx); err == nil {
		fmt.Printf("\nConnected viewers: %d\n", count)
	}

	if claims, err := auth.ParseClaims(cfg.Token); err != nil {
		fmt.Printf("Identity: not authenticated (%v)\n", err)
	} else {
		expiry := "no expiry"
		if !claims.ExpireAt.IsZero() {
			expiry = "expires " + claims.ExpireAt.Local().Format(time.RFC822)
			if claims.Expired() {
				expiry = down("expired " + claims.ExpireAt.Local().Format(time.RFC822))
			}
		}
		fmt.Printf("Identity: %s (%s)\n", claims.DisplayName(), expiry)
	}
}

func colorize(status string, up, down func(a ...interface{}) string) string {
	switch status {
	case "connected", "up", "ok", "healthy":
		return up(status)
	case "":
		return "unknown"
	}
	return down(status)
}
