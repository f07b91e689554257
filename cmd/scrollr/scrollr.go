/*
Copyright 2026 RelentNet

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/relentnet/scrollr/cmd/scrollr/channels"
	"github.com/relentnet/scrollr/cmd/scrollr/connect"
	"github.com/relentnet/scrollr/cmd/scrollr/dashboard"
	"github.com/relentnet/scrollr/cmd/scrollr/mcp"
	"github.com/relentnet/scrollr/cmd/scrollr/status"
)

var globalUsage = ``
var Version = "0.0.0"

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrollr",
		Short: "Manage your Scrollr channels from the terminal.",
		Long:  globalUsage,
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version of Scrollr",
		Long:  ``,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("Scrollr version: %s\nhttps://myscrollr.relentnet.dev\n", Version)
		},
	}

	dashboard.Version = Version
	channels.Version = Version
	mcp.Version = Version

	cmd.AddCommand(versionCmd, dashboard.Cmd, channels.Cmd, status.Cmd, connect.Cmd, mcp.Cmd)

	return cmd
}

func main() {
	cmd := newRootCmd()

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
