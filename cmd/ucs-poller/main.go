/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package main is the ucs-poller binary.
//
//	ucs-poller serve -c /etc/obmpoller/ucs-poller.yaml
//	ucs-poller validate -c /etc/obmpoller/ucs-poller.yaml
//	ucs-poller encrypt -c /etc/obmpoller/ucs-poller.yaml 'controller-password'
//	ucs-poller version
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/carverauto/obmpoller/pkg/version"
)

const defaultConfigPath = "/etc/obmpoller/ucs-poller.yaml"

var rootCmd = &cobra.Command{
	Use:   "ucs-poller",
	Short: "UCS hardware telemetry poller",
	Long: `ucs-poller listens for UCS poll triggers on NATS, fetches hardware
telemetry through the UCS service, publishes the results and records
work item completion. It can also raise node accessibility alerts.`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, _ []string) {
		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintf(out, "ucs-poller %s\n", version.GetVersion())
		_, _ = fmt.Fprintf(out, "  commit: %s\n", version.GetCommit())
		_, _ = fmt.Fprintf(out, "  built:  %s\n", version.GetBuildDate())
	},
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", defaultConfigPath, "path to config file")
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
