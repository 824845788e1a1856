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

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/carverauto/obmpoller/cmd/ucs-poller/app"
	"github.com/carverauto/obmpoller/pkg/lifecycle"
	"github.com/carverauto/obmpoller/pkg/models"
	"github.com/carverauto/obmpoller/pkg/natsutil"
)

var triggerCmd = &cobra.Command{
	Use:   "trigger",
	Short: "Publish test events to a running poller",
}

var triggerPollCmd = &cobra.Command{
	Use:   "poll <node> <work-item-id> <command>",
	Short: "Publish a poll trigger on the configured routing key",
	Args:  cobra.ExactArgs(3),
	RunE:  runTriggerPoll,
}

var triggerTransitionCmd = &cobra.Command{
	Use:   "transition <node> <old-state> <new-state>",
	Short: "Publish a poller accessibility transition",
	Args:  cobra.ExactArgs(3),
	RunE:  runTriggerTransition,
}

func init() {
	triggerTransitionCmd.Flags().String("work-item", "", "id of the transitioning work item")
	triggerCmd.AddCommand(triggerPollCmd, triggerTransitionCmd)
	rootCmd.AddCommand(triggerCmd)
}

// connectBus loads the config and opens a bus for one-off publishing.
func connectBus(cmd *cobra.Command) (*natsutil.Bus, string, func(), error) {
	configPath, _ := cmd.Flags().GetString("config")

	cfg, err := app.LoadConfig(cmd.Context(), configPath)
	if err != nil {
		return nil, "", nil, err
	}

	log, err := lifecycle.CreateComponentLogger(cmd.Context(), "ucs-poller-cli", cfg.Logging)
	if err != nil {
		return nil, "", nil, err
	}

	nc, err := natsutil.Connect(cmd.Context(), &cfg.NATS, log)
	if err != nil {
		return nil, "", nil, err
	}

	return natsutil.NewBus(nc, log), cfg.RoutingKey, nc.Close, nil
}

func runTriggerPoll(cmd *cobra.Command, args []string) error {
	bus, routingKey, closeFn, err := connectBus(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	req := &models.PollRequest{
		Node:       args[0],
		WorkItemID: args[1],
		Config:     models.PollCommandConfig{Command: args[2]},
	}

	if err := bus.PublishTrigger(cmd.Context(), routingKey, req); err != nil {
		return err
	}

	if err := bus.Flush(); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "published %s for node %s on %s\n",
		req.Command(), req.Node, natsutil.TriggerSubject(routingKey))

	return nil
}

func runTriggerTransition(cmd *cobra.Command, args []string) error {
	bus, _, closeFn, err := connectBus(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	workItem, _ := cmd.Flags().GetString("work-item")

	tr := &models.AccessibilityTransition{
		Node:       args[0],
		WorkItemID: workItem,
		OldState:   models.PollerState(args[1]),
		NewState:   models.PollerState(args[2]),
	}

	if err := bus.PublishTransition(cmd.Context(), tr); err != nil {
		return err
	}

	if err := bus.Flush(); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "published transition %s -> %s for node %s\n",
		tr.OldState, tr.NewState, tr.Node)

	return nil
}
