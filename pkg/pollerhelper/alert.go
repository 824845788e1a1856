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

// Package pollerhelper decides when a node crosses the boundary between fully
// inaccessible and reachable, and turns poller accessibility transitions into
// node alerts.
package pollerhelper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/carverauto/obmpoller/pkg/logger"
	"github.com/carverauto/obmpoller/pkg/models"
	"github.com/carverauto/obmpoller/pkg/natsutil"
)

var (
	errNodeRequired    = errors.New("node id is required")
	errNodeNotResolved = errors.New("node registry returned no node")
)

// WorkItemFinder lists the pollers attached to a node.
type WorkItemFinder interface {
	FindPollers(ctx context.Context, q models.WorkItemQuery) ([]*models.WorkItem, error)
}

// NodeRegistry resolves a node record by identifier.
type NodeRegistry interface {
	FindByIdentifier(ctx context.Context, identifier string) (*models.Node, error)
}

// AlertPublisher delivers node alerts.
type AlertPublisher interface {
	PublishNodeAlert(ctx context.Context, alert *models.NodeAlert) error
}

// TransitionSource delivers poller accessibility transitions.
type TransitionSource interface {
	SubscribeTransitions(handler func(*models.AccessibilityTransition)) (natsutil.Subscription, error)
}

// DefaultPollerNames are the interval pollers whose states decide node accessibility.
func DefaultPollerNames() []string {
	return []string{models.WorkItemNameSNMP, models.WorkItemNameIPMI}
}

// Evaluator applies the node accessibility alert rule.
type Evaluator struct {
	workItems   WorkItemFinder
	nodes       NodeRegistry
	pollerNames []string
	logger      logger.Logger
	now         func() time.Time
}

// EvaluatorOption configures an Evaluator.
type EvaluatorOption func(*Evaluator)

// WithPollerNames overrides which poller names count as siblings.
func WithPollerNames(names ...string) EvaluatorOption {
	return func(e *Evaluator) {
		if len(names) > 0 {
			e.pollerNames = append([]string(nil), names...)
		}
	}
}

// WithClock sets the alert timestamp source.
func WithClock(now func() time.Time) EvaluatorOption {
	return func(e *Evaluator) {
		e.now = now
	}
}

// NewEvaluator builds an Evaluator.
func NewEvaluator(workItems WorkItemFinder, nodes NodeRegistry, log logger.Logger, opts ...EvaluatorOption) *Evaluator {
	if log == nil {
		log = logger.NewTestLogger()
	}

	e := &Evaluator{
		workItems:   workItems,
		nodes:       nodes,
		pollerNames: DefaultPollerNames(),
		logger:      logger.Wrap(log.WithComponent("node-alerts")),
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Evaluate reports whether a poller moving from oldState to newState on
// nodeID should raise a node alert. A nil alert with a nil error means no
// alert.
func (e *Evaluator) Evaluate(ctx context.Context, nodeID string, oldState, newState models.PollerState) (*models.NodeAlert, error) {
	return e.EvaluateTransition(ctx, &models.AccessibilityTransition{
		Node:     nodeID,
		OldState: oldState,
		NewState: newState,
	})
}

// EvaluateTransition is Evaluate with the transitioning work item known, so
// its stored state is left out of the sibling set.
func (e *Evaluator) EvaluateTransition(ctx context.Context, tr *models.AccessibilityTransition) (*models.NodeAlert, error) {
	if tr.OldState == tr.NewState {
		return nil, nil
	}

	if tr.Node == "" {
		return nil, errNodeRequired
	}

	q := models.WorkItemQuery{
		Node:            tr.Node,
		Names:           e.pollerNames,
		MinPollInterval: 0,
	}

	if tr.WorkItemID != "" {
		q.ExcludeWorkItemIDs = []string{tr.WorkItemID}
	}

	siblings, err := e.workItems.FindPollers(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("find pollers for node %s: %w", tr.Node, err)
	}

	states := make([]models.PollerState, 0, len(siblings)+1)
	for _, item := range siblings {
		states = append(states, item.State)
	}

	states = append(states, tr.NewState)

	if countAccessible(states) != 1 {
		return nil, nil
	}

	node, err := e.nodes.FindByIdentifier(ctx, tr.Node)
	if err != nil {
		return nil, fmt.Errorf("look up node %s: %w", tr.Node, err)
	}

	if node == nil {
		return nil, fmt.Errorf("%w: %s", errNodeNotResolved, tr.Node)
	}

	recordNodeAlert(ctx, tr.NewState)

	e.logger.Info().
		Str("node", tr.Node).
		Str("old_state", string(tr.OldState)).
		Str("new_state", string(tr.NewState)).
		Int("pollers", len(states)).
		Msg("Node accessibility boundary crossed")

	return &models.NodeAlert{
		Node:       node,
		WorkItemID: tr.WorkItemID,
		OldState:   tr.OldState,
		NewState:   tr.NewState,
		Timestamp:  e.now().UTC(),
	}, nil
}

func countAccessible(states []models.PollerState) int {
	n := 0

	for _, s := range states {
		if s == models.PollerStateAccessible {
			n++
		}
	}

	return n
}
