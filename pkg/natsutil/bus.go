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

package natsutil

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/carverauto/obmpoller/pkg/logger"
	"github.com/carverauto/obmpoller/pkg/models"
)

const (
	triggerSubjectPrefix    = "ucs.command."
	resultSubjectPrefix     = "ucs.result."
	transitionSubjectPrefix = "pollers.state."
)

// TriggerSubject is where poll triggers for a routing key arrive.
func TriggerSubject(routingKey string) string {
	return triggerSubjectPrefix + routingKey
}

// ResultSubject is where poll results for a routing key and command are published.
func ResultSubject(routingKey, command string) string {
	return resultSubjectPrefix + routingKey + "." + command
}

// TransitionSubject is where accessibility changes for a node are published.
func TransitionSubject(nodeID string) string {
	return transitionSubjectPrefix + nodeID
}

// Subscription is an active bus subscription.
type Subscription interface {
	Unsubscribe() error
}

// Bus carries poll triggers, poll results and accessibility transitions as
// JSON over core NATS subjects.
type Bus struct {
	nc     *nats.Conn
	logger logger.Logger
}

// NewBus wraps an established connection.
func NewBus(nc *nats.Conn, log logger.Logger) *Bus {
	return &Bus{nc: nc, logger: log}
}

// Subscribe delivers every poll trigger for routingKey to handler. Payloads
// that do not decode are logged and dropped. Handlers run on the
// subscription's delivery goroutine and must not block.
func (b *Bus) Subscribe(routingKey string, handler func(*models.PollRequest)) (Subscription, error) {
	subject := TriggerSubject(routingKey)

	sub, err := b.nc.Subscribe(subject, func(msg *nats.Msg) {
		var req models.PollRequest
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			b.logger.Warn().Err(err).Str("subject", msg.Subject).Msg("Dropping undecodable poll trigger")

			return
		}

		handler(&req)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", subject, err)
	}

	return sub, nil
}

// Publish sends a poll result for routingKey and command.
func (b *Bus) Publish(_ context.Context, routingKey, command string, req *models.PollRequest) error {
	return b.publishJSON(ResultSubject(routingKey, command), req)
}

// PublishTrigger sends a poll trigger to the job listening on routingKey.
func (b *Bus) PublishTrigger(_ context.Context, routingKey string, req *models.PollRequest) error {
	return b.publishJSON(TriggerSubject(routingKey), req)
}

// SubscribeResults delivers results for every command of routingKey.
func (b *Bus) SubscribeResults(routingKey string, handler func(command string, req *models.PollRequest)) (Subscription, error) {
	subject := resultSubjectPrefix + routingKey + ".>"
	prefixLen := len(resultSubjectPrefix + routingKey + ".")

	sub, err := b.nc.Subscribe(subject, func(msg *nats.Msg) {
		var req models.PollRequest
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			b.logger.Warn().Err(err).Str("subject", msg.Subject).Msg("Dropping undecodable poll result")

			return
		}

		handler(msg.Subject[prefixLen:], &req)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", subject, err)
	}

	return sub, nil
}

// SubscribeTransitions delivers accessibility transitions for every node.
func (b *Bus) SubscribeTransitions(handler func(*models.AccessibilityTransition)) (Subscription, error) {
	subject := transitionSubjectPrefix + "*"

	sub, err := b.nc.Subscribe(subject, func(msg *nats.Msg) {
		var tr models.AccessibilityTransition
		if err := json.Unmarshal(msg.Data, &tr); err != nil {
			b.logger.Warn().Err(err).Str("subject", msg.Subject).Msg("Dropping undecodable accessibility transition")

			return
		}

		if tr.Node == "" {
			tr.Node = msg.Subject[len(transitionSubjectPrefix):]
		}

		handler(&tr)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", subject, err)
	}

	return sub, nil
}

// PublishTransition announces an accessibility change.
func (b *Bus) PublishTransition(_ context.Context, tr *models.AccessibilityTransition) error {
	return b.publishJSON(TransitionSubject(tr.Node), tr)
}

// Flush waits for the server to acknowledge everything published so far.
func (b *Bus) Flush() error {
	return b.nc.Flush()
}

func (b *Bus) publishJSON(subject string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal payload for %s: %w", subject, err)
	}

	if err := b.nc.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", subject, err)
	}

	return nil
}
