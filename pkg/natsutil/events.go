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
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/carverauto/obmpoller/pkg/logger"
	"github.com/carverauto/obmpoller/pkg/models"
)

const (
	// NodeAccessibilitySubject carries node accessibility alerts.
	NodeAccessibilitySubject = "events.node.accessibility"

	eventSource = "obmpoller/pollerhelper"
)

// EventPublisher provides methods for publishing CloudEvents to NATS JetStream.
type EventPublisher struct {
	js     jetstream.JetStream
	stream string
	logger logger.Logger
}

// NewEventPublisher creates a new EventPublisher for the specified stream.
func NewEventPublisher(js jetstream.JetStream, streamName string, log logger.Logger) *EventPublisher {
	return &EventPublisher{
		js:     js,
		stream: streamName,
		logger: log,
	}
}

// PublishNodeAlert publishes a node accessibility alert to the events stream.
func (p *EventPublisher) PublishNodeAlert(ctx context.Context, alert *models.NodeAlert) error {
	event := models.NewNodeAlertEvent(uuid.New().String(), eventSource, alert)

	eventBytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal node alert: %w", err)
	}

	ack, err := p.js.Publish(ctx, NodeAccessibilitySubject, eventBytes)
	if err != nil {
		return fmt.Errorf("failed to publish node alert: %w", err)
	}

	p.logger.Debug().
		Str("event_id", event.ID).
		Str("node", event.Subject).
		Uint64("seq", ack.Sequence).
		Msg("Published node accessibility alert")

	return nil
}

// CreateEventPublisher binds an EventPublisher to streamName, creating the
// stream or adding the alert subject to it when needed.
func CreateEventPublisher(ctx context.Context, nc *nats.Conn, domain, streamName string, subjects []string, log logger.Logger) (*EventPublisher, error) {
	var (
		js  jetstream.JetStream
		err error
	)

	if domain != "" {
		js, err = jetstream.NewWithDomain(nc, domain)
	} else {
		js, err = jetstream.New(nc)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	stream, err := js.Stream(ctx, streamName)
	switch {
	case err == nil:
		cfg := stream.CachedInfo().Config
		merged := ensureSubjectList(append([]string(nil), cfg.Subjects...), NodeAccessibilitySubject)

		if len(merged) != len(cfg.Subjects) {
			cfg.Subjects = merged

			if _, err := js.UpdateStream(ctx, cfg); err != nil {
				return nil, fmt.Errorf("failed to add %s to stream %s: %w", NodeAccessibilitySubject, streamName, err)
			}

			log.Info().Str("stream", streamName).Strs("subjects", merged).Msg("Updated NATS JetStream stream subjects")
		}
	case isStreamMissingErr(err):
		merged := ensureSubjectList(append([]string(nil), subjects...), NodeAccessibilitySubject)

		if _, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{Name: streamName, Subjects: merged}); err != nil {
			return nil, fmt.Errorf("failed to create stream %s: %w", streamName, err)
		}

		log.Info().Str("stream", streamName).Strs("subjects", merged).Msg("Created NATS JetStream stream")
	default:
		return nil, fmt.Errorf("failed to look up stream %s: %w", streamName, err)
	}

	return NewEventPublisher(js, streamName, log), nil
}

// ensureSubjectList appends subject unless an existing pattern already covers it.
func ensureSubjectList(subjects []string, subject string) []string {
	for _, pattern := range subjects {
		if matchesSubject(pattern, subject) {
			return subjects
		}
	}

	return append(subjects, subject)
}

// matchesSubject applies NATS wildcard rules ("*" one token, ">" the rest).
func matchesSubject(pattern, subject string) bool {
	pTokens := strings.Split(pattern, ".")
	sTokens := strings.Split(subject, ".")

	for i, tok := range pTokens {
		if tok == ">" {
			return len(sTokens) > i
		}

		if i >= len(sTokens) {
			return false
		}

		if tok != "*" && tok != sTokens[i] {
			return false
		}
	}

	return len(pTokens) == len(sTokens)
}

func isStreamMissingErr(err error) bool {
	return errors.Is(err, jetstream.ErrStreamNotFound) ||
		errors.Is(err, jetstream.ErrNoStreamResponse) ||
		errors.Is(err, nats.ErrStreamNotFound) ||
		errors.Is(err, nats.ErrNoStreamResponse) ||
		errors.Is(err, nats.ErrNoResponders)
}
