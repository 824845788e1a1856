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
	"testing"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/obmpoller/pkg/logger"
	"github.com/carverauto/obmpoller/pkg/models"
)

var errTestFixture = errors.New("fixture error")

func runJetStreamServer(t *testing.T, opts *server.Options) *server.Server {
	t.Helper()

	if opts == nil {
		opts = &server.Options{}
	}

	opts.Host = "127.0.0.1"
	opts.Port = -1
	opts.JetStream = true
	opts.StoreDir = t.TempDir()
	opts.NoLog = true
	opts.NoSigs = true

	srv, err := server.NewServer(opts)
	require.NoError(t, err)

	go srv.Start()

	if !srv.ReadyForConnections(10 * time.Second) {
		srv.Shutdown()
		t.Fatalf("embedded NATS server not ready for connections")
	}

	require.Eventually(t, func() bool {
		return srv.JetStreamEnabled()
	}, 5*time.Second, 50*time.Millisecond, "embedded NATS server not ready for JetStream")

	t.Cleanup(srv.Shutdown)

	return srv
}

func TestEnsureSubjectList(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		subjects []string
		want     []string
	}{
		{
			name:     "adds subject when list empty",
			subjects: nil,
			want:     []string{NodeAccessibilitySubject},
		},
		{
			name:     "keeps list when wildcard matches",
			subjects: []string{"events.node.*"},
			want:     []string{"events.node.*"},
		},
		{
			name:     "keeps list when greater wildcard matches",
			subjects: []string{"events.>"},
			want:     []string{"events.>"},
		},
		{
			name:     "appends when unmatched",
			subjects: []string{"events.poller.*"},
			want:     []string{"events.poller.*", NodeAccessibilitySubject},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := ensureSubjectList(append([]string(nil), tc.subjects...), NodeAccessibilitySubject)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestMatchesSubject(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		pattern  string
		subject  string
		expected bool
	}{
		{"exact match", "events.node.accessibility", "events.node.accessibility", true},
		{"single wildcard", "events.*.accessibility", "events.node.accessibility", true},
		{"greater wildcard", "events.>", "events.node.accessibility", true},
		{"greater wildcard needs a token", "events.node.accessibility.>", "events.node.accessibility", false},
		{"no match length", "events.*", "events.node.accessibility", false},
		{"no match tokens", "logs.syslog.*", "events.node.accessibility", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.expected, matchesSubject(tc.pattern, tc.subject))
		})
	}
}

func TestIsStreamMissingErr(t *testing.T) {
	t.Parallel()

	assert.True(t, isStreamMissingErr(jetstream.ErrStreamNotFound))
	assert.True(t, isStreamMissingErr(nats.ErrNoResponders))
	assert.False(t, isStreamMissingErr(errTestFixture))
}

func TestCreateEventPublisherAndPublishNodeAlert(t *testing.T) {
	srv := runJetStreamServer(t, nil)
	log := logger.NewTestLogger()

	nc, err := nats.Connect(srv.ClientURL())
	require.NoError(t, err)
	t.Cleanup(nc.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pub, err := CreateEventPublisher(ctx, nc, "", "EVENTS", []string{"events.poller.*"}, log)
	require.NoError(t, err)

	js, err := jetstream.New(nc)
	require.NoError(t, err)

	stream, err := js.Stream(ctx, "EVENTS")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"events.poller.*", NodeAccessibilitySubject}, stream.CachedInfo().Config.Subjects)

	alert := &models.NodeAlert{
		Node:       &models.Node{ID: "node-1", Name: "compute-01"},
		WorkItemID: "wi-1",
		OldState:   models.PollerStateAccessible,
		NewState:   models.PollerStateInaccessible,
	}
	require.NoError(t, pub.PublishNodeAlert(ctx, alert))

	msg, err := stream.GetLastMsgForSubject(ctx, NodeAccessibilitySubject)
	require.NoError(t, err)

	var event struct {
		models.CloudEvent
		Data models.NodeAlert `json:"data"`
	}
	require.NoError(t, json.Unmarshal(msg.Data, &event))

	assert.Equal(t, "1.0", event.SpecVersion)
	assert.Equal(t, models.NodeAccessibilityEventType, event.Type)
	assert.Equal(t, "node-1", event.Subject)
	assert.Equal(t, "compute-01", event.Data.Node.Name)
	assert.Equal(t, models.PollerStateInaccessible, event.Data.NewState)

	// A second bind leaves an already covering stream alone.
	_, err = CreateEventPublisher(ctx, nc, "", "EVENTS", nil, log)
	require.NoError(t, err)
}
