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
	"testing"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nkeys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/obmpoller/pkg/logger"
	"github.com/carverauto/obmpoller/pkg/models"
)

const testRoutingKey = "3f0c9a0e-5b8e-4c4b-9a57-6d2d8a9f1c11"

func connectBus(t *testing.T) *Bus {
	t.Helper()

	srv := runJetStreamServer(t, nil)

	nc, err := Connect(context.Background(), &Config{URL: srv.ClientURL()}, logger.NewTestLogger())
	require.NoError(t, err)
	t.Cleanup(nc.Close)

	return NewBus(nc, logger.NewTestLogger())
}

func TestSubjects(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ucs.command."+testRoutingKey, TriggerSubject(testRoutingKey))
	assert.Equal(t, "ucs.result."+testRoutingKey+".ucs.fan", ResultSubject(testRoutingKey, "ucs.fan"))
	assert.Equal(t, "pollers.state.node-1", TransitionSubject("node-1"))
}

func TestBusTriggerAndResultRoundTrip(t *testing.T) {
	bus := connectBus(t)
	ctx := context.Background()

	triggers := make(chan *models.PollRequest, 1)

	sub, err := bus.Subscribe(testRoutingKey, func(req *models.PollRequest) { triggers <- req })
	require.NoError(t, err)

	defer func() { _ = sub.Unsubscribe() }()

	results := make(chan string, 1)

	resSub, err := bus.SubscribeResults(testRoutingKey, func(command string, req *models.PollRequest) {
		results <- command + "|" + string(req.Result)
	})
	require.NoError(t, err)

	defer func() { _ = resSub.Unsubscribe() }()

	require.NoError(t, bus.Flush())

	// Garbage on the trigger subject is dropped without reaching the handler.
	require.NoError(t, bus.nc.Publish(TriggerSubject(testRoutingKey), []byte("not json")))

	req := &models.PollRequest{Node: "node-1", WorkItemID: "wi-1", Config: models.PollCommandConfig{Command: "ucs.fan"}}
	require.NoError(t, bus.PublishTrigger(ctx, testRoutingKey, req))

	select {
	case got := <-triggers:
		assert.Equal(t, "node-1", got.Node)
		assert.Equal(t, "ucs.fan", got.Command())
	case <-time.After(5 * time.Second):
		t.Fatal("trigger not delivered")
	}

	req.Result = []byte(`{"fans":2}`)
	require.NoError(t, bus.Publish(ctx, testRoutingKey, "ucs.fan", req))

	select {
	case got := <-results:
		assert.Equal(t, `ucs.fan|{"fans":2}`, got)
	case <-time.After(5 * time.Second):
		t.Fatal("result not delivered")
	}
}

func TestBusTransitions(t *testing.T) {
	bus := connectBus(t)

	got := make(chan *models.AccessibilityTransition, 1)

	sub, err := bus.SubscribeTransitions(func(tr *models.AccessibilityTransition) { got <- tr })
	require.NoError(t, err)

	defer func() { _ = sub.Unsubscribe() }()

	require.NoError(t, bus.Flush())

	require.NoError(t, bus.PublishTransition(context.Background(), &models.AccessibilityTransition{
		Node:     "node-7",
		Poller:   models.WorkItemNameSNMP,
		OldState: models.PollerStateAccessible,
		NewState: models.PollerStateInaccessible,
	}))

	select {
	case tr := <-got:
		assert.Equal(t, "node-7", tr.Node)
		assert.Equal(t, models.PollerStateInaccessible, tr.NewState)
	case <-time.After(5 * time.Second):
		t.Fatal("transition not delivered")
	}
}

func TestConnectWithNKeySeed(t *testing.T) {
	user, err := nkeys.CreateUser()
	require.NoError(t, err)

	pub, err := user.PublicKey()
	require.NoError(t, err)

	seed, err := user.Seed()
	require.NoError(t, err)

	srv := runJetStreamServer(t, &server.Options{Nkeys: []*server.NkeyUser{{Nkey: pub}}})

	nc, err := Connect(context.Background(), &Config{URL: srv.ClientURL(), NKeySeed: string(seed)}, logger.NewTestLogger())
	require.NoError(t, err)
	nc.Close()

	_, err = nats.Connect(srv.ClientURL())
	require.Error(t, err)
}

func TestConnectRejectsBadConfig(t *testing.T) {
	t.Parallel()

	_, err := Connect(context.Background(), &Config{}, logger.NewTestLogger())
	require.ErrorIs(t, err, errURLRequired)

	_, err = Connect(context.Background(), &Config{URL: "nats://127.0.0.1:1", NKeySeed: "SUnotaseed"}, logger.NewTestLogger())
	require.Error(t, err)

	account, err := nkeys.CreateAccount()
	require.NoError(t, err)

	seed, err := account.Seed()
	require.NoError(t, err)

	_, err = nkeyOption(string(seed))
	require.ErrorIs(t, err, errNotUserSeed)
}

func TestConnectGivesUpAfterTimeout(t *testing.T) {
	t.Parallel()

	cfg := &Config{URL: "nats://127.0.0.1:1", ConnectTimeout: models.Duration(300 * time.Millisecond)}

	_, err := Connect(context.Background(), cfg, logger.NewTestLogger())
	require.Error(t, err)
}
