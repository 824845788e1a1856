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

package pollerhelper

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/obmpoller/pkg/logger"
	"github.com/carverauto/obmpoller/pkg/models"
	"github.com/carverauto/obmpoller/pkg/natsutil"
)

// MockAlertPublisher is a mock implementation of AlertPublisher
type MockAlertPublisher struct {
	mock.Mock
}

func (m *MockAlertPublisher) PublishNodeAlert(ctx context.Context, alert *models.NodeAlert) error {
	args := m.Called(ctx, alert)

	return args.Error(0)
}

type fakeTransitionSource struct {
	mu           sync.Mutex
	handler      func(*models.AccessibilityTransition)
	subscribed   chan struct{}
	unsubscribed bool
	err          error
}

func newFakeTransitionSource() *fakeTransitionSource {
	return &fakeTransitionSource{subscribed: make(chan struct{})}
}

func (f *fakeTransitionSource) SubscribeTransitions(h func(*models.AccessibilityTransition)) (natsutil.Subscription, error) {
	if f.err != nil {
		return nil, f.err
	}

	f.mu.Lock()
	f.handler = h
	f.mu.Unlock()

	close(f.subscribed)

	return f, nil
}

func (f *fakeTransitionSource) Unsubscribe() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.unsubscribed = true

	return nil
}

func (f *fakeTransitionSource) deliver(tr *models.AccessibilityTransition) {
	f.mu.Lock()
	h := f.handler
	f.mu.Unlock()

	h(tr)
}

func TestWatcherProcessPublishesAlert(t *testing.T) {
	t.Parallel()

	finder := &MockWorkItemFinder{}
	nodes := &MockNodeRegistry{}
	publisher := &MockAlertPublisher{}

	node := &models.Node{ID: "node-1"}

	finder.On("FindPollers", mock.Anything, mock.Anything).Return(pollers(inaccessible), nil)
	nodes.On("FindByIdentifier", mock.Anything, "node-1").Return(node, nil)
	publisher.On("PublishNodeAlert", mock.Anything, mock.MatchedBy(func(a *models.NodeAlert) bool {
		return a.Node == node && a.NewState == accessible
	})).Return(nil).Once()

	w := NewWatcher(newFakeTransitionSource(), newTestEvaluator(finder, nodes), publisher, logger.NewTestLogger())

	err := w.Process(context.Background(), &models.AccessibilityTransition{
		Node:       "node-1",
		WorkItemID: "wi-ipmi",
		OldState:   inaccessible,
		NewState:   accessible,
	})
	require.NoError(t, err)

	publisher.AssertExpectations(t)
}

func TestWatcherProcessSkipsPublishWithoutAlert(t *testing.T) {
	t.Parallel()

	finder := &MockWorkItemFinder{}
	publisher := &MockAlertPublisher{}

	finder.On("FindPollers", mock.Anything, mock.Anything).Return(pollers(accessible), nil)

	w := NewWatcher(newFakeTransitionSource(), newTestEvaluator(finder, &MockNodeRegistry{}), publisher, nil)

	err := w.Process(context.Background(), &models.AccessibilityTransition{
		Node:     "node-1",
		OldState: inaccessible,
		NewState: accessible,
	})
	require.NoError(t, err)

	publisher.AssertNotCalled(t, "PublishNodeAlert", mock.Anything, mock.Anything)
}

func TestWatcherProcessPublishError(t *testing.T) {
	t.Parallel()

	finder := &MockWorkItemFinder{}
	nodes := &MockNodeRegistry{}
	publisher := &MockAlertPublisher{}
	pubErr := errors.New("jetstream unavailable")

	finder.On("FindPollers", mock.Anything, mock.Anything).Return(nil, nil)
	nodes.On("FindByIdentifier", mock.Anything, "node-1").Return(&models.Node{ID: "node-1"}, nil)
	publisher.On("PublishNodeAlert", mock.Anything, mock.Anything).Return(pubErr)

	w := NewWatcher(newFakeTransitionSource(), newTestEvaluator(finder, nodes), publisher, nil)

	err := w.Process(context.Background(), &models.AccessibilityTransition{
		Node:     "node-1",
		OldState: inaccessible,
		NewState: accessible,
	})
	require.ErrorIs(t, err, pubErr)
}

func TestWatcherStartStop(t *testing.T) {
	t.Parallel()

	finder := &MockWorkItemFinder{}
	nodes := &MockNodeRegistry{}
	publisher := &MockAlertPublisher{}
	published := make(chan *models.NodeAlert, 1)

	finder.On("FindPollers", mock.Anything, mock.Anything).Return(pollers(inaccessible), nil)
	nodes.On("FindByIdentifier", mock.Anything, "node-1").Return(&models.Node{ID: "node-1"}, nil)
	publisher.On("PublishNodeAlert", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { published <- args.Get(1).(*models.NodeAlert) }).
		Return(nil)

	source := newFakeTransitionSource()
	w := NewWatcher(source, newTestEvaluator(finder, nodes), publisher, nil)

	errCh := make(chan error, 1)

	go func() { errCh <- w.Start(context.Background()) }()

	select {
	case <-source.subscribed:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher never subscribed")
	}

	source.deliver(&models.AccessibilityTransition{Node: "node-1", OldState: accessible, NewState: accessible})
	source.deliver(&models.AccessibilityTransition{Node: "node-1", OldState: inaccessible, NewState: accessible})

	select {
	case alert := <-published:
		assert.Equal(t, "node-1", alert.Node.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("alert was not published")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	require.NoError(t, w.Stop(ctx))
	require.NoError(t, <-errCh)

	source.mu.Lock()
	assert.True(t, source.unsubscribed)
	source.mu.Unlock()

	require.ErrorIs(t, w.Start(context.Background()), errWatcherStarted)
}

func TestWatcherStartSubscribeError(t *testing.T) {
	t.Parallel()

	source := newFakeTransitionSource()
	source.err = errors.New("not connected")

	w := NewWatcher(source, newTestEvaluator(&MockWorkItemFinder{}, &MockNodeRegistry{}), &MockAlertPublisher{}, nil)

	require.ErrorIs(t, w.Start(context.Background()), source.err)
	require.NoError(t, w.Stop(context.Background()))
}
