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
	"fmt"
	"sync"

	"github.com/carverauto/obmpoller/pkg/logger"
	"github.com/carverauto/obmpoller/pkg/models"
	"github.com/carverauto/obmpoller/pkg/natsutil"
)

var errWatcherStarted = errors.New("watcher already started")

// Watcher feeds accessibility transitions through an Evaluator and publishes
// the resulting node alerts.
type Watcher struct {
	source    TransitionSource
	evaluator *Evaluator
	publisher AlertPublisher
	logger    logger.Logger

	mu      sync.Mutex
	started bool
	sub     natsutil.Subscription

	done      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
}

// NewWatcher builds a Watcher.
func NewWatcher(source TransitionSource, evaluator *Evaluator, publisher AlertPublisher, log logger.Logger) *Watcher {
	if log == nil {
		log = logger.NewTestLogger()
	}

	return &Watcher{
		source:    source,
		evaluator: evaluator,
		publisher: publisher,
		logger:    logger.Wrap(log.WithComponent("accessibility-watcher")),
		done:      make(chan struct{}),
		stopped:   make(chan struct{}),
	}
}

// Start subscribes to transitions and blocks until ctx ends or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()

		return errWatcherStarted
	}

	w.started = true
	w.mu.Unlock()

	defer close(w.stopped)

	sub, err := w.source.SubscribeTransitions(func(tr *models.AccessibilityTransition) {
		if err := w.Process(ctx, tr); err != nil {
			w.logger.Error().Err(err).Str("node", tr.Node).Msg("Failed to process accessibility transition")
		}
	})
	if err != nil {
		return fmt.Errorf("subscribe to accessibility transitions: %w", err)
	}

	w.mu.Lock()
	w.sub = sub
	w.mu.Unlock()

	w.logger.Info().Msg("Watching poller accessibility transitions")

	select {
	case <-ctx.Done():
	case <-w.done:
	}

	if err := sub.Unsubscribe(); err != nil {
		w.logger.Warn().Err(err).Msg("Failed to unsubscribe from accessibility transitions")
	}

	return nil
}

// Stop ends a running watcher.
func (w *Watcher) Stop(ctx context.Context) error {
	w.closeOnce.Do(func() { close(w.done) })

	w.mu.Lock()
	started := w.started
	w.mu.Unlock()

	if !started {
		return nil
	}

	select {
	case <-w.stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Process evaluates one transition and publishes the alert, if any.
func (w *Watcher) Process(ctx context.Context, tr *models.AccessibilityTransition) error {
	alert, err := w.evaluator.EvaluateTransition(ctx, tr)
	if err != nil {
		recordEvaluationFailure(ctx, "evaluate")

		return err
	}

	if alert == nil {
		return nil
	}

	if err := w.publisher.PublishNodeAlert(ctx, alert); err != nil {
		recordEvaluationFailure(ctx, "publish")

		return fmt.Errorf("publish node alert: %w", err)
	}

	return nil
}
