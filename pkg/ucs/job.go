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

// Package ucs runs the UCS telemetry poll job: it listens for poll triggers,
// bounds concurrent polls per node, fetches telemetry through the UCS service,
// publishes the result and marks the work item succeeded.
package ucs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/carverauto/obmpoller/pkg/db"
	"github.com/carverauto/obmpoller/pkg/logger"
	"github.com/carverauto/obmpoller/pkg/models"
	"github.com/carverauto/obmpoller/pkg/natsutil"
)

const tracerName = "github.com/carverauto/obmpoller/pkg/ucs"

var errPollPanicked = errors.New("poll pipeline panicked")

// Deps are the collaborators a Job needs.
type Deps struct {
	Store      WorkItemStore
	OBMs       OBMRegistry
	Bus        EventBus
	Transports TransportFactory
	Decrypter  Decrypter
	Logger     logger.Logger
}

func (d *Deps) validate() error {
	switch {
	case d.Store == nil:
		return fmt.Errorf("%w: work item store", errMissingDependency)
	case d.OBMs == nil:
		return fmt.Errorf("%w: obm registry", errMissingDependency)
	case d.Bus == nil:
		return fmt.Errorf("%w: event bus", errMissingDependency)
	case d.Transports == nil:
		return fmt.Errorf("%w: transport factory", errMissingDependency)
	case d.Decrypter == nil:
		return fmt.Errorf("%w: decrypter", errMissingDependency)
	}

	return nil
}

// Job is a single UCS poll job bound to one routing key.
type Job struct {
	routingKey string
	gate       *Gate
	executor   *Executor
	store      WorkItemStore
	obms       OBMRegistry
	bus        EventBus
	logger     logger.Logger
	tracer     trace.Tracer

	mu       sync.Mutex
	started  bool
	stopping bool
	sub      natsutil.Subscription
	cancel   context.CancelFunc
	wg       sync.WaitGroup

	done      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
}

// NewJob builds a job from cfg. The routing key must be a UUID; the command
// map defaults to DefaultCommandClassIDs and is copied.
func NewJob(cfg *Config, deps Deps) (*Job, error) {
	if err := validateRoutingKey(cfg.RoutingKey); err != nil {
		return nil, err
	}

	if err := deps.validate(); err != nil {
		return nil, err
	}

	commands := cfg.Commands
	if commands == nil {
		commands = DefaultCommandClassIDs()
	}

	if err := validateCommands(commands); err != nil {
		return nil, err
	}

	log := deps.Logger
	if log == nil {
		log = logger.NewTestLogger()
	}

	maxConcurrent := cfg.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = defaultMaxConcurrent
	}

	timeout := time.Duration(cfg.PollTimeout)
	if timeout <= 0 {
		timeout = defaultPollTimeout
	}

	return &Job{
		routingKey: cfg.RoutingKey,
		gate:       NewGate(maxConcurrent),
		executor:   NewExecutor(commands, deps.Transports, deps.Decrypter, timeout),
		store:      deps.Store,
		obms:       deps.OBMs,
		bus:        deps.Bus,
		logger:     logger.Wrap(log.WithComponent("ucs-job")),
		tracer:     otel.Tracer(tracerName),
		done:       make(chan struct{}),
		stopped:    make(chan struct{}),
	}, nil
}

// Gate exposes the job's concurrency gate.
func (j *Job) Gate() *Gate {
	return j.gate
}

// Start initialises the job, subscribes to poll triggers and blocks until ctx
// is cancelled or Stop is called. It returns an error only when the job could
// not start listening.
func (j *Job) Start(ctx context.Context) error {
	j.mu.Lock()
	if j.started {
		j.mu.Unlock()

		return errAlreadyStarted
	}

	j.started = true

	// In-flight polls may finish after ctx ends; Stop cancels them once its
	// own deadline passes.
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	j.cancel = cancel
	j.mu.Unlock()

	defer close(j.stopped)
	defer cancel()

	j.initialize(ctx)

	sub, err := j.bus.Subscribe(j.routingKey, func(req *models.PollRequest) {
		j.dispatch(runCtx, req)
	})
	if err != nil {
		j.logger.Error().Err(err).Str("routing_key", j.routingKey).Msg("Failed to subscribe to poll triggers")

		return fmt.Errorf("subscribe to poll triggers: %w", err)
	}

	j.mu.Lock()
	j.sub = sub
	j.mu.Unlock()

	j.logger.Info().
		Str("routing_key", j.routingKey).
		Int("max_concurrent", j.gate.MaxConcurrent()).
		Msg("UCS poll job listening")

	select {
	case <-ctx.Done():
	case <-j.done:
	}

	j.drain()

	return nil
}

// Stop asks a running job to stop and waits for in-flight polls. When ctx
// ends first the remaining polls are cancelled.
func (j *Job) Stop(ctx context.Context) error {
	j.closeOnce.Do(func() { close(j.done) })

	j.mu.Lock()
	started := j.started
	cancel := j.cancel
	j.mu.Unlock()

	if !started {
		return nil
	}

	select {
	case <-j.stopped:
		return nil
	case <-ctx.Done():
		if cancel != nil {
			cancel()
		}

		return ctx.Err()
	}
}

// initialize clears failure counts left over from earlier runs. Failures are
// logged and do not stop the job.
func (j *Job) initialize(ctx context.Context) {
	n, err := j.store.ResetFailureCount(ctx, models.WorkItemNameUCS)
	if err != nil {
		j.logger.Warn().Err(err).Str("work_item", models.WorkItemNameUCS).Msg("Failed to reset failure counts")

		return
	}

	j.logger.Debug().Int64("rows", n).Str("work_item", models.WorkItemNameUCS).Msg("Reset failure counts")
}

func (j *Job) dispatch(ctx context.Context, req *models.PollRequest) {
	j.mu.Lock()
	if j.stopping {
		j.mu.Unlock()
		j.logger.Debug().Str("node", req.Node).Msg("Dropping poll trigger received during shutdown")

		return
	}

	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()

		if err := j.Handle(ctx, req); err != nil {
			j.logFailure(req, err)
		}
	}()
}

func (j *Job) drain() {
	j.mu.Lock()
	j.stopping = true
	sub := j.sub
	j.mu.Unlock()

	if sub != nil {
		if err := sub.Unsubscribe(); err != nil {
			j.logger.Warn().Err(err).Msg("Failed to unsubscribe from poll triggers")
		}
	}

	j.wg.Wait()

	j.logger.Info().Str("routing_key", j.routingKey).Msg("UCS poll job stopped")
}

func (j *Job) logFailure(req *models.PollRequest, err error) {
	ev := j.logger.Error()

	if errors.Is(err, ErrConcurrencyLimit) {
		ev = j.logger.Warn()
	}

	ev.Err(err).
		Str("node", req.Node).
		Str("work_item", req.WorkItemID).
		Str("command", req.Command()).
		Msg("Poll failed")
}

// Handle runs one poll trigger through admission, execution, publication and
// completion. The concurrency slot is released on every path after admission,
// including panics, which are recovered and returned as errors.
func (j *Job) Handle(ctx context.Context, req *models.PollRequest) (err error) {
	node, kind, command := req.Node, req.WorkItemID, req.Command()

	ctx, span := j.tracer.Start(ctx, "ucs.poll", trace.WithAttributes(
		attribute.String("ucs.node", node),
		attribute.String("ucs.work_item", kind),
		attribute.String("ucs.command", command),
	))
	defer span.End()

	if !j.gate.TryAdmit(node, kind) {
		recordRejected(ctx, command)

		err = &ConcurrencyLimitError{Node: node, Kind: kind, MaxConcurrent: j.gate.MaxConcurrent()}
		span.SetStatus(otelcodes.Error, err.Error())

		return err
	}

	recordAdmitted(ctx, command)

	start := time.Now()
	stage := stageExecuting

	defer func() {
		if r := recover(); r != nil {
			j.logger.Error().
				Interface("panic", r).
				Str("node", node).
				Str("stage", stage).
				Msg("Recovered from panic in poll pipeline")

			err = fmt.Errorf("%w: %v", errPollPanicked, r)
		}

		j.gate.Release(node, kind)

		failedStage := ""
		if err != nil {
			failedStage = stage

			span.RecordError(err)
			span.SetStatus(otelcodes.Error, err.Error())
		}

		recordFinished(ctx, command, failedStage, time.Since(start))
	}()

	body, err := j.execute(ctx, req)
	if err != nil {
		return err
	}

	stage = stagePublishing

	if err = j.publish(ctx, req, body); err != nil {
		return err
	}

	stage = stageCompleting

	if err = j.complete(ctx, req); err != nil {
		return err
	}

	span.SetStatus(otelcodes.Ok, "poll completed")

	return nil
}

func (j *Job) execute(ctx context.Context, req *models.PollRequest) ([]byte, error) {
	setting, err := j.obms.FindByNode(ctx, req.Node, models.OBMServiceUCS, true)
	if errors.Is(err, db.ErrOBMNotFound) || (err == nil && setting == nil) {
		return nil, &ConfigurationError{Node: req.Node, Reason: "no UCS OBM setting for node"}
	}

	if err != nil {
		return nil, fmt.Errorf("look up obm setting for node %s: %w", req.Node, err)
	}

	return j.executor.Execute(ctx, req.Command(), &setting.Config)
}

func (j *Job) publish(ctx context.Context, req *models.PollRequest, body []byte) error {
	out := *req
	out.Result = resultPayload(body)

	if err := j.bus.Publish(ctx, j.routingKey, req.Command(), &out); err != nil {
		return fmt.Errorf("publish poll result: %w", err)
	}

	return nil
}

func (j *Job) complete(ctx context.Context, req *models.PollRequest) error {
	item, err := j.store.FindWorkItem(ctx, req.WorkItemID)
	if err != nil {
		return &StoreError{Op: "find work item", WorkItemID: req.WorkItemID, Err: err}
	}

	if item == nil {
		return &StoreError{Op: "find work item", WorkItemID: req.WorkItemID, Err: db.ErrWorkItemNotFound}
	}

	if err := j.store.SetSucceeded(ctx, "", item); err != nil {
		return &StoreError{Op: "mark work item succeeded", WorkItemID: req.WorkItemID, Err: err}
	}

	return nil
}

// resultPayload keeps JSON bodies as-is and wraps anything else as a JSON string.
func resultPayload(body []byte) json.RawMessage {
	if len(body) == 0 {
		return json.RawMessage("null")
	}

	if json.Valid(body) {
		return json.RawMessage(body)
	}

	quoted, _ := json.Marshal(string(body))

	return quoted
}
