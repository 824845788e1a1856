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

package ucs

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	ucsMeterName = "github.com/carverauto/obmpoller/pkg/ucs"

	metricAdmittedTotal  = "ucs_poll_admitted_total"
	metricRejectedTotal  = "ucs_poll_rejected_total"
	metricFailedTotal    = "ucs_poll_failed_total"
	metricSucceededTotal = "ucs_poll_succeeded_total"
	metricInFlight       = "ucs_poll_inflight"
	metricDurationName   = "ucs_poll_duration_seconds"
)

// Pipeline stages, used as the "stage" attribute on failures.
const (
	stageAdmitting  = "admitting"
	stageExecuting  = "executing"
	stagePublishing = "publishing"
	stageCompleting = "completing"
)

var (
	ucsMetricsOnce sync.Once

	admittedCounter  metric.Int64Counter
	rejectedCounter  metric.Int64Counter
	failedCounter    metric.Int64Counter
	succeededCounter metric.Int64Counter
	inFlightGauge    metric.Int64UpDownCounter
	pollDuration     metric.Float64Histogram
)

func initUCSMetrics() {
	meter := otel.Meter(ucsMeterName)

	if counter, err := meter.Int64Counter(
		metricAdmittedTotal,
		metric.WithDescription("Poll triggers admitted past the concurrency gate"),
	); err != nil {
		otel.Handle(err)
	} else {
		admittedCounter = counter
	}

	if counter, err := meter.Int64Counter(
		metricRejectedTotal,
		metric.WithDescription("Poll triggers rejected because the node was at its concurrency limit"),
	); err != nil {
		otel.Handle(err)
	} else {
		rejectedCounter = counter
	}

	if counter, err := meter.Int64Counter(
		metricFailedTotal,
		metric.WithDescription("Admitted polls that failed, by pipeline stage"),
	); err != nil {
		otel.Handle(err)
	} else {
		failedCounter = counter
	}

	if counter, err := meter.Int64Counter(
		metricSucceededTotal,
		metric.WithDescription("Polls that published a result and marked their work item succeeded"),
	); err != nil {
		otel.Handle(err)
	} else {
		succeededCounter = counter
	}

	if gauge, err := meter.Int64UpDownCounter(
		metricInFlight,
		metric.WithDescription("Polls currently holding a concurrency slot"),
	); err != nil {
		otel.Handle(err)
	} else {
		inFlightGauge = gauge
	}

	if hist, err := meter.Float64Histogram(
		metricDurationName,
		metric.WithDescription("Time from admission to release for a poll"),
		metric.WithUnit("s"),
	); err != nil {
		otel.Handle(err)
	} else {
		pollDuration = hist
	}
}

func commandAttr(command string) metric.MeasurementOption {
	return metric.WithAttributes(attribute.String("command", command))
}

func recordAdmitted(ctx context.Context, command string) {
	ucsMetricsOnce.Do(initUCSMetrics)

	if admittedCounter != nil {
		admittedCounter.Add(ctx, 1, commandAttr(command))
	}

	if inFlightGauge != nil {
		inFlightGauge.Add(ctx, 1, commandAttr(command))
	}
}

func recordRejected(ctx context.Context, command string) {
	ucsMetricsOnce.Do(initUCSMetrics)

	if rejectedCounter != nil {
		rejectedCounter.Add(ctx, 1, commandAttr(command))
	}
}

// recordFinished closes out an admitted poll. An empty stage means success.
func recordFinished(ctx context.Context, command, failedStage string, elapsed time.Duration) {
	ucsMetricsOnce.Do(initUCSMetrics)

	if inFlightGauge != nil {
		inFlightGauge.Add(ctx, -1, commandAttr(command))
	}

	result := "success"

	if failedStage == "" {
		if succeededCounter != nil {
			succeededCounter.Add(ctx, 1, commandAttr(command))
		}
	} else {
		result = "failure"

		if failedCounter != nil {
			failedCounter.Add(ctx, 1, metric.WithAttributes(
				attribute.String("command", command),
				attribute.String("stage", failedStage),
			))
		}
	}

	if pollDuration != nil {
		pollDuration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(
			attribute.String("command", command),
			attribute.String("result", result),
		))
	}
}
