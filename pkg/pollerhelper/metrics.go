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
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/carverauto/obmpoller/pkg/models"
)

const (
	alertsMeterName        = "github.com/carverauto/obmpoller/pkg/pollerhelper"
	metricNodeAlertsTotal  = "node_alerts_total"
	metricEvalFailureTotal = "node_alert_evaluation_failures_total"
)

var (
	alertMetricsOnce sync.Once

	nodeAlertsCounter  metric.Int64Counter
	evalFailureCounter metric.Int64Counter
)

func initAlertMetrics() {
	meter := otel.Meter(alertsMeterName)

	if counter, err := meter.Int64Counter(
		metricNodeAlertsTotal,
		metric.WithDescription("Node accessibility alerts raised, by new poller state"),
	); err != nil {
		otel.Handle(err)
	} else {
		nodeAlertsCounter = counter
	}

	if counter, err := meter.Int64Counter(
		metricEvalFailureTotal,
		metric.WithDescription("Accessibility transitions that could not be evaluated or published"),
	); err != nil {
		otel.Handle(err)
	} else {
		evalFailureCounter = counter
	}
}

func recordNodeAlert(ctx context.Context, state models.PollerState) {
	alertMetricsOnce.Do(initAlertMetrics)

	if nodeAlertsCounter != nil {
		nodeAlertsCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("state", string(state))))
	}
}

func recordEvaluationFailure(ctx context.Context, stage string) {
	alertMetricsOnce.Do(initAlertMetrics)

	if evalFailureCounter != nil {
		evalFailureCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("stage", stage)))
	}
}
