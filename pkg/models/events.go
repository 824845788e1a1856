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
package models

import "time"

const (
	// CloudEventSpecVersion is the CloudEvents version stamped on published events.
	CloudEventSpecVersion = "1.0"

	// NodeAccessibilityEventType identifies node accessibility alerts.
	NodeAccessibilityEventType = "com.carverauto.obmpoller.node.accessibility"
)

// CloudEvent is the CloudEvents 1.0 envelope used for everything published to JetStream.
type CloudEvent struct {
	SpecVersion     string      `json:"specversion"`
	ID              string      `json:"id"`
	Source          string      `json:"source"`
	Type            string      `json:"type"`
	DataContentType string      `json:"datacontenttype"`
	Subject         string      `json:"subject,omitempty"`
	Time            *time.Time  `json:"time,omitempty"`
	Data            interface{} `json:"data,omitempty"`
}

// NewNodeAlertEvent wraps alert in a CloudEvent. The event subject is the
// node ID and the time defaults to now when the alert carries none.
func NewNodeAlertEvent(id, source string, alert *NodeAlert) CloudEvent {
	ts := alert.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	subject := ""
	if alert.Node != nil {
		subject = alert.Node.ID
	}

	return CloudEvent{
		SpecVersion:     CloudEventSpecVersion,
		ID:              id,
		Source:          source,
		Type:            NodeAccessibilityEventType,
		DataContentType: "application/json",
		Subject:         subject,
		Time:            &ts,
		Data:            alert,
	}
}
