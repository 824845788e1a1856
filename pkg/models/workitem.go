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

import (
	"encoding/json"
	"time"
)

// PollerState is the accessibility of a single poller against its node.
type PollerState string

const (
	PollerStateAccessible   PollerState = "accessible"
	PollerStateInaccessible PollerState = "inaccessible"
)

const (
	// WorkItemNameUCS names the recurring UCS telemetry work items.
	WorkItemNameUCS  = "Pollers.UCS"
	WorkItemNameSNMP = "Pollers.SNMP"
	WorkItemNameIPMI = "Pollers.IPMI"
)

// WorkItem is a persisted recurring poll task.
type WorkItem struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Node          string          `json:"node"`
	Config        json.RawMessage `json:"config,omitempty"`
	PollInterval  int64           `json:"pollInterval"` // milliseconds
	State         PollerState     `json:"state"`
	FailureCount  int             `json:"failureCount"`
	LastStarted   *time.Time      `json:"lastStarted,omitempty"`
	LastFinished  *time.Time      `json:"lastFinished,omitempty"`
	NextScheduled *time.Time      `json:"nextScheduled,omitempty"`
	LeaseToken    string          `json:"leaseToken,omitempty"`
	LeaseExpires  *time.Time      `json:"leaseExpires,omitempty"`
}

// WorkItemQuery selects work items. Zero-valued fields do not filter.
type WorkItemQuery struct {
	Node               string
	Names              []string
	MinPollInterval    int64 // exclusive lower bound, -1 disables
	ExcludeWorkItemIDs []string
}

// AccessibilityTransition is published whenever a poller's accessibility changes.
type AccessibilityTransition struct {
	Node       string      `json:"node"`
	WorkItemID string      `json:"workItemId,omitempty"`
	Poller     string      `json:"poller,omitempty"`
	OldState   PollerState `json:"oldState"`
	NewState   PollerState `json:"newState"`
}
