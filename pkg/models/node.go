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

// Node is a managed compute node as recorded in the node registry.
type Node struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Type        string            `json:"type"`
	Identifiers []string          `json:"identifiers,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	Data        json.RawMessage   `json:"data,omitempty"`
	Labels      map[string]string `json:"labels,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// NodeAlert is emitted when a node crosses the fully-inaccessible boundary.
type NodeAlert struct {
	Node       *Node       `json:"node"`
	WorkItemID string      `json:"workItemId,omitempty"`
	OldState   PollerState `json:"oldState"`
	NewState   PollerState `json:"newState"`
	Timestamp  time.Time   `json:"timestamp"`
}
