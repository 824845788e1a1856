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

import "encoding/json"

// PollCommandConfig is the command portion of a poll trigger.
type PollCommandConfig struct {
	Command string `json:"command"`
}

// PollRequest is the payload of a poll trigger. Result is filled in after the
// poll and the same payload is republished to result consumers.
type PollRequest struct {
	Node       string            `json:"node"`
	WorkItemID string            `json:"workItemId"`
	Config     PollCommandConfig `json:"config"`
	Result     json.RawMessage   `json:"result,omitempty"`
}

// Command returns the requested command name.
func (r *PollRequest) Command() string {
	return r.Config.Command
}
