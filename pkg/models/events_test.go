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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNodeAlertEvent(t *testing.T) {
	t.Parallel()

	ts := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	alert := &NodeAlert{
		Node:      &Node{ID: "node-1"},
		OldState:  PollerStateAccessible,
		NewState:  PollerStateInaccessible,
		Timestamp: ts,
	}

	event := NewNodeAlertEvent("evt-1", "test", alert)

	assert.Equal(t, CloudEventSpecVersion, event.SpecVersion)
	assert.Equal(t, NodeAccessibilityEventType, event.Type)
	assert.Equal(t, "node-1", event.Subject)
	require.NotNil(t, event.Time)
	assert.True(t, ts.Equal(*event.Time))
	assert.Same(t, alert, event.Data)
}

func TestNewNodeAlertEventDefaults(t *testing.T) {
	t.Parallel()

	event := NewNodeAlertEvent("evt-2", "test", &NodeAlert{})

	assert.Empty(t, event.Subject)
	require.NotNil(t, event.Time)
	assert.False(t, event.Time.IsZero())
}
