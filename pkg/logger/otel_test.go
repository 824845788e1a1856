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

package logger

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	otellog "go.opentelemetry.io/otel/log"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOTELWriterValidation(t *testing.T) {
	t.Parallel()

	_, err := NewOTELWriter(context.Background(), OTelConfig{})
	require.ErrorIs(t, err, ErrOTelLoggingDisabled)

	_, err = NewOTELWriter(context.Background(), OTelConfig{Enabled: true})
	require.ErrorIs(t, err, ErrOTelEndpointRequired)
}

func TestInitializeMetricsDisabled(t *testing.T) {
	t.Parallel()

	_, err := InitializeMetrics(context.Background(), MetricsConfig{})
	require.ErrorIs(t, err, ErrOTelMetricsDisabled)
}

func TestRecordFromEntry(t *testing.T) {
	t.Parallel()

	entry := map[string]interface{}{
		"time":    "2025-01-02T03:04:05Z",
		"level":   "warn",
		"message": "poll rejected",
		"node":    "node-1",
	}

	record := recordFromEntry(entry)

	assert.Equal(t, otellog.SeverityWarn, record.Severity())
	assert.Equal(t, "poll rejected", record.Body().AsString())
	assert.False(t, record.Timestamp().IsZero())
	assert.Equal(t, map[string]interface{}{"node": "node-1"}, entry)
}

func TestFormatAttributeValue(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "null", formatAttributeValue(nil))
	assert.Equal(t, "true", formatAttributeValue(true))
	assert.Equal(t, "42", formatAttributeValue(float64(42)))
	assert.Equal(t, `{"a":1}`, formatAttributeValue(map[string]interface{}{"a": 1}))

	long := strings.Repeat("x", maxAttributeValueLength+10)
	got := formatAttributeValue(long)
	assert.Len(t, got, maxAttributeValueLength)
	assert.True(t, strings.HasSuffix(got, "..."))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("boom") }

func TestMultiWriter(t *testing.T) {
	t.Parallel()

	var a, b bytes.Buffer

	n, err := NewMultiWriter(&a, &b).Write([]byte("line"))
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, "line", a.String())
	assert.Equal(t, "line", b.String())

	_, err = NewMultiWriter(&a, failingWriter{}).Write([]byte("x"))
	require.Error(t, err)
}
