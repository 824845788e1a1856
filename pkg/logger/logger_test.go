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
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	err := Init(context.Background(), &Config{Level: "warn", Output: "stdout"})
	require.NoError(t, err)

	assert.Equal(t, zerolog.WarnLevel, GetLogger().GetLevel())

	err = Init(context.Background(), &Config{Level: "info", Debug: true})
	require.NoError(t, err)

	assert.Equal(t, zerolog.DebugLevel, GetLogger().GetLevel())
}

func TestInitRejectsUnknownLevel(t *testing.T) {
	err := Init(context.Background(), &Config{Level: "chatty"})
	require.Error(t, err)
}

func TestSetDebug(t *testing.T) {
	SetDebug(true)
	assert.Equal(t, zerolog.DebugLevel, GetLogger().GetLevel())

	SetDebug(false)
	assert.Equal(t, zerolog.InfoLevel, GetLogger().GetLevel())
}

func TestDefaultConfigFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("LOG_OUTPUT", "stderr")
	t.Setenv("OTEL_EXPORTER_OTLP_LOGS_HEADERS", "x-token=abc, x-org = lab")
	t.Setenv("OTEL_LOGS_ENABLED", "yes")

	cfg := DefaultConfig()

	assert.Equal(t, "error", cfg.Level)
	assert.Equal(t, "stderr", cfg.Output)
	assert.True(t, cfg.OTel.Enabled)
	assert.Equal(t, map[string]string{"x-token": "abc", "x-org": "lab"}, cfg.OTel.Headers)
	assert.Equal(t, defaultServiceName, cfg.OTel.ServiceName)
}

func TestWrapLevels(t *testing.T) {
	t.Parallel()

	l := Wrap(zerolog.Nop())
	l.SetDebug(true)
	l.SetLevel(zerolog.ErrorLevel)

	assert.NotPanics(t, func() {
		l.Info().Str("k", "v").Msg("dropped")
		l.WithComponent("ucs").Error().Msg("kept")
	})
}

func TestNewTestLoggerDiscards(t *testing.T) {
	t.Parallel()

	l := NewTestLogger()
	assert.NotPanics(t, func() {
		l.Error().Err(assert.AnError).Msg("discarded")
	})
}
