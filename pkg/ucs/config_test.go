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
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/obmpoller/pkg/config"
	"github.com/carverauto/obmpoller/pkg/crypto/secrets"
	"github.com/carverauto/obmpoller/pkg/logger"
	"github.com/carverauto/obmpoller/pkg/models"
	"github.com/carverauto/obmpoller/pkg/natsutil"
)

func validConfig() *Config {
	return &Config{
		RoutingKey: testRoutingKey,
		UCSService: ServiceConfig{BaseURL: "http://ucs-service:7080"},
		Encryption: secrets.KeySource{Passphrase: "correct horse"},
		NATS:       natsutil.Config{URL: "nats://localhost:4222"},
	}
}

func TestConfigValidateDefaults(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Alerts.Enabled = true

	require.NoError(t, cfg.Validate())

	assert.Equal(t, defaultListenAddr, cfg.ListenAddr)
	assert.Equal(t, defaultServiceName, cfg.ServiceName)
	assert.Equal(t, 1, cfg.MaxConcurrent)
	assert.Equal(t, models.Duration(30*time.Second), cfg.PollTimeout)
	assert.Equal(t, DefaultCommandClassIDs(), cfg.Commands)
	assert.Equal(t, []string{models.WorkItemNameSNMP, models.WorkItemNameIPMI}, cfg.Alerts.PollerNames)
	assert.Equal(t, "EVENTS", cfg.NATS.Stream)
}

func TestConfigValidateErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{name: "missing routing key", mutate: func(c *Config) { c.RoutingKey = "" }, want: errRoutingKeyRequired},
		{name: "routing key not uuid", mutate: func(c *Config) { c.RoutingKey = "ucs-1" }, want: errInvalidRoutingKey},
		{name: "negative concurrency", mutate: func(c *Config) { c.MaxConcurrent = -1 }, want: errNegativeConcurrent},
		{name: "empty command map", mutate: func(c *Config) { c.Commands = map[string][]string{} }, want: errEmptyCommands},
		{name: "command without ids", mutate: func(c *Config) { c.Commands = map[string][]string{"ucs.fan": nil} }, want: errEmptyClassIDs},
		{name: "missing base url", mutate: func(c *Config) { c.UCSService.BaseURL = "" }, want: errBaseURLRequired},
		{name: "missing key", mutate: func(c *Config) { c.Encryption = secrets.KeySource{} }, want: secrets.ErrNoKeySource},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestConfigLoadsFromYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "ucs-poller.yaml")
	content := `
routing_key: ` + testRoutingKey + `
max_concurrent: 4
poll_timeout: 45s
ucs_service:
  base_url: https://ucs-service.lab:7443
encryption:
  passphrase: lab-passphrase
nats:
  url: nats://nats:4222
commands:
  ucs.fan: [equipmentFanStats, equipmentFanModuleStats]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	var cfg Config
	require.NoError(t, config.NewConfig(logger.NewTestLogger()).LoadAndValidate(context.Background(), path, &cfg))

	assert.Equal(t, 4, cfg.MaxConcurrent)
	assert.Equal(t, models.Duration(45*time.Second), cfg.PollTimeout)
	assert.Equal(t, []string{"equipmentFanStats", "equipmentFanModuleStats"}, cfg.Commands["ucs.fan"])
	assert.NotContains(t, cfg.Commands, CommandSEL)
}
