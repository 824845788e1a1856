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
	"fmt"
	"time"

	"github.com/carverauto/obmpoller/pkg/crypto/secrets"
	"github.com/carverauto/obmpoller/pkg/logger"
	"github.com/carverauto/obmpoller/pkg/models"
	"github.com/carverauto/obmpoller/pkg/natsutil"
	"github.com/google/uuid"
)

const (
	defaultListenAddr     = ":50110"
	defaultServiceName    = "ucs-poller"
	defaultMaxConcurrent  = 1
	defaultPollTimeout    = 30 * time.Second
	defaultRequestTimeout = 60 * time.Second
)

// ServiceConfig points at the UCS service that fronts the managed controllers.
type ServiceConfig struct {
	BaseURL            string          `json:"base_url" yaml:"base_url"`
	InsecureSkipVerify bool            `json:"insecure_skip_verify,omitempty" yaml:"insecure_skip_verify,omitempty"`
	RequestTimeout     models.Duration `json:"request_timeout,omitempty" yaml:"request_timeout,omitempty"`
}

// AlertsConfig controls the node accessibility watcher.
type AlertsConfig struct {
	Enabled     bool     `json:"enabled" yaml:"enabled"`
	PollerNames []string `json:"poller_names,omitempty" yaml:"poller_names,omitempty"`
}

// Config is the ucs-poller service configuration.
type Config struct {
	ListenAddr    string                 `json:"listen_addr" yaml:"listen_addr"`
	ServiceName   string                 `json:"service_name" yaml:"service_name"`
	RoutingKey    string                 `json:"routing_key" yaml:"routing_key"`
	MaxConcurrent int                    `json:"max_concurrent,omitempty" yaml:"max_concurrent,omitempty"`
	PollTimeout   models.Duration        `json:"poll_timeout,omitempty" yaml:"poll_timeout,omitempty"`
	Commands      map[string][]string    `json:"commands,omitempty" yaml:"commands,omitempty"`
	UCSService    ServiceConfig          `json:"ucs_service" yaml:"ucs_service"`
	Encryption    secrets.KeySource      `json:"encryption" yaml:"encryption"`
	NATS          natsutil.Config        `json:"nats" yaml:"nats"`
	Database      models.DatabaseConfig  `json:"database" yaml:"database"`
	Alerts        AlertsConfig           `json:"alerts" yaml:"alerts"`
	Logging       *logger.Config         `json:"logging,omitempty" yaml:"logging,omitempty"`
	Security      *models.SecurityConfig `json:"security,omitempty" yaml:"security,omitempty"`
}

// Validate fills defaults and checks the settings the job cannot run without.
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		c.ListenAddr = defaultListenAddr
	}

	if c.ServiceName == "" {
		c.ServiceName = defaultServiceName
	}

	if err := validateRoutingKey(c.RoutingKey); err != nil {
		return err
	}

	if c.MaxConcurrent < 0 {
		return errNegativeConcurrent
	}

	if c.MaxConcurrent == 0 {
		c.MaxConcurrent = defaultMaxConcurrent
	}

	if c.PollTimeout <= 0 {
		c.PollTimeout = models.Duration(defaultPollTimeout)
	}

	if c.Commands == nil {
		c.Commands = DefaultCommandClassIDs()
	}

	if err := validateCommands(c.Commands); err != nil {
		return err
	}

	if c.UCSService.BaseURL == "" {
		return errBaseURLRequired
	}

	if c.UCSService.RequestTimeout <= 0 {
		c.UCSService.RequestTimeout = models.Duration(defaultRequestTimeout)
	}

	if !c.Encryption.Configured() {
		return fmt.Errorf("encryption: %w", secrets.ErrNoKeySource)
	}

	if err := c.NATS.Validate(); err != nil {
		return fmt.Errorf("nats: %w", err)
	}

	if c.Alerts.Enabled && len(c.Alerts.PollerNames) == 0 {
		c.Alerts.PollerNames = []string{models.WorkItemNameSNMP, models.WorkItemNameIPMI}
	}

	return nil
}

func validateRoutingKey(key string) error {
	if key == "" {
		return errRoutingKeyRequired
	}

	if _, err := uuid.Parse(key); err != nil {
		return fmt.Errorf("%w: %w", errInvalidRoutingKey, err)
	}

	return nil
}

func validateCommands(commands map[string][]string) error {
	if len(commands) == 0 {
		return errEmptyCommands
	}

	for _, name := range commandNames(commands) {
		if len(commands[name]) == 0 {
			return fmt.Errorf("%w: %s", errEmptyClassIDs, name)
		}
	}

	return nil
}
