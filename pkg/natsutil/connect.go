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

package natsutil

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nkeys"

	"github.com/carverauto/obmpoller/pkg/logger"
	"github.com/carverauto/obmpoller/pkg/models"
)

const (
	defaultConnectTimeout = 30 * time.Second
	defaultStream         = "EVENTS"
	defaultClientName     = "ucs-poller"
)

var (
	errURLRequired = errors.New("nats url is required")
	errNotUserSeed = errors.New("nkey seed is not a user seed")
)

// Config describes how to reach the NATS cluster.
type Config struct {
	URL            string                 `json:"url" yaml:"url"`
	Name           string                 `json:"name,omitempty" yaml:"name,omitempty"`
	Domain         string                 `json:"domain,omitempty" yaml:"domain,omitempty"`
	Stream         string                 `json:"stream,omitempty" yaml:"stream,omitempty"`
	Subjects       []string               `json:"subjects,omitempty" yaml:"subjects,omitempty"`
	NKeySeed       string                 `json:"nkey_seed,omitempty" yaml:"nkey_seed,omitempty" sensitive:"true"`
	CredsFile      string                 `json:"creds_file,omitempty" yaml:"creds_file,omitempty"`
	ConnectTimeout models.Duration        `json:"connect_timeout,omitempty" yaml:"connect_timeout,omitempty"`
	Security       *models.SecurityConfig `json:"security,omitempty" yaml:"security,omitempty"`
}

// Validate fills defaults and checks required fields.
func (c *Config) Validate() error {
	if c.URL == "" {
		return errURLRequired
	}

	if c.Stream == "" {
		c.Stream = defaultStream
	}

	if c.Name == "" {
		c.Name = defaultClientName
	}

	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = models.Duration(defaultConnectTimeout)
	}

	return nil
}

// Connect dials NATS, retrying with exponential backoff until
// ConnectTimeout elapses or ctx ends.
func Connect(ctx context.Context, cfg *Config, log logger.Logger) (*nats.Conn, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts, err := connectOptions(cfg, log)
	if err != nil {
		return nil, err
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 250 * time.Millisecond
	bo.MaxInterval = 5 * time.Second

	operation := func() (*nats.Conn, error) {
		nc, err := nats.Connect(cfg.URL, opts...)
		if err != nil {
			if errors.Is(err, nats.ErrAuthorization) {
				return nil, backoff.Permanent(err)
			}

			return nil, err
		}

		return nc, nil
	}

	nc, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(bo),
		backoff.WithMaxElapsedTime(time.Duration(cfg.ConnectTimeout)),
		backoff.WithNotify(func(err error, next time.Duration) {
			log.Warn().Err(err).Dur("retry_in", next).Str("url", cfg.URL).Msg("NATS connect failed, retrying")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return nc, nil
}

func connectOptions(cfg *Config, log logger.Logger) ([]nats.Option, error) {
	opts := []nats.Option{
		nats.Name(cfg.Name),
		nats.MaxReconnects(-1),
		nats.ErrorHandler(func(_ *nats.Conn, sub *nats.Subscription, err error) {
			evt := log.Error().Err(err)
			if sub != nil {
				evt = evt.Str("subject", sub.Subject)
			}

			evt.Msg("NATS async error")
		}),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
	}

	if cfg.Security != nil && cfg.Security.Mode == models.SecurityModeMTLS {
		tlsConf, err := TLSConfig(cfg.Security)
		if err != nil {
			return nil, fmt.Errorf("failed to build NATS TLS config: %w", err)
		}

		opts = append(opts, nats.Secure(tlsConf))
	}

	switch {
	case cfg.NKeySeed != "":
		opt, err := nkeyOption(cfg.NKeySeed)
		if err != nil {
			return nil, err
		}

		opts = append(opts, opt)
	case cfg.CredsFile != "":
		opts = append(opts, nats.UserCredentials(cfg.CredsFile))
	}

	return opts, nil
}

// nkeyOption authenticates with an inline user seed.
func nkeyOption(seed string) (nats.Option, error) {
	kp, err := nkeys.FromSeed([]byte(seed))
	if err != nil {
		return nil, fmt.Errorf("invalid nkey seed: %w", err)
	}

	pub, err := kp.PublicKey()
	if err != nil {
		return nil, fmt.Errorf("failed to derive nkey public key: %w", err)
	}

	if !nkeys.IsValidPublicUserKey(pub) {
		return nil, fmt.Errorf("%w: %s", errNotUserSeed, pub)
	}

	return nats.Nkey(pub, kp.Sign), nil
}
