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

// Package app wires the ucs-poller service together.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/carverauto/obmpoller/pkg/config"
	"github.com/carverauto/obmpoller/pkg/db"
	"github.com/carverauto/obmpoller/pkg/lifecycle"
	"github.com/carverauto/obmpoller/pkg/logger"
	"github.com/carverauto/obmpoller/pkg/natsutil"
	"github.com/carverauto/obmpoller/pkg/pollerhelper"
	"github.com/carverauto/obmpoller/pkg/ucs"
	"github.com/carverauto/obmpoller/pkg/version"
)

const shutdownTimeout = 30 * time.Second

// Options contains runtime configuration derived from CLI flags.
type Options struct {
	ConfigPath string
}

// LoadConfig reads and validates the service configuration at path.
func LoadConfig(ctx context.Context, path string) (*ucs.Config, error) {
	var cfg ucs.Config

	if err := config.NewConfig(nil).LoadAndValidate(ctx, path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return &cfg, nil
}

// Run boots the ucs-poller service and blocks until it shuts down.
func Run(ctx context.Context, opts Options) error {
	cfg, err := LoadConfig(ctx, opts.ConfigPath)
	if err != nil {
		return err
	}

	mainLogger, err := lifecycle.CreateComponentLogger(ctx, cfg.ServiceName, cfg.Logging)
	if err != nil {
		return err
	}

	defer func() {
		if shutdownErr := lifecycle.ShutdownLogger(); shutdownErr != nil {
			mainLogger.Error().Err(shutdownErr).Msg("Error shutting down logger")
		}
	}()

	if err := initTelemetry(ctx, cfg, mainLogger); err != nil {
		return err
	}

	cipher, err := cfg.Encryption.Load()
	if err != nil {
		return fmt.Errorf("failed to load encryption key: %w", err)
	}

	pool, err := db.NewPool(ctx, &cfg.Database, mainLogger)
	if err != nil {
		return err
	}

	if cfg.Database.RunMigrations {
		if err := db.RunMigrations(ctx, pool, mainLogger); err != nil {
			pool.Close()

			return err
		}
	}

	store := db.NewStore(pool, mainLogger)
	defer store.Close()

	nc, err := natsutil.Connect(ctx, &cfg.NATS, mainLogger)
	if err != nil {
		return err
	}
	defer nc.Close()

	bus := natsutil.NewBus(nc, mainLogger)

	transports, err := ucs.NewClientFactory(cfg.UCSService)
	if err != nil {
		return err
	}

	job, err := ucs.NewJob(cfg, ucs.Deps{
		Store:      store,
		OBMs:       store,
		Bus:        bus,
		Transports: transports,
		Decrypter:  cipher,
		Logger:     mainLogger,
	})
	if err != nil {
		return err
	}

	services := []lifecycle.Service{job}

	if cfg.Alerts.Enabled {
		publisher, err := natsutil.CreateEventPublisher(ctx, nc, cfg.NATS.Domain, cfg.NATS.Stream, cfg.NATS.Subjects, mainLogger)
		if err != nil {
			return err
		}

		evaluator := pollerhelper.NewEvaluator(store, store, mainLogger,
			pollerhelper.WithPollerNames(cfg.Alerts.PollerNames...))

		services = append(services, pollerhelper.NewWatcher(bus, evaluator, publisher, mainLogger))
	}

	mainLogger.Info().
		Str("version", version.GetFullVersion()).
		Str("routing_key", cfg.RoutingKey).
		Str("ucs_service", cfg.UCSService.BaseURL).
		Bool("alerts", cfg.Alerts.Enabled).
		Msg("Starting ucs-poller")

	return lifecycle.RunServer(ctx, &lifecycle.ServerOptions{
		ListenAddr:        cfg.ListenAddr,
		ServiceName:       cfg.ServiceName,
		Services:          services,
		EnableHealthCheck: true,
		Security:          cfg.Security,
		ShutdownTimeout:   shutdownTimeout,
		Logger:            mainLogger,
	})
}

func initTelemetry(ctx context.Context, cfg *ucs.Config, log logger.Logger) error {
	var otelCfg *logger.OTelConfig
	if cfg.Logging != nil {
		otelCfg = &cfg.Logging.OTel
	}

	if _, err := logger.InitializeTracing(ctx, logger.TracingConfig{
		ServiceName: cfg.ServiceName,
		Logger:      log,
		OTel:        otelCfg,
	}); err != nil {
		return err
	}

	if _, err := logger.InitializeMetrics(ctx, logger.MetricsConfig{
		ServiceName: cfg.ServiceName,
		OTel:        otelCfg,
	}); err != nil && !errors.Is(err, logger.ErrOTelMetricsDisabled) {
		return err
	}

	return nil
}
