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

// Package lifecycle runs services next to a gRPC health endpoint and
// coordinates their shutdown.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/carverauto/obmpoller/pkg/grpc"
	"github.com/carverauto/obmpoller/pkg/logger"
	"github.com/carverauto/obmpoller/pkg/models"
)

const defaultShutdownTimeout = 10 * time.Second

var errNoServices = errors.New("at least one service is required")

// Service is a long-running component. Start blocks until ctx is cancelled
// or the service fails.
type Service interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// ServerOptions holds configuration for RunServer.
type ServerOptions struct {
	ListenAddr        string
	ServiceName       string
	Services          []Service
	EnableHealthCheck bool
	Security          *models.SecurityConfig
	ShutdownTimeout   time.Duration
	Logger            logger.Logger
}

// RunServer starts every service and, when enabled, the health server. It
// returns when a signal arrives, ctx is cancelled, or any service fails.
func RunServer(ctx context.Context, opts *ServerOptions) error {
	if len(opts.Services) == 0 {
		return errNoServices
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewTestLogger()
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var healthSrv *grpc.Server

	if opts.EnableHealthCheck {
		creds, err := grpc.ServerCredentials(opts.Security, log)
		if err != nil {
			return fmt.Errorf("failed to load server credentials: %w", err)
		}

		healthSrv = grpc.NewServer(opts.ListenAddr, log, grpc.WithServerOptions(creds...))
	}

	g, gctx := errgroup.WithContext(ctx)

	for _, svc := range opts.Services {
		g.Go(func() error {
			return svc.Start(gctx)
		})
	}

	if healthSrv != nil {
		g.Go(healthSrv.Start)
		healthSrv.SetServing(opts.ServiceName)
	}

	log.Info().Str("service", opts.ServiceName).Msg("Service started")

	<-gctx.Done()

	log.Info().Str("service", opts.ServiceName).Msg("Shutting down")

	timeout := opts.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var stopErrs []error

	for _, svc := range opts.Services {
		if err := svc.Stop(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Error stopping service")

			stopErrs = append(stopErrs, err)
		}
	}

	if healthSrv != nil {
		healthSrv.Stop(shutdownCtx)
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	return errors.Join(stopErrs...)
}
