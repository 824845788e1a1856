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

package grpc

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/carverauto/obmpoller/pkg/logger"
	"github.com/carverauto/obmpoller/pkg/models"
)

func TestServerServesHealth(t *testing.T) {
	srv := NewServer("127.0.0.1:0", logger.NewTestLogger(), WithTelemetryDisabled())
	srv.SetServing("ucs-poller")

	errCh := make(chan error, 1)

	go func() { errCh <- srv.Start() }()

	var addr string

	require.Eventually(t, func() bool {
		a, err := srv.Addr()
		if err != nil {
			return false
		}

		addr = a.String()

		return true
	}, 5*time.Second, 10*time.Millisecond)

	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)

	defer func() { _ = conn.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: "ucs-poller"})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())

	srv.Stop(context.Background())
	require.NoError(t, <-errCh)
}

func TestAddrBeforeStart(t *testing.T) {
	t.Parallel()

	srv := NewServer("127.0.0.1:0", logger.NewTestLogger(), WithTelemetryDisabled())

	_, err := srv.Addr()
	require.ErrorIs(t, err, errNotListening)
}

func TestRecoveryInterceptor(t *testing.T) {
	t.Parallel()

	interceptor := RecoveryInterceptor(logger.NewTestLogger())
	info := &grpc.UnaryServerInfo{FullMethod: "/test/Panic"}

	_, err := interceptor(context.Background(), nil, info, func(context.Context, interface{}) (interface{}, error) {
		panic("boom")
	})

	require.ErrorIs(t, err, errInternalError)
}

func TestLoggingInterceptorInjectsLogger(t *testing.T) {
	t.Parallel()

	interceptor := LoggingInterceptor(logger.NewTestLogger())
	info := &grpc.UnaryServerInfo{FullMethod: "/test/Echo"}

	resp, err := interceptor(context.Background(), "ping", info, func(ctx context.Context, req interface{}) (interface{}, error) {
		assert.NotNil(t, FromContext(ctx))
		return req, nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ping", resp)
}

func TestServerCredentials(t *testing.T) {
	t.Parallel()

	log := logger.NewTestLogger()

	opts, err := ServerCredentials(nil, log)
	require.NoError(t, err)
	assert.Empty(t, opts)

	opts, err = ServerCredentials(&models.SecurityConfig{Mode: models.SecurityModeNone}, log)
	require.NoError(t, err)
	assert.Empty(t, opts)

	_, err = ServerCredentials(&models.SecurityConfig{Mode: "spiffe"}, log)
	require.ErrorIs(t, err, errUnknownSecurityMode)

	_, err = ServerCredentials(&models.SecurityConfig{Mode: models.SecurityModeMTLS}, log)
	require.ErrorIs(t, err, errSecurityConfigRequired)
}

func TestServerCredentialsBadCA(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ca := filepath.Join(dir, "root.pem")
	require.NoError(t, os.WriteFile(ca, []byte("not a cert"), 0o600))

	_, err := ServerCredentials(&models.SecurityConfig{
		Mode: models.SecurityModeMTLS,
		TLS: models.TLSConfig{
			CertFile: filepath.Join(dir, "missing.pem"),
			KeyFile:  filepath.Join(dir, "missing-key.pem"),
			CAFile:   ca,
		},
	}, logger.NewTestLogger())
	require.Error(t, err)
}
