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
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"

	"github.com/carverauto/obmpoller/pkg/logger"
	"github.com/carverauto/obmpoller/pkg/models"
)

var (
	errSecurityConfigRequired = errors.New("security config required for mtls")
	errUnknownSecurityMode    = errors.New("unknown security mode")
	errFailedToAppendCACert   = errors.New("failed to append CA certificate")
)

// ServerCredentials returns the transport option for the configured mode.
// A nil config or mode "none" serves in plaintext.
func ServerCredentials(config *models.SecurityConfig, log logger.Logger) ([]grpc.ServerOption, error) {
	if config == nil || config.Mode == "" || config.Mode == models.SecurityModeNone {
		return nil, nil
	}

	if config.Mode != models.SecurityModeMTLS {
		return nil, fmt.Errorf("%w: %s", errUnknownSecurityMode, config.Mode)
	}

	tlsConfig, err := loadServerTLS(config)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("cert", config.TLS.CertFile).
		Str("client_ca", clientCAPath(config)).
		Msg("Loaded mTLS server credentials")

	return []grpc.ServerOption{grpc.Creds(credentials.NewTLS(tlsConfig))}, nil
}

func loadServerTLS(config *models.SecurityConfig) (*tls.Config, error) {
	if config.TLS.CertFile == "" || config.TLS.KeyFile == "" || clientCAPath(config) == "" {
		return nil, fmt.Errorf("%w: tls.cert_file, tls.key_file and tls.ca_file are required", errSecurityConfigRequired)
	}

	cert, err := tls.LoadX509KeyPair(config.TLS.CertFile, config.TLS.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load server certificate: %w", err)
	}

	caPEM, err := os.ReadFile(clientCAPath(config))
	if err != nil {
		return nil, fmt.Errorf("failed to read client CA: %w", err)
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(caPEM) {
		return nil, errFailedToAppendCACert
	}

	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		ClientCAs:    pool,
		ClientAuth:   tls.RequireAndVerifyClientCert,
		MinVersion:   tls.VersionTLS13,
	}, nil
}

func clientCAPath(config *models.SecurityConfig) string {
	if config.TLS.ClientCAFile != "" {
		return config.TLS.ClientCAFile
	}

	return config.TLS.CAFile
}
