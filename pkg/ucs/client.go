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
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/carverauto/obmpoller/pkg/models"
)

const (
	headerUser     = "ucs-user"
	headerPassword = "ucs-password"
	headerHost     = "ucs-host"

	maxResponseBytes = 32 << 20
)

var errResponseTooLarge = errors.New("response body exceeds limit")

// ClientFactory builds UCS service clients that share one HTTP connection pool.
type ClientFactory struct {
	baseURL    string
	httpClient *http.Client
}

// NewClientFactory validates cfg.BaseURL and prepares the shared HTTP client.
func NewClientFactory(cfg ServiceConfig) (*ClientFactory, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse ucs service url: %w", err)
	}

	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", errBaseURLRequired, cfg.BaseURL)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // lab controllers use self-signed certs
	}

	timeout := time.Duration(cfg.RequestTimeout)
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	return &ClientFactory{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Transport: transport, Timeout: timeout},
	}, nil
}

// NewTransport returns a client carrying endpoint's credentials.
func (f *ClientFactory) NewTransport(endpoint models.OBMConfig) (Transport, error) {
	return &Client{
		baseURL:    f.baseURL,
		httpClient: f.httpClient,
		user:       endpoint.UCSUser,
		password:   endpoint.UCSPassword,
		host:       endpoint.URI,
	}, nil
}

// Client talks to the UCS service on behalf of one managed controller.
type Client struct {
	baseURL    string
	httpClient *http.Client
	user       string
	password   string
	host       string
}

// Request issues a GET for path and returns the body. Any status of 400 or
// above is reported as a *TransportError carrying the status.
func (c *Client) Request(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return nil, &TransportError{Path: path, Err: err}
	}

	req.Header.Set(headerUser, c.user)
	req.Header.Set(headerPassword, c.password)
	req.Header.Set(headerHost, c.host)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Path: path, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return nil, &TransportError{Path: path, Status: resp.StatusCode, Err: err}
	}

	if len(body) > maxResponseBytes {
		return nil, &TransportError{Path: path, Err: errResponseTooLarge}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &TransportError{
			Path:   path,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("%s: %s", resp.Status, strings.TrimSpace(string(body))),
		}
	}

	return body, nil
}
