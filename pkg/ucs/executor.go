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
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/carverauto/obmpoller/pkg/models"
)

// Executor turns a poll command into one request against the UCS service.
// It never retries.
type Executor struct {
	commands   map[string][]string
	transports TransportFactory
	decrypter  Decrypter
	timeout    time.Duration
}

// NewExecutor copies commands so the caller cannot change them afterwards.
// A non-positive timeout leaves the request bounded only by the caller's context.
func NewExecutor(commands map[string][]string, transports TransportFactory, decrypter Decrypter, timeout time.Duration) *Executor {
	return &Executor{
		commands:   copyCommands(commands),
		transports: transports,
		decrypter:  decrypter,
		timeout:    timeout,
	}
}

// ClassIDs returns the class identifiers for command.
func (e *Executor) ClassIDs(command string) ([]string, bool) {
	ids, ok := e.commands[command]
	if !ok || len(ids) == 0 {
		return nil, false
	}

	return append([]string(nil), ids...), true
}

// Execute polls the managed object identified by endpoint.DN for command and
// returns the raw response body. endpoint is not modified.
func (e *Executor) Execute(ctx context.Context, command string, endpoint *models.OBMConfig) ([]byte, error) {
	ids, ok := e.ClassIDs(command)
	if !ok {
		return nil, &ConfigurationError{Command: command, Reason: "no class identifiers for command"}
	}

	path := PollPath(endpoint.DN, ids)

	conn := endpoint.Clone()

	if conn.UCSPassword != "" {
		plain, err := e.decrypter.DecryptString(conn.UCSPassword)
		if err != nil {
			return nil, fmt.Errorf("decrypt ucs password: %w", err)
		}

		conn.UCSPassword = plain
	}

	transport, err := e.transports.NewTransport(conn)
	if err != nil {
		return nil, fmt.Errorf("build transport: %w", err)
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	return transport.Request(ctx, path)
}

// PollPath builds the UCS service path that fetches classIDs beneath dn.
func PollPath(dn string, classIDs []string) string {
	return "/pollers?identifier=" + url.QueryEscape(dn) +
		"&classIds=" + url.QueryEscape(strings.Join(classIDs, ","))
}
