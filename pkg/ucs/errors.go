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
	"errors"
	"fmt"
)

var (
	// ErrConcurrencyLimit matches any *ConcurrencyLimitError.
	ErrConcurrencyLimit = errors.New("concurrency limit reached")
	// ErrConfiguration matches any *ConfigurationError.
	ErrConfiguration = errors.New("configuration error")
	// ErrTransport matches any *TransportError.
	ErrTransport = errors.New("transport error")
	// ErrStore matches any *StoreError.
	ErrStore = errors.New("store error")

	errRoutingKeyRequired = errors.New("routing_key is required")
	errInvalidRoutingKey  = errors.New("routing_key must be a UUID")
	errNegativeConcurrent = errors.New("max_concurrent must not be negative")
	errEmptyCommands      = errors.New("commands must map at least one command to class identifiers")
	errEmptyClassIDs      = errors.New("command has no class identifiers")
	errBaseURLRequired    = errors.New("ucs_service.base_url is required")
	errMissingDependency  = errors.New("missing job dependency")
	errAlreadyStarted     = errors.New("job already started")
)

// ConcurrencyLimitError is returned when a trigger arrives while the node
// already has the maximum number of polls in flight.
type ConcurrencyLimitError struct {
	Node          string
	Kind          string
	MaxConcurrent int
}

func (e *ConcurrencyLimitError) Error() string {
	return fmt.Sprintf("concurrency limit (%d) reached for node %s, work item %s", e.MaxConcurrent, e.Node, e.Kind)
}

func (*ConcurrencyLimitError) Is(target error) bool { return target == ErrConcurrencyLimit }

// ConfigurationError reports missing or unusable setup for a poll, such as an
// unknown command or a node without UCS OBM settings.
type ConfigurationError struct {
	Node    string
	Command string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	switch {
	case e.Node != "" && e.Command != "":
		return fmt.Sprintf("%s (node %s, command %s)", e.Reason, e.Node, e.Command)
	case e.Command != "":
		return fmt.Sprintf("%s (command %s)", e.Reason, e.Command)
	case e.Node != "":
		return fmt.Sprintf("%s (node %s)", e.Reason, e.Node)
	default:
		return e.Reason
	}
}

func (*ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// TransportError wraps a failed request to the UCS service. Status is the
// HTTP status code when the service answered, zero otherwise.
type TransportError struct {
	Path   string
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("ucs request %s failed with status %d", e.Path, e.Status)
	}

	return fmt.Sprintf("ucs request %s failed: %v", e.Path, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (*TransportError) Is(target error) bool { return target == ErrTransport }

// StoreError reports a work-item store failure during completion.
type StoreError struct {
	Op         string
	WorkItemID string
	Err        error
}

func (e *StoreError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: work item %s", e.Op, e.WorkItemID)
	}

	return fmt.Sprintf("%s: work item %s: %v", e.Op, e.WorkItemID, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func (*StoreError) Is(target error) bool { return target == ErrStore }
