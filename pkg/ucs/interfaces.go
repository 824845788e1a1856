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

//go:generate mockgen -destination=mock_ucs.go -package=ucs github.com/carverauto/obmpoller/pkg/ucs WorkItemStore,OBMRegistry,EventBus,Transport,TransportFactory,Decrypter

import (
	"context"

	"github.com/carverauto/obmpoller/pkg/models"
	"github.com/carverauto/obmpoller/pkg/natsutil"
)

// WorkItemStore is the subset of the work-item store used by the job.
type WorkItemStore interface {
	ResetFailureCount(ctx context.Context, name string) (int64, error)
	FindWorkItem(ctx context.Context, id string) (*models.WorkItem, error)
	SetSucceeded(ctx context.Context, leaseToken string, item *models.WorkItem) error
}

// OBMRegistry resolves the OBM settings bound to a node.
type OBMRegistry interface {
	FindByNode(ctx context.Context, nodeID, service string, includeSecrets bool) (*models.OBMSetting, error)
}

// EventBus delivers poll triggers and accepts poll results.
type EventBus interface {
	Subscribe(routingKey string, handler func(*models.PollRequest)) (natsutil.Subscription, error)
	Publish(ctx context.Context, routingKey, command string, req *models.PollRequest) error
}

// Transport issues a single request against the UCS service.
type Transport interface {
	Request(ctx context.Context, path string) ([]byte, error)
}

// TransportFactory builds a transport for one poll from the node's endpoint
// settings with the credential already decrypted.
type TransportFactory interface {
	NewTransport(endpoint models.OBMConfig) (Transport, error)
}

// Decrypter turns stored ciphertext back into a credential.
type Decrypter interface {
	DecryptString(ciphertext string) (string, error)
}
