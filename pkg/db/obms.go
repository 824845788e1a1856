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

package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/carverauto/obmpoller/pkg/models"
)

// FindByNode returns the OBM setting of service for nodeID. Without
// includeSecrets credentials come back redacted.
func (s *Store) FindByNode(ctx context.Context, nodeID, service string, includeSecrets bool) (*models.OBMSetting, error) {
	var (
		setting models.OBMSetting
		raw     []byte
	)

	err := s.executor.QueryRow(ctx,
		`SELECT id, node, service, config FROM obms WHERE node = $1 AND service = $2`,
		nodeID, service,
	).Scan(&setting.ID, &setting.Node, &setting.Service, &raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: node %s service %s", ErrOBMNotFound, nodeID, service)
	}

	if err != nil {
		return nil, fmt.Errorf("%w obm setting: %w", ErrFailedToScan, err)
	}

	if err := json.Unmarshal(raw, &setting.Config); err != nil {
		return nil, fmt.Errorf("%w: decode obm config for node %s: %w", ErrDatabaseError, nodeID, err)
	}

	if !includeSecrets {
		return setting.Redacted(), nil
	}

	return &setting, nil
}
