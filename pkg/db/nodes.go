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

// FindByIdentifier returns the node whose id, or one of whose identifiers,
// equals identifier.
func (s *Store) FindByIdentifier(ctx context.Context, identifier string) (*models.Node, error) {
	var (
		node   models.Node
		data   []byte
		labels []byte
	)

	err := s.executor.QueryRow(ctx,
		`SELECT id, name, type, identifiers, tags, data, labels, created_at, updated_at
		FROM nodes WHERE id = $1 OR $1 = ANY(identifiers)
		ORDER BY (id = $1) DESC LIMIT 1`,
		identifier,
	).Scan(
		&node.ID,
		&node.Name,
		&node.Type,
		&node.Identifiers,
		&node.Tags,
		&data,
		&labels,
		&node.CreatedAt,
		&node.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, identifier)
	}

	if err != nil {
		return nil, fmt.Errorf("%w node: %w", ErrFailedToScan, err)
	}

	node.Data = data

	if len(labels) > 0 {
		if err := json.Unmarshal(labels, &node.Labels); err != nil {
			return nil, fmt.Errorf("%w: decode labels for node %s: %w", ErrDatabaseError, node.ID, err)
		}
	}

	return &node, nil
}
