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
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/carverauto/obmpoller/pkg/models"
)

const workItemColumns = `id, name, node, config, poll_interval, state, failure_count,
	last_started, last_finished, next_scheduled, lease_token, lease_expires`

// ResetFailureCount zeroes failure_count on every work item called name and
// returns how many rows changed.
func (s *Store) ResetFailureCount(ctx context.Context, name string) (int64, error) {
	tag, err := s.executor.Exec(ctx, `UPDATE work_items SET failure_count = 0 WHERE name = $1`, name)
	if err != nil {
		return 0, fmt.Errorf("%w: reset failure count for %s: %w", ErrDatabaseError, name, err)
	}

	return tag.RowsAffected(), nil
}

// FindWorkItem returns the work item with id, or ErrWorkItemNotFound.
func (s *Store) FindWorkItem(ctx context.Context, id string) (*models.WorkItem, error) {
	row := s.executor.QueryRow(ctx, `SELECT `+workItemColumns+` FROM work_items WHERE id = $1`, id)

	item, err := scanWorkItem(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrWorkItemNotFound, id)
	}

	if err != nil {
		return nil, err
	}

	return item, nil
}

// SetSucceeded records a successful run: it clears failure_count and the
// lease, stamps last_finished and schedules the next run one poll interval
// out. A non-empty leaseToken must match the stored lease.
func (s *Store) SetSucceeded(ctx context.Context, leaseToken string, item *models.WorkItem) error {
	query := `UPDATE work_items SET
		failure_count = 0,
		last_finished = $2,
		next_scheduled = CASE WHEN poll_interval > 0
			THEN $2 + poll_interval * INTERVAL '1 millisecond' ELSE NULL END,
		lease_token = NULL,
		lease_expires = NULL
	WHERE id = $1`

	args := []any{item.ID, time.Now().UTC()}

	if leaseToken != "" {
		query += ` AND lease_token = $3`
		args = append(args, leaseToken)
	}

	tag, err := s.executor.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: mark %s succeeded: %w", ErrDatabaseError, item.ID, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrWorkItemNotFound, item.ID)
	}

	return nil
}

// FindPollers returns the work items matching q.
func (s *Store) FindPollers(ctx context.Context, q models.WorkItemQuery) ([]*models.WorkItem, error) {
	query, args := buildFindPollersQuery(q)

	rows, err := s.executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: find pollers: %w", ErrFailedToQuery, err)
	}
	defer rows.Close()

	var items []*models.WorkItem

	for rows.Next() {
		item, err := scanWorkItem(rows)
		if err != nil {
			return nil, err
		}

		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: find pollers: %w", ErrFailedToQuery, err)
	}

	return items, nil
}

func buildFindPollersQuery(q models.WorkItemQuery) (string, []any) {
	var (
		where []string
		args  []any
	)

	add := func(clause string, arg any) {
		args = append(args, arg)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}

	if q.Node != "" {
		add("node = $%d", q.Node)
	}

	if len(q.Names) > 0 {
		add("name = ANY($%d)", q.Names)
	}

	if q.MinPollInterval >= 0 {
		add("poll_interval > $%d", q.MinPollInterval)
	}

	if len(q.ExcludeWorkItemIDs) > 0 {
		add("NOT (id = ANY($%d))", q.ExcludeWorkItemIDs)
	}

	query := `SELECT ` + workItemColumns + ` FROM work_items`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}

	return query + ` ORDER BY id`, args
}

func scanWorkItem(row pgx.Row) (*models.WorkItem, error) {
	var (
		item       models.WorkItem
		config     []byte
		state      string
		leaseToken *string
	)

	err := row.Scan(
		&item.ID,
		&item.Name,
		&item.Node,
		&config,
		&item.PollInterval,
		&state,
		&item.FailureCount,
		&item.LastStarted,
		&item.LastFinished,
		&item.NextScheduled,
		&leaseToken,
		&item.LeaseExpires,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}

		return nil, fmt.Errorf("%w work item: %w", ErrFailedToScan, err)
	}

	item.Config = config
	item.State = models.PollerState(state)

	if leaseToken != nil {
		item.LeaseToken = *leaseToken
	}

	return &item, nil
}
