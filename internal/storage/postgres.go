// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package storage

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jaycherian/gcp-go-channel-digest/internal/core/model"
)

// PgxPool is the subset of *pgxpool.Pool used by the stores.
type PgxPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresSummaryStore keeps one row per video in video_summaries.
type PostgresSummaryStore struct {
	pool PgxPool
}

func NewPostgresSummaryStore(pool PgxPool) *PostgresSummaryStore {
	return &PostgresSummaryStore{pool: pool}
}

func (p *PostgresSummaryStore) Get(ctx context.Context, videoID string) (*model.SummaryEntry, error) {
	entry := &model.SummaryEntry{}
	err := p.pool.QueryRow(ctx, QrySelectSummary, videoID).Scan(&entry.VideoID, &entry.Summary, &entry.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, cacheError("postgres select", err)
	}
	return entry, nil
}

func (p *PostgresSummaryStore) GetMany(ctx context.Context, videoIDs []string) (map[string]*model.SummaryEntry, error) {
	out := make(map[string]*model.SummaryEntry, len(videoIDs))
	if len(videoIDs) == 0 {
		return out, nil
	}
	rows, err := p.pool.Query(ctx, QrySelectSummaries, videoIDs)
	if err != nil {
		return nil, cacheError("postgres select", err)
	}
	defer rows.Close()
	for rows.Next() {
		entry := &model.SummaryEntry{}
		if err := rows.Scan(&entry.VideoID, &entry.Summary, &entry.UpdatedAt); err != nil {
			return nil, cacheError("postgres scan", err)
		}
		out[entry.VideoID] = entry
	}
	if err := rows.Err(); err != nil {
		return nil, cacheError("postgres rows", err)
	}
	return out, nil
}

func (p *PostgresSummaryStore) Put(ctx context.Context, entry *model.SummaryEntry) error {
	if _, err := p.pool.Exec(ctx, QryUpsertSummary, entry.VideoID, entry.Summary, entry.UpdatedAt); err != nil {
		return cacheError("postgres upsert", err)
	}
	return nil
}

// PostgresSubscriptionStore keeps subscriptions in channel_subscriptions.
type PostgresSubscriptionStore struct {
	pool PgxPool
}

func NewPostgresSubscriptionStore(pool PgxPool) *PostgresSubscriptionStore {
	return &PostgresSubscriptionStore{pool: pool}
}

func (p *PostgresSubscriptionStore) Put(ctx context.Context, s *model.ChannelSubscription) error {
	_, err := p.pool.Exec(ctx, QryUpsertSubscription,
		s.UserID, s.ChannelID, s.Title, s.Description, s.ThumbnailURL, s.AddedAt)
	if err != nil {
		return subscriptionError("postgres upsert", err)
	}
	return nil
}

func (p *PostgresSubscriptionStore) Get(ctx context.Context, userID string, channelID string) (*model.ChannelSubscription, error) {
	s := &model.ChannelSubscription{}
	err := p.pool.QueryRow(ctx, QrySelectSubscription, userID, channelID).
		Scan(&s.UserID, &s.ChannelID, &s.Title, &s.Description, &s.ThumbnailURL, &s.AddedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, subscriptionError("postgres select", err)
	}
	return s, nil
}

func (p *PostgresSubscriptionStore) List(ctx context.Context, userID string) ([]*model.ChannelSubscription, error) {
	rows, err := p.pool.Query(ctx, QryListSubscriptions, userID)
	if err != nil {
		return nil, subscriptionError("postgres list", err)
	}
	defer rows.Close()
	out := []*model.ChannelSubscription{}
	for rows.Next() {
		s := &model.ChannelSubscription{}
		if err := rows.Scan(&s.UserID, &s.ChannelID, &s.Title, &s.Description, &s.ThumbnailURL, &s.AddedAt); err != nil {
			return nil, subscriptionError("postgres scan", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, subscriptionError("postgres rows", err)
	}
	return out, nil
}

func (p *PostgresSubscriptionStore) Delete(ctx context.Context, userID string, channelID string) error {
	if _, err := p.pool.Exec(ctx, QryDeleteSubscription, userID, channelID); err != nil {
		return subscriptionError("postgres delete", err)
	}
	return nil
}
