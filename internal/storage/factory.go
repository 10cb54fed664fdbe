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
	"fmt"

	"github.com/jaycherian/gcp-go-channel-digest/internal/cloud"
)

// NewSummaryStore returns the summary store selected by the configuration.
// The matching client in clients must already be open.
func NewSummaryStore(ctx context.Context, config *cloud.Config, clients *cloud.ServiceClients) (SummaryStore, error) {
	switch config.SummaryCache.Backend {
	case "", cloud.BackendMemory:
		return NewMemorySummaryStore(config.SummaryCache.Size)
	case cloud.BackendRedis:
		if clients.RedisClient == nil {
			return nil, fmt.Errorf("summary cache backend %q needs a redis client", config.SummaryCache.Backend)
		}
		return NewRedisSummaryStore(clients.RedisClient, config.SummaryCache.KeyPrefix), nil
	case cloud.BackendPostgres:
		if clients.PostgresPool == nil {
			return nil, fmt.Errorf("summary cache backend %q needs a postgres pool", config.SummaryCache.Backend)
		}
		if err := Migrate(ctx, clients.PostgresPool); err != nil {
			return nil, err
		}
		return NewPostgresSummaryStore(clients.PostgresPool), nil
	case cloud.BackendBigQuery:
		if clients.BigQueryClient == nil {
			return nil, fmt.Errorf("summary cache backend %q needs a bigquery client", config.SummaryCache.Backend)
		}
		return NewBigQuerySummaryStore(clients.BigQueryClient,
			config.BigQueryDataSource.DatasetName, config.BigQueryDataSource.SummaryTable), nil
	default:
		return nil, fmt.Errorf("unknown summary cache backend %q", config.SummaryCache.Backend)
	}
}

// NewSubscriptionStore returns the subscription store selected by the configuration.
func NewSubscriptionStore(ctx context.Context, config *cloud.Config, clients *cloud.ServiceClients) (SubscriptionStore, error) {
	switch config.Subscriptions.Backend {
	case "", cloud.BackendMemory:
		return NewMemorySubscriptionStore(), nil
	case cloud.BackendPostgres:
		if clients.PostgresPool == nil {
			return nil, fmt.Errorf("subscription backend %q needs a postgres pool", config.Subscriptions.Backend)
		}
		if err := Migrate(ctx, clients.PostgresPool); err != nil {
			return nil, err
		}
		return NewPostgresSubscriptionStore(clients.PostgresPool), nil
	default:
		return nil, fmt.Errorf("unknown subscription backend %q", config.Subscriptions.Backend)
	}
}
