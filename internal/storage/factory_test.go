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

package storage_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaycherian/gcp-go-channel-digest/internal/cloud"
	"github.com/jaycherian/gcp-go-channel-digest/internal/storage"
)

func TestNewSummaryStore(t *testing.T) {
	ctx := context.Background()
	config := cloud.NewConfig()

	store, err := storage.NewSummaryStore(ctx, config, &cloud.ServiceClients{})
	require.NoError(t, err)
	assert.IsType(t, &storage.MemorySummaryStore{}, store)

	config.SummaryCache.Backend = cloud.BackendRedis
	_, err = storage.NewSummaryStore(ctx, config, &cloud.ServiceClients{})
	assert.Error(t, err)

	mr := miniredis.RunT(t)
	store, err = storage.NewSummaryStore(ctx, config, &cloud.ServiceClients{
		RedisClient: redis.NewClient(&redis.Options{Addr: mr.Addr()}),
	})
	require.NoError(t, err)
	assert.IsType(t, &storage.RedisSummaryStore{}, store)

	for _, backend := range []string{cloud.BackendPostgres, cloud.BackendBigQuery, "dynamo"} {
		config.SummaryCache.Backend = backend
		_, err = storage.NewSummaryStore(ctx, config, &cloud.ServiceClients{})
		assert.Error(t, err, backend)
	}
}

func TestNewSubscriptionStore(t *testing.T) {
	ctx := context.Background()
	config := cloud.NewConfig()

	store, err := storage.NewSubscriptionStore(ctx, config, &cloud.ServiceClients{})
	require.NoError(t, err)
	assert.IsType(t, &storage.MemorySubscriptionStore{}, store)

	config.Subscriptions.Backend = cloud.BackendPostgres
	_, err = storage.NewSubscriptionStore(ctx, config, &cloud.ServiceClients{})
	assert.Error(t, err)

	config.Subscriptions.Backend = cloud.BackendRedis
	_, err = storage.NewSubscriptionStore(ctx, config, &cloud.ServiceClients{})
	assert.Error(t, err)
}
