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

	"github.com/jaycherian/gcp-go-channel-digest/internal/core/model"
	"github.com/jaycherian/gcp-go-channel-digest/internal/storage"
)

func newRedisStore(t *testing.T) (*storage.RedisSummaryStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return storage.NewRedisSummaryStore(client, "summary:"), mr
}

func TestRedisSummaryStore(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t)

	got, err := store.Get(ctx, "vidA")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, store.Put(ctx, model.NewSummaryEntry("vidA", "summary A")))
	require.NoError(t, store.Put(ctx, model.NewSummaryEntry("vidB", "summary B")))
	assert.True(t, mr.Exists("summary:vidA"))
	assert.Equal(t, "0s", mr.TTL("summary:vidA").String())

	got, err = store.Get(ctx, "vidA")
	require.NoError(t, err)
	assert.Equal(t, "summary A", got.Summary)

	require.NoError(t, mr.Set("summary:vidBad", "{not json"))
	many, err := store.GetMany(ctx, []string{"vidA", "vidB", "vidC", "vidBad"})
	require.NoError(t, err)
	assert.Len(t, many, 2)
	assert.Equal(t, "summary B", many["vidB"].Summary)

	empty, err := store.GetMany(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestRedisSummaryStoreUnavailable(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t)
	mr.Close()

	_, err := store.GetMany(ctx, []string{"vidA"})
	assert.ErrorIs(t, err, model.ErrCacheUnavailable)
	assert.ErrorIs(t, store.Put(ctx, model.NewSummaryEntry("vidA", "x")), model.ErrCacheUnavailable)
}
