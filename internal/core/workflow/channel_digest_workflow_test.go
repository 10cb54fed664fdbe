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

package workflow_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/contrib/bridges/otelslog"

	"github.com/jaycherian/gcp-go-channel-digest/internal/core/model"
	"github.com/jaycherian/gcp-go-channel-digest/internal/core/services"
	"github.com/jaycherian/gcp-go-channel-digest/internal/core/workflow"
	"github.com/jaycherian/gcp-go-channel-digest/internal/storage"
	"github.com/jaycherian/gcp-go-channel-digest/internal/testutil"
)

const tName = "channel-digest/tests/workflow"

var logger = otelslog.NewLogger(tName)

// countingStore counts the writes reaching the memory store.
type countingStore struct {
	*storage.MemorySummaryStore
	mu   sync.Mutex
	puts int
}

func (c *countingStore) Put(ctx context.Context, entry *model.SummaryEntry) error {
	c.mu.Lock()
	c.puts++
	c.mu.Unlock()
	return c.MemorySummaryStore.Put(ctx, entry)
}

type fixtureDeps struct {
	deps          *workflow.Dependencies
	summarizer    *testutil.FakeSummarizer
	store         *countingStore
	subscriptions *services.SubscriptionService
	stats         *model.DigestStats
	fixture       *testutil.YouTubeFixture
}

func newFixtureDeps(t *testing.T) *fixtureDeps {
	t.Helper()
	config := testutil.NewTestConfig()
	fixture := testutil.SampleFixture()
	memory, err := storage.NewMemorySummaryStore(16)
	require.NoError(t, err)

	out := &fixtureDeps{
		summarizer:    testutil.NewFakeSummarizer(),
		store:         &countingStore{MemorySummaryStore: memory},
		subscriptions: services.NewSubscriptionService(storage.NewMemorySubscriptionStore()),
		stats:         &model.DigestStats{},
		fixture:       fixture,
	}
	videos := services.NewVideoService(testutil.NewYouTubeServer(t, fixture), config)
	out.deps = workflow.NewDependencies(config, videos, out.subscriptions, out.summarizer, out.store, out.stats)
	logger.Debug("fixture ready", "test", t.Name(), "videos", len(fixture.Videos))
	return out
}

func TestChannelDigestWorkflowEndToEnd(t *testing.T) {
	ctx := context.Background()
	f := newFixtureDeps(t)
	session := model.NewSession("alice")
	digestWorkflow := workflow.NewChannelDigestWorkflow(f.deps)

	digest, err := digestWorkflow.Run(ctx, session, "https://www.youtube.com/@sample")
	require.NoError(t, err)

	assert.Equal(t, "UCsample", digest.Channel.ID)
	require.Len(t, digest.Videos, 3)
	assert.Equal(t, []string{"Video A", "Video B", "Video C"}, f.summarizer.Calls)
	assert.Equal(t, 3, f.store.puts)
	for _, v := range digest.Videos {
		require.NotNil(t, v.Summary, v.ID)
		assert.Contains(t, *v.Summary, "[00:30]("+v.URL+"&t=30s)")
		assert.Contains(t, *v.Summary, "[1:05]("+v.URL+"&t=65s)")
		assert.True(t, strings.Contains(v.SummaryHTML, `target="_blank"`), v.ID)
	}

	subscription, err := f.subscriptions.Get(ctx, session, "UCsample")
	require.NoError(t, err)
	require.NotNil(t, subscription)
	assert.Equal(t, "Sample Channel", subscription.Title)

	// A second run is served from the cache.
	digest, err = digestWorkflow.Run(ctx, session, "UCsample")
	require.NoError(t, err)
	assert.Equal(t, 3, f.summarizer.CallCount())
	assert.Equal(t, 3, f.store.puts)
	assert.Contains(t, *digest.Videos[0].Summary, "&t=30s)")
	// Cached summaries are stored unlinked, so links are not doubled.
	assert.Equal(t, 1, strings.Count(*digest.Videos[0].Summary, "&t=30s"))

	snap := f.stats.Snapshot()
	assert.Equal(t, int64(3), snap.Generated)
	assert.Equal(t, int64(3), snap.CacheHits)
}

func TestChannelDigestWorkflowFailures(t *testing.T) {
	ctx := context.Background()
	f := newFixtureDeps(t)
	digestWorkflow := workflow.NewChannelDigestWorkflow(f.deps)

	_, err := digestWorkflow.Run(ctx, model.NewSession("alice"), "https://example.com/@sample")
	assert.ErrorIs(t, err, model.ErrInvalidChannelURL)

	_, err = digestWorkflow.Run(ctx, model.NewSession("alice"), "https://www.youtube.com/@missing")
	assert.ErrorIs(t, err, model.ErrChannelNotFound)

	_, err = digestWorkflow.Run(ctx, nil, "UCsample")
	assert.ErrorIs(t, err, model.ErrUnauthenticated)

	f.fixture.FailPath = "/youtube/v3/videos"
	_, err = digestWorkflow.Run(ctx, model.NewSession("alice"), "UCsample")
	assert.ErrorIs(t, err, model.ErrVideoDetailsUnavailable)

	assert.Equal(t, 0, f.summarizer.CallCount())
}

func TestChannelDigestWorkflowPartialSummaries(t *testing.T) {
	f := newFixtureDeps(t)
	f.summarizer.Failures["Video B"] = &model.GenerationFailedError{Details: "quota exceeded"}

	digest, err := workflow.NewChannelDigestWorkflow(f.deps).Run(context.Background(), model.NewSession("alice"), "UCsample")
	require.NoError(t, err)

	assert.NotNil(t, digest.Videos[0].Summary)
	assert.Nil(t, digest.Videos[1].Summary)
	assert.Empty(t, digest.Videos[1].SummaryHTML)
	assert.NotNil(t, digest.Videos[2].Summary)
	assert.Equal(t, 2, f.store.puts)
}

func TestChannelVideosWorkflow(t *testing.T) {
	f := newFixtureDeps(t)

	digest, err := workflow.NewChannelVideosWorkflow(f.deps).Run(context.Background(), nil, "UCsample")
	require.NoError(t, err)
	assert.Equal(t, "Sample Channel", digest.Channel.Title)
	assert.Len(t, digest.Videos, 3)

	// The channel videos workflow never subscribes.
	list, err := f.subscriptions.List(context.Background(), model.NewSession("alice"))
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = workflow.NewChannelVideosWorkflow(f.deps).Run(context.Background(), nil, "UCmissing")
	assert.ErrorIs(t, err, model.ErrChannelNotFound)
}
