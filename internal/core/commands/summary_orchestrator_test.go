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

package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jaycherian/gcp-go-channel-digest/internal/core/commands"
	"github.com/jaycherian/gcp-go-channel-digest/internal/core/cor"
	"github.com/jaycherian/gcp-go-channel-digest/internal/core/model"
	"github.com/jaycherian/gcp-go-channel-digest/internal/storage"
	"github.com/jaycherian/gcp-go-channel-digest/internal/testutil"
)

// mockSummaryStore is a testify mock of storage.SummaryStore.
type mockSummaryStore struct {
	mock.Mock
}

func (m *mockSummaryStore) Get(ctx context.Context, videoID string) (*model.SummaryEntry, error) {
	args := m.Called(ctx, videoID)
	entry, _ := args.Get(0).(*model.SummaryEntry)
	return entry, args.Error(1)
}

func (m *mockSummaryStore) GetMany(ctx context.Context, videoIDs []string) (map[string]*model.SummaryEntry, error) {
	args := m.Called(ctx, videoIDs)
	entries, _ := args.Get(0).(map[string]*model.SummaryEntry)
	return entries, args.Error(1)
}

func (m *mockSummaryStore) Put(ctx context.Context, entry *model.SummaryEntry) error {
	return m.Called(ctx, entry).Error(0)
}

func sampleVideos() []*model.VideoRecord {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return []*model.VideoRecord{
		testutil.NewVideo("vidA", "Video A", "Description of A", now),
		testutil.NewVideo("vidB", "Video B", "Description of B", now.Add(-time.Hour)),
		testutil.NewVideo("vidC", "Video C", "Description of C", now.Add(-2*time.Hour)),
	}
}

func entryFor(videoID string) func(*model.SummaryEntry) bool {
	return func(e *model.SummaryEntry) bool { return e.VideoID == videoID }
}

func TestOrchestratorCachedAndFailedVideos(t *testing.T) {
	ctx := context.Background()
	videos := sampleVideos()
	summarizer := testutil.NewFakeSummarizer()
	summarizer.Failures["Video A"] = &model.GenerationFailedError{Details: "quota exceeded"}
	stats := &model.DigestStats{}

	store := &mockSummaryStore{}
	store.On("GetMany", mock.Anything, []string{"vidA", "vidB", "vidC"}).
		Return(map[string]*model.SummaryEntry{"vidB": model.NewSummaryEntry("vidB", "cached B")}, nil)
	store.On("Put", mock.Anything, mock.MatchedBy(entryFor("vidC"))).Return(nil).Once()

	orchestrator := commands.NewSummaryOrchestrator("test-orchestrator", summarizer, store, stats, 1, time.Second)
	orchestrator.SummarizeAll(ctx, videos)

	assert.Equal(t, []string{"Video A", "Video C"}, summarizer.Calls)
	assert.Nil(t, videos[0].Summary)
	require.NotNil(t, videos[1].Summary)
	assert.Equal(t, "cached B", *videos[1].Summary)
	require.NotNil(t, videos[2].Summary)
	assert.Equal(t, testutil.SummaryFor("Video C"), *videos[2].Summary)
	store.AssertExpectations(t)

	snap := stats.Snapshot()
	assert.Equal(t, int64(1), snap.CacheHits)
	assert.Equal(t, int64(2), snap.CacheMisses)
	assert.Equal(t, int64(1), snap.Generated)
	assert.Equal(t, int64(1), snap.Failed)
}

func TestOrchestratorSkipsIncompleteVideos(t *testing.T) {
	videos := sampleVideos()
	videos[1].Description = "   "
	videos[2].Title = ""
	summarizer := testutil.NewFakeSummarizer()
	stats := &model.DigestStats{}

	store, err := storage.NewMemorySummaryStore(10)
	require.NoError(t, err)
	commands.NewSummaryOrchestrator("test-orchestrator", summarizer, store, stats, 1, 0).
		SummarizeAll(context.Background(), videos)

	assert.Equal(t, []string{"Video A"}, summarizer.Calls)
	assert.NotNil(t, videos[0].Summary)
	assert.Nil(t, videos[1].Summary)
	assert.Nil(t, videos[2].Summary)
	assert.Equal(t, 1, store.Len())
	assert.Equal(t, int64(2), stats.Snapshot().Skipped)
}

func TestOrchestratorCacheReadFailure(t *testing.T) {
	videos := sampleVideos()
	summarizer := testutil.NewFakeSummarizer()
	stats := &model.DigestStats{}

	store := &mockSummaryStore{}
	store.On("GetMany", mock.Anything, mock.Anything).Return(nil, errors.New("redis down"))
	store.On("Put", mock.Anything, mock.Anything).Return(nil)

	commands.NewSummaryOrchestrator("test-orchestrator", summarizer, store, stats, 1, time.Second).
		SummarizeAll(context.Background(), videos)

	assert.Equal(t, 3, summarizer.CallCount())
	for _, v := range videos {
		assert.NotNil(t, v.Summary, v.ID)
	}
	store.AssertNumberOfCalls(t, "Put", 3)
	assert.Equal(t, int64(1), stats.Snapshot().CacheErrors)
}

func TestOrchestratorCacheWriteFailureKeepsSummary(t *testing.T) {
	videos := sampleVideos()[:1]
	stats := &model.DigestStats{}

	store := &mockSummaryStore{}
	store.On("GetMany", mock.Anything, mock.Anything).Return(map[string]*model.SummaryEntry{}, nil)
	store.On("Put", mock.Anything, mock.Anything).Return(model.ErrCacheUnavailable)

	commands.NewSummaryOrchestrator("test-orchestrator", testutil.NewFakeSummarizer(), store, stats, 1, time.Second).
		SummarizeAll(context.Background(), videos)

	require.NotNil(t, videos[0].Summary)
	assert.Equal(t, testutil.SummaryFor("Video A"), *videos[0].Summary)
	assert.Equal(t, int64(1), stats.Snapshot().Generated)
	assert.Equal(t, int64(1), stats.Snapshot().CacheErrors)
}

func TestOrchestratorWorkersKeepOrder(t *testing.T) {
	videos := make([]*model.VideoRecord, 0, 20)
	now := time.Now()
	for i := 0; i < 20; i++ {
		id := string(rune('a' + i))
		videos = append(videos, testutil.NewVideo(id, "Video "+id, "Description "+id, now))
	}
	summarizer := testutil.NewFakeSummarizer()

	commands.NewSummaryOrchestrator("test-orchestrator", summarizer, nil, nil, 4, 0).
		SummarizeAll(context.Background(), videos)

	assert.Equal(t, 20, summarizer.CallCount())
	for _, v := range videos {
		require.NotNil(t, v.Summary)
		assert.Equal(t, testutil.SummaryFor(v.Title), *v.Summary)
	}
}

func TestOrchestratorExecute(t *testing.T) {
	videos := sampleVideos()
	orchestrator := commands.NewSummaryOrchestrator("test-orchestrator", testutil.NewFakeSummarizer(), nil, nil, 1, 0)

	chCtx := cor.NewBaseContextFor(context.Background(), nil)
	chCtx.Add(commands.ParamVideos, videos)
	require.True(t, orchestrator.IsExecutable(chCtx))
	orchestrator.Execute(chCtx)

	require.NoError(t, chCtx.Err())
	out := chCtx.Get(commands.ParamVideos).([]*model.VideoRecord)
	assert.Len(t, out, 3)
	assert.NotNil(t, out[0].Summary)

	bad := cor.NewBaseContextFor(context.Background(), nil)
	bad.Add(commands.ParamVideos, "not videos")
	orchestrator.Execute(bad)
	assert.True(t, bad.HasErrors())
}
