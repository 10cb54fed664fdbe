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

package model_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jaycherian/gcp-go-channel-digest/internal/core/model"
)

func TestNewWatchURL(t *testing.T) {
	assert.Equal(t, "https://youtube.com/watch?v=abc123", model.NewWatchURL("abc123"))
}

func TestVideoRecordSummary(t *testing.T) {
	v := &model.VideoRecord{ID: "a"}
	assert.False(t, v.HasSummary())
	v.SetSummary("")
	assert.True(t, v.HasSummary())
	assert.Equal(t, "", *v.Summary)
}

func TestNewSummaryEntry(t *testing.T) {
	entry := model.NewSummaryEntry("vid", "text")
	assert.Equal(t, "vid", entry.VideoID)
	assert.Equal(t, "text", entry.Summary)
	assert.WithinDuration(t, time.Now(), entry.UpdatedAt, time.Second)
}

func TestNewChannelSubscription(t *testing.T) {
	channel := &model.Channel{ID: "UC1", Title: "One", Description: "d", ThumbnailURL: "t"}
	s := model.NewChannelSubscription("user", channel)
	assert.Equal(t, "user", s.UserID)
	assert.Equal(t, "UC1", s.ChannelID)
	assert.Equal(t, "One", s.Title)
	assert.Equal(t, "t", s.ThumbnailURL)
	assert.WithinDuration(t, time.Now(), s.AddedAt, time.Second)
}

func TestNewGenerationFailedError(t *testing.T) {
	api := &model.GenerationRequestFailedError{Message: "quota exceeded", Err: errors.New("429")}
	err := model.NewGenerationFailedError(api)
	assert.Equal(t, "quota exceeded", err.Details)
	assert.ErrorIs(t, err, api)

	err = model.NewGenerationFailedError(model.ErrEmptyGenerationResult)
	assert.Equal(t, "Generated summary is empty", err.Details)
	assert.ErrorIs(t, err, model.ErrEmptyGenerationResult)

	err = model.NewGenerationFailedError(context.DeadlineExceeded)
	assert.Equal(t, context.DeadlineExceeded.Error(), err.Details)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSessionContext(t *testing.T) {
	_, ok := model.SessionFromContext(context.Background())
	assert.False(t, ok)

	s := model.NewSession("user")
	assert.NotEmpty(t, s.RequestID)
	got, ok := model.SessionFromContext(model.WithSession(context.Background(), s))
	assert.True(t, ok)
	assert.Same(t, s, got)
}

func TestDigestStatsConcurrent(t *testing.T) {
	stats := &model.DigestStats{}
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			stats.AddCacheHits(1)
			stats.AddGenerated(2)
		}()
	}
	wg.Wait()
	stats.AddFailed(1)

	snap := stats.Snapshot()
	assert.Equal(t, int64(10), snap.CacheHits)
	assert.Equal(t, int64(20), snap.Generated)
	assert.Equal(t, int64(1), snap.Failed)
	assert.Equal(t, int64(0), snap.CacheErrors)
}
