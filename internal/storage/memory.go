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
	"sort"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/jaycherian/gcp-go-channel-digest/internal/core/model"
)

// MemorySummaryStore is a bounded in-process summary cache. The least
// recently used entries are evicted once the size is reached, and everything
// is lost on restart. It is the one backend where an entry can disappear; an
// evicted video is simply summarized again. Use the redis, postgres or
// bigquery backend when summaries must be kept.
type MemorySummaryStore struct {
	cache *lru.Cache[string, model.SummaryEntry]
}

// NewMemorySummaryStore creates a cache holding up to size entries.
func NewMemorySummaryStore(size int) (*MemorySummaryStore, error) {
	cache, err := lru.New[string, model.SummaryEntry](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create summary cache: %w", err)
	}
	return &MemorySummaryStore{cache: cache}, nil
}

func (m *MemorySummaryStore) Get(_ context.Context, videoID string) (*model.SummaryEntry, error) {
	entry, ok := m.cache.Get(videoID)
	if !ok {
		return nil, nil
	}
	return &entry, nil
}

func (m *MemorySummaryStore) GetMany(_ context.Context, videoIDs []string) (map[string]*model.SummaryEntry, error) {
	out := make(map[string]*model.SummaryEntry, len(videoIDs))
	for _, id := range videoIDs {
		if entry, ok := m.cache.Get(id); ok {
			out[id] = &entry
		}
	}
	return out, nil
}

func (m *MemorySummaryStore) Put(_ context.Context, entry *model.SummaryEntry) error {
	m.cache.Add(entry.VideoID, *entry)
	return nil
}

// Len returns the number of cached entries.
func (m *MemorySummaryStore) Len() int {
	return m.cache.Len()
}

// MemorySubscriptionStore keeps subscriptions in process. Data is lost on restart.
type MemorySubscriptionStore struct {
	mu     sync.RWMutex
	byUser map[string]map[string]model.ChannelSubscription
}

func NewMemorySubscriptionStore() *MemorySubscriptionStore {
	return &MemorySubscriptionStore{byUser: make(map[string]map[string]model.ChannelSubscription)}
}

func (m *MemorySubscriptionStore) Put(_ context.Context, subscription *model.ChannelSubscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	channels, ok := m.byUser[subscription.UserID]
	if !ok {
		channels = make(map[string]model.ChannelSubscription)
		m.byUser[subscription.UserID] = channels
	}
	channels[subscription.ChannelID] = *subscription
	return nil
}

func (m *MemorySubscriptionStore) Get(_ context.Context, userID string, channelID string) (*model.ChannelSubscription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	subscription, ok := m.byUser[userID][channelID]
	if !ok {
		return nil, nil
	}
	return &subscription, nil
}

func (m *MemorySubscriptionStore) List(_ context.Context, userID string) ([]*model.ChannelSubscription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*model.ChannelSubscription, 0, len(m.byUser[userID]))
	for _, subscription := range m.byUser[userID] {
		s := subscription
		out = append(out, &s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AddedAt.Equal(out[j].AddedAt) {
			return out[i].ChannelID < out[j].ChannelID
		}
		return out[i].AddedAt.After(out[j].AddedAt)
	})
	return out, nil
}

func (m *MemorySubscriptionStore) Delete(_ context.Context, userID string, channelID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byUser[userID], channelID)
	return nil
}
