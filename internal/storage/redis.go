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
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/jaycherian/gcp-go-channel-digest/internal/core/model"
)

// RedisSummaryStore keeps summaries as JSON values under "<prefix><videoID>".
// Keys are written without a TTL.
type RedisSummaryStore struct {
	client *redis.Client
	prefix string
}

func NewRedisSummaryStore(client *redis.Client, prefix string) *RedisSummaryStore {
	return &RedisSummaryStore{client: client, prefix: prefix}
}

func (r *RedisSummaryStore) key(videoID string) string {
	return r.prefix + videoID
}

func (r *RedisSummaryStore) Get(ctx context.Context, videoID string) (*model.SummaryEntry, error) {
	raw, err := r.client.Get(ctx, r.key(videoID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, cacheError("redis get", err)
	}
	entry := &model.SummaryEntry{}
	if err := json.Unmarshal(raw, entry); err != nil {
		return nil, cacheError("redis decode", err)
	}
	return entry, nil
}

// GetMany reads all keys with a single MGET.
func (r *RedisSummaryStore) GetMany(ctx context.Context, videoIDs []string) (map[string]*model.SummaryEntry, error) {
	out := make(map[string]*model.SummaryEntry, len(videoIDs))
	if len(videoIDs) == 0 {
		return out, nil
	}
	keys := make([]string, len(videoIDs))
	for i, id := range videoIDs {
		keys[i] = r.key(id)
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, cacheError("redis mget", err)
	}
	for i, value := range values {
		s, ok := value.(string)
		if !ok {
			continue
		}
		entry := &model.SummaryEntry{}
		if err := json.Unmarshal([]byte(s), entry); err != nil {
			slog.WarnContext(ctx, "skipping undecodable cached summary", "video_id", videoIDs[i], "error", err)
			continue
		}
		out[videoIDs[i]] = entry
	}
	return out, nil
}

func (r *RedisSummaryStore) Put(ctx context.Context, entry *model.SummaryEntry) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return cacheError("redis encode", err)
	}
	if err := r.client.Set(ctx, r.key(entry.VideoID), raw, 0).Err(); err != nil {
		return cacheError(fmt.Sprintf("redis set %s", entry.VideoID), err)
	}
	return nil
}
