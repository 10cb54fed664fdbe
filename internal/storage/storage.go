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

// Package storage holds the persistence backends of the digest: the summary
// cache, keyed by video id, and the per-user channel subscriptions.
//
// Every backend wraps its failures in model.ErrCacheUnavailable or
// model.ErrSubscriptionUnavailable so callers can treat the stores as
// best-effort without knowing which backend is configured.
package storage

import (
	"context"
	"fmt"

	"github.com/jaycherian/gcp-go-channel-digest/internal/core/model"
)

// SummaryStore caches generated summaries by video id. Entries never expire;
// only the memory backend drops entries, by LRU eviction.
type SummaryStore interface {
	// Get returns the entry for the video, or nil when none is cached.
	Get(ctx context.Context, videoID string) (*model.SummaryEntry, error)
	// GetMany returns the cached entries for the given ids. Missing ids are
	// absent from the map.
	GetMany(ctx context.Context, videoIDs []string) (map[string]*model.SummaryEntry, error)
	// Put stores or replaces the entry for entry.VideoID.
	Put(ctx context.Context, entry *model.SummaryEntry) error
}

// SubscriptionStore keeps the channels each user follows.
type SubscriptionStore interface {
	// Put stores the subscription, replacing an existing one for the same user and channel.
	Put(ctx context.Context, subscription *model.ChannelSubscription) error
	// Get returns the subscription, or nil when the user does not follow the channel.
	Get(ctx context.Context, userID string, channelID string) (*model.ChannelSubscription, error)
	// List returns the user's subscriptions, most recently added first.
	List(ctx context.Context, userID string) ([]*model.ChannelSubscription, error)
	// Delete removes the subscription. Removing a missing subscription is not an error.
	Delete(ctx context.Context, userID string, channelID string) error
}

func cacheError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", model.ErrCacheUnavailable, op, err)
}

func subscriptionError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", model.ErrSubscriptionUnavailable, op, err)
}
