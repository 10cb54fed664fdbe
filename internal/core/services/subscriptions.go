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

package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jaycherian/gcp-go-channel-digest/internal/core/model"
	"github.com/jaycherian/gcp-go-channel-digest/internal/storage"
)

// SubscriptionService records the channels a user follows. Every operation
// requires a session; without one it returns model.ErrUnauthenticated.
type SubscriptionService struct {
	Store storage.SubscriptionStore
}

func NewSubscriptionService(store storage.SubscriptionStore) *SubscriptionService {
	return &SubscriptionService{Store: store}
}

func userOf(session *model.Session) (string, error) {
	if session == nil || session.UserID == "" {
		return "", model.ErrUnauthenticated
	}
	return session.UserID, nil
}

// Subscribe stores the channel for the session user. Subscribing again keeps
// the original AddedAt and refreshes the channel snippet.
func (s *SubscriptionService) Subscribe(ctx context.Context, session *model.Session, channel *model.Channel) (*model.ChannelSubscription, error) {
	userID, err := userOf(session)
	if err != nil {
		return nil, err
	}
	if channel == nil || channel.ID == "" {
		return nil, fmt.Errorf("%w: channel id", model.ErrMissingFields)
	}

	subscription := model.NewChannelSubscription(userID, channel)
	existing, err := s.Store.Get(ctx, userID, channel.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		subscription.AddedAt = existing.AddedAt
	}
	if err := s.Store.Put(ctx, subscription); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "channel subscribed", "user", userID, "channel_id", channel.ID, "request_id", session.RequestID)
	return subscription, nil
}

// List returns the session user's subscriptions, newest first.
func (s *SubscriptionService) List(ctx context.Context, session *model.Session) ([]*model.ChannelSubscription, error) {
	userID, err := userOf(session)
	if err != nil {
		return nil, err
	}
	return s.Store.List(ctx, userID)
}

// Get returns one subscription, or nil when the user does not follow the channel.
func (s *SubscriptionService) Get(ctx context.Context, session *model.Session, channelID string) (*model.ChannelSubscription, error) {
	userID, err := userOf(session)
	if err != nil {
		return nil, err
	}
	return s.Store.Get(ctx, userID, channelID)
}

// Unsubscribe removes the channel from the session user's list.
func (s *SubscriptionService) Unsubscribe(ctx context.Context, session *model.Session, channelID string) error {
	userID, err := userOf(session)
	if err != nil {
		return err
	}
	if err := s.Store.Delete(ctx, userID, channelID); err != nil {
		return err
	}
	slog.InfoContext(ctx, "channel unsubscribed", "user", userID, "channel_id", channelID)
	return nil
}
