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

package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaycherian/gcp-go-channel-digest/internal/core/model"
	"github.com/jaycherian/gcp-go-channel-digest/internal/core/services"
	"github.com/jaycherian/gcp-go-channel-digest/internal/storage"
)

func TestSubscriptionLifecycle(t *testing.T) {
	ctx := context.Background()
	subscriptions := services.NewSubscriptionService(storage.NewMemorySubscriptionStore())
	alice := model.NewSession("alice")
	bob := model.NewSession("bob")

	first, err := subscriptions.Subscribe(ctx, alice, &model.Channel{ID: "UC1", Title: "One"})
	require.NoError(t, err)
	assert.Equal(t, "alice", first.UserID)

	// Subscribing again refreshes the snippet but keeps the original AddedAt.
	time.Sleep(2 * time.Millisecond)
	again, err := subscriptions.Subscribe(ctx, alice, &model.Channel{ID: "UC1", Title: "One (renamed)"})
	require.NoError(t, err)
	assert.True(t, first.AddedAt.Equal(again.AddedAt))
	assert.Equal(t, "One (renamed)", again.Title)

	list, err := subscriptions.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "One (renamed)", list[0].Title)

	// Subscriptions are per user.
	list, err = subscriptions.List(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, list)
	got, err := subscriptions.Get(ctx, bob, "UC1")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, subscriptions.Unsubscribe(ctx, alice, "UC1"))
	require.NoError(t, subscriptions.Unsubscribe(ctx, alice, "UC1"))
	got, err = subscriptions.Get(ctx, alice, "UC1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSubscriptionRequiresSession(t *testing.T) {
	ctx := context.Background()
	subscriptions := services.NewSubscriptionService(storage.NewMemorySubscriptionStore())

	_, err := subscriptions.Subscribe(ctx, nil, &model.Channel{ID: "UC1"})
	assert.ErrorIs(t, err, model.ErrUnauthenticated)
	_, err = subscriptions.List(ctx, &model.Session{})
	assert.ErrorIs(t, err, model.ErrUnauthenticated)
	_, err = subscriptions.Get(ctx, nil, "UC1")
	assert.ErrorIs(t, err, model.ErrUnauthenticated)
	assert.ErrorIs(t, subscriptions.Unsubscribe(ctx, nil, "UC1"), model.ErrUnauthenticated)

	_, err = subscriptions.Subscribe(ctx, model.NewSession("alice"), &model.Channel{})
	assert.ErrorIs(t, err, model.ErrMissingFields)
}
