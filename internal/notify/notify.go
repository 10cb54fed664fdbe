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

// Package notify holds the push notification collaborator. Notifications are
// not delivered; Disabled is the only implementation.
package notify

import (
	"context"

	"github.com/jaycherian/gcp-go-channel-digest/internal/core/model"
)

// Notifier registers a user for new video notifications and announces them.
type Notifier interface {
	// Setup registers the session user. It reports whether notifications are on.
	Setup(ctx context.Context, session *model.Session) (bool, error)
	// NotifyNewVideos announces new videos of a channel to its subscribers.
	NotifyNewVideos(ctx context.Context, channelID string, videos []*model.VideoRecord) error
}

// Disabled accepts every call and does nothing.
type Disabled struct{}

func (Disabled) Setup(context.Context, *model.Session) (bool, error) {
	return false, nil
}

func (Disabled) NotifyNewVideos(context.Context, string, []*model.VideoRecord) error {
	return nil
}
