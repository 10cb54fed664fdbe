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

// Package commands provides the concrete Chain of Responsibility commands
// used by the digest workflows. Commands exchange values through named keys
// in the shared cor.Context; the keys are declared here.
package commands

import (
	"context"

	"github.com/jaycherian/gcp-go-channel-digest/internal/core/model"
)

// Context keys shared by the digest commands.
const (
	ParamChannelURL   = "__CHANNEL_URL__"  // string, the user supplied channel URL or handle.
	ParamChannelID    = "__CHANNEL_ID__"   // string
	ParamChannel      = "__CHANNEL__"      // *model.Channel
	ParamVideos       = "__VIDEOS__"       // []*model.VideoRecord
	ParamSubscription = "__SUBSCRIPTION__" // *model.ChannelSubscription
	ParamDigests      = "__DIGESTS__"      // []*model.VideoDigest
)

// ChannelResolver turns a channel URL or handle into a channel id.
type ChannelResolver interface {
	ResolveChannelID(ctx context.Context, input string) (string, error)
}

// ChannelLookup fetches channel details.
type ChannelLookup interface {
	GetChannel(ctx context.Context, channelID string) (*model.Channel, error)
}

// VideoLister returns the recent videos of a channel, newest first.
type VideoLister interface {
	RecentVideos(ctx context.Context, channelID string) ([]*model.VideoRecord, error)
}

// Subscriber records a channel for the session user.
type Subscriber interface {
	Subscribe(ctx context.Context, session *model.Session, channel *model.Channel) (*model.ChannelSubscription, error)
}
