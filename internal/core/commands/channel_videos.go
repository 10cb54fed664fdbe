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

package commands

import (
	"fmt"
	"strings"

	"github.com/jaycherian/gcp-go-channel-digest/internal/core/cor"
)

// ChannelIDResolver reads the channel URL and writes the resolved channel id.
type ChannelIDResolver struct {
	cor.BaseCommand
	resolver ChannelResolver
}

// NewChannelIDResolver creates the command. It reads ParamChannelURL and writes ParamChannelID.
func NewChannelIDResolver(name string, resolver ChannelResolver) *ChannelIDResolver {
	out := &ChannelIDResolver{BaseCommand: *cor.NewBaseCommand(name), resolver: resolver}
	out.InputParamName = ParamChannelURL
	out.OutputParamName = ParamChannelID
	return out
}

func (c *ChannelIDResolver) Execute(context cor.Context) {
	input, ok := context.Get(c.GetInputParam()).(string)
	if !ok || strings.TrimSpace(input) == "" {
		c.Fail(context, fmt.Errorf("%s: channel url is required", c.GetName()))
		return
	}
	id, err := c.resolver.ResolveChannelID(context.GetContext(), input)
	if err != nil {
		c.Fail(context, fmt.Errorf("failed to resolve channel %q: %w", input, err))
		return
	}
	c.Succeed(context, id)
}

// ChannelDetails fetches the channel snippet for ParamChannelID.
type ChannelDetails struct {
	cor.BaseCommand
	lookup ChannelLookup
}

func NewChannelDetails(name string, lookup ChannelLookup) *ChannelDetails {
	out := &ChannelDetails{BaseCommand: *cor.NewBaseCommand(name), lookup: lookup}
	out.InputParamName = ParamChannelID
	out.OutputParamName = ParamChannel
	return out
}

func (c *ChannelDetails) Execute(context cor.Context) {
	id := context.Get(c.GetInputParam()).(string)
	channel, err := c.lookup.GetChannel(context.GetContext(), id)
	if err != nil {
		c.Fail(context, fmt.Errorf("failed to fetch channel %s: %w", id, err))
		return
	}
	c.Succeed(context, channel)
}

// RecentVideos lists the newest videos of ParamChannelID.
type RecentVideos struct {
	cor.BaseCommand
	lister VideoLister
}

func NewRecentVideos(name string, lister VideoLister) *RecentVideos {
	out := &RecentVideos{BaseCommand: *cor.NewBaseCommand(name), lister: lister}
	out.InputParamName = ParamChannelID
	out.OutputParamName = ParamVideos
	return out
}

func (c *RecentVideos) Execute(context cor.Context) {
	id := context.Get(c.GetInputParam()).(string)
	videos, err := c.lister.RecentVideos(context.GetContext(), id)
	if err != nil {
		c.Fail(context, fmt.Errorf("failed to list videos of %s: %w", id, err))
		return
	}
	c.Succeed(context, videos)
}
