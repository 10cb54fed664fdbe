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

package workflow

import (
	"context"

	"github.com/jaycherian/gcp-go-channel-digest/internal/core/commands"
	"github.com/jaycherian/gcp-go-channel-digest/internal/core/cor"
	"github.com/jaycherian/gcp-go-channel-digest/internal/core/model"
)

// ChannelDigestWorkflow subscribes the user to a channel given by URL and
// returns its recent videos with summaries.
//
// Steps: resolve the channel id, fetch the channel, list the recent videos,
// store the subscription, summarize, link the timestamps, render. A failure
// before the summary step fails the whole request; summary failures only
// leave the affected video without a summary.
type ChannelDigestWorkflow struct {
	cor.BaseCommand
	chain cor.Chain
}

func NewChannelDigestWorkflow(deps *Dependencies) *ChannelDigestWorkflow {
	out := &ChannelDigestWorkflow{BaseCommand: *cor.NewBaseCommand("channel-digest-workflow")}
	out.InputParamName = commands.ParamChannelURL
	out.initializeChain(deps)
	return out
}

func (w *ChannelDigestWorkflow) initializeChain(deps *Dependencies) {
	out := cor.NewBaseChain(w.GetName())
	out.AddCommand(commands.NewChannelIDResolver("channel-resolver", deps.Resolver))
	out.AddCommand(commands.NewChannelDetails("channel-details", deps.Channels))
	out.AddCommand(commands.NewRecentVideos("recent-videos", deps.Videos))
	out.AddCommand(commands.NewSubscriptionWriter("subscription-writer", deps.Subscriber))
	addSummaryCommands(out, deps)
	w.chain = out
}

func (w *ChannelDigestWorkflow) Execute(context cor.Context) {
	w.chain.Execute(context)
}

// Run executes the workflow for channelURL on behalf of session.
func (w *ChannelDigestWorkflow) Run(ctx context.Context, session *model.Session, channelURL string) (*model.ChannelDigest, error) {
	return run(ctx, w.chain, session, commands.ParamChannelURL, channelURL)
}

// ChannelVideosWorkflow returns the recent videos of a known channel id with
// summaries. It does not touch the subscriptions.
type ChannelVideosWorkflow struct {
	cor.BaseCommand
	chain cor.Chain
}

func NewChannelVideosWorkflow(deps *Dependencies) *ChannelVideosWorkflow {
	out := &ChannelVideosWorkflow{BaseCommand: *cor.NewBaseCommand("channel-videos-workflow")}
	out.InputParamName = commands.ParamChannelID
	chain := cor.NewBaseChain(out.GetName())
	chain.AddCommand(commands.NewChannelDetails("channel-details", deps.Channels))
	chain.AddCommand(commands.NewRecentVideos("recent-videos", deps.Videos))
	addSummaryCommands(chain, deps)
	out.chain = chain
	return out
}

func (w *ChannelVideosWorkflow) Execute(context cor.Context) {
	w.chain.Execute(context)
}

// Run executes the workflow for channelID.
func (w *ChannelVideosWorkflow) Run(ctx context.Context, session *model.Session, channelID string) (*model.ChannelDigest, error) {
	return run(ctx, w.chain, session, commands.ParamChannelID, channelID)
}
