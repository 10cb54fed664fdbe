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

// Package workflow defines the high-level orchestrations, combining the
// commands into the digest pipelines served by the API and the CLI.
package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/jaycherian/gcp-go-channel-digest/internal/cloud"
	"github.com/jaycherian/gcp-go-channel-digest/internal/core/commands"
	"github.com/jaycherian/gcp-go-channel-digest/internal/core/cor"
	"github.com/jaycherian/gcp-go-channel-digest/internal/core/markdown"
	"github.com/jaycherian/gcp-go-channel-digest/internal/core/model"
	"github.com/jaycherian/gcp-go-channel-digest/internal/core/services"
	"github.com/jaycherian/gcp-go-channel-digest/internal/storage"
)

// Dependencies are the collaborators shared by the digest workflows.
type Dependencies struct {
	Resolver     commands.ChannelResolver
	Channels     commands.ChannelLookup
	Videos       commands.VideoLister
	Subscriber   commands.Subscriber // Only used by the channel digest.
	Summarizer   services.Summarizer
	Store        storage.SummaryStore // Optional.
	Stats        *model.DigestStats   // Optional.
	Renderer     *markdown.Renderer
	Workers      int
	StoreTimeout time.Duration
}

// NewDependencies wires the dependencies from the configuration and services.
// *services.VideoService fills the three YouTube roles.
func NewDependencies(config *cloud.Config, videos *services.VideoService, subscriptions *services.SubscriptionService,
	summarizer services.Summarizer, store storage.SummaryStore, stats *model.DigestStats) *Dependencies {
	return &Dependencies{
		Resolver:     videos,
		Channels:     videos,
		Videos:       videos,
		Subscriber:   subscriptions,
		Summarizer:   summarizer,
		Store:        store,
		Stats:        stats,
		Renderer:     markdown.NewRenderer(),
		Workers:      config.Application.SummaryWorkers,
		StoreTimeout: config.Limits.CallTimeout.Duration,
	}
}

// addSummaryCommands appends the steps shared by both digests: summarize,
// link the timestamps, render.
func addSummaryCommands(chain cor.Chain, deps *Dependencies) {
	chain.AddCommand(commands.NewSummaryOrchestrator("summary-orchestrator",
		deps.Summarizer, deps.Store, deps.Stats, deps.Workers, deps.StoreTimeout))
	chain.AddCommand(commands.NewTimestampLinker("timestamp-linker"))
	renderer := deps.Renderer
	if renderer == nil {
		renderer = markdown.NewRenderer()
	}
	chain.AddCommand(commands.NewSummaryRenderer("summary-renderer", renderer))
}

// run executes the chain on a fresh context and assembles the digest.
func run(ctx context.Context, chain cor.Chain, session *model.Session, key string, value string) (*model.ChannelDigest, error) {
	chCtx := cor.NewBaseContextFor(ctx, session)
	chCtx.Add(key, value)
	chain.Execute(chCtx)
	if err := chCtx.Err(); err != nil {
		return nil, err
	}

	channel, ok := chCtx.Get(commands.ParamChannel).(*model.Channel)
	if !ok {
		return nil, fmt.Errorf("%s: no channel produced", chain.GetName())
	}
	digests, ok := chCtx.Get(commands.ParamDigests).([]*model.VideoDigest)
	if !ok {
		return nil, fmt.Errorf("%s: no videos produced", chain.GetName())
	}
	return &model.ChannelDigest{Channel: channel, Videos: digests}, nil
}
