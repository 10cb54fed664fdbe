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

// Package main contains the setup and initialization logic for the server's
// state. The StateManager holds the configuration, the service clients and
// the application services shared by the HTTP handlers and the background
// schedule.
//
// Functions:
//   - SetupOS: Points the configuration loader at the configs directory.
//   - GetConfig: Loads the configuration once (TOML, then the environment).
//   - InitState: Creates the clients, stores, services and workflows.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jaycherian/gcp-go-channel-digest/internal/api"
	"github.com/jaycherian/gcp-go-channel-digest/internal/cloud"
	"github.com/jaycherian/gcp-go-channel-digest/internal/core/model"
	"github.com/jaycherian/gcp-go-channel-digest/internal/core/services"
	"github.com/jaycherian/gcp-go-channel-digest/internal/core/workflow"
	"github.com/jaycherian/gcp-go-channel-digest/internal/notify"
	"github.com/jaycherian/gcp-go-channel-digest/internal/storage"
)

// StateManager holds all the shared dependencies of the server.
type StateManager struct {
	config     *cloud.Config
	cloud      *cloud.ServiceClients
	generator  *cloud.TextGenerator
	handlers   *api.Handlers
	videoCheck *workflow.VideoCheckWorkflow
}

// state is the single instance of StateManager.
var state = &StateManager{}

// SetupOS sets the variables the configuration loader uses to find the TOML
// files, unless the caller already provided them.
func SetupOS() (err error) {
	if os.Getenv(cloud.EnvConfigFilePrefix) == "" {
		if err = os.Setenv(cloud.EnvConfigFilePrefix, "configs"); err != nil {
			return err
		}
	}
	if os.Getenv(cloud.EnvConfigRuntime) == "" {
		err = os.Setenv(cloud.EnvConfigRuntime, "local")
	}
	return err
}

// GetConfig loads the configuration on first use and returns the cached copy afterwards.
func GetConfig() (*cloud.Config, error) {
	if state.config != nil {
		return state.config, nil
	}
	if err := SetupOS(); err != nil {
		return nil, fmt.Errorf("failed to setup os: %w", err)
	}
	config := cloud.NewConfig()
	if err := cloud.LoadConfig(config); err != nil {
		return nil, err
	}
	if err := cloud.ApplyEnvironment(config); err != nil {
		return nil, err
	}
	state.config = config
	return config, nil
}

// InitState creates every client and service and wires the HTTP handlers.
//
// This function performs the following steps:
//  1. Initializes the service clients (Gemini, YouTube and the configured stores).
//  2. Builds the summary generator, the summarizer and the video service.
//  3. Opens the summary cache and the subscription store.
//  4. Builds the digest workflows and the handlers.
//  5. Creates the new video check schedule.
func InitState(ctx context.Context) error {
	config, err := GetConfig()
	if err != nil {
		return err
	}

	cloudClients, err := cloud.NewCloudServiceClients(ctx, config)
	if err != nil {
		return err
	}
	state.cloud = cloudClients

	summaryModel, err := cloudClients.SummaryModel(config)
	if err != nil {
		return err
	}
	state.generator = cloud.NewTextGenerator(config.Application.Name, summaryModel, config.Limits.CallTimeout.Duration)

	prompts, err := services.NewPromptBuilderFromConfig(config)
	if err != nil {
		return err
	}
	summarizer := services.NewSummarizerService(prompts, state.generator)
	videos := services.NewVideoService(cloudClients.YouTubeService, config)

	summaryStore, err := storage.NewSummaryStore(ctx, config, cloudClients)
	if err != nil {
		return err
	}
	subscriptionStore, err := storage.NewSubscriptionStore(ctx, config, cloudClients)
	if err != nil {
		return err
	}
	subscriptions := services.NewSubscriptionService(subscriptionStore)

	stats := &model.DigestStats{}
	deps := workflow.NewDependencies(config, videos, subscriptions, summarizer, summaryStore, stats)

	state.handlers = &api.Handlers{
		Summarizer:    summarizer,
		Subscriptions: subscriptions,
		ChannelDigest: workflow.NewChannelDigestWorkflow(deps),
		ChannelVideos: workflow.NewChannelVideosWorkflow(deps),
		Notifier:      notify.Disabled{},
		Stats:         stats,
		EntryPage:     cloud.NewEntryPageSource(config.Web, cloudClients.StorageClient),
	}

	state.videoCheck = workflow.NewVideoCheckWorkflow(config, state.handlers.Notifier)
	return nil
}
