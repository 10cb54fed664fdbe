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

// Package cloud provides components for interacting with Google Cloud services.
// This file is responsible for initializing and holding all the client objects
// needed to communicate with external services. It acts as a dependency
// injection container, creating a single, shared `ServiceClients` struct that
// can be passed throughout the application.
//
// Logic Flow:
//  1. The `NewCloudServiceClients` function is called at application startup.
//  2. It always creates the Gemini and YouTube clients.
//  3. Storage, BigQuery, Redis and Postgres clients are only created when the
//     configuration selects a component that needs them.
//  4. Each configured agent model is wrapped in the rate-limited model.
//
// Functions:
//   - Close: A convenience method to gracefully shut down all client connections.
//   - NewCloudServiceClients: A factory function that creates and configures the clients.
//   - NewYouTubeService: Creates the YouTube Data API client.
package cloud

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/storage"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
	"google.golang.org/genai"
)

// ServiceClients is a struct that acts as a central container for all the clients
// that interact with external services. Optional clients are nil when the
// configuration does not need them.
type ServiceClients struct {
	GenAIClient    *genai.Client                           // Client for the Gemini API.
	YouTubeService *youtube.Service                        // Client for the YouTube Data API v3.
	StorageClient  *storage.Client                         // Client for Cloud Storage, used for the entry page.
	BigQueryClient *bigquery.Client                        // Client for BigQuery, used by the bigquery summary store.
	RedisClient    *redis.Client                           // Client for Redis, used by the redis summary store.
	PostgresPool   *pgxpool.Pool                           // Pool for Postgres, used by the postgres stores.
	AgentModels    map[string]*QuotaAwareGenerativeAIModel // Configured Gemini models, keyed by a logical name.
}

// Close is a utility method to gracefully shut down all the active client connections.
func (c *ServiceClients) Close() {
	if c.StorageClient != nil {
		_ = c.StorageClient.Close()
	}
	if c.BigQueryClient != nil {
		_ = c.BigQueryClient.Close()
	}
	if c.RedisClient != nil {
		_ = c.RedisClient.Close()
	}
	if c.PostgresPool != nil {
		c.PostgresPool.Close()
	}
}

// NewYouTubeService creates a YouTube Data API client authenticated with the
// configured API key. An endpoint override is honored for proxies and tests.
func NewYouTubeService(ctx context.Context, config YouTube, opts ...option.ClientOption) (*youtube.Service, error) {
	all := make([]option.ClientOption, 0, len(opts)+2)
	if config.APIKey != "" {
		all = append(all, option.WithAPIKey(config.APIKey))
	}
	if config.Endpoint != "" {
		all = append(all, option.WithEndpoint(config.Endpoint))
	}
	all = append(all, opts...)
	return youtube.NewService(ctx, all...)
}

// NewCloudServiceClients is a factory function that initializes the service
// clients required by the provided configuration.
//
// Inputs:
//   - ctx: The root context.Context for the application.
//   - config: A pointer to the loaded application configuration (`Config`).
//
// Outputs:
//   - *ServiceClients: A pointer to the initialized ServiceClients struct.
//   - error: An error if any of the clients fail to initialize.
func NewCloudServiceClients(ctx context.Context, config *Config) (cloud *ServiceClients, err error) {
	if config.Application.GeminiAPIKey == "" {
		return nil, errors.New("a Gemini API key is required")
	}
	cloud = &ServiceClients{AgentModels: make(map[string]*QuotaAwareGenerativeAIModel)}
	// Release whatever was created if a later client fails.
	defer func() {
		if err != nil {
			cloud.Close()
			cloud = nil
		}
	}()

	cloud.GenAIClient, err = genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.Application.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return cloud, fmt.Errorf("error creating genai client: %w", err)
	}

	cloud.YouTubeService, err = NewYouTubeService(ctx, config.YouTube)
	if err != nil {
		return cloud, fmt.Errorf("error creating youtube service: %w", err)
	}

	if config.Web.EntryBucket != "" {
		cloud.StorageClient, err = storage.NewClient(ctx)
		if err != nil {
			return cloud, fmt.Errorf("error creating storage client: %w", err)
		}
	}

	if config.SummaryCache.Backend == BackendBigQuery {
		cloud.BigQueryClient, err = bigquery.NewClient(ctx, config.Application.GoogleProjectId)
		if err != nil {
			return cloud, fmt.Errorf("error creating bigquery client: %w", err)
		}
	}

	if config.SummaryCache.Backend == BackendRedis {
		opts, perr := redis.ParseURL(config.Redis.URL)
		if perr != nil {
			return cloud, fmt.Errorf("invalid redis url: %w", perr)
		}
		cloud.RedisClient = redis.NewClient(opts)
	}

	if config.SummaryCache.Backend == BackendPostgres || config.Subscriptions.Backend == BackendPostgres {
		cloud.PostgresPool, err = pgxpool.New(ctx, config.Postgres.URL)
		if err != nil {
			return cloud, fmt.Errorf("error creating postgres pool: %w", err)
		}
	}

	// Wrap every configured agent model with its generation settings and rate limit.
	for amKey, values := range config.AgentModels {
		if values.Model == "" {
			continue
		}
		cloud.AgentModels[amKey] = NewQuotaAwareModel(NewGenerateContentConfig(values), values.Model, cloud.GenAIClient.Models, values.RateLimit)
		slog.Debug("configured agent model", "key", amKey, "model", values.Model)
	}
	return cloud, nil
}

// SummaryModel returns the wrapped model used for summaries.
func (c *ServiceClients) SummaryModel(config *Config) (*QuotaAwareGenerativeAIModel, error) {
	m, ok := c.AgentModels[config.Application.AgentModel]
	if !ok {
		return nil, fmt.Errorf("agent model %q is not configured", config.Application.AgentModel)
	}
	return m, nil
}
