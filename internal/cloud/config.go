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

// Package cloud defines the data structures for application configuration,
// loaded from TOML files, and the clients for the external services the
// application talks to (Gemini, YouTube, Cloud Storage, BigQuery, Redis and
// Postgres).
//
// Structs:
//   - AgentModel: Configuration for a Gemini model used for text generation.
//   - PromptTemplates: Holds the text template for the summary prompt.
//   - YouTube: Settings for the YouTube Data API lookups.
//   - Limits: Truncation limits and the per call timeout.
//   - SummaryCache, Subscriptions: Backend selection for the two stores.
//   - Config: The top-level struct that aggregates all other configuration structs.
package cloud

import (
	"time"

	"google.golang.org/genai"
)

// DefaultSafetySettings relaxes every harm category. It is only applied to
// models that set relax_safety, since some models (Gemma) reject safety settings.
var DefaultSafetySettings = []*genai.SafetySetting{
	{
		Category:  genai.HarmCategoryDangerousContent,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategoryHarassment,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategoryHateSpeech,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategorySexuallyExplicit,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
}

// Defaults applied by NewConfig before any file is decoded.
const (
	DefaultAgentModelName    = "summary"
	DefaultModel             = "gemma-3-4b-it"
	DefaultPort              = 5003
	DefaultMaxResults        = 3
	DefaultTitleMax          = 500
	DefaultDescriptionMax    = 1000
	DefaultCallTimeout       = 30 * time.Second
	DefaultSummaryLanguage   = "Korean"
	DefaultCacheSize         = 1024
	DefaultSummaryKeyPrefix  = "summary:"
	DefaultEntryPage         = "public/index.html"
	DefaultNewVideoCheck     = time.Hour
	BackendMemory            = "memory"
	BackendRedis             = "redis"
	BackendPostgres          = "postgres"
	BackendBigQuery          = "bigquery"
	DefaultSummaryTableName  = "video_summaries"
	DefaultServiceIdentifier = "channel-digest"
)

// Duration lets TOML files express durations as strings such as "30s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler for the TOML decoder.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// BigQueryDataSource represents the configuration for the BigQuery summary store.
type BigQueryDataSource struct {
	DatasetName  string `toml:"dataset"`       // The name of the BigQuery dataset.
	SummaryTable string `toml:"summary_table"` // The append-only table holding summary rows.
}

// PromptTemplates holds the summary prompt template and its target language.
type PromptTemplates struct {
	SummaryPrompt string `toml:"summary"`  // A text/template with .Title, .Description and .Language.
	Language      string `toml:"language"` // The natural language the summary is written in.
}

// AgentModel represents the configuration for a Gemini model.
type AgentModel struct {
	Model              string  `toml:"model"`               // The model name, e.g. gemma-3-4b-it.
	SystemInstructions string  `toml:"system_instructions"` // Optional system instructions.
	Temperature        float32 `toml:"temperature"`         // Zero leaves the model default.
	TopP               float32 `toml:"top_p"`
	TopK               float32 `toml:"top_k"`
	MaxTokens          int32   `toml:"max_tokens"`
	RateLimit          int     `toml:"rate_limit"`   // Requests per second; zero disables limiting.
	RelaxSafety        bool    `toml:"relax_safety"` // Apply DefaultSafetySettings.
}

// YouTube holds the settings for the YouTube Data API.
type YouTube struct {
	APIKey                 string `toml:"api_key"`
	MaxResults             int64  `toml:"max_results"`             // Recent videos fetched per channel.
	DescriptionPlaceholder string `toml:"description_placeholder"` // Substituted for empty descriptions.
	Endpoint               string `toml:"endpoint"`                // Overrides the API endpoint (tests, proxies).
}

// Limits bounds the input sizes and the duration of outbound calls.
type Limits struct {
	TitleMax       int      `toml:"title_max"`
	DescriptionMax int      `toml:"description_max"`
	CallTimeout    Duration `toml:"call_timeout"`
}

// SummaryCache selects and sizes the summary store.
type SummaryCache struct {
	Backend   string `toml:"backend"`    // memory, redis, postgres or bigquery.
	Size      int    `toml:"size"`       // Capacity of the memory backend.
	KeyPrefix string `toml:"key_prefix"` // Key prefix of the redis backend.
}

// Subscriptions selects the subscription store.
type Subscriptions struct {
	Backend string `toml:"backend"` // memory or postgres.
}

// Web configures the static entry page served for unknown routes.
type Web struct {
	EntryPage   string `toml:"entry_page"`   // Local path of the entry page.
	EntryBucket string `toml:"entry_bucket"` // When set, the page is read from this bucket instead.
	EntryObject string `toml:"entry_object"`
}

// Auth configures bearer token validation.
type Auth struct {
	JWTSecret      string `toml:"jwt_secret"`
	Issuer         string `toml:"issuer"`
	AllowAnonymous bool   `toml:"allow_anonymous"` // Local development only.
	AnonymousUser  string `toml:"anonymous_user"`
}

// Config represents the overall configuration for the application, loaded from TOML files.
// It acts as the root container for all other configuration structs.
type Config struct {
	// Application holds general application settings.
	Application struct {
		Name            string `toml:"name"`              // The name of the application.
		GoogleProjectId string `toml:"google_project_id"` // The Google Cloud project ID.
		GoogleLocation  string `toml:"location"`          // The Google Cloud location.
		Port            int    `toml:"port"`              // The HTTP port.
		SummaryWorkers  int    `toml:"summary_workers"`   // One keeps summary generation sequential.
		GeminiAPIKey    string `toml:"gemini_api_key"`    // Normally supplied by GEMINI_API_KEY.
		AgentModel      string `toml:"agent_model"`       // The key into AgentModels used for summaries.
	} `toml:"application"`
	Telemetry struct {
		Export  bool   `toml:"export"`   // Export traces and metrics to Google Cloud.
		LogFile string `toml:"log_file"` // Optional file receiving a copy of the logs.
	} `toml:"telemetry"`
	Schedule struct {
		NewVideoCheck Duration `toml:"new_video_check"`
	} `toml:"schedule"`
	Postgres struct {
		URL string `toml:"url"`
	} `toml:"postgres"`
	Redis struct {
		URL string `toml:"url"`
	} `toml:"redis"`
	YouTube            YouTube               `toml:"youtube"`
	Limits             Limits                `toml:"limits"`
	PromptTemplates    PromptTemplates       `toml:"prompt_templates"`
	SummaryCache       SummaryCache          `toml:"summary_cache"`
	Subscriptions      Subscriptions         `toml:"subscriptions"`
	BigQueryDataSource BigQueryDataSource    `toml:"big_query_data_source"`
	Web                Web                   `toml:"web"`
	Auth               Auth                  `toml:"auth"`
	AgentModels        map[string]AgentModel `toml:"agent_models"` // Keyed by a logical name (e.g., "summary").
}

// NewConfig is a constructor function that creates a new, initialized Config instance
// holding the defaults. Values decoded from TOML files and the environment
// overwrite these.
//
// Outputs:
//   - *Config: A pointer to a new Config struct with its map fields initialized.
func NewConfig() *Config {
	c := &Config{
		AgentModels: map[string]AgentModel{
			DefaultAgentModelName: {Model: DefaultModel},
		},
	}
	c.Application.Name = DefaultServiceIdentifier
	c.Application.Port = DefaultPort
	c.Application.SummaryWorkers = 1
	c.Application.AgentModel = DefaultAgentModelName
	c.Schedule.NewVideoCheck = Duration{DefaultNewVideoCheck}
	c.YouTube.MaxResults = DefaultMaxResults
	c.Limits = Limits{
		TitleMax:       DefaultTitleMax,
		DescriptionMax: DefaultDescriptionMax,
		CallTimeout:    Duration{DefaultCallTimeout},
	}
	c.PromptTemplates.Language = DefaultSummaryLanguage
	c.SummaryCache = SummaryCache{Backend: BackendMemory, Size: DefaultCacheSize, KeyPrefix: DefaultSummaryKeyPrefix}
	c.Subscriptions.Backend = BackendMemory
	c.BigQueryDataSource.SummaryTable = DefaultSummaryTableName
	c.Web.EntryPage = DefaultEntryPage
	c.Auth.AnonymousUser = "anonymous"
	return c
}

// SummaryModel returns the agent model used for summaries, falling back to the default model.
func (c *Config) SummaryModel() AgentModel {
	if m, ok := c.AgentModels[c.Application.AgentModel]; ok && m.Model != "" {
		return m
	}
	return AgentModel{Model: DefaultModel}
}
