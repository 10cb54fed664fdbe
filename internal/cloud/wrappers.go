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
// This file implements a wrapper around the Generative AI models handle. The
// wrapper binds a model name and its generation settings together and adds
// client side rate limiting, so that bursts of summary requests queue up
// instead of exceeding the API quota.
//
// Structs:
//   - QuotaAwareGenerativeAIModel: A struct that wraps a ContentGenerator
//     and adds a rate limiter.
//
// Functions:
//   - NewQuotaAwareModel: A constructor to create a new instance of the wrapped model.
//   - NewGenerateContentConfig: Builds the generation settings for an AgentModel.
//   - GenerateContent: Waits for the rate limiter and sends exactly one request.
package cloud

import (
	"context"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// ContentGenerator is the subset of *genai.Models used by the application.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// ModelLister is implemented by *genai.Models. The startup probe uses it when
// the handle supports it.
type ModelLister interface {
	List(ctx context.Context, config *genai.ListModelsConfig) (genai.Page[genai.Model], error)
}

// QuotaAwareGenerativeAIModel is a decorator struct that wraps a ContentGenerator
// to add rate-limiting capabilities. RateLimit may be nil, in which case
// requests are sent immediately.
type QuotaAwareGenerativeAIModel struct {
	GenerativeContentConfig *genai.GenerateContentConfig // The generation settings sent with every request.
	ModelName               string
	ModelHandle             ContentGenerator
	RateLimit               *rate.Limiter
}

// NewQuotaAwareModel is a constructor function that creates a new
// QuotaAwareGenerativeAIModel.
//
// Inputs:
//   - config: The generation settings for the model.
//   - name: The model name, e.g. gemma-3-4b-it.
//   - handle: The generator, normally the Models handle of a genai.Client.
//   - requestsPerSecond: The sustained request rate; zero or less disables limiting.
//
// Outputs:
//   - *QuotaAwareGenerativeAIModel: A pointer to the newly created wrapper.
func NewQuotaAwareModel(config *genai.GenerateContentConfig, name string, handle ContentGenerator, requestsPerSecond int) *QuotaAwareGenerativeAIModel {
	out := &QuotaAwareGenerativeAIModel{
		GenerativeContentConfig: config,
		ModelName:               name,
		ModelHandle:             handle,
	}
	if requestsPerSecond > 0 {
		out.RateLimit = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
	return out
}

// NewGenerateContentConfig translates an AgentModel into generation settings.
// Zero values are left unset so the model defaults apply.
func NewGenerateContentConfig(values AgentModel) *genai.GenerateContentConfig {
	out := &genai.GenerateContentConfig{}
	if values.Temperature > 0 {
		out.Temperature = genai.Ptr[float32](values.Temperature)
	}
	if values.TopP > 0 {
		out.TopP = genai.Ptr[float32](values.TopP)
	}
	if values.TopK > 0 {
		out.TopK = genai.Ptr[float32](values.TopK)
	}
	if values.MaxTokens > 0 {
		out.MaxOutputTokens = values.MaxTokens
	}
	if values.SystemInstructions != "" {
		out.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: values.SystemInstructions}}}
	}
	if values.RelaxSafety {
		out.SafetySettings = DefaultSafetySettings
	}
	return out
}

// GenerateContent waits for the rate limiter, then sends a single request.
// A request is never re-sent; a cancelled wait returns the context error.
//
// Inputs:
//   - ctx: The context for the request.
//   - content: The prompt contents.
//
// Outputs:
//   - *genai.GenerateContentResponse: The response from the AI model if successful.
//   - error: The limiter or transport error.
func (q *QuotaAwareGenerativeAIModel) GenerateContent(ctx context.Context, content []*genai.Content) (*genai.GenerateContentResponse, error) {
	if q.RateLimit != nil {
		if err := q.RateLimit.Wait(ctx); err != nil {
			return nil, err
		}
	}
	return q.ModelHandle.GenerateContent(ctx, q.ModelName, content, q.GenerativeContentConfig)
}
