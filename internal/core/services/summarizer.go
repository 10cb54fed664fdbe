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

// Package services holds the application services used by the HTTP handlers
// and the workflow commands: prompt building, summarization, the YouTube
// video fetcher and the channel subscriptions.
package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/jaycherian/gcp-go-channel-digest/internal/core/model"
)

// Summarizer produces a markdown summary for a video title and description.
// It is implemented in process by SummarizerService and remotely by SummarizerClient.
type Summarizer interface {
	Summarize(ctx context.Context, title string, description string) (string, error)
}

// Generator sends a prompt to a generative model and returns its text.
// *cloud.TextGenerator implements it.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// SummarizerService validates the request, builds the prompt and calls the generator.
type SummarizerService struct {
	Prompts   *PromptBuilder
	Generator Generator
}

// NewSummarizerService creates a SummarizerService.
func NewSummarizerService(prompts *PromptBuilder, generator Generator) *SummarizerService {
	return &SummarizerService{Prompts: prompts, Generator: generator}
}

// Summarize returns the generated summary.
//
// Outputs:
//   - string: The generated markdown.
//   - error: model.ErrMissingFields when either input is blank, or a
//     *model.GenerationFailedError for any generation failure.
func (s *SummarizerService) Summarize(ctx context.Context, title string, description string) (string, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(description) == "" {
		return "", model.ErrMissingFields
	}

	prompt, err := s.Prompts.Build(title, description)
	if err != nil {
		return "", &model.GenerationFailedError{Details: err.Error(), Err: err}
	}

	summary, err := s.Generator.Generate(ctx, prompt)
	if err != nil {
		slog.ErrorContext(ctx, "summary generation failed", "error", err)
		return "", model.NewGenerationFailedError(err)
	}
	return summary, nil
}
