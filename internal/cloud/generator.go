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
// This file holds the text generator: a single-call wrapper around the Gemini
// generateContent endpoint that returns the model's plain text.
//
// Logic Flow:
//  1. Reject a prompt that is empty after trimming.
//  2. Send exactly one request, bounded by the configured timeout.
//  3. On failure, extract the API error message when there is one.
//  4. On success, return the first candidate's first text part, failing when
//     that text is absent or blank.
package cloud

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"google.golang.org/genai"

	"github.com/jaycherian/gcp-go-channel-digest/internal/core/model"
)

// MeterName is the instrumentation scope shared by the application's meters.
const MeterName = "github.com/jaycherian/gcp-go-channel-digest"

// ProbePrompt is sent once at startup to check the model is reachable.
const ProbePrompt = "Say hello if you can read this message."

// TextGenerator sends one prompt to a generative model and extracts its text.
type TextGenerator struct {
	model              *QuotaAwareGenerativeAIModel
	timeout            time.Duration
	inputTokenCounter  metric.Int64Counter
	outputTokenCounter metric.Int64Counter
	failureCounter     metric.Int64Counter
}

// NewTextGenerator creates a generator for the model. A zero timeout leaves
// the deadline to the caller's context.
//
// Inputs:
//   - name: Used to namespace the telemetry counters.
//   - model: The rate-limited model wrapper.
//   - timeout: The bound applied to each call.
func NewTextGenerator(name string, model *QuotaAwareGenerativeAIModel, timeout time.Duration) *TextGenerator {
	meter := otel.Meter(MeterName)
	out := &TextGenerator{model: model, timeout: timeout}
	out.inputTokenCounter, _ = meter.Int64Counter(fmt.Sprintf("%s.gemini.token.input", name))
	out.outputTokenCounter, _ = meter.Int64Counter(fmt.Sprintf("%s.gemini.token.output", name))
	out.failureCounter, _ = meter.Int64Counter(fmt.Sprintf("%s.gemini.failure", name))
	return out
}

// ModelName returns the name of the model requests are sent to.
func (g *TextGenerator) ModelName() string {
	return g.model.ModelName
}

// Generate sends the prompt and returns the generated text.
//
// Outputs:
//   - string: The text of the first part of the first candidate.
//   - error: model.ErrEmptyPrompt, *model.GenerationRequestFailedError or
//     model.ErrEmptyGenerationResult.
func (g *TextGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", model.ErrEmptyPrompt
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	contents := []*genai.Content{
		{Role: "user", Parts: []*genai.Part{{Text: prompt}}},
	}
	resp, err := g.model.GenerateContent(ctx, contents)
	if err != nil {
		g.failureCounter.Add(ctx, 1)
		return "", &model.GenerationRequestFailedError{Message: apiErrorMessage(err), Err: err}
	}

	if resp != nil && resp.UsageMetadata != nil {
		g.inputTokenCounter.Add(ctx, int64(resp.UsageMetadata.PromptTokenCount))
		g.outputTokenCounter.Add(ctx, int64(resp.UsageMetadata.CandidatesTokenCount))
	}

	text := firstCandidateText(resp)
	if strings.TrimSpace(text) == "" {
		g.failureCounter.Add(ctx, 1)
		return "", model.ErrEmptyGenerationResult
	}
	return text, nil
}

// Probe logs the models visible to the key, then runs a one-off generation
// to verify the key and model. Only the generation result is returned; the
// server just logs it.
func (g *TextGenerator) Probe(ctx context.Context) error {
	g.logAvailableModels(ctx)
	out, err := g.Generate(ctx, ProbePrompt)
	if err != nil {
		return fmt.Errorf("model probe failed: %w", err)
	}
	slog.InfoContext(ctx, "model probe succeeded", "model", g.ModelName(), "response", out)
	return nil
}

// logAvailableModels lists the models when the handle supports it. A listing
// failure is only logged.
func (g *TextGenerator) logAvailableModels(ctx context.Context) {
	lister, ok := g.model.ModelHandle.(ModelLister)
	if !ok {
		return
	}
	page, err := lister.List(ctx, &genai.ListModelsConfig{})
	if err != nil {
		slog.WarnContext(ctx, "failed to list models", "error", err)
		return
	}
	names := make([]string, 0, len(page.Items))
	for _, m := range page.Items {
		if m != nil {
			names = append(names, m.Name)
		}
	}
	slog.InfoContext(ctx, "available models", "count", len(names), "models", names)
}

// firstCandidateText returns candidates[0].content.parts[0].text, or "" when
// any step of that path is missing.
func firstCandidateText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	c := resp.Candidates[0]
	if c == nil || c.Content == nil || len(c.Content.Parts) == 0 || c.Content.Parts[0] == nil {
		return ""
	}
	return c.Content.Parts[0].Text
}

// apiErrorMessage extracts the message of a Gemini API error body.
func apiErrorMessage(err error) string {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil && apiErrPtr.Message != "" {
		return apiErrPtr.Message
	}
	return model.DefaultGenerationFailureMessage
}
