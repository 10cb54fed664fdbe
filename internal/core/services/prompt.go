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

package services

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/jaycherian/gcp-go-channel-digest/internal/cloud"
)

// DefaultSummaryPrompt is used when the configuration provides no template.
// It receives .Language, .Title and .Description.
const DefaultSummaryPrompt = `Summarize the key points of the following YouTube video in {{.Language}}.

Requirements:
1. Pick the 3 to 5 most important topics and summarize each one as a single bullet point.
2. Write every bullet in {{.Language}}.
3. Start every bullet with the timestamp [MM:SS] at which the topic is covered.
4. Format the answer as markdown exactly like this example:

# Video Summary
## Key Points
- [00:00] Summary of topic 1
- [00:00] Summary of topic 2

Title: {{.Title}}

Description: {{.Description}}`

// PromptParams is the data handed to the summary template.
type PromptParams struct {
	Language    string
	Title       string
	Description string
}

// PromptBuilder renders the summary prompt from a title and a description.
type PromptBuilder struct {
	template       *template.Template
	language       string
	titleMax       int
	descriptionMax int
}

// NewPromptBuilder parses the template. An empty template selects
// DefaultSummaryPrompt and an empty language selects the configured default.
func NewPromptBuilder(promptTemplate string, language string, titleMax int, descriptionMax int) (*PromptBuilder, error) {
	if strings.TrimSpace(promptTemplate) == "" {
		promptTemplate = DefaultSummaryPrompt
	}
	if language == "" {
		language = cloud.DefaultSummaryLanguage
	}
	t, err := template.New("summary-template").Option("missingkey=error").Parse(promptTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse summary prompt template: %w", err)
	}
	return &PromptBuilder{template: t, language: language, titleMax: titleMax, descriptionMax: descriptionMax}, nil
}

// NewPromptBuilderFromConfig builds the prompt builder described by the configuration.
func NewPromptBuilderFromConfig(config *cloud.Config) (*PromptBuilder, error) {
	return NewPromptBuilder(
		config.PromptTemplates.SummaryPrompt,
		config.PromptTemplates.Language,
		config.Limits.TitleMax,
		config.Limits.DescriptionMax)
}

// Truncate trims surrounding whitespace and keeps at most max characters.
// Characters are counted as runes, so a multi-byte character is never split.
// A max of zero or less disables truncation.
func Truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	if max <= 0 {
		return s
	}
	count := 0
	for i := range s {
		if count == max {
			return s[:i]
		}
		count++
	}
	return s
}

// Build truncates both inputs to their limits and renders the prompt.
func (p *PromptBuilder) Build(title string, description string) (string, error) {
	params := PromptParams{
		Language:    p.language,
		Title:       Truncate(title, p.titleMax),
		Description: Truncate(description, p.descriptionMax),
	}
	var buffer bytes.Buffer
	if err := p.template.Execute(&buffer, params); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}
	return buffer.String(), nil
}
