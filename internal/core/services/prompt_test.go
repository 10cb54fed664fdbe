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

package services_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaycherian/gcp-go-channel-digest/internal/core/services"
	"github.com/jaycherian/gcp-go-channel-digest/internal/testutil"
)

func TestTruncateCountsRunes(t *testing.T) {
	assert.Equal(t, "abc", services.Truncate("  abcdef ", 3))
	assert.Equal(t, "안녕", services.Truncate("안녕하세요", 2))
	assert.Equal(t, "short", services.Truncate("short", 10))
	assert.Equal(t, "exact", services.Truncate("exact", 5))
	assert.Equal(t, "unbounded", services.Truncate("unbounded", 0))
}

func TestPromptBuilderIncludesInputs(t *testing.T) {
	builder, err := services.NewPromptBuilder("", "", 500, 1000)
	require.NoError(t, err)

	prompt, err := builder.Build("Go Concurrency", "Channels & goroutines <explained>")
	require.NoError(t, err)

	assert.Contains(t, prompt, "Title: Go Concurrency")
	// text/template does not escape, so the description is included verbatim.
	assert.Contains(t, prompt, "Description: Channels & goroutines <explained>")
	assert.Contains(t, prompt, "in Korean")
	assert.Contains(t, prompt, "[MM:SS]")
	assert.Contains(t, prompt, "# Video Summary\n## Key Points")
}

func TestPromptBuilderTruncatesInputs(t *testing.T) {
	builder, err := services.NewPromptBuilder("{{.Title}}|{{.Description}}", "English", 5, 8)
	require.NoError(t, err)

	prompt, err := builder.Build(strings.Repeat("t", 20), strings.Repeat("d", 20))
	require.NoError(t, err)
	assert.Equal(t, "ttttt|dddddddd", prompt)
}

func TestPromptBuilderFromConfig(t *testing.T) {
	config := testutil.NewTestConfig()
	config.PromptTemplates.SummaryPrompt = "{{.Language}}: {{.Title}}"
	config.PromptTemplates.Language = "English"

	builder, err := services.NewPromptBuilderFromConfig(config)
	require.NoError(t, err)
	prompt, err := builder.Build("Title", "Description")
	require.NoError(t, err)
	assert.Equal(t, "English: Title", prompt)
}

func TestPromptBuilderInvalidTemplate(t *testing.T) {
	_, err := services.NewPromptBuilder("{{.Title", "", 0, 0)
	assert.Error(t, err)
}
