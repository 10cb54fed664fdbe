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

// Package testutil provides fakes and fixtures shared by the package tests:
// a test configuration, scripted summarizers and generators, and an
// in-process stand-in for the YouTube Data API.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jaycherian/gcp-go-channel-digest/internal/cloud"
	"github.com/jaycherian/gcp-go-channel-digest/internal/core/model"
)

// NewTestConfig returns the default configuration with test friendly limits.
// No files are read.
func NewTestConfig() *cloud.Config {
	config := cloud.NewConfig()
	config.Application.GeminiAPIKey = "test-gemini-key-0123456789"
	config.YouTube.APIKey = "test-youtube-key"
	config.Limits.CallTimeout = cloud.Duration{Duration: 5 * time.Second}
	config.Auth.JWTSecret = "test-secret"
	config.Auth.Issuer = "channel-digest-test"
	return config
}

// FakeSummarizer returns "summary of <title>" unless a failure is scripted
// for the title. It records every call and is safe for concurrent use.
type FakeSummarizer struct {
	mu       sync.Mutex
	Failures map[string]error // Keyed by title.
	Calls    []string         // Titles in call order.
}

func NewFakeSummarizer() *FakeSummarizer {
	return &FakeSummarizer{Failures: map[string]error{}}
}

func (f *FakeSummarizer) Summarize(_ context.Context, title string, description string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, title)
	if err, ok := f.Failures[title]; ok {
		return "", err
	}
	return SummaryFor(title), nil
}

// CallCount returns the number of Summarize calls.
func (f *FakeSummarizer) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Calls)
}

// SummaryFor is the summary FakeSummarizer produces for title.
func SummaryFor(title string) string {
	return fmt.Sprintf("# Video Summary\n## Key Points\n- [00:30] intro of %s\n- [1:05] details", title)
}

// FakeGenerator returns Response, or Err when set, and records the prompts.
type FakeGenerator struct {
	mu       sync.Mutex
	Response string
	Err      error
	Prompts  []string
}

func (f *FakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Prompts = append(f.Prompts, prompt)
	if f.Err != nil {
		return "", f.Err
	}
	return f.Response, nil
}

// NewVideo builds a video record with a watch URL.
func NewVideo(id string, title string, description string, publishedAt time.Time) *model.VideoRecord {
	return &model.VideoRecord{
		ID:           id,
		Title:        title,
		Description:  description,
		ThumbnailURL: fmt.Sprintf("https://i.ytimg.com/vi/%s/mqdefault.jpg", id),
		PublishedAt:  publishedAt.UTC(),
		URL:          model.NewWatchURL(id),
		Duration:     "PT10M",
	}
}
