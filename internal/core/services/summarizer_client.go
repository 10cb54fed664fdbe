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
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jaycherian/gcp-go-channel-digest/internal/core/model"
)

// SummarizePath is the route of the summarize endpoint.
const SummarizePath = "/api/summarize"

// SummarizeRequest is the body of POST /api/summarize.
type SummarizeRequest struct {
	VideoTitle       string `json:"videoTitle"`
	VideoDescription string `json:"videoDescription"`
}

// SummarizeResponse is the success body of POST /api/summarize.
type SummarizeResponse struct {
	Summary string `json:"summary"`
}

// ErrorResponse is the failure body of the API endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// SummarizerClient calls a remote summarize endpoint.
type SummarizerClient struct {
	BaseURL string
	Client  *http.Client
}

// NewSummarizerClient creates a client for the server at baseURL.
func NewSummarizerClient(baseURL string, timeout time.Duration) *SummarizerClient {
	return &SummarizerClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		Client:  &http.Client{Timeout: timeout},
	}
}

// Summarize posts the title and description and maps the error bodies back
// onto the model errors.
func (c *SummarizerClient) Summarize(ctx context.Context, title string, description string) (string, error) {
	body, err := json.Marshal(&SummarizeRequest{VideoTitle: title, VideoDescription: description})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+SummarizePath, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return "", &model.GenerationFailedError{Details: err.Error(), Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusOK {
		var out SummarizeResponse
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return "", fmt.Errorf("failed to decode summarize response: %w", err)
		}
		return out.Summary, nil
	}

	var failure ErrorResponse
	_ = json.NewDecoder(resp.Body).Decode(&failure)
	if resp.StatusCode == http.StatusBadRequest {
		return "", model.ErrMissingFields
	}
	details := failure.Details
	if details == "" {
		details = fmt.Sprintf("unexpected status %d", resp.StatusCode)
	}
	return "", &model.GenerationFailedError{Details: details}
}
