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
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaycherian/gcp-go-channel-digest/internal/core/model"
	"github.com/jaycherian/gcp-go-channel-digest/internal/core/services"
	"github.com/jaycherian/gcp-go-channel-digest/internal/testutil"
)

func newSummarizer(t *testing.T, generator services.Generator) *services.SummarizerService {
	t.Helper()
	prompts, err := services.NewPromptBuilder("", "", 500, 1000)
	require.NoError(t, err)
	return services.NewSummarizerService(prompts, generator)
}

func TestSummarizeReturnsGeneratedText(t *testing.T) {
	generator := &testutil.FakeGenerator{Response: "# Video Summary\n- [00:10] point"}
	out, err := newSummarizer(t, generator).Summarize(context.Background(), "Title", "Description")

	require.NoError(t, err)
	assert.Equal(t, "# Video Summary\n- [00:10] point", out)
	require.Len(t, generator.Prompts, 1)
	assert.Contains(t, generator.Prompts[0], "Title: Title")
}

func TestSummarizeMissingFields(t *testing.T) {
	generator := &testutil.FakeGenerator{Response: "unused"}
	summarizer := newSummarizer(t, generator)

	for _, in := range [][2]string{{"", "d"}, {"t", ""}, {"  ", "\t"}} {
		_, err := summarizer.Summarize(context.Background(), in[0], in[1])
		assert.ErrorIs(t, err, model.ErrMissingFields)
	}
	assert.Empty(t, generator.Prompts)
}

func TestSummarizeGenerationFailure(t *testing.T) {
	generator := &testutil.FakeGenerator{Err: &model.GenerationRequestFailedError{Message: "API key not valid"}}
	_, err := newSummarizer(t, generator).Summarize(context.Background(), "Title", "Description")

	var failed *model.GenerationFailedError
	require.ErrorAs(t, err, &failed)
	assert.Equal(t, "API key not valid", failed.Details)
}

func TestSummarizerClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req services.SummarizeRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		w.Header().Set("Content-Type", "application/json")
		switch req.VideoTitle {
		case "":
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(services.ErrorResponse{Error: "Missing required fields"})
		case "fail":
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(services.ErrorResponse{Error: "Failed to generate summary", Details: "quota exceeded"})
		case "bare":
			w.WriteHeader(http.StatusBadGateway)
		default:
			_ = json.NewEncoder(w).Encode(services.SummarizeResponse{Summary: "summary of " + req.VideoTitle + "/" + req.VideoDescription})
		}
	}))
	defer srv.Close()

	client := services.NewSummarizerClient(srv.URL+"/", time.Second)
	ctx := context.Background()

	out, err := client.Summarize(ctx, "Title", "Desc")
	require.NoError(t, err)
	assert.Equal(t, "summary of Title/Desc", out)

	_, err = client.Summarize(ctx, "", "Desc")
	assert.ErrorIs(t, err, model.ErrMissingFields)

	var failed *model.GenerationFailedError
	_, err = client.Summarize(ctx, "fail", "Desc")
	require.True(t, errors.As(err, &failed))
	assert.Equal(t, "quota exceeded", failed.Details)

	_, err = client.Summarize(ctx, "bare", "Desc")
	require.True(t, errors.As(err, &failed))
	assert.Equal(t, "unexpected status 502", failed.Details)
}
