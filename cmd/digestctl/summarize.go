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

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jaycherian/gcp-go-channel-digest/internal/cloud"
	"github.com/jaycherian/gcp-go-channel-digest/internal/core/services"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Summarize one video title and description",
	Long: `Summarize prints the markdown summary produced for a title and description.

Without --server the Gemini API is called directly and GEMINI_API_KEY is required.`,
	RunE: runSummarize,
}

func init() {
	summarizeCmd.Flags().String("title", "", "video title")
	summarizeCmd.Flags().String("description", "", "video description")
	summarizeCmd.Flags().StringVar(&serverURL, "server", "", "base URL of a running digest server")
}

func runSummarize(cmd *cobra.Command, args []string) error {
	title, _ := cmd.Flags().GetString("title")
	description, _ := cmd.Flags().GetString("description")

	summarizer, cleanup, err := newSummarizer(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	summary, err := summarizer.Summarize(cmd.Context(), title, description)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), summary)
	return nil
}

// newSummarizer returns the remote summarizer when --server is set and a
// local one otherwise. The cleanup function releases the local clients.
func newSummarizer(ctx context.Context) (services.Summarizer, func(), error) {
	if serverURL != "" {
		return services.NewSummarizerClient(serverURL, cfg.Limits.CallTimeout.Duration*2), func() {}, nil
	}
	if cfg.Application.GeminiAPIKey == "" {
		return nil, nil, errors.New("GEMINI_API_KEY is not set; set it or use --server")
	}
	clients, err := cloud.NewCloudServiceClients(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	summaryModel, err := clients.SummaryModel(cfg)
	if err != nil {
		clients.Close()
		return nil, nil, err
	}
	prompts, err := services.NewPromptBuilderFromConfig(cfg)
	if err != nil {
		clients.Close()
		return nil, nil, err
	}
	generator := cloud.NewTextGenerator("digestctl", summaryModel, cfg.Limits.CallTimeout.Duration)
	return services.NewSummarizerService(prompts, generator), clients.Close, nil
}
