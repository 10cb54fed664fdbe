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
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jaycherian/gcp-go-channel-digest/internal/cloud"
	"github.com/jaycherian/gcp-go-channel-digest/internal/core/model"
	"github.com/jaycherian/gcp-go-channel-digest/internal/core/services"
	"github.com/jaycherian/gcp-go-channel-digest/internal/core/workflow"
)

var digestCmd = &cobra.Command{
	Use:   "digest <channel-url-or-id>",
	Short: "Print the recent videos of a channel with their summaries",
	Long: `Digest fetches the recent videos of a channel and summarizes them.

Summaries are generated locally unless --server is set, in which case the
server's /api/summarize endpoint is used. YOUTUBE_API_KEY is always required.`,
	Args: cobra.ExactArgs(1),
	RunE: runDigest,
}

func init() {
	digestCmd.Flags().StringVar(&serverURL, "server", "", "base URL of a running digest server")
	digestCmd.Flags().Bool("json", false, "output as JSON")
}

func runDigest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	jsonOutput, _ := cmd.Flags().GetBool("json")

	youtubeService, err := cloud.NewYouTubeService(ctx, cfg.YouTube)
	if err != nil {
		return fmt.Errorf("error creating youtube service: %w", err)
	}
	videos := services.NewVideoService(youtubeService, cfg)

	summarizer, cleanup, err := newSummarizer(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	channelID, err := videos.ResolveChannelID(ctx, args[0])
	if err != nil {
		return err
	}

	stats := &model.DigestStats{}
	deps := workflow.NewDependencies(cfg, videos, nil, summarizer, nil, stats)
	digest, err := workflow.NewChannelVideosWorkflow(deps).Run(ctx, nil, channelID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(digest)
	}
	printDigest(out, digest)
	snapshot := stats.Snapshot()
	fmt.Fprintf(cmd.ErrOrStderr(), "generated %d, failed %d, skipped %d\n", snapshot.Generated, snapshot.Failed, snapshot.Skipped)
	return nil
}

func printDigest(out io.Writer, digest *model.ChannelDigest) {
	fmt.Fprintf(out, "%s (%s)\n\n", digest.Channel.Title, digest.Channel.ID)
	for _, v := range digest.Videos {
		fmt.Fprintf(out, "== %s\n%s\n", v.Title, v.URL)
		if v.HasSummary() {
			fmt.Fprintf(out, "\n%s\n", *v.Summary)
		} else {
			fmt.Fprintln(out, "\n(no summary)")
		}
		fmt.Fprintln(out)
	}
}
