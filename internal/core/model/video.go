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

// Package model defines the core data structures for the application.
// This file contains the records that flow through the digest pipeline: the
// channel and video metadata fetched from YouTube, the cached summaries, and
// the per-user channel subscriptions.
package model

import (
	"fmt"
	"time"
)

// WatchURLPrefix is the prefix used to build the canonical watch URL of a video.
const WatchURLPrefix = "https://youtube.com/watch?v="

// NewWatchURL returns the canonical watch URL for a video id.
func NewWatchURL(videoID string) string {
	return fmt.Sprintf("%s%s", WatchURLPrefix, videoID)
}

// Channel is the subset of the channel snippet used by the application.
type Channel struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	ThumbnailURL string `json:"thumbnail"`
}

// VideoRecord is the normalized metadata for one video. It is created by the
// video fetcher and only the Summary field changes afterwards. A nil Summary
// means no summary is available for the video.
type VideoRecord struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	ThumbnailURL string    `json:"thumbnail"`
	PublishedAt  time.Time `json:"publishedAt"`
	URL          string    `json:"url"`
	Duration     string    `json:"duration"`
	Summary      *string   `json:"summary,omitempty"`
}

// HasSummary reports whether a summary has been attached to the record.
func (v *VideoRecord) HasSummary() bool {
	return v.Summary != nil
}

// SetSummary attaches a summary to the record.
func (v *VideoRecord) SetSummary(summary string) {
	v.Summary = &summary
}

// SummaryEntry is a cached summary. There is at most one entry per video id
// and the last write wins. Entries are never deleted.
type SummaryEntry struct {
	VideoID   string    `json:"videoId" bigquery:"video_id"`
	Summary   string    `json:"summary" bigquery:"summary"`
	UpdatedAt time.Time `json:"updatedAt" bigquery:"updated_at"`
}

// NewSummaryEntry creates an entry stamped with the current time.
func NewSummaryEntry(videoID string, summary string) *SummaryEntry {
	return &SummaryEntry{
		VideoID:   videoID,
		Summary:   summary,
		UpdatedAt: time.Now().UTC(),
	}
}

// ChannelSubscription records that a user follows a channel. It is keyed by
// the pair (UserID, ChannelID).
type ChannelSubscription struct {
	UserID       string    `json:"-"`
	ChannelID    string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	ThumbnailURL string    `json:"thumbnail"`
	AddedAt      time.Time `json:"addedAt"`
}

// NewChannelSubscription builds a subscription for the user from a channel lookup.
func NewChannelSubscription(userID string, channel *Channel) *ChannelSubscription {
	return &ChannelSubscription{
		UserID:       userID,
		ChannelID:    channel.ID,
		Title:        channel.Title,
		Description:  channel.Description,
		ThumbnailURL: channel.ThumbnailURL,
		AddedAt:      time.Now().UTC(),
	}
}

// ChannelDigest is the result of the digest workflow: the channel and its
// most recent videos with whatever summaries could be produced.
type ChannelDigest struct {
	Channel *Channel       `json:"channel"`
	Videos  []*VideoDigest `json:"videos"`
}

// VideoDigest is a video record as rendered for the client. Summary holds the
// linked markdown and SummaryHTML its sanitized HTML rendering.
type VideoDigest struct {
	*VideoRecord
	SummaryHTML string `json:"summaryHtml,omitempty"`
}
