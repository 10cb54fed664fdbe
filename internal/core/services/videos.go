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
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"google.golang.org/api/youtube/v3"

	"github.com/jaycherian/gcp-go-channel-digest/internal/cloud"
	"github.com/jaycherian/gcp-go-channel-digest/internal/core/model"
)

// Hosts accepted in channel URLs.
var channelHosts = map[string]bool{
	"youtube.com":     true,
	"www.youtube.com": true,
}

// VideoService reads channel and video metadata from the YouTube Data API.
type VideoService struct {
	YouTube                *youtube.Service
	MaxResults             int64         // Recent videos returned per channel.
	DescriptionPlaceholder string        // Replaces empty descriptions when set.
	Timeout                time.Duration // Bound applied to each API call.
}

// NewVideoService creates a VideoService configured from the YouTube and limits sections.
func NewVideoService(service *youtube.Service, config *cloud.Config) *VideoService {
	maxResults := config.YouTube.MaxResults
	if maxResults <= 0 {
		maxResults = cloud.DefaultMaxResults
	}
	return &VideoService{
		YouTube:                service,
		MaxResults:             maxResults,
		DescriptionPlaceholder: config.YouTube.DescriptionPlaceholder,
		Timeout:                config.Limits.CallTimeout.Duration,
	}
}

func (s *VideoService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.Timeout)
}

// ResolveChannelID turns user input into a channel id. Accepted forms are a
// youtube.com URL with a /channel/<id> or /@handle path, a bare @handle and a
// bare channel id.
func (s *VideoService) ResolveChannelID(ctx context.Context, input string) (string, error) {
	input = strings.TrimSpace(input)
	switch {
	case input == "":
		return "", model.ErrInvalidChannelURL
	case strings.HasPrefix(input, "@"):
		return s.resolveHandle(ctx, strings.TrimPrefix(input, "@"))
	case !strings.Contains(input, "/") && !strings.Contains(input, "."):
		return input, nil
	}

	u, err := url.Parse(input)
	if err != nil || !channelHosts[strings.ToLower(u.Hostname())] {
		return "", model.ErrInvalidChannelURL
	}

	path := strings.Trim(u.Path, "/")
	switch {
	case strings.HasPrefix(path, "channel/"):
		id := strings.SplitN(strings.TrimPrefix(path, "channel/"), "/", 2)[0]
		if id == "" {
			return "", model.ErrUnsupportedChannelURL
		}
		return id, nil
	case strings.HasPrefix(path, "@"):
		handle := strings.SplitN(strings.TrimPrefix(path, "@"), "/", 2)[0]
		if handle == "" {
			return "", model.ErrUnsupportedChannelURL
		}
		return s.resolveHandle(ctx, handle)
	default:
		return "", model.ErrUnsupportedChannelURL
	}
}

// resolveHandle searches for the channel matching a handle.
func (s *VideoService) resolveHandle(ctx context.Context, handle string) (string, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.YouTube.Search.List([]string{"id"}).
		Q(handle).
		Type("channel").
		MaxResults(1).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("channel search failed: %w", err)
	}
	if len(resp.Items) == 0 || resp.Items[0].Id == nil || resp.Items[0].Id.ChannelId == "" {
		return "", model.ErrChannelNotFound
	}
	return resp.Items[0].Id.ChannelId, nil
}

// GetChannel fetches the channel snippet.
func (s *VideoService) GetChannel(ctx context.Context, channelID string) (*model.Channel, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.YouTube.Channels.List([]string{"snippet"}).
		Id(channelID).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("channel lookup failed: %w", err)
	}
	if len(resp.Items) == 0 || resp.Items[0].Snippet == nil {
		return nil, model.ErrChannelNotFound
	}

	item := resp.Items[0]
	out := &model.Channel{
		ID:          item.Id,
		Title:       item.Snippet.Title,
		Description: item.Snippet.Description,
	}
	if out.ID == "" {
		out.ID = channelID
	}
	if item.Snippet.Thumbnails != nil && item.Snippet.Thumbnails.Default != nil {
		out.ThumbnailURL = item.Snippet.Thumbnails.Default.Url
	}
	return out, nil
}

// RecentVideos returns the most recent videos of the channel, newest first.
// It runs one search and one batched detail lookup.
func (s *VideoService) RecentVideos(ctx context.Context, channelID string) ([]*model.VideoRecord, error) {
	ids, err := s.searchRecentVideoIDs(ctx, channelID)
	if err != nil {
		return nil, err
	}
	return s.videoDetails(ctx, ids)
}

func (s *VideoService) searchRecentVideoIDs(ctx context.Context, channelID string) ([]string, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.YouTube.Search.List([]string{"id"}).
		ChannelId(channelID).
		Order("date").
		Type("video").
		MaxResults(s.MaxResults).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrVideoListUnavailable, err)
	}

	ids := make([]string, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Id != nil && item.Id.VideoId != "" {
			ids = append(ids, item.Id.VideoId)
		}
	}
	if len(ids) == 0 {
		return nil, model.ErrVideoListUnavailable
	}
	return ids, nil
}

func (s *VideoService) videoDetails(ctx context.Context, ids []string) ([]*model.VideoRecord, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.YouTube.Videos.List([]string{"snippet", "contentDetails"}).
		Id(strings.Join(ids, ",")).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrVideoDetailsUnavailable, err)
	}
	if len(resp.Items) == 0 {
		return nil, model.ErrVideoDetailsUnavailable
	}

	byID := make(map[string]*youtube.Video, len(resp.Items))
	for _, item := range resp.Items {
		byID[item.Id] = item
	}

	// Keep the search order (newest first).
	out := make([]*model.VideoRecord, 0, len(ids))
	for _, id := range ids {
		item, ok := byID[id]
		if !ok || item.Snippet == nil {
			slog.DebugContext(ctx, "video missing from detail lookup", "video_id", id)
			continue
		}
		out = append(out, s.toRecord(ctx, item))
	}
	if len(out) == 0 {
		return nil, model.ErrVideoDetailsUnavailable
	}
	return out, nil
}

func (s *VideoService) toRecord(ctx context.Context, item *youtube.Video) *model.VideoRecord {
	record := &model.VideoRecord{
		ID:          item.Id,
		Title:       item.Snippet.Title,
		Description: item.Snippet.Description,
		URL:         model.NewWatchURL(item.Id),
	}
	if strings.TrimSpace(record.Description) == "" {
		record.Description = s.DescriptionPlaceholder
	}
	if item.Snippet.Thumbnails != nil && item.Snippet.Thumbnails.Medium != nil {
		record.ThumbnailURL = item.Snippet.Thumbnails.Medium.Url
	}
	if item.ContentDetails != nil {
		record.Duration = item.ContentDetails.Duration
	}
	if item.Snippet.PublishedAt != "" {
		publishedAt, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt)
		if err != nil {
			slog.WarnContext(ctx, "unparseable publish date", "video_id", item.Id, "value", item.Snippet.PublishedAt)
		} else {
			record.PublishedAt = publishedAt
		}
	}
	return record
}
