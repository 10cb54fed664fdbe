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

package testutil

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/jaycherian/gcp-go-channel-digest/internal/core/model"
)

// YouTubeFixture is the data served by NewYouTubeServer.
type YouTubeFixture struct {
	Channels map[string]*model.Channel       // By channel id.
	Handles  map[string]string               // Handle (without "@") to channel id.
	Videos   map[string][]*model.VideoRecord // By channel id, newest first.

	// FailPath makes every request to the path (e.g. "/youtube/v3/videos") return 500.
	FailPath string

	mu       sync.Mutex
	requests map[string]int
}

// NewYouTubeFixture returns an empty fixture.
func NewYouTubeFixture() *YouTubeFixture {
	return &YouTubeFixture{
		Channels: map[string]*model.Channel{},
		Handles:  map[string]string{},
		Videos:   map[string][]*model.VideoRecord{},
		requests: map[string]int{},
	}
}

// Requests returns the number of requests served for the path.
func (f *YouTubeFixture) Requests(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[path]
}

// NewYouTubeServer starts a fake YouTube Data API serving the fixture and
// returns a client bound to it. The server is closed with the test.
func NewYouTubeServer(t *testing.T, fixture *YouTubeFixture) *youtube.Service {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(fixture.serve))
	t.Cleanup(srv.Close)

	service, err := youtube.NewService(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("failed to create youtube service: %v", err)
	}
	return service
}

func (f *YouTubeFixture) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests[r.URL.Path]++
	f.mu.Unlock()

	if f.FailPath != "" && r.URL.Path == f.FailPath {
		http.Error(w, `{"error":{"code":500,"message":"backend error"}}`, http.StatusInternalServerError)
		return
	}

	q := r.URL.Query()
	switch r.URL.Path {
	case "/youtube/v3/search":
		f.search(w, q.Get("type"), q)
	case "/youtube/v3/videos":
		f.videos(w, strings.Split(q.Get("id"), ","))
	case "/youtube/v3/channels":
		f.channels(w, q.Get("id"))
	default:
		http.NotFound(w, r)
	}
}

func (f *YouTubeFixture) search(w http.ResponseWriter, kind string, q map[string][]string) {
	get := func(k string) string {
		if v := q[k]; len(v) > 0 {
			return v[0]
		}
		return ""
	}
	out := &youtube.SearchListResponse{Items: []*youtube.SearchResult{}}
	switch kind {
	case "channel":
		if id, ok := f.Handles[strings.TrimPrefix(get("q"), "@")]; ok {
			out.Items = append(out.Items, &youtube.SearchResult{
				Id: &youtube.ResourceId{Kind: "youtube#channel", ChannelId: id},
			})
		}
	case "video":
		limit, err := strconv.Atoi(get("maxResults"))
		if err != nil || limit <= 0 {
			limit = 5
		}
		for i, v := range f.Videos[get("channelId")] {
			if i == limit {
				break
			}
			out.Items = append(out.Items, &youtube.SearchResult{
				Id: &youtube.ResourceId{Kind: "youtube#video", VideoId: v.ID},
			})
		}
	}
	writeJSON(w, out)
}

func (f *YouTubeFixture) videos(w http.ResponseWriter, ids []string) {
	byID := map[string]*model.VideoRecord{}
	for _, list := range f.Videos {
		for _, v := range list {
			byID[v.ID] = v
		}
	}
	out := &youtube.VideoListResponse{Items: []*youtube.Video{}}
	// Reverse order, so callers must restore the requested order themselves.
	for i := len(ids) - 1; i >= 0; i-- {
		v, ok := byID[ids[i]]
		if !ok {
			continue
		}
		out.Items = append(out.Items, &youtube.Video{
			Id: v.ID,
			Snippet: &youtube.VideoSnippet{
				Title:       v.Title,
				Description: v.Description,
				PublishedAt: v.PublishedAt.Format(time.RFC3339),
				Thumbnails: &youtube.ThumbnailDetails{
					Medium: &youtube.Thumbnail{Url: v.ThumbnailURL},
				},
			},
			ContentDetails: &youtube.VideoContentDetails{Duration: v.Duration},
		})
	}
	writeJSON(w, out)
}

func (f *YouTubeFixture) channels(w http.ResponseWriter, id string) {
	out := &youtube.ChannelListResponse{Items: []*youtube.Channel{}}
	if c, ok := f.Channels[id]; ok {
		out.Items = append(out.Items, &youtube.Channel{
			Id: c.ID,
			Snippet: &youtube.ChannelSnippet{
				Title:       c.Title,
				Description: c.Description,
				Thumbnails: &youtube.ThumbnailDetails{
					Default: &youtube.Thumbnail{Url: c.ThumbnailURL},
				},
			},
		})
	}
	writeJSON(w, out)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// SampleFixture holds one channel "UCsample" (handle "sample") with three
// videos A, B and C, newest first.
func SampleFixture() *YouTubeFixture {
	f := NewYouTubeFixture()
	f.Channels["UCsample"] = &model.Channel{
		ID:           "UCsample",
		Title:        "Sample Channel",
		Description:  "A channel used in tests",
		ThumbnailURL: "https://yt3.ggpht.com/sample.jpg",
	}
	f.Handles["sample"] = "UCsample"
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	f.Videos["UCsample"] = []*model.VideoRecord{
		NewVideo("vidA", "Video A", "Description of A", now),
		NewVideo("vidB", "Video B", "Description of B", now.Add(-24*time.Hour)),
		NewVideo("vidC", "Video C", "Description of C", now.Add(-48*time.Hour)),
	}
	return f
}
