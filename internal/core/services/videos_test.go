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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaycherian/gcp-go-channel-digest/internal/core/model"
	"github.com/jaycherian/gcp-go-channel-digest/internal/core/services"
	"github.com/jaycherian/gcp-go-channel-digest/internal/testutil"
)

func newVideoService(t *testing.T, fixture *testutil.YouTubeFixture) *services.VideoService {
	t.Helper()
	return services.NewVideoService(testutil.NewYouTubeServer(t, fixture), testutil.NewTestConfig())
}

func TestResolveChannelID(t *testing.T) {
	fixture := testutil.SampleFixture()
	videos := newVideoService(t, fixture)
	ctx := context.Background()

	cases := []struct{ input, want string }{
		{"https://www.youtube.com/channel/UCsample", "UCsample"},
		{"https://youtube.com/channel/UCother/videos", "UCother"},
		{"https://www.youtube.com/@sample", "UCsample"},
		{"https://www.youtube.com/@sample/featured", "UCsample"},
		{"@sample", "UCsample"},
		{"UCbare", "UCbare"},
		{"  https://www.youtube.com/channel/UCsample/  ", "UCsample"},
	}
	for _, tc := range cases {
		got, err := videos.ResolveChannelID(ctx, tc.input)
		require.NoError(t, err, tc.input)
		assert.Equal(t, tc.want, got, tc.input)
	}
}

func TestResolveChannelIDErrors(t *testing.T) {
	videos := newVideoService(t, testutil.SampleFixture())
	ctx := context.Background()

	cases := []struct {
		input string
		want  error
	}{
		{"", model.ErrInvalidChannelURL},
		{"https://vimeo.com/channel/UCsample", model.ErrInvalidChannelURL},
		{"not a url/at all", model.ErrInvalidChannelURL},
		{"https://www.youtube.com/c/legacy", model.ErrUnsupportedChannelURL},
		{"https://www.youtube.com/user/old", model.ErrUnsupportedChannelURL},
		{"https://www.youtube.com/channel/", model.ErrUnsupportedChannelURL},
		{"https://www.youtube.com/@unknown", model.ErrChannelNotFound},
	}
	for _, tc := range cases {
		_, err := videos.ResolveChannelID(ctx, tc.input)
		assert.ErrorIs(t, err, tc.want, tc.input)
	}
}

func TestRecentVideosKeepsSearchOrder(t *testing.T) {
	fixture := testutil.SampleFixture()
	videos := newVideoService(t, fixture)

	out, err := videos.RecentVideos(context.Background(), "UCsample")
	require.NoError(t, err)
	require.Len(t, out, 3)

	assert.Equal(t, []string{"vidA", "vidB", "vidC"}, []string{out[0].ID, out[1].ID, out[2].ID})
	assert.Equal(t, "Video A", out[0].Title)
	assert.Equal(t, "Description of A", out[0].Description)
	assert.Equal(t, "https://youtube.com/watch?v=vidA", out[0].URL)
	assert.Equal(t, "https://i.ytimg.com/vi/vidA/mqdefault.jpg", out[0].ThumbnailURL)
	assert.Equal(t, "PT10M", out[0].Duration)
	assert.True(t, fixture.Videos["UCsample"][0].PublishedAt.Equal(out[0].PublishedAt))
	assert.Nil(t, out[0].Summary)

	assert.Equal(t, 1, fixture.Requests("/youtube/v3/search"))
	assert.Equal(t, 1, fixture.Requests("/youtube/v3/videos"))
}

func TestRecentVideosHonorsMaxResults(t *testing.T) {
	fixture := testutil.SampleFixture()
	config := testutil.NewTestConfig()
	config.YouTube.MaxResults = 2
	videos := services.NewVideoService(testutil.NewYouTubeServer(t, fixture), config)

	out, err := videos.RecentVideos(context.Background(), "UCsample")
	require.NoError(t, err)
	assert.Len(t, out, 2)
}

func TestRecentVideosDescriptionPlaceholder(t *testing.T) {
	fixture := testutil.SampleFixture()
	fixture.Videos["UCsample"][1].Description = ""
	config := testutil.NewTestConfig()
	config.YouTube.DescriptionPlaceholder = "No description."
	videos := services.NewVideoService(testutil.NewYouTubeServer(t, fixture), config)

	out, err := videos.RecentVideos(context.Background(), "UCsample")
	require.NoError(t, err)
	assert.Equal(t, "No description.", out[1].Description)
}

func TestRecentVideosErrors(t *testing.T) {
	ctx := context.Background()

	empty := testutil.SampleFixture()
	_, err := newVideoService(t, empty).RecentVideos(ctx, "UCnothing")
	assert.ErrorIs(t, err, model.ErrVideoListUnavailable)

	searchDown := testutil.SampleFixture()
	searchDown.FailPath = "/youtube/v3/search"
	_, err = newVideoService(t, searchDown).RecentVideos(ctx, "UCsample")
	assert.ErrorIs(t, err, model.ErrVideoListUnavailable)

	detailsDown := testutil.SampleFixture()
	detailsDown.FailPath = "/youtube/v3/videos"
	_, err = newVideoService(t, detailsDown).RecentVideos(ctx, "UCsample")
	assert.ErrorIs(t, err, model.ErrVideoDetailsUnavailable)
}

func TestGetChannel(t *testing.T) {
	videos := newVideoService(t, testutil.SampleFixture())

	channel, err := videos.GetChannel(context.Background(), "UCsample")
	require.NoError(t, err)
	assert.Equal(t, "UCsample", channel.ID)
	assert.Equal(t, "Sample Channel", channel.Title)
	assert.Equal(t, "https://yt3.ggpht.com/sample.jpg", channel.ThumbnailURL)

	_, err = videos.GetChannel(context.Background(), "UCmissing")
	assert.ErrorIs(t, err, model.ErrChannelNotFound)
}
