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

// Package api defines the HTTP routes of the digest server.
//
// Routes:
//   - POST /api/summarize: Summarizes a title and description (public).
//   - POST /api/channels: Subscribes to a channel and returns its digest.
//   - GET /api/channels: Lists the user's subscriptions.
//   - DELETE /api/channels/:id: Unsubscribes.
//   - GET /api/channels/:id/videos: Digest of a subscribed channel.
//   - POST /api/notifications: Notification setup; always reports disabled.
//   - GET /api/stats: Summary counters (dashboard).
//   - GET /healthz: Liveness.
//   - Anything else outside /api serves the single page entry point.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jaycherian/gcp-go-channel-digest/internal/auth"
	"github.com/jaycherian/gcp-go-channel-digest/internal/cloud"
	"github.com/jaycherian/gcp-go-channel-digest/internal/core/model"
	"github.com/jaycherian/gcp-go-channel-digest/internal/core/services"
	"github.com/jaycherian/gcp-go-channel-digest/internal/notify"
)

// DigestRunner produces a channel digest from an input (a channel URL or id).
type DigestRunner interface {
	Run(ctx context.Context, session *model.Session, input string) (*model.ChannelDigest, error)
}

// Handlers holds the collaborators of the routes.
type Handlers struct {
	Summarizer    services.Summarizer
	Subscriptions *services.SubscriptionService
	ChannelDigest DigestRunner // Input is the channel URL.
	ChannelVideos DigestRunner // Input is the channel id.
	Notifier      notify.Notifier
	Stats         *model.DigestStats
	EntryPage     cloud.EntryPageSource
}

// ChannelRequest is the body of POST /api/channels.
type ChannelRequest struct {
	ChannelURL string `json:"channelUrl"`
}

// Register adds every route to r. Routes that need a user go through authn.
func Register(r *gin.Engine, h *Handlers, authn *auth.Authenticator) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	SummarizeRouter(api, h)
	Dashboard(api, h)

	secured := api.Group("", authn.Required())
	ChannelRouter(secured, h)
	NotificationRouter(secured, h)

	r.NoRoute(h.entryPage)
}

// SummarizeRouter registers POST /summarize.
func SummarizeRouter(r *gin.RouterGroup, h *Handlers) {
	r.POST("/summarize", func(c *gin.Context) {
		var req services.SummarizeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, services.ErrorResponse{Error: "Missing required fields"})
			return
		}
		summary, err := h.Summarizer.Summarize(c.Request.Context(), req.VideoTitle, req.VideoDescription)
		if err != nil {
			writeSummarizeError(c, err)
			return
		}
		c.JSON(http.StatusOK, services.SummarizeResponse{Summary: summary})
	})
}

func writeSummarizeError(c *gin.Context, err error) {
	if errors.Is(err, model.ErrMissingFields) {
		c.JSON(http.StatusBadRequest, services.ErrorResponse{Error: "Missing required fields"})
		return
	}
	details := err.Error()
	var failed *model.GenerationFailedError
	if errors.As(err, &failed) {
		details = failed.Details
	}
	c.JSON(http.StatusInternalServerError, services.ErrorResponse{Error: "Failed to generate summary", Details: details})
}

// ChannelRouter registers the subscription routes under /channels.
func ChannelRouter(r *gin.RouterGroup, h *Handlers) {
	channels := r.Group("/channels")
	{
		channels.POST("", func(c *gin.Context) {
			session, _ := auth.SessionFrom(c)
			var req ChannelRequest
			if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.ChannelURL) == "" {
				c.JSON(http.StatusBadRequest, services.ErrorResponse{Error: "Missing required fields"})
				return
			}
			digest, err := h.ChannelDigest.Run(c.Request.Context(), session, req.ChannelURL)
			if err != nil {
				writeChannelError(c, err)
				return
			}
			c.JSON(http.StatusOK, digest)
		})

		channels.GET("", func(c *gin.Context) {
			session, _ := auth.SessionFrom(c)
			subscriptions, err := h.Subscriptions.List(c.Request.Context(), session)
			if err != nil {
				writeChannelError(c, err)
				return
			}
			c.JSON(http.StatusOK, subscriptions)
		})

		channels.DELETE("/:id", func(c *gin.Context) {
			session, _ := auth.SessionFrom(c)
			if err := h.Subscriptions.Unsubscribe(c.Request.Context(), session, c.Param("id")); err != nil {
				writeChannelError(c, err)
				return
			}
			c.Status(http.StatusNoContent)
		})

		channels.GET("/:id/videos", func(c *gin.Context) {
			session, _ := auth.SessionFrom(c)
			id := c.Param("id")
			subscription, err := h.Subscriptions.Get(c.Request.Context(), session, id)
			if err != nil {
				writeChannelError(c, err)
				return
			}
			if subscription == nil {
				c.JSON(http.StatusNotFound, services.ErrorResponse{Error: "Channel not subscribed"})
				return
			}
			digest, err := h.ChannelVideos.Run(c.Request.Context(), session, id)
			if err != nil {
				writeChannelError(c, err)
				return
			}
			c.JSON(http.StatusOK, digest)
		})
	}
}

// channelStatus maps a digest or subscription failure to its status and message.
func channelStatus(err error) (int, string) {
	switch {
	case errors.Is(err, model.ErrUnauthenticated):
		return http.StatusUnauthorized, "Login required"
	case errors.Is(err, model.ErrInvalidChannelURL):
		return http.StatusBadRequest, "Invalid YouTube channel URL"
	case errors.Is(err, model.ErrUnsupportedChannelURL):
		return http.StatusBadRequest, "Unsupported channel URL format"
	case errors.Is(err, model.ErrMissingFields):
		return http.StatusBadRequest, "Missing required fields"
	case errors.Is(err, model.ErrChannelNotFound):
		return http.StatusNotFound, "Channel not found"
	case errors.Is(err, model.ErrVideoListUnavailable):
		return http.StatusBadGateway, "Failed to fetch video list"
	case errors.Is(err, model.ErrVideoDetailsUnavailable):
		return http.StatusBadGateway, "Failed to fetch video details"
	case errors.Is(err, model.ErrSubscriptionUnavailable):
		return http.StatusInternalServerError, "Failed to save subscription"
	default:
		return http.StatusInternalServerError, "Failed to load channel"
	}
}

func writeChannelError(c *gin.Context, err error) {
	status, message := channelStatus(err)
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(c.Request.Context(), "channel request failed", "path", c.FullPath(), "error", err)
	}
	c.JSON(status, services.ErrorResponse{Error: message, Details: err.Error()})
}

// NotificationRouter registers POST /notifications.
func NotificationRouter(r *gin.RouterGroup, h *Handlers) {
	r.POST("/notifications", func(c *gin.Context) {
		session, _ := auth.SessionFrom(c)
		notifier := h.Notifier
		if notifier == nil {
			notifier = notify.Disabled{}
		}
		enabled, err := notifier.Setup(c.Request.Context(), session)
		if err != nil {
			c.JSON(http.StatusInternalServerError, services.ErrorResponse{Error: "Failed to set up notifications", Details: err.Error()})
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"enabled": enabled})
	})
}

// Dashboard registers GET /stats with the summary counters since start.
func Dashboard(r *gin.RouterGroup, h *Handlers) {
	r.GET("/stats", func(c *gin.Context) {
		if h.Stats == nil {
			c.JSON(http.StatusOK, model.DigestStatsSnapshot{})
			return
		}
		c.JSON(http.StatusOK, h.Stats.Snapshot())
	})
}

// entryPage serves the single page application for every unknown route
// outside /api.
func (h *Handlers) entryPage(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") || c.Request.Method != http.MethodGet {
		c.JSON(http.StatusNotFound, services.ErrorResponse{Error: "Not found"})
		return
	}
	if h.EntryPage == nil {
		c.Status(http.StatusNotFound)
		return
	}
	page, err := h.EntryPage.ReadEntryPage(c.Request.Context())
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "failed to read entry page", "error", err)
		c.Status(http.StatusNotFound)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}
