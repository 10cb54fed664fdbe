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

// Package main is the entry point of the channel digest server.
//
// The server loads its configuration, sets up logging and telemetry, creates
// the service clients and serves the digest API with Gin. A missing Gemini
// API key stops the start; a failing model probe is only logged. The server
// shuts down gracefully on SIGINT or SIGTERM.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/jaycherian/gcp-go-channel-digest/internal/api"
	"github.com/jaycherian/gcp-go-channel-digest/internal/auth"
	"github.com/jaycherian/gcp-go-channel-digest/internal/cloud"
	"github.com/jaycherian/gcp-go-channel-digest/internal/telemetry"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	config, err := GetConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	telemetry.SetupLogging(config.Telemetry.LogFile, slog.LevelInfo)
	slog.Info("Logging initialized")

	if config.Application.GeminiAPIKey == "" {
		slog.Error("GEMINI_API_KEY is not set")
		os.Exit(1)
	}
	slog.Info("Gemini API key loaded", "key", cloud.MaskSecret(config.Application.GeminiAPIKey))

	shutdownTelemetry, err := telemetry.SetupOpenTelemetry(ctx, config)
	if err != nil {
		slog.Error("Failed to setup OpenTelemetry", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := shutdownTelemetry(context.Background()); err != nil {
			slog.Warn("telemetry shutdown failed", "error", err)
		}
	}()
	slog.Info("Tracing initialized")

	if err := InitState(ctx); err != nil {
		slog.Error("Failed to initialize state", "error", err)
		os.Exit(1)
	}
	defer state.cloud.Close()
	slog.Info("Initialized State")

	probeTimeout := config.Limits.CallTimeout.Duration
	if probeTimeout <= 0 {
		probeTimeout = cloud.DefaultCallTimeout
	}
	probeCtx, probeCancel := context.WithTimeout(ctx, probeTimeout)
	if err := state.generator.Probe(probeCtx); err != nil {
		slog.Warn("model probe failed, continuing", "model", state.generator.ModelName(), "error", err)
	}
	probeCancel()

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(otelgin.Middleware(config.Application.Name))
	r.Use(cors.Default())
	api.Register(r, state.handlers, auth.NewAuthenticator(config.Auth))

	SetupSchedule(ctx)

	addr := fmt.Sprintf(":%d", config.Application.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  20 * time.Second,
		WriteTimeout: 2 * time.Minute,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to listen", "error", err)
			cancel()
		}
	}()
	slog.Info("Server ready", "port", config.Application.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case <-ctx.Done():
	}
	slog.Info("Shutdown Server ...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server Shutdown Failed", "error", err)
	}
	slog.Info("Server exiting")
}
