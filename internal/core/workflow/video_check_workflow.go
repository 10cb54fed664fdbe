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

package workflow

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/jaycherian/gcp-go-channel-digest/internal/cloud"
	"github.com/jaycherian/gcp-go-channel-digest/internal/core/cor"
	"github.com/jaycherian/gcp-go-channel-digest/internal/notify"
)

// VideoCheckWorkflow is the periodic check for new videos. The check is
// inert: Execute does no work and nothing is sent through the notifier.
type VideoCheckWorkflow struct {
	cor.BaseCommand
	notifier notify.Notifier
	interval time.Duration
}

func NewVideoCheckWorkflow(config *cloud.Config, notifier notify.Notifier) *VideoCheckWorkflow {
	interval := config.Schedule.NewVideoCheck.Duration
	if interval <= 0 {
		interval = cloud.DefaultNewVideoCheck
	}
	if notifier == nil {
		notifier = notify.Disabled{}
	}
	return &VideoCheckWorkflow{
		BaseCommand: *cor.NewBaseCommand("new-video-check"),
		notifier:    notifier,
		interval:    interval,
	}
}

// Interval returns the time between two runs.
func (w *VideoCheckWorkflow) Interval() time.Duration {
	return w.interval
}

// IsExecutable only needs a Go context.
func (w *VideoCheckWorkflow) IsExecutable(context cor.Context) bool {
	return context != nil && context.GetContext() != nil
}

func (w *VideoCheckWorkflow) Execute(context cor.Context) {
	slog.DebugContext(context.GetContext(), "new video check ran")
	w.SuccessCounter.Add(context.GetContext(), 1)
}

// StartTimer runs Execute on every tick until ctx is done.
func (w *VideoCheckWorkflow) StartTimer(ctx context.Context) {
	tracer := otel.Tracer("new-video-check")
	ticker := time.NewTicker(w.interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				traceCtx, span := tracer.Start(ctx, "new-video-check")
				chainCtx := cor.NewBaseContextFor(traceCtx, nil)
				w.Execute(chainCtx)
				if chainCtx.HasErrors() {
					span.SetStatus(codes.Error, "new video check failed")
				} else {
					span.SetStatus(codes.Ok, "new video check done")
				}
				span.End()
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Notifier returns the collaborator new videos would be announced through.
func (w *VideoCheckWorkflow) Notifier() notify.Notifier {
	return w.notifier
}
