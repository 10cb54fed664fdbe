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

// Package commands provides the concrete implementations of the Chain of
// Responsibility (COR) pattern's Command interface. This file defines the
// command that fills in the summaries of a batch of videos.
//
// Logic Flow:
//  1. Videos with an empty title or description are skipped; their summary
//     stays absent.
//  2. The cache is read once for all remaining ids. A cache failure is
//     logged and every video is treated as a miss.
//  3. Each miss is summarized, sequentially or on a bounded worker pool.
//     A failed video is logged and counted; it never fails the batch.
//  4. Every new summary is written back to the cache. A failed write is
//     logged; the summary is still returned.
//  5. The same slice, in input order, is placed in the output key.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"

	"github.com/jaycherian/gcp-go-channel-digest/internal/core/cor"
	"github.com/jaycherian/gcp-go-channel-digest/internal/core/model"
	"github.com/jaycherian/gcp-go-channel-digest/internal/core/services"
	"github.com/jaycherian/gcp-go-channel-digest/internal/storage"
)

// SummaryOrchestrator attaches a summary to every eligible video, from the
// cache when possible and from the summarizer otherwise.
type SummaryOrchestrator struct {
	cor.BaseCommand
	summarizer   services.Summarizer
	store        storage.SummaryStore // Optional; nil disables caching.
	stats        *model.DigestStats   // Optional process wide totals.
	workers      int
	storeTimeout time.Duration

	hitCounter       metric.Int64Counter
	missCounter      metric.Int64Counter
	generatedCounter metric.Int64Counter
	failedCounter    metric.Int64Counter
	skippedCounter   metric.Int64Counter
}

// NewSummaryOrchestrator creates the command.
//
// Inputs:
//   - name: The command name, also used as the counter prefix.
//   - summarizer: Produces a summary from a title and description.
//   - store: The summary cache; nil summarizes every video.
//   - stats: Receives the per batch totals; may be nil.
//   - workers: Concurrent summarizer calls; one or less runs sequentially.
//   - storeTimeout: Bound applied to each cache call; zero for none.
func NewSummaryOrchestrator(name string, summarizer services.Summarizer, store storage.SummaryStore,
	stats *model.DigestStats, workers int, storeTimeout time.Duration) *SummaryOrchestrator {
	out := &SummaryOrchestrator{
		BaseCommand:  *cor.NewBaseCommand(name),
		summarizer:   summarizer,
		store:        store,
		stats:        stats,
		workers:      workers,
		storeTimeout: storeTimeout,
	}
	out.InputParamName = ParamVideos
	out.OutputParamName = ParamVideos
	out.hitCounter = out.counter("cache.hit")
	out.missCounter = out.counter("cache.miss")
	out.generatedCounter = out.counter("summary.generated")
	out.failedCounter = out.counter("summary.failed")
	out.skippedCounter = out.counter("summary.skipped")
	return out
}

func (o *SummaryOrchestrator) counter(suffix string) metric.Int64Counter {
	c, err := o.Meter.Int64Counter(fmt.Sprintf("%s.%s", o.GetName(), suffix))
	if err != nil {
		slog.Warn("failed to create counter", "command", o.GetName(), "counter", suffix, "error", err)
	}
	return c
}

func (o *SummaryOrchestrator) Execute(context cor.Context) {
	ctx := context.GetContext()
	videos, ok := context.Get(o.GetInputParam()).([]*model.VideoRecord)
	if !ok {
		o.Fail(context, fmt.Errorf("%s: input is not a video list", o.GetName()))
		return
	}

	o.SummarizeAll(ctx, videos)
	o.Succeed(context, videos)
}

// SummarizeAll fills in the summaries of videos in place. It never fails;
// videos whose summary could not be produced keep a nil Summary.
func (o *SummaryOrchestrator) SummarizeAll(ctx context.Context, videos []*model.VideoRecord) {
	eligible := make([]*model.VideoRecord, 0, len(videos))
	for _, v := range videos {
		if strings.TrimSpace(v.Title) == "" || strings.TrimSpace(v.Description) == "" {
			slog.DebugContext(ctx, "skipping video without title or description", "video_id", v.ID)
			continue
		}
		eligible = append(eligible, v)
	}
	skipped := len(videos) - len(eligible)

	misses := o.applyCached(ctx, eligible)
	hits := len(eligible) - len(misses)

	var generated, failed int
	results := make([]bool, len(misses))
	if o.workers <= 1 {
		for i, v := range misses {
			results[i] = o.summarizeOne(ctx, v)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(o.workers)
		for i, v := range misses {
			g.Go(func() error {
				results[i] = o.summarizeOne(ctx, v)
				return nil
			})
		}
		_ = g.Wait()
	}
	for _, ok := range results {
		if ok {
			generated++
		} else {
			failed++
		}
	}

	o.record(ctx, hits, len(misses), generated, failed, skipped)
	slog.InfoContext(ctx, "summaries attached",
		"videos", len(videos), "cache_hits", hits, "generated", generated, "failed", failed, "skipped", skipped)
}

// applyCached sets the cached summaries and returns the videos still missing one.
func (o *SummaryOrchestrator) applyCached(ctx context.Context, videos []*model.VideoRecord) []*model.VideoRecord {
	if o.store == nil || len(videos) == 0 {
		return videos
	}
	ids := make([]string, len(videos))
	for i, v := range videos {
		ids[i] = v.ID
	}

	storeCtx, cancel := o.withStoreTimeout(ctx)
	cached, err := o.store.GetMany(storeCtx, ids)
	cancel()
	if err != nil {
		slog.WarnContext(ctx, "summary cache lookup failed, treating batch as misses",
			"error", fmt.Errorf("%w: %w", model.ErrCacheUnavailable, err))
		o.addCacheErrors(1)
		return videos
	}

	misses := make([]*model.VideoRecord, 0, len(videos))
	for _, v := range videos {
		if entry, ok := cached[v.ID]; ok && entry != nil {
			v.SetSummary(entry.Summary)
			continue
		}
		misses = append(misses, v)
	}
	return misses
}

// summarizeOne generates and caches the summary of v. It reports whether a
// summary was produced.
func (o *SummaryOrchestrator) summarizeOne(ctx context.Context, v *model.VideoRecord) bool {
	summary, err := o.summarizer.Summarize(ctx, v.Title, v.Description)
	if err != nil {
		slog.ErrorContext(ctx, "failed to summarize video", "video_id", v.ID, "error", err)
		return false
	}
	v.SetSummary(summary)

	if o.store == nil {
		return true
	}
	storeCtx, cancel := o.withStoreTimeout(ctx)
	defer cancel()
	if err := o.store.Put(storeCtx, model.NewSummaryEntry(v.ID, summary)); err != nil {
		slog.WarnContext(ctx, "failed to cache summary", "video_id", v.ID,
			"error", fmt.Errorf("%w: %w", model.ErrCacheUnavailable, err))
		o.addCacheErrors(1)
	}
	return true
}

func (o *SummaryOrchestrator) withStoreTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if o.storeTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, o.storeTimeout)
}

func (o *SummaryOrchestrator) addCacheErrors(n int) {
	if o.stats != nil {
		o.stats.AddCacheErrors(n)
	}
}

func (o *SummaryOrchestrator) record(ctx context.Context, hits, misses, generated, failed, skipped int) {
	o.hitCounter.Add(ctx, int64(hits))
	o.missCounter.Add(ctx, int64(misses))
	o.generatedCounter.Add(ctx, int64(generated))
	o.failedCounter.Add(ctx, int64(failed))
	o.skippedCounter.Add(ctx, int64(skipped))
	if o.stats == nil {
		return
	}
	o.stats.AddCacheHits(hits)
	o.stats.AddCacheMisses(misses)
	o.stats.AddGenerated(generated)
	o.stats.AddFailed(failed)
	o.stats.AddSkipped(skipped)
}
