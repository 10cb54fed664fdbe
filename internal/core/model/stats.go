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

package model

import "sync/atomic"

// DigestStats accumulates orchestration outcomes for the dashboard. It is
// safe for concurrent use.
type DigestStats struct {
	cacheHits   atomic.Int64
	cacheMisses atomic.Int64
	generated   atomic.Int64
	failed      atomic.Int64
	skipped     atomic.Int64
	cacheErrors atomic.Int64
}

// DigestStatsSnapshot is a point in time copy of DigestStats.
type DigestStatsSnapshot struct {
	CacheHits   int64 `json:"cacheHits"`
	CacheMisses int64 `json:"cacheMisses"`
	Generated   int64 `json:"generated"`
	Failed      int64 `json:"failed"`
	Skipped     int64 `json:"skipped"`
	CacheErrors int64 `json:"cacheErrors"`
}

func (s *DigestStats) AddCacheHits(n int)   { s.cacheHits.Add(int64(n)) }
func (s *DigestStats) AddCacheMisses(n int) { s.cacheMisses.Add(int64(n)) }
func (s *DigestStats) AddGenerated(n int)   { s.generated.Add(int64(n)) }
func (s *DigestStats) AddFailed(n int)      { s.failed.Add(int64(n)) }
func (s *DigestStats) AddSkipped(n int)     { s.skipped.Add(int64(n)) }
func (s *DigestStats) AddCacheErrors(n int) { s.cacheErrors.Add(int64(n)) }

// Snapshot returns the current counter values.
func (s *DigestStats) Snapshot() DigestStatsSnapshot {
	return DigestStatsSnapshot{
		CacheHits:   s.cacheHits.Load(),
		CacheMisses: s.cacheMisses.Load(),
		Generated:   s.generated.Load(),
		Failed:      s.failed.Load(),
		Skipped:     s.skipped.Load(),
		CacheErrors: s.cacheErrors.Load(),
	}
}
