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

package storage

// Postgres statements. The tables are created by postgresMigrations.
const (
	QrySelectSummary = `SELECT video_id, summary, updated_at FROM video_summaries WHERE video_id = $1`

	QrySelectSummaries = `SELECT video_id, summary, updated_at FROM video_summaries WHERE video_id = ANY($1)`

	QryUpsertSummary = `INSERT INTO video_summaries (video_id, summary, updated_at)
VALUES ($1, $2, $3)
ON CONFLICT (video_id) DO UPDATE SET summary = EXCLUDED.summary, updated_at = EXCLUDED.updated_at`

	QryUpsertSubscription = `INSERT INTO channel_subscriptions (user_id, channel_id, title, description, thumbnail_url, added_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (user_id, channel_id) DO UPDATE SET
title = EXCLUDED.title, description = EXCLUDED.description, thumbnail_url = EXCLUDED.thumbnail_url`

	QrySelectSubscription = `SELECT user_id, channel_id, title, description, thumbnail_url, added_at
FROM channel_subscriptions WHERE user_id = $1 AND channel_id = $2`

	QryListSubscriptions = `SELECT user_id, channel_id, title, description, thumbnail_url, added_at
FROM channel_subscriptions WHERE user_id = $1 ORDER BY added_at DESC, channel_id`

	QryDeleteSubscription = `DELETE FROM channel_subscriptions WHERE user_id = $1 AND channel_id = $2`
)

// BigQuery statements; the %s is the fully qualified summary table.
// The table is append-only, so the newest row per video wins.
const (
	QryBigQuerySummaries = "SELECT video_id, summary, updated_at FROM `%s` " +
		"WHERE video_id IN UNNEST(@ids) " +
		"QUALIFY ROW_NUMBER() OVER (PARTITION BY video_id ORDER BY updated_at DESC) = 1"
)
