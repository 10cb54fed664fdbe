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

import (
	"context"
	"fmt"
)

// postgresMigrations is append-only; applied statements are recorded in the
// migration table and never re-run.
var postgresMigrations = []string{
	`CREATE TABLE video_summaries (
video_id VARCHAR(64) PRIMARY KEY,
summary TEXT NOT NULL,
updated_at TIMESTAMPTZ NOT NULL
)`,
	`CREATE TABLE channel_subscriptions (
user_id VARCHAR(255) NOT NULL,
channel_id VARCHAR(64) NOT NULL,
title TEXT NOT NULL DEFAULT '',
description TEXT NOT NULL DEFAULT '',
thumbnail_url TEXT NOT NULL DEFAULT '',
added_at TIMESTAMPTZ NOT NULL,
PRIMARY KEY (user_id, channel_id)
)`,
	`CREATE INDEX channel_subscriptions_added_at ON channel_subscriptions (user_id, added_at DESC)`,
}

// Migrate brings the schema up to date.
func Migrate(ctx context.Context, pool PgxPool) error {
	return migrate(ctx, pool, postgresMigrations)
}

func migrate(ctx context.Context, pool PgxPool, wanted []string) error {
	if _, err := pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS migration
("id" SERIAL PRIMARY KEY, "query" TEXT)`); err != nil {
		return fmt.Errorf("failed to create migration table: %w", err)
	}

	rows, err := pool.Query(ctx, `SELECT query FROM migration ORDER BY id`)
	if err != nil {
		return fmt.Errorf("failed to read migrations: %w", err)
	}
	existing := []string{}
	for rows.Next() {
		var query string
		if err := rows.Scan(&query); err != nil {
			rows.Close()
			return err
		}
		existing = append(existing, query)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	missing, err := compareMigrations(wanted, existing)
	if err != nil {
		return err
	}
	for _, query := range missing {
		if _, err := pool.Exec(ctx, query); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		if _, err := pool.Exec(ctx, `INSERT INTO migration (query) VALUES ($1)`, query); err != nil {
			return err
		}
	}
	return nil
}

func compareMigrations(wanted, existing []string) ([]string, error) {
	if len(wanted) < len(existing) {
		return nil, fmt.Errorf("not enough migrations: database has %d, code has %d", len(existing), len(wanted))
	}
	for i, query := range existing {
		if wanted[i] != query {
			return nil, fmt.Errorf("migration %d does not match the database", i)
		}
	}
	return wanted[len(existing):], nil
}
