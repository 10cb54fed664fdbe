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

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"

	"github.com/jaycherian/gcp-go-channel-digest/internal/core/model"
)

// BigQuerySummaryStore appends summary rows to a BigQuery table. Reads pick
// the newest row per video, so a Put behaves as a replace.
type BigQuerySummaryStore struct {
	client  *bigquery.Client
	dataset string
	table   string
}

func NewBigQuerySummaryStore(client *bigquery.Client, dataset string, table string) *BigQuerySummaryStore {
	return &BigQuerySummaryStore{client: client, dataset: dataset, table: table}
}

// GetFQN returns the fully qualified table name.
func (b *BigQuerySummaryStore) GetFQN() string {
	return fmt.Sprintf("%s.%s.%s", b.client.Project(), b.dataset, b.table)
}

func (b *BigQuerySummaryStore) Get(ctx context.Context, videoID string) (*model.SummaryEntry, error) {
	entries, err := b.GetMany(ctx, []string{videoID})
	if err != nil {
		return nil, err
	}
	return entries[videoID], nil
}

func (b *BigQuerySummaryStore) GetMany(ctx context.Context, videoIDs []string) (map[string]*model.SummaryEntry, error) {
	out := make(map[string]*model.SummaryEntry, len(videoIDs))
	if len(videoIDs) == 0 {
		return out, nil
	}
	q := b.client.Query(fmt.Sprintf(QryBigQuerySummaries, b.GetFQN()))
	q.Parameters = []bigquery.QueryParameter{{Name: "ids", Value: videoIDs}}
	itr, err := q.Read(ctx)
	if err != nil {
		return nil, cacheError("bigquery read", err)
	}
	for {
		entry := &model.SummaryEntry{}
		err := itr.Next(entry)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, cacheError("bigquery next", err)
		}
		out[entry.VideoID] = entry
	}
	return out, nil
}

func (b *BigQuerySummaryStore) Put(ctx context.Context, entry *model.SummaryEntry) error {
	inserter := b.client.Dataset(b.dataset).Table(b.table).Inserter()
	if err := inserter.Put(ctx, entry); err != nil {
		return cacheError("bigquery insert", err)
	}
	return nil
}
