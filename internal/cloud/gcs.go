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

// Package cloud contains data structures and utilities for interacting with Google Cloud services.
// This file reads the single page application entry document, either from the
// local file system or from a Cloud Storage object.
package cloud

import (
	"context"
	"fmt"
	"io"
	"os"

	"cloud.google.com/go/storage"
)

// GCSObject is a reference to an object in a Cloud Storage bucket.
type GCSObject struct {
	Bucket string // The name of the GCS bucket.
	Name   string // The name of the object.
}

// EntryPageSource returns the bytes of the entry page.
type EntryPageSource interface {
	ReadEntryPage(ctx context.Context) ([]byte, error)
}

// FileEntryPage reads the entry page from a local path.
type FileEntryPage struct {
	Path string
}

func (f *FileEntryPage) ReadEntryPage(_ context.Context) ([]byte, error) {
	return os.ReadFile(f.Path)
}

// GCSEntryPage reads the entry page from a Cloud Storage object.
type GCSEntryPage struct {
	Client *storage.Client
	Object GCSObject
}

func (g *GCSEntryPage) ReadEntryPage(ctx context.Context) ([]byte, error) {
	r, err := g.Client.Bucket(g.Object.Bucket).Object(g.Object.Name).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open gs://%s/%s: %w", g.Object.Bucket, g.Object.Name, err)
	}
	defer func() { _ = r.Close() }()
	return io.ReadAll(r)
}

// NewEntryPageSource picks the Cloud Storage source when a bucket is
// configured and the storage client exists, else the local file.
func NewEntryPageSource(config Web, client *storage.Client) EntryPageSource {
	if config.EntryBucket != "" && client != nil {
		name := config.EntryObject
		if name == "" {
			name = "index.html"
		}
		return &GCSEntryPage{Client: client, Object: GCSObject{Bucket: config.EntryBucket, Name: name}}
	}
	return &FileEntryPage{Path: config.EntryPage}
}
