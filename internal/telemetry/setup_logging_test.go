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

package telemetry_test

import (
	"bufio"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaycherian/gcp-go-channel-digest/internal/telemetry"
)

func TestSetupLoggingWritesCloudLoggingFields(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	logFile := filepath.Join(t.TempDir(), "digest.log")
	telemetry.SetupLogging(logFile, slog.LevelInfo)

	slog.WarnContext(context.Background(), "cache unavailable", "video_id", "vidA")
	slog.Debug("not written")

	file, err := os.Open(logFile)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	var lines []map[string]interface{}
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := map[string]interface{}{}
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &line))
		lines = append(lines, line)
	}
	require.Len(t, lines, 1)
	assert.Equal(t, "WARNING", lines[0]["severity"])
	assert.Equal(t, "cache unavailable", lines[0]["message"])
	assert.Equal(t, "vidA", lines[0]["video_id"])
	assert.Contains(t, lines[0], "timestamp")
}
