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

package main

import (
	"context"
	"log/slog"
)

// SetupSchedule starts the background jobs. They stop when ctx is done.
func SetupSchedule(ctx context.Context) {
	state.videoCheck.StartTimer(ctx)
	slog.Info("new video check scheduled", "interval", state.videoCheck.Interval().String())
}
