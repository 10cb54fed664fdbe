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

package workflow_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jaycherian/gcp-go-channel-digest/internal/cloud"
	"github.com/jaycherian/gcp-go-channel-digest/internal/core/cor"
	"github.com/jaycherian/gcp-go-channel-digest/internal/core/workflow"
	"github.com/jaycherian/gcp-go-channel-digest/internal/notify"
	"github.com/jaycherian/gcp-go-channel-digest/internal/testutil"
)

func TestVideoCheckWorkflowDefaults(t *testing.T) {
	config := testutil.NewTestConfig()
	config.Schedule.NewVideoCheck = cloud.Duration{}

	check := workflow.NewVideoCheckWorkflow(config, nil)
	assert.Equal(t, cloud.DefaultNewVideoCheck, check.Interval())
	assert.IsType(t, notify.Disabled{}, check.Notifier())
}

func TestVideoCheckWorkflowRuns(t *testing.T) {
	config := testutil.NewTestConfig()
	config.Schedule.NewVideoCheck = cloud.Duration{Duration: 5 * time.Millisecond}
	check := workflow.NewVideoCheckWorkflow(config, notify.Disabled{})

	chCtx := cor.NewBaseContextFor(context.Background(), nil)
	assert.True(t, check.IsExecutable(chCtx))
	check.Execute(chCtx)
	assert.False(t, chCtx.HasErrors())

	ctx, cancel := context.WithCancel(context.Background())
	check.StartTimer(ctx)
	time.Sleep(20 * time.Millisecond)
	cancel()
}
