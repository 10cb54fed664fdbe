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

package commands

import (
	"fmt"

	"github.com/jaycherian/gcp-go-channel-digest/internal/core/cor"
	"github.com/jaycherian/gcp-go-channel-digest/internal/core/markdown"
	"github.com/jaycherian/gcp-go-channel-digest/internal/core/model"
)

// TimestampLinker links the [MM:SS] markers of every summary to the video offset.
type TimestampLinker struct {
	cor.BaseCommand
}

func NewTimestampLinker(name string) *TimestampLinker {
	out := &TimestampLinker{BaseCommand: *cor.NewBaseCommand(name)}
	out.InputParamName = ParamVideos
	out.OutputParamName = ParamVideos
	return out
}

func (c *TimestampLinker) Execute(context cor.Context) {
	videos, ok := context.Get(c.GetInputParam()).([]*model.VideoRecord)
	if !ok {
		c.Fail(context, fmt.Errorf("%s: input is not a video list", c.GetName()))
		return
	}
	for _, v := range videos {
		if v.HasSummary() {
			v.SetSummary(markdown.LinkTimestamps(*v.Summary, v.URL))
		}
	}
	c.Succeed(context, videos)
}

// SummaryRenderer adds the sanitized HTML of each summary, producing the
// digest entries returned to the client.
type SummaryRenderer struct {
	cor.BaseCommand
	renderer *markdown.Renderer
}

func NewSummaryRenderer(name string, renderer *markdown.Renderer) *SummaryRenderer {
	out := &SummaryRenderer{BaseCommand: *cor.NewBaseCommand(name), renderer: renderer}
	out.InputParamName = ParamVideos
	out.OutputParamName = ParamDigests
	return out
}

func (c *SummaryRenderer) Execute(context cor.Context) {
	videos, ok := context.Get(c.GetInputParam()).([]*model.VideoRecord)
	if !ok {
		c.Fail(context, fmt.Errorf("%s: input is not a video list", c.GetName()))
		return
	}
	digests := make([]*model.VideoDigest, len(videos))
	for i, v := range videos {
		digests[i] = &model.VideoDigest{VideoRecord: v}
		if v.HasSummary() {
			digests[i].SummaryHTML = c.renderer.Render(*v.Summary)
		}
	}
	c.Succeed(context, digests)
}
