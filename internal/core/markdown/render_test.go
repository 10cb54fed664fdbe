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

package markdown_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jaycherian/gcp-go-channel-digest/internal/core/markdown"
)

func TestRenderLinkedSummary(t *testing.T) {
	renderer := markdown.NewRenderer()
	md := markdown.LinkTimestamps("# Video Summary\n## Key Points\n- [00:30] intro", videoURL)

	out := renderer.Render(md)

	assert.Contains(t, out, "Video Summary</h1>")
	assert.Contains(t, out, "Key Points</h2>")
	assert.Contains(t, out, "<li>")
	assert.Contains(t, out, `href="https://youtube.com/watch?v=vidA&amp;t=30s"`)
	assert.Contains(t, out, `target="_blank"`)
	assert.Contains(t, out, "noopener")
	assert.Contains(t, out, "noreferrer")
	assert.Contains(t, out, ">00:30</a>")
}

func TestRenderStripsUnsafeHTML(t *testing.T) {
	out := markdown.NewRenderer().Render("hello <script>alert(1)</script>\n\n[x](javascript:alert(1))")

	assert.Contains(t, out, "hello")
	assert.NotContains(t, out, "<script")
	assert.NotContains(t, out, "javascript:")
}

func TestRenderEmpty(t *testing.T) {
	assert.Equal(t, "", markdown.NewRenderer().Render(""))
}
