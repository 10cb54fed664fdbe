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

// Package markdown post-processes generated summaries: timestamp markers are
// turned into links into the video, and the markdown is rendered into
// sanitized HTML for the web client.
package markdown

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// timestampPattern matches [M:SS] and [MM:SS]. The first group is minutes.
var timestampPattern = regexp.MustCompile(`\[(\d{1,2}):(\d{2})\]`)

// LinkTimestamps rewrites every timestamp marker into a markdown link that
// starts the video at that offset, e.g. "[01:30]" becomes
// "[01:30](<videoURL>&t=90s)". Markers already followed by "(" are left alone,
// so applying the function twice gives the same result as applying it once.
//
// Inputs:
//   - summary: The generated markdown.
//   - videoURL: The watch URL; it already carries a query string.
//
// Outputs:
//   - string: The summary with linked markers; all other text is unchanged.
func LinkTimestamps(summary string, videoURL string) string {
	matches := timestampPattern.FindAllStringSubmatchIndex(summary, -1)
	if len(matches) == 0 {
		return summary
	}

	var b strings.Builder
	b.Grow(len(summary) + len(matches)*(len(videoURL)+12))
	last := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		if end < len(summary) && summary[end] == '(' {
			continue
		}
		minutes, _ := strconv.Atoi(summary[m[2]:m[3]])
		seconds, _ := strconv.Atoi(summary[m[4]:m[5]])

		b.WriteString(summary[last:start])
		fmt.Fprintf(&b, "%s(%s&t=%ds)", summary[start:end], videoURL, minutes*60+seconds)
		last = end
	}
	b.WriteString(summary[last:])
	return b.String()
}
