// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package runner

import (
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
)

// completionMarker is the literal completion token. It must appear at
// the start of a line or be preceded by whitespace; agents sometimes
// discuss the marker before emitting it for real, so the last
// occurrence wins.
const completionMarker = "FINAL_ANSWER:"

var markerPattern = regexp.MustCompile(`(?:^|\s)` + regexp.QuoteMeta(completionMarker))

// findFinalAnswer returns the trimmed text after the last occurrence of
// the completion marker, and whether a marker was found at all.
func findFinalAnswer(output string) (string, bool) {
	locs := markerPattern.FindAllStringIndex(output, -1)
	if len(locs) == 0 {
		return "", false
	}
	last := locs[len(locs)-1]
	return strings.TrimSpace(output[last[1]:]), true
}

// extractStructured makes a best-effort attempt to find a JSON object in
// the transcript preceding the completion marker: a fenced ```json block
// first, else the widest brace-matched substring. It never errors —
// returning nil just means "no structure discovered".
func extractStructured(output string) map[string]any {
	body := output
	if idx := strings.LastIndex(output, completionMarker); idx >= 0 {
		body = output[:idx]
	}

	if block, ok := fencedJSONBlock(body); ok {
		if m, ok := asObject(block); ok {
			return m
		}
	}
	if sub, ok := widestBraceSubstring(body); ok {
		if m, ok := asObject(sub); ok {
			return m
		}
	}
	return nil
}

func asObject(s string) (map[string]any, bool) {
	if !gjson.Valid(s) {
		return nil, false
	}
	result := gjson.Parse(s)
	if !result.IsObject() {
		return nil, false
	}
	m, ok := result.Value().(map[string]any)
	return m, ok
}

func fencedJSONBlock(s string) (string, bool) {
	const fence = "```json"
	start := strings.LastIndex(s, fence)
	if start < 0 {
		return "", false
	}
	rest := s[start+len(fence):]
	end := strings.Index(rest, "```")
	if end < 0 {
		return "", false
	}
	return strings.TrimSpace(rest[:end]), true
}

func widestBraceSubstring(s string) (string, bool) {
	first := strings.IndexByte(s, '{')
	last := strings.LastIndexByte(s, '}')
	if first < 0 || last < 0 || last <= first {
		return "", false
	}
	return s[first : last+1], true
}
