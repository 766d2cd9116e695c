// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package inject

import (
	"strings"

	"github.com/tidwall/gjson"
)

// bestEffortReparse handles the case where an upstream's ParsedData is
// empty but a downstream references a nested field: it attempts a
// lenient JSON re-parse of the upstream's FinalAnswer rather than
// failing outright. It tries a fenced ```json block first, then the
// widest brace-matched substring, and gives up silently (nil) if
// neither parses — callers treat nil the same as "field not found".
func bestEffortReparse(finalAnswer string) map[string]any {
	if block, ok := fencedJSONBlock(finalAnswer); ok {
		if m, ok := asObject(block); ok {
			return m
		}
	}
	if sub, ok := widestBraceSubstring(finalAnswer); ok {
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
	start := strings.Index(s, fence)
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
