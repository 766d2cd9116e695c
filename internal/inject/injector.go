// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package inject

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/tidwall/sjson"

	"github.com/TaliesinYang/multi-agent-scheduler/pkg/task"
)

// ContextMarker is the designated placeholder MetaAgent's complex
// template leaves for the injector to fill at run time. When a prompt
// does not contain it, the context block is prepended instead.
const ContextMarker = "{upstream_context}"

// Warning records a path expression the injector could not resolve while
// running under the lenient (continue_partial) policy: the value was
// substituted with null instead of failing the whole task.
type Warning struct {
	Param  string
	Path   string
	Reason string
}

// Binding is one resolved parameter, kept for the context block and for
// callers that want to inspect what was injected.
type Binding struct {
	Param string
	Path  string
	Value any
}

// Injector resolves path expressions and rewrites prompts. It holds no
// mutable state and is safe for concurrent use across tasks in a batch.
type Injector struct {
	logger *slog.Logger
}

// New builds an Injector, defaulting to slog.Default() when logger is nil.
func New(logger *slog.Logger) *Injector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Injector{logger: logger}
}

// Inject produces the enhanced prompt for a downstream task. When lenient
// is true (continue_partial policy), an unresolvable path substitutes
// null and is recorded as a Warning instead of aborting the task.
func (inj *Injector) Inject(prompt string, mapping map[string]string, upstream map[string]task.Result, lenient bool) (string, []Binding, []Warning, error) {
	params := make([]string, 0, len(mapping))
	for p := range mapping {
		params = append(params, p)
	}
	sort.Strings(params)

	bindings := make([]Binding, 0, len(params))
	var warnings []Warning

	for _, param := range params {
		path := mapping[param]
		expr, err := ParsePathExpression(path)
		if err != nil {
			if lenient {
				warnings = append(warnings, Warning{Param: param, Path: path, Reason: err.Error()})
				bindings = append(bindings, Binding{Param: param, Path: path, Value: nil})
				continue
			}
			return "", nil, nil, err
		}

		value, err := Resolve(expr, upstream)
		if err != nil {
			if lenient {
				warnings = append(warnings, Warning{Param: param, Path: path, Reason: err.Error()})
				bindings = append(bindings, Binding{Param: param, Path: path, Value: nil})
				continue
			}
			return "", nil, nil, err
		}
		bindings = append(bindings, Binding{Param: param, Path: path, Value: value})
	}

	out := prompt
	for _, b := range bindings {
		placeholder := "{" + b.Param + "}"
		out = strings.ReplaceAll(out, placeholder, serializeValue(b.Value))
	}

	block := renderContextBlock(bindings)
	if strings.Contains(out, ContextMarker) {
		out = strings.ReplaceAll(out, ContextMarker, block)
	} else {
		out = block + "\n\n" + out
	}

	inj.logger.Debug("dependency injection complete",
		"param_count", len(bindings), "warning_count", len(warnings),
		"bindings_json", contextJSON(bindings))

	return out, bindings, warnings, nil
}

// serializeValue renders a resolved value for in-line placeholder
// substitution: strings are double-quoted JSON, everything else is
// compact JSON.
func serializeValue(v any) string {
	if v == nil {
		return "null"
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

// renderContextBlock builds the human-readable enumeration of injected
// parameters. Its formatting is stable across runs: same bindings in,
// same text out, every time.
func renderContextBlock(bindings []Binding) string {
	var sb strings.Builder
	sb.WriteString("--- Injected Context ---\n")
	for _, b := range bindings {
		fmt.Fprintf(&sb, "%s (from %s): %s\n", b.Param, b.Path, serializeValue(b.Value))
	}
	sb.WriteString("---")
	return sb.String()
}

// contextJSON re-serializes the bindings (including any lenient
// null-substitution) into one JSON object, field by field via sjson so
// the result preserves the bindings' own (already-sorted) order rather
// than json.Marshal's key-driven map ordering.
func contextJSON(bindings []Binding) string {
	out := "{}"
	for _, b := range bindings {
		var err error
		out, err = sjson.SetRaw(out, b.Param, serializeValue(b.Value))
		if err != nil {
			continue
		}
	}
	return out
}
