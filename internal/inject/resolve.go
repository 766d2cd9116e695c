// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package inject

import (
	"github.com/TaliesinYang/multi-agent-scheduler/pkg/task"
)

// Resolve walks a parsed PathExpression against the upstream results
// available to a downstream task, following the resolution order the
// spec lays out: upstream task must exist, then each field step looks up
// ParsedData (falling back to a best-effort re-parse of FinalAnswer when
// ParsedData is empty), then each index/wildcard step indexes an array.
func Resolve(expr *PathExpression, upstream map[string]task.Result) (any, error) {
	result, ok := upstream[expr.TaskID]
	if !ok {
		return nil, newError(expr.Raw, "upstream task %q not found", expr.TaskID)
	}

	var cur any = baseFields(result)
	for _, s := range expr.Steps {
		var err error
		cur, err = applyStep(cur, s, expr.Raw)
		if err != nil {
			return nil, err
		}
	}
	return cur, nil
}

// baseFields builds the object a downstream path expression's first
// field token is resolved against: the upstream TaskResult's own fields
// (final_answer, output, success, latency, error) overlaid with
// ParsedData (falling back to a best-effort FinalAnswer re-parse when
// ParsedData is empty). The invariant that ParsedData keys never
// collide with final_answer/output makes this merge unambiguous.
func baseFields(result task.Result) map[string]any {
	data := result.ParsedData
	if len(data) == 0 {
		data = bestEffortReparse(result.FinalAnswer)
	}

	base := map[string]any{
		"final_answer": result.FinalAnswer,
		"output":       result.Output,
		"success":      result.Success,
		"latency":      result.Latency.Seconds(),
		"error":        result.Error,
	}
	for k, v := range data {
		base[k] = v
	}
	return base
}

func applyStep(cur any, s step, raw string) (any, error) {
	switch s.kind {
	case stepField:
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, newError(raw, "field %q requires an object, got %T", s.field, cur)
		}
		v, ok := m[s.field]
		if !ok {
			return nil, newError(raw, "field %q not found", s.field)
		}
		return v, nil
	case stepIndex:
		arr, ok := cur.([]any)
		if !ok {
			return nil, newError(raw, "index %d requires an array, got %T", s.index, cur)
		}
		n := s.index
		if n < 0 {
			n = len(arr) + n
		}
		if n < 0 || n >= len(arr) {
			return nil, newError(raw, "index %d out of range (len=%d)", s.index, len(arr))
		}
		return arr[n], nil
	case stepWildcard:
		arr, ok := cur.([]any)
		if !ok {
			return nil, newError(raw, "wildcard index requires an array, got %T", cur)
		}
		return arr, nil
	default:
		return nil, newError(raw, "unknown path step")
	}
}
