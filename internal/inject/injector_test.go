// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package inject

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TaliesinYang/multi-agent-scheduler/pkg/task"
)

func TestResolve_SimpleField(t *testing.T) {
	upstream := map[string]task.Result{
		"task_a": {TaskID: "task_a", ParsedData: map[string]any{"count": float64(3)}},
	}
	expr, err := ParsePathExpression("task_a.count")
	require.NoError(t, err)
	v, err := Resolve(expr, upstream)
	require.NoError(t, err)
	assert.Equal(t, float64(3), v)
}

func TestResolve_ArrayIndex(t *testing.T) {
	upstream := map[string]task.Result{
		"task_a": {TaskID: "task_a", ParsedData: map[string]any{
			"users": []any{"alice", "bob", "charlie"},
		}},
	}
	expr, err := ParsePathExpression("task_a.users[0]")
	require.NoError(t, err)
	v, err := Resolve(expr, upstream)
	require.NoError(t, err)
	assert.Equal(t, "alice", v)
}

func TestResolve_NegativeIndex(t *testing.T) {
	upstream := map[string]task.Result{
		"task_a": {TaskID: "task_a", ParsedData: map[string]any{
			"users": []any{"x", "y", "z"},
		}},
	}
	expr, err := ParsePathExpression("task_a.users[-1]")
	require.NoError(t, err)
	v, err := Resolve(expr, upstream)
	require.NoError(t, err)
	assert.Equal(t, "z", v)
}

func TestResolve_OutOfRangeIndex(t *testing.T) {
	upstream := map[string]task.Result{
		"task_a": {TaskID: "task_a", ParsedData: map[string]any{
			"users": []any{"x", "y", "z"},
		}},
	}
	expr, err := ParsePathExpression("task_a.users[3]")
	require.NoError(t, err)
	_, err = Resolve(expr, upstream)
	require.Error(t, err)
}

func TestResolve_NestedField(t *testing.T) {
	upstream := map[string]task.Result{
		"task_a": {TaskID: "task_a", ParsedData: map[string]any{
			"user": map[string]any{
				"profile": map[string]any{"city": "NYC"},
			},
		}},
	}
	expr, err := ParsePathExpression("task_a.user.profile.city")
	require.NoError(t, err)
	v, err := Resolve(expr, upstream)
	require.NoError(t, err)
	assert.Equal(t, "NYC", v)
}

func TestResolve_Wildcard(t *testing.T) {
	upstream := map[string]task.Result{
		"task_b": {TaskID: "task_b", ParsedData: map[string]any{
			"items": []any{"a", "b"},
		}},
	}
	expr, err := ParsePathExpression("task_b.items[*]")
	require.NoError(t, err)
	v, err := Resolve(expr, upstream)
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b"}, v)
}

func TestResolve_UnknownUpstream(t *testing.T) {
	expr, err := ParsePathExpression("ghost.field")
	require.NoError(t, err)
	_, err = Resolve(expr, map[string]task.Result{})
	require.Error(t, err)
}

func TestResolve_FallbackToFinalAnswerReparse(t *testing.T) {
	upstream := map[string]task.Result{
		"task_a": {
			TaskID:      "task_a",
			FinalAnswer: "Here is the result:\n```json\n{\"count\": 7}\n```\nFINAL_ANSWER: done",
		},
	}
	expr, err := ParsePathExpression("task_a.count")
	require.NoError(t, err)
	v, err := Resolve(expr, upstream)
	require.NoError(t, err)
	assert.Equal(t, float64(7), v)
}

func TestInjector_Inject_PlaceholderAndContextBlock(t *testing.T) {
	upstream := map[string]task.Result{
		"task_a": {TaskID: "task_a", ParsedData: map[string]any{
			"users": []any{"alice", "bob", "charlie"},
			"count": float64(3),
		}},
	}
	inj := New(nil)
	prompt, bindings, warnings, err := inj.Inject(
		"target: {target}, n: {n}",
		map[string]string{"target": "task_a.users[0]", "n": "task_a.count"},
		upstream,
		false,
	)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Contains(t, prompt, `target: "alice"`)
	assert.Contains(t, prompt, "n: 3")
	assert.Contains(t, prompt, "--- Injected Context ---")
	assert.Len(t, bindings, 2)
}

func TestInjector_Inject_ContextMarker(t *testing.T) {
	upstream := map[string]task.Result{
		"A": {TaskID: "A", ParsedData: map[string]any{"msg": "hello"}},
	}
	inj := New(nil)
	prompt, _, _, err := inj.Inject(
		"Do the thing.\n"+ContextMarker+"\nEnd.",
		map[string]string{"m": "A.msg"},
		upstream,
		false,
	)
	require.NoError(t, err)
	assert.NotContains(t, prompt, ContextMarker)
	assert.Contains(t, prompt, "Do the thing.")
	assert.Contains(t, prompt, "End.")
}

func TestInjector_Inject_StrictFailsOnBadPath(t *testing.T) {
	inj := New(nil)
	_, _, _, err := inj.Inject("hi {x}", map[string]string{"x": "ghost.field"}, map[string]task.Result{}, false)
	require.Error(t, err)
}

func TestInjector_Inject_LenientSubstitutesNull(t *testing.T) {
	inj := New(nil)
	prompt, _, warnings, err := inj.Inject("hi {x}", map[string]string{"x": "ghost.field"}, map[string]task.Result{}, true)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Contains(t, prompt, "hi null")
}

func TestInjector_Inject_Idempotent(t *testing.T) {
	upstream := map[string]task.Result{
		"A": {TaskID: "A", ParsedData: map[string]any{"msg": "hello"}},
	}
	inj := New(nil)
	mapping := map[string]string{"m": "A.msg"}
	first, _, _, err := inj.Inject("say: {m}", mapping, upstream, false)
	require.NoError(t, err)
	second, _, _, err := inj.Inject("say: {m}", mapping, upstream, false)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
