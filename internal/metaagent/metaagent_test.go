// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package metaagent

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TaliesinYang/multi-agent-scheduler/pkg/task"
)

func TestAnalyzer_SimpleTask(t *testing.T) {
	a := NewAnalyzer(DefaultWeights(), DefaultThreshold)
	result := a.Analyze(task.Task{ID: "A", Prompt: "echo hello"})
	assert.False(t, result.IsComplex)
	assert.Equal(t, 0, result.Score)
}

func TestAnalyzer_ComplexByDatabaseAndKeywords(t *testing.T) {
	a := NewAnalyzer(DefaultWeights(), DefaultThreshold)
	result := a.Analyze(task.Task{
		ID:     "B",
		Type:   task.TypeDB,
		Prompt: "Run a SELECT query and JOIN two tables",
	})
	assert.True(t, result.IsComplex)
	assert.Contains(t, result.Reasoning, "database query task")
	assert.Contains(t, result.Reasoning, "select")
}

func TestAnalyzer_ComplexByDependenciesAndLength(t *testing.T) {
	a := NewAnalyzer(DefaultWeights(), DefaultThreshold)
	result := a.Analyze(task.Task{
		ID:        "C",
		DependsOn: []string{"A"},
		Prompt:    strings.Repeat("x", 160),
	})
	assert.True(t, result.IsComplex)
	assert.Equal(t, 45, result.Score)
}

func TestMetaAgent_ProcessTasks_SelectsTemplate(t *testing.T) {
	m := New(Weights{}, 0, nil)
	out, err := m.ProcessTasks(context.Background(), []task.Task{
		{ID: "A", Prompt: "echo hello"},
		{ID: "B", DependsOn: []string{"A"}, Type: task.TypeDB, Prompt: "SELECT * FROM users"},
	}, false)
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, "simple", out[0].Metadata["complexity"])
	assert.Contains(t, out[0].Prompt, "FINAL_ANSWER:")
	assert.Equal(t, "echo hello", out[0].Metadata["original_prompt"])

	assert.Equal(t, "complex", out[1].Metadata["complexity"])
	assert.Equal(t, TemplateComplex, out[1].Metadata["template_used"])
}

func TestMetaAgent_ProcessTasks_AddsSummaryTask(t *testing.T) {
	m := New(Weights{}, 0, nil)
	out, err := m.ProcessTasks(context.Background(), []task.Task{
		{ID: "A", Prompt: "a"},
		{ID: "B", DependsOn: []string{"A"}, Prompt: "b"},
		{ID: "C", DependsOn: []string{"A"}, Prompt: "c"},
	}, true)
	require.NoError(t, err)
	require.Len(t, out, 4)

	summary := out[3]
	assert.Equal(t, SummaryTaskID, summary.ID)
	assert.Equal(t, task.TypeSummary, summary.Type)
	assert.ElementsMatch(t, []string{"B", "C"}, summary.DependsOn)
	assert.Len(t, summary.InputMapping, 2)
}

func TestMetaAgent_ProcessTasks_DoesNotMutateInput(t *testing.T) {
	m := New(Weights{}, 0, nil)
	original := []task.Task{{ID: "A", Prompt: "echo hello"}}
	_, err := m.ProcessTasks(context.Background(), original, false)
	require.NoError(t, err)
	assert.Equal(t, "echo hello", original[0].Prompt)
}
