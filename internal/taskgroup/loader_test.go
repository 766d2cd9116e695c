// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package taskgroup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TaliesinYang/multi-agent-scheduler/pkg/task"
)

func TestParse_YAML(t *testing.T) {
	doc, tasks, err := Parse([]byte(`
group_id: G1
description: a small group
tasks:
  - id: A
    prompt: "echo hello"
  - id: B
    prompt: "say: {msg}"
    depends_on: [A]
    type: database
    input_mapping:
      msg: "A.final_answer"
`))
	require.NoError(t, err)
	assert.Equal(t, "G1", doc.GroupID)
	require.Len(t, tasks, 2)
	assert.Equal(t, "A", tasks[0].ID)
	assert.Equal(t, task.TypeUnknown, tasks[0].Type)
	assert.Equal(t, []string{"A"}, tasks[1].DependsOn)
	assert.Equal(t, task.TypeDB, tasks[1].Type)
	assert.Equal(t, "A.final_answer", tasks[1].InputMapping["msg"])
}

func TestParse_JSON(t *testing.T) {
	_, tasks, err := Parse([]byte(`{"group_id":"G2","tasks":[{"id":"A","prompt":"p"}]}`))
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "A", tasks[0].ID)
}

func TestParse_MissingID(t *testing.T) {
	_, _, err := Parse([]byte(`
group_id: G3
tasks:
  - prompt: "no id here"
`))
	require.Error(t, err)
}
