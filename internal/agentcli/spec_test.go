// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package agentcli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_UnknownAgent(t *testing.T) {
	_, err := Resolve("not-a-real-agent")
	require.Error(t, err)
}

func TestBuildArgs_Claude(t *testing.T) {
	spec, err := Resolve(Claude)
	require.NoError(t, err)
	spec.AutoApprove = true

	args, err := BuildArgs(spec, "do the thing")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"-p", "--output-format", "json",
		"--model", "sonnet",
		"--tools", "Bash,Read,Write", "--dangerously-skip-permissions",
		"do the thing",
	}, args)
}

func TestBuildArgs_ClaudeNoAutoApprove(t *testing.T) {
	spec, err := Resolve(Claude)
	require.NoError(t, err)

	args, err := BuildArgs(spec, "prompt")
	require.NoError(t, err)
	assert.NotContains(t, args, "--dangerously-skip-permissions")
	assert.Equal(t, "prompt", args[len(args)-1])
}

func TestBuildArgs_Codex(t *testing.T) {
	spec, err := Resolve(Codex)
	require.NoError(t, err)
	spec.Model = "gpt-5-codex"

	args, err := BuildArgs(spec, "prompt")
	require.NoError(t, err)
	assert.Equal(t, []string{"exec", "--skip-git-repo-check", "--model", "gpt-5-codex", "prompt"}, args)
}

func TestBuildArgs_Gemini(t *testing.T) {
	spec, err := Resolve(Gemini)
	require.NoError(t, err)
	spec.AutoApprove = true

	args, err := BuildArgs(spec, "prompt")
	require.NoError(t, err)
	assert.Equal(t, []string{"--yolo", "-p", "prompt"}, args)
}

func TestBuildArgs_UnknownAgent(t *testing.T) {
	_, err := BuildArgs(AgentSpec{Name: "ghost"}, "x")
	require.Error(t, err)
}
