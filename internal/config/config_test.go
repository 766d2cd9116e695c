// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scheduler.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	path := writeConfig(t, `
scheduler:
  default_agent: claude
  use_meta_agent: true
  extract_data: true
  max_concurrent_per_batch: 4
  timeout_seconds: 60
  failure_policy: skip_downstream

agents:
  claude:
    binary: claude
    model: sonnet
    auto_approve: true
  codex:
    binary: codex

meta_agent:
  threshold: 40

sandbox:
  enabled: true
  image: ubuntu:24.04
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "claude", cfg.Scheduler.DefaultAgent)
	assert.Equal(t, 4, cfg.Scheduler.MaxConcurrentPerBatch)
	assert.Equal(t, "skip_downstream", cfg.Scheduler.FailurePolicy)
	assert.Equal(t, "sonnet", cfg.Agents["claude"].Model)
	assert.True(t, cfg.Agents["claude"].AutoApprove)
	assert.Equal(t, 40, cfg.MetaAgent.Threshold)
	assert.Equal(t, "ubuntu:24.04", cfg.Sandbox.Image)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "scheduler:\n  default_agent: [\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, "scheduler: {}\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "claude", cfg.Scheduler.DefaultAgent)
	assert.Equal(t, "fail_fast", cfg.Scheduler.FailurePolicy)
	assert.Equal(t, float64(120), cfg.Scheduler.TimeoutSeconds)
	assert.Equal(t, "ubuntu:22.04", cfg.Sandbox.Image)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "claude", cfg.Scheduler.DefaultAgent)
	assert.Equal(t, "fail_fast", cfg.Scheduler.FailurePolicy)
	assert.NotNil(t, cfg.Agents)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		cfg         Config
		wantErr     bool
		errContains string
	}{
		{
			name: "valid",
			cfg: Config{Scheduler: SchedulerConfig{
				DefaultAgent: "claude", FailurePolicy: "fail_fast", TimeoutSeconds: 30,
			}},
		},
		{
			name:        "missing default agent",
			cfg:         Config{Scheduler: SchedulerConfig{FailurePolicy: "fail_fast", TimeoutSeconds: 30}},
			wantErr:     true,
			errContains: "default_agent is required",
		},
		{
			name: "bad failure policy",
			cfg: Config{Scheduler: SchedulerConfig{
				DefaultAgent: "claude", FailurePolicy: "retry_forever", TimeoutSeconds: 30,
			}},
			wantErr:     true,
			errContains: "failure_policy must be one of",
		},
		{
			name: "non-positive timeout",
			cfg: Config{Scheduler: SchedulerConfig{
				DefaultAgent: "claude", FailurePolicy: "fail_fast", TimeoutSeconds: 0,
			}},
			wantErr:     true,
			errContains: "timeout_seconds must be positive",
		},
		{
			name: "negative concurrency",
			cfg: Config{Scheduler: SchedulerConfig{
				DefaultAgent: "claude", FailurePolicy: "fail_fast", TimeoutSeconds: 30, MaxConcurrentPerBatch: -1,
			}},
			wantErr:     true,
			errContains: "must not be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
		})
	}
}
