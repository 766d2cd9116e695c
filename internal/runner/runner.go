// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package runner spawns one external agent CLI process per task,
// enforces its timeout, and harvests a TaskResult. A failure here is
// always reported through TaskResult.Success/Error; nothing escapes as
// a panic or a returned error from Run.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/TaliesinYang/multi-agent-scheduler/internal/agentcli"
	"github.com/TaliesinYang/multi-agent-scheduler/internal/sandbox"
	"github.com/TaliesinYang/multi-agent-scheduler/pkg/task"
)

const maxErrorLen = 2000

// Sandbox is the subset of sandbox.Manager an AgentRunner needs: provision
// an isolated workdir before an os-type task runs, tear it down after.
type Sandbox interface {
	Provision(ctx context.Context, taskID string) (*sandbox.Handle, error)
	Teardown(ctx context.Context, h *sandbox.Handle) error
}

// AgentRunner executes one prompt against one named agent CLI. It holds
// no per-task mutable state and is safe to share across concurrent
// invocations within a batch.
type AgentRunner struct {
	spawner   Spawner
	logger    *slog.Logger
	overrides map[string]agentcli.Override
	sandbox   Sandbox
}

// New builds an AgentRunner. A nil spawner defaults to a real
// ExecSpawner; a nil logger defaults to slog.Default(). An optional
// overrides map (config-driven per-agent binary/model/extra_args/
// auto_approve customization) may be passed as the third argument.
func New(spawner Spawner, logger *slog.Logger, overrides ...map[string]agentcli.Override) *AgentRunner {
	if spawner == nil {
		spawner = NewExecSpawner()
	}
	if logger == nil {
		logger = slog.Default()
	}
	r := &AgentRunner{spawner: spawner, logger: logger}
	if len(overrides) > 0 {
		r.overrides = overrides[0]
	}
	return r
}

// WithSandbox attaches a sandbox provisioner: every subsequent os-type
// task runs inside a freshly provisioned container, torn down once the
// task settles, rather than directly on the scheduler's host.
func (r *AgentRunner) WithSandbox(s Sandbox) *AgentRunner {
	r.sandbox = s
	return r
}

// Run executes prompt against agentName, returning a TaskResult that is
// always populated — even on timeout, non-zero exit, or a missing
// completion marker. taskType selects sandboxing: only "os" tasks are
// ever provisioned a container, and only when WithSandbox was called.
func (r *AgentRunner) Run(ctx context.Context, taskID, prompt, agentName, taskType string, timeout time.Duration, expectsStructured, autoApprove bool) task.Result {
	start := time.Now()

	spec, err := agentcli.ResolveWithOverrides(agentName, r.overrides)
	if err != nil {
		return task.Result{TaskID: taskID, Success: false, Error: "unknown agent"}
	}
	if autoApprove {
		spec.AutoApprove = true
	}

	args, err := agentcli.BuildArgs(spec, prompt)
	if err != nil {
		return task.Result{TaskID: taskID, Success: false, Error: err.Error()}
	}

	var env []string
	if r.sandbox != nil && taskType == task.TypeOS {
		handle, provisionErr := r.sandbox.Provision(ctx, taskID)
		if provisionErr != nil {
			return task.Result{TaskID: taskID, Success: false, Error: "sandbox provision failed: " + provisionErr.Error()}
		}
		defer func() { _ = r.sandbox.Teardown(context.Background(), handle) }()
		env = []string{"SCHEDULER_SANDBOX_CONTAINER_ID=" + handle.ContainerID, "SCHEDULER_SANDBOX_WORKDIR=" + handle.WorkDir}
	}

	r.logger.Info("starting task", "task_id", taskID, "agent", agentName)

	spawned := r.spawner.Spawn(ctx, spec.Binary, args, timeout, env)
	latency := time.Since(start)

	if spawned.TimedOut {
		if errors.Is(spawned.Err, context.Canceled) {
			r.logger.Warn("task cancelled", "task_id", taskID, "agent", agentName)
			return task.Result{TaskID: taskID, Success: false, Latency: latency, Output: spawned.Output, Error: "cancelled"}
		}
		r.logger.Warn("task timed out", "task_id", taskID, "agent", agentName)
		return task.Result{TaskID: taskID, Success: false, Latency: latency, Output: spawned.Output, Error: "timeout"}
	}
	if spawned.Err != nil || spawned.ExitCode != 0 {
		r.logger.Warn("task failed", "task_id", taskID, "agent", agentName, "exit_code", spawned.ExitCode)
		return task.Result{
			TaskID:  taskID,
			Success: false,
			Latency: latency,
			Output:  spawned.Output,
			Error:   truncate(errorDetail(spawned), maxErrorLen),
		}
	}

	output := cleanOutput(spawned.Output)
	finalAnswer, ok := findFinalAnswer(output)
	if !ok {
		r.logger.Warn("task produced no final answer", "task_id", taskID, "agent", agentName)
		return task.Result{TaskID: taskID, Success: false, Latency: latency, Output: output, Error: "no final answer"}
	}

	result := task.Result{
		TaskID:      taskID,
		Success:     true,
		Latency:     latency,
		Output:      output,
		FinalAnswer: finalAnswer,
	}
	if expectsStructured {
		result.ParsedData = extractStructured(output)
	}

	r.logger.Info("task completed", "task_id", taskID, "agent", agentName, "latency_ms", latency.Milliseconds())
	return result
}

func errorDetail(s SpawnResult) string {
	if s.Err != nil {
		return fmt.Sprintf("exit %d: %s", s.ExitCode, s.Err.Error())
	}
	return fmt.Sprintf("exit %d: %s", s.ExitCode, strings.TrimSpace(s.Output))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "...(truncated)"
}
