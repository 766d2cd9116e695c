// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package scheduler is the public façade: it wires the DAG validator, the
// meta agent, the dependency injector and the agent runner into one
// Execute call that runs a task graph batch by batch.
package scheduler

import (
	"time"

	"github.com/TaliesinYang/multi-agent-scheduler/internal/inject"
	"github.com/TaliesinYang/multi-agent-scheduler/internal/metaagent"
	"github.com/TaliesinYang/multi-agent-scheduler/pkg/task"
)

// FailurePolicy selects how a task failure affects the rest of the run.
type FailurePolicy string

const (
	// FailFast cancels every other running or not-yet-started task the
	// moment any task fails, and returns the partial result once the
	// current batch's running tasks have settled.
	FailFast FailurePolicy = "fail_fast"
	// SkipDownstream lets unrelated branches keep running but marks every
	// transitive dependent of a failed task as Skipped instead of Running it.
	SkipDownstream FailurePolicy = "skip_downstream"
	// ContinuePartial runs every task regardless of upstream failures,
	// substituting null for any dependency path that can't be resolved.
	ContinuePartial FailurePolicy = "continue_partial"
)

const (
	defaultAgent           = "claude"
	defaultTimeoutSeconds  = 120.0
	defaultMaxConcurrency  = 8
	defaultFailurePolicy   = FailFast
)

// Options configures one Execute call.
type Options struct {
	// DefaultAgent is used for any task without an entry in AgentMapping.
	DefaultAgent string
	// AgentMapping selects an agent CLI per task id.
	AgentMapping map[string]string
	// AutoApprove enables an agent's auto-approval/dangerous-permissions
	// flag, keyed by agent name.
	AutoApprove map[string]bool

	// UseMetaAgent rewrites every task's prompt through the complexity
	// based template selection before the run starts.
	UseMetaAgent bool
	// AddSummaryTask appends a synthetic final_summary task depending on
	// every leaf task. Only takes effect when UseMetaAgent is true.
	AddSummaryTask bool
	MetaWeights    metaagent.Weights
	MetaThreshold  int

	// ExtractData asks the runner to best-effort parse structured JSON out
	// of each agent's own output, populating TaskResult.ParsedData.
	ExtractData bool

	MaxConcurrentPerBatch int
	TimeoutSeconds        float64
	FailurePolicy         FailurePolicy
	Verbose               bool
}

func (o Options) agentFor(taskID string) string {
	if o.AgentMapping != nil {
		if name, ok := o.AgentMapping[taskID]; ok && name != "" {
			return name
		}
	}
	if o.DefaultAgent != "" {
		return o.DefaultAgent
	}
	return defaultAgent
}

func (o Options) autoApproveFor(agentName string) bool {
	if o.AutoApprove == nil {
		return false
	}
	return o.AutoApprove[agentName]
}

func (o Options) timeout() time.Duration {
	if o.TimeoutSeconds <= 0 {
		return time.Duration(defaultTimeoutSeconds * float64(time.Second))
	}
	return time.Duration(o.TimeoutSeconds * float64(time.Second))
}

func (o Options) failurePolicy() FailurePolicy {
	switch o.FailurePolicy {
	case FailFast, SkipDownstream, ContinuePartial:
		return o.FailurePolicy
	default:
		return defaultFailurePolicy
	}
}

func (o Options) concurrencyFor(batchSize int) int {
	limit := o.MaxConcurrentPerBatch
	if limit <= 0 {
		limit = defaultMaxConcurrency
	}
	if batchSize < limit {
		return batchSize
	}
	return limit
}

// RunResult is the outcome of one Execute call.
type RunResult struct {
	PerTask           map[string]task.Result
	Status            map[string]TaskState
	Completed         int
	Failed            int
	Skipped           int
	Total             int
	SuccessRate       float64
	BatchCount        int
	TotalTime         time.Duration
	InjectionWarnings []inject.Warning
	Aborted           bool
}
