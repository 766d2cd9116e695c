// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/TaliesinYang/multi-agent-scheduler/internal/dag"
	"github.com/TaliesinYang/multi-agent-scheduler/internal/inject"
	"github.com/TaliesinYang/multi-agent-scheduler/internal/metaagent"
	"github.com/TaliesinYang/multi-agent-scheduler/internal/progress"
	"github.com/TaliesinYang/multi-agent-scheduler/internal/telemetry"
	"github.com/TaliesinYang/multi-agent-scheduler/pkg/task"
)

// AgentRunner is the one method pkg/scheduler needs from
// internal/runner.AgentRunner. Declaring it here (instead of importing
// the concrete type) keeps Execute testable with a fake that never
// spawns a process.
type AgentRunner interface {
	Run(ctx context.Context, taskID, prompt, agentName, taskType string, timeout time.Duration, expectsStructured, autoApprove bool) task.Result
}

// Scheduler runs a validated task graph to completion, batch by batch.
type Scheduler struct {
	runner   AgentRunner
	injector *inject.Injector
	logger   *slog.Logger
}

// New builds a Scheduler. A nil logger defaults to slog.Default().
func New(runner AgentRunner, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		runner:   runner,
		injector: inject.New(logger),
		logger:   logger,
	}
}

// Execute validates tasks, optionally runs the meta agent over them, then
// drives the batch plan to completion under opts.FailurePolicy.
func (s *Scheduler) Execute(ctx context.Context, tasks []task.Task, opts Options) (*RunResult, error) {
	start := time.Now()

	if len(tasks) == 0 {
		return &RunResult{
			PerTask:     map[string]task.Result{},
			Status:      map[string]TaskState{},
			SuccessRate: 1.0,
			BatchCount:  0,
			TotalTime:   time.Since(start),
		}, nil
	}

	if _, err := dag.Validate(tasks); err != nil {
		return nil, err
	}

	runnable := tasks
	if opts.UseMetaAgent {
		meta := metaagent.New(opts.MetaWeights, opts.MetaThreshold, s.logger)
		processed, err := meta.ProcessTasks(ctx, tasks, opts.AddSummaryTask)
		if err != nil {
			return nil, err
		}
		runnable = processed
	}

	plan, err := dag.Validate(runnable)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]task.Task, len(runnable))
	for _, t := range runnable {
		byID[t.ID] = t
	}

	reporter := progress.New(opts.Verbose)
	policy := opts.failurePolicy()
	timeout := opts.timeout()

	var mu sync.Mutex
	results := make(map[string]task.Result, len(runnable))
	status := make(map[string]TaskState, len(runnable))
	var warnings []inject.Warning
	aborted := false

	for _, t := range runnable {
		status[t.ID] = StatePending
	}

	runCtx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()

	for batchIndex, batch := range plan.Batches {
		mu.Lock()
		nowAborted := aborted
		mu.Unlock()
		if nowAborted {
			break
		}

		batchSpanCtx, span := telemetry.StartSpan(runCtx, "scheduler", "scheduler.batch",
			trace.WithAttributes(telemetry.BatchAttrs("", batchIndex, len(batch))...))
		reporter.BatchStarted(batchIndex, plan.Depth(), len(batch))

		var toRun []task.Task
		for _, id := range batch {
			mu.Lock()
			skip := policy == SkipDownstream && dependsOnFailure(byID[id], results)
			mu.Unlock()
			if skip {
				mu.Lock()
				results[id] = task.Result{TaskID: id, Success: false, Error: "skipped"}
				status[id] = StateSkipped
				mu.Unlock()
				reporter.TaskSkipped(id)
				continue
			}
			toRun = append(toRun, byID[id])
		}

		batchCtx, cancelBatch := context.WithCancel(batchSpanCtx)
		sem := make(chan struct{}, opts.concurrencyFor(len(toRun)))
		var wg sync.WaitGroup

		for _, t := range toRun {
			t := t

			mu.Lock()
			preDispatchAbort := aborted
			mu.Unlock()
			if preDispatchAbort {
				mu.Lock()
				results[t.ID] = task.Result{TaskID: t.ID, Success: false, Error: "cancelled"}
				status[t.ID] = StateSkipped
				mu.Unlock()
				reporter.TaskSkipped(t.ID)
				continue
			}

			mu.Lock()
			status[t.ID] = StateRunning
			mu.Unlock()

			wg.Add(1)
			sem <- struct{}{}

			mu.Lock()
			postAcquireAbort := aborted
			mu.Unlock()
			if postAcquireAbort {
				<-sem
				mu.Lock()
				results[t.ID] = task.Result{TaskID: t.ID, Success: false, Error: "cancelled"}
				status[t.ID] = StateSkipped
				mu.Unlock()
				reporter.TaskSkipped(t.ID)
				wg.Done()
				continue
			}

			go func() {
				defer wg.Done()
				defer func() { <-sem }()

				taskCtx, span := telemetry.StartSpan(batchCtx, "scheduler", "scheduler.task",
					trace.WithAttributes(telemetry.TaskAttrs(t.ID, t.Type, opts.agentFor(t.ID))...))
				defer span.End()

				mu.Lock()
				upstream := snapshot(results)
				mu.Unlock()

				lenient := policy == ContinuePartial
				prompt, _, taskWarnings, injErr := s.injector.Inject(t.Prompt, t.InputMapping, upstream, lenient)

				taskStart := time.Now()
				var result task.Result
				if injErr != nil {
					result = task.Result{TaskID: t.ID, Success: false, Error: injErr.Error()}
				} else {
					agentName := opts.agentFor(t.ID)
					result = s.runner.Run(taskCtx, t.ID, prompt, agentName, t.Type, timeout, opts.ExtractData, opts.autoApproveFor(agentName))
				}
				span.SetAttributes(telemetry.DurationAttrs(time.Since(taskStart))...)

				mu.Lock()
				results[t.ID] = result
				if len(taskWarnings) > 0 {
					warnings = append(warnings, taskWarnings...)
				}
				if result.Success {
					status[t.ID] = StateSucceeded
				} else {
					status[t.ID] = StateFailed
					if policy == FailFast && !aborted {
						aborted = true
						cancelBatch()
					}
				}
				mu.Unlock()

				if result.Success {
					span.SetStatus(codes.Ok, "task succeeded")
					reporter.TaskSucceeded(t.ID, result.Latency.Milliseconds())
				} else {
					span.SetAttributes(telemetry.ErrorAttrs(errors.New(result.Error))...)
					span.SetStatus(codes.Error, result.Error)
					reporter.TaskFailed(t.ID, result.Error)
				}
			}()
		}

		wg.Wait()
		cancelBatch()
		span.End()
	}

	mu.Lock()
	if aborted {
		for _, t := range runnable {
			if _, done := results[t.ID]; !done {
				results[t.ID] = task.Result{TaskID: t.ID, Success: false, Error: "cancelled"}
				status[t.ID] = StateSkipped
			}
		}
	}
	mu.Unlock()

	completed, failed, skipped := 0, 0, 0
	for _, t := range runnable {
		r := results[t.ID]
		switch {
		case r.Success:
			completed++
		case r.Error == "skipped" || r.Error == "cancelled":
			skipped++
		default:
			failed++
		}
	}

	total := len(runnable)
	successRate := 1.0
	if total > 0 {
		successRate = float64(completed) / float64(total)
	}

	return &RunResult{
		PerTask:           results,
		Status:            status,
		Completed:         completed,
		Failed:            failed,
		Skipped:           skipped,
		Total:             total,
		SuccessRate:       successRate,
		BatchCount:        plan.Depth(),
		TotalTime:         time.Since(start),
		InjectionWarnings: warnings,
		Aborted:           aborted,
	}, nil
}

// dependsOnFailure reports whether t has a dependency that is already
// recorded as failed, skipped or cancelled.
func dependsOnFailure(t task.Task, results map[string]task.Result) bool {
	for _, dep := range t.DependsOn {
		if r, ok := results[dep]; ok && !r.Success {
			return true
		}
	}
	return false
}

func snapshot(results map[string]task.Result) map[string]task.Result {
	out := make(map[string]task.Result, len(results))
	for k, v := range results {
		out[k] = v
	}
	return out
}
