// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package metaagent

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/TaliesinYang/multi-agent-scheduler/internal/dag"
	"github.com/TaliesinYang/multi-agent-scheduler/internal/telemetry"
	"github.com/TaliesinYang/multi-agent-scheduler/pkg/task"
)

// SummaryTaskID is the id of the synthetic task MetaAgent appends when
// asked to add a final summary.
const SummaryTaskID = "final_summary"

// MetaAgent classifies each task once, up-front, rewriting its prompt
// through the matching template. It never runs at batch time: keeping
// the agent-visible prompt stable for the whole run is the point.
type MetaAgent struct {
	analyzer  *Analyzer
	templates *templateLibrary
	logger    *slog.Logger
}

// New builds a MetaAgent. A zero Weights or non-positive threshold falls
// back to DefaultWeights/DefaultThreshold.
func New(weights Weights, threshold int, logger *slog.Logger) *MetaAgent {
	if logger == nil {
		logger = slog.Default()
	}
	return &MetaAgent{
		analyzer:  NewAnalyzer(weights, threshold),
		templates: newTemplateLibrary(),
		logger:    logger,
	}
}

// ProcessTasks rewrites every task's prompt through its selected
// template and, when addSummary is true, appends a synthetic
// final_summary task depending on every leaf task. The input slice is
// not mutated; a new slice of rewritten clones is returned.
func (m *MetaAgent) ProcessTasks(ctx context.Context, tasks []task.Task, addSummary bool) ([]task.Task, error) {
	out := make([]task.Task, 0, len(tasks)+1)
	for _, t := range tasks {
		processed, err := m.processOne(ctx, t)
		if err != nil {
			return nil, err
		}
		out = append(out, processed)
	}

	if addSummary {
		summary, err := m.buildSummaryTask(out)
		if err != nil {
			return nil, err
		}
		out = append(out, summary)
	}

	return out, nil
}

func (m *MetaAgent) processOne(ctx context.Context, t task.Task) (task.Task, error) {
	_, span := telemetry.StartSpan(ctx, "metaagent", "metaagent.classify",
		trace.WithAttributes(telemetry.TaskAttrs(t.ID, t.Type, "")...))
	defer span.End()

	analysis := m.analyzer.Analyze(t)

	templateName := TemplateSimple
	if analysis.IsComplex {
		templateName = TemplateComplex
	}
	span.SetAttributes(telemetry.ComplexityAttrs(complexityLabel(analysis.IsComplex), analysis.Score, templateName)...)

	prompt, err := m.templates.Generate(templateName, map[string]string{
		"description": t.Prompt,
	})
	if err != nil {
		span.SetAttributes(telemetry.ErrorAttrs(err)...)
		span.SetStatus(codes.Error, err.Error())
		return task.Task{}, err
	}
	span.SetStatus(codes.Ok, "task classified")

	out := t.Clone()
	out.Prompt = prompt
	if out.Metadata == nil {
		out.Metadata = make(map[string]any)
	}
	out.Metadata["meta_agent_processed"] = true
	out.Metadata["complexity"] = complexityLabel(analysis.IsComplex)
	out.Metadata["complexity_score"] = analysis.Score
	out.Metadata["complexity_reasoning"] = analysis.Reasoning
	out.Metadata["template_used"] = templateName
	out.Metadata["original_prompt"] = t.Prompt

	m.logger.Info("meta agent processed task",
		"task_id", t.ID, "complexity", complexityLabel(analysis.IsComplex),
		"score", analysis.Score, "template", templateName)

	return out, nil
}

func complexityLabel(isComplex bool) string {
	if isComplex {
		return "complex"
	}
	return "simple"
}

// buildSummaryTask synthesizes the final_summary task: it depends on
// every leaf task and carries an auto-generated input mapping — one
// parameter per dependency — so the DependencyInjector has something to
// resolve when the task executes.
func (m *MetaAgent) buildSummaryTask(tasks []task.Task) (task.Task, error) {
	leaves := dag.LeafTaskIDs(tasks)

	prompt, err := m.templates.Generate(TemplateSummary, map[string]string{
		"all_task_results": "",
	})
	if err != nil {
		return task.Task{}, err
	}

	mapping := make(map[string]string, len(leaves))
	for _, id := range leaves {
		mapping[fmt.Sprintf("%s_result", id)] = fmt.Sprintf("%s.final_answer", id)
	}

	return task.Task{
		ID:        SummaryTaskID,
		Prompt:    prompt,
		DependsOn: leaves,
		Type:      task.TypeSummary,
		Metadata: map[string]any{
			"meta_agent_processed": true,
			"complexity":           "complex",
			"template_used":        TemplateSummary,
			"synthetic":            true,
		},
		InputMapping: mapping,
	}, nil
}
