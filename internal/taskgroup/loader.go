// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package taskgroup loads the structured document describing task
// groups (spec §6's "Task input format") into the scheduler's Task
// model.
package taskgroup

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/TaliesinYang/multi-agent-scheduler/pkg/task"
)

// Document is one task group: a named, described list of tasks. yaml.v3
// parses JSON documents too (JSON is a YAML subset), so this loader
// serves both the YAML and JSON variants of the task group format.
type Document struct {
	GroupID     string      `yaml:"group_id"`
	Description string      `yaml:"description"`
	Tasks       []taskEntry `yaml:"tasks"`
}

type taskEntry struct {
	ID           string            `yaml:"id"`
	Prompt       string            `yaml:"prompt"`
	DependsOn    []string          `yaml:"depends_on"`
	Type         string            `yaml:"type"`
	Metadata     map[string]any    `yaml:"metadata"`
	InputMapping map[string]string `yaml:"input_mapping"`
}

// Load reads a task group document from path and converts it into the
// Task slice the scheduler expects.
func Load(path string) (*Document, []task.Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read task group document: %w", err)
	}
	return Parse(data)
}

// Parse converts raw document bytes into a Document and its Task slice.
func Parse(data []byte) (*Document, []task.Task, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("failed to parse task group document: %w", err)
	}

	tasks := make([]task.Task, 0, len(doc.Tasks))
	for _, e := range doc.Tasks {
		if e.ID == "" {
			return nil, nil, fmt.Errorf("task group %q: task missing required id", doc.GroupID)
		}
		taskType := e.Type
		if taskType == "" {
			taskType = task.TypeUnknown
		}
		tasks = append(tasks, task.Task{
			ID:           e.ID,
			Prompt:       e.Prompt,
			DependsOn:    e.DependsOn,
			Type:         taskType,
			Metadata:     e.Metadata,
			InputMapping: e.InputMapping,
		})
	}

	return &doc, tasks, nil
}
