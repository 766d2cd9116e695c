// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package metaagent

import (
	"fmt"
	"strings"

	"github.com/TaliesinYang/multi-agent-scheduler/internal/inject"
)

// Template names recognized by the library.
const (
	TemplateSimple  = "simple"
	TemplateComplex = "complex"
	TemplateSummary = "summary"
)

// templateLibrary dispatches prompt generation by template name: one
// function per template, one switch at the entry point.
type templateLibrary struct{}

func newTemplateLibrary() *templateLibrary {
	return &templateLibrary{}
}

// Generate renders the named template with the given variables. A missing
// variable is not an error: a missing description renders as an empty
// string, and a missing upstream_context or all_task_results leaves
// inject.ContextMarker in its place for the injector to fill — templates
// are plain text substitution, never a query language.
func (l *templateLibrary) Generate(name string, vars map[string]string) (string, error) {
	switch name {
	case TemplateSimple:
		return l.simple(vars["description"]), nil
	case TemplateComplex:
		return l.complex(vars["description"], vars["upstream_context"]), nil
	case TemplateSummary:
		return l.summary(vars["all_task_results"]), nil
	default:
		return "", fmt.Errorf("unknown prompt template %q", name)
	}
}

func (l *templateLibrary) simple(description string) string {
	var sb strings.Builder
	sb.WriteString("You are an autonomous agent completing a single task.\n\n")
	fmt.Fprintf(&sb, "Task: %s\n\n", description)
	sb.WriteString("Execute this task directly using whatever tools you need. ")
	sb.WriteString("When you are done, end your response with a line of the form:\n\n")
	sb.WriteString("FINAL_ANSWER: <your result>\n")
	return sb.String()
}

func (l *templateLibrary) complex(description, upstreamContext string) string {
	var sb strings.Builder
	sb.WriteString("You are an autonomous agent completing a non-trivial task that depends on prior work.\n\n")
	fmt.Fprintf(&sb, "Task: %s\n\n", description)
	sb.WriteString("Context from upstream tasks:\n")
	if upstreamContext == "" {
		upstreamContext = inject.ContextMarker
	}
	sb.WriteString(upstreamContext)
	sb.WriteString("\n\n")
	sb.WriteString("Use the upstream context above where relevant. Think through the steps before acting. ")
	sb.WriteString("When you are done, end your response with a line of the form:\n\n")
	sb.WriteString("FINAL_ANSWER: <your result>\n")
	return sb.String()
}

func (l *templateLibrary) summary(allTaskResults string) string {
	var sb strings.Builder
	sb.WriteString("You are aggregating the results of a completed multi-task run. Do not re-execute any task.\n\n")
	sb.WriteString("Results from all tasks:\n")
	if allTaskResults == "" {
		allTaskResults = inject.ContextMarker
	}
	sb.WriteString(allTaskResults)
	sb.WriteString("\n\n")
	sb.WriteString("Produce a concise summary of what was accomplished and note any failures. ")
	sb.WriteString("When you are done, end your response with a line of the form:\n\n")
	sb.WriteString("FINAL_ANSWER: <your summary>\n")
	return sb.String()
}
