// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package metaagent classifies tasks by complexity, selects a prompt
// template, and produces the agent-facing prompt delivered to the
// runner. It also synthesizes the optional final-summary task.
package metaagent

import (
	"fmt"
	"strings"

	"github.com/TaliesinYang/multi-agent-scheduler/pkg/task"
)

// Weights holds the scoring weights for each complexity criterion. The
// zero value is invalid; use DefaultWeights.
type Weights struct {
	DependencyCount int
	TaskType        int
	PromptLengthHi  int
	PromptLengthLo  int
	Keywords        int
}

// DefaultWeights matches the source analyzer's defaults exactly.
func DefaultWeights() Weights {
	return Weights{
		DependencyCount: 25,
		TaskType:        30,
		PromptLengthHi:  20,
		PromptLengthLo:  10,
		Keywords:        25,
	}
}

// DefaultThreshold is the score at or above which a task is complex.
const DefaultThreshold = 30

// complexKeywords is the closed keyword set from the source analyzer.
// Matching is case-insensitive, matching the source's behavior of
// normalizing to lowercase before scanning.
var complexKeywords = []string{
	"database", "select", "insert", "update", "delete",
	"query", "transaction", "join", "aggregate", "analyze",
	"calculate", "process", "transform",
}

// Analysis is the result of scoring one task, including the supplemented
// human-readable reasoning string from the source analyzer.
type Analysis struct {
	Score     int
	IsComplex bool
	Reasoning string
}

// Analyzer scores tasks by the rule-based criteria from §4.3.
type Analyzer struct {
	weights   Weights
	threshold int
}

// NewAnalyzer builds an Analyzer with the given weights and threshold.
// A zero Weights or non-positive threshold falls back to the defaults.
func NewAnalyzer(weights Weights, threshold int) *Analyzer {
	if weights == (Weights{}) {
		weights = DefaultWeights()
	}
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Analyzer{weights: weights, threshold: threshold}
}

// Analyze scores t, returning its complexity score, a simple/complex
// classification, and the reasons contributing to the score.
func (a *Analyzer) Analyze(t task.Task) Analysis {
	score := 0
	var reasons []string

	if dep, reason := a.scoreDependencies(t); dep > 0 {
		score += dep
		reasons = append(reasons, reason)
	}
	if tt, reason := a.scoreTaskType(t); tt > 0 {
		score += tt
		reasons = append(reasons, reason)
	}
	if pl, reason := a.scorePromptLength(t); pl > 0 {
		score += pl
		reasons = append(reasons, reason)
	}
	if kw, reason := a.scoreKeywords(t); kw > 0 {
		score += kw
		reasons = append(reasons, reason)
	}

	if score > 100 {
		score = 100
	}

	reasoning := "no complexity signals found"
	if len(reasons) > 0 {
		reasoning = strings.Join(reasons, "; ")
	}

	return Analysis{
		Score:     score,
		IsComplex: score >= a.threshold,
		Reasoning: reasoning,
	}
}

func (a *Analyzer) scoreDependencies(t task.Task) (int, string) {
	if len(t.DependsOn) == 0 {
		return 0, ""
	}
	return a.weights.DependencyCount, fmt.Sprintf("has %d dependenc%s", len(t.DependsOn), pluralSuffix(len(t.DependsOn)))
}

func pluralSuffix(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}

func (a *Analyzer) scoreTaskType(t task.Task) (int, string) {
	if t.Type != task.TypeDB {
		return 0, ""
	}
	return a.weights.TaskType, "database query task"
}

func (a *Analyzer) scorePromptLength(t task.Task) (int, string) {
	n := len(t.Prompt)
	switch {
	case n > 150:
		return a.weights.PromptLengthHi, fmt.Sprintf("long prompt (%d chars)", n)
	case n > 100:
		return a.weights.PromptLengthLo, fmt.Sprintf("moderate prompt length (%d chars)", n)
	default:
		return 0, ""
	}
}

func (a *Analyzer) scoreKeywords(t task.Task) (int, string) {
	lower := strings.ToLower(t.Prompt)
	var matched []string
	for _, kw := range complexKeywords {
		if strings.Contains(lower, kw) {
			matched = append(matched, kw)
		}
	}
	if len(matched) == 0 {
		return 0, ""
	}
	return a.weights.Keywords, fmt.Sprintf("contains complex keywords: %s", strings.Join(matched, ", "))
}
