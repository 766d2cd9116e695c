// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package progress prints colored, human-facing progress lines for a
// scheduler run when the caller opts into verbose output. It is purely
// cosmetic — nothing in the scheduler's control flow depends on it.
package progress

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Reporter emits progress lines. A disabled Reporter is a no-op, so
// callers never need to branch on options.verbose themselves.
type Reporter struct {
	enabled bool
	out     io.Writer
}

// New builds a Reporter. When enabled is false every method is a no-op.
func New(enabled bool) *Reporter {
	return &Reporter{enabled: enabled, out: os.Stdout}
}

// BatchStarted announces the start of a batch.
func (r *Reporter) BatchStarted(index, total, size int) {
	if !r.enabled {
		return
	}
	color.New(color.FgCyan, color.Bold).Fprintf(r.out, "▶ batch %d/%d", index+1, total)
	fmt.Fprintf(r.out, " (%d tasks)\n", size)
}

// TaskSucceeded announces one task's success.
func (r *Reporter) TaskSucceeded(taskID string, latencyMS int64) {
	if !r.enabled {
		return
	}
	color.New(color.FgGreen).Fprintf(r.out, "  ✓ %s", taskID)
	fmt.Fprintf(r.out, " (%dms)\n", latencyMS)
}

// TaskFailed announces one task's failure.
func (r *Reporter) TaskFailed(taskID, reason string) {
	if !r.enabled {
		return
	}
	color.New(color.FgRed).Fprintf(r.out, "  ✗ %s", taskID)
	fmt.Fprintf(r.out, ": %s\n", reason)
}

// TaskSkipped announces one task being skipped under skip_downstream.
func (r *Reporter) TaskSkipped(taskID string) {
	if !r.enabled {
		return
	}
	color.New(color.FgYellow).Fprintf(r.out, "  ⊘ %s", taskID)
	fmt.Fprintln(r.out, " (skipped)")
}

// RunFinished announces the overall run outcome.
func (r *Reporter) RunFinished(completed, failed, total int, successRate float64) {
	if !r.enabled {
		return
	}
	c := color.New(color.Bold)
	if failed == 0 {
		c.Add(color.FgGreen)
	} else {
		c.Add(color.FgRed)
	}
	c.Fprintf(r.out, "run finished: %d/%d succeeded (%.0f%%)\n", completed, total, successRate*100)
}
