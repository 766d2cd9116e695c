// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TaliesinYang/multi-agent-scheduler/internal/dag"
	"github.com/TaliesinYang/multi-agent-scheduler/internal/taskgroup"
)

var validateCmd = &cobra.Command{
	Use:   "validate <task-group-file>",
	Short: "Validate a task group document without running anything",
	Long: `validate loads a task group YAML or JSON document, checks it for
duplicate ids, dangling dependencies and cycles, and prints the batch
plan the scheduler would execute. No agent CLI is ever invoked.`,
	Example: `  scheduler validate tasks.yaml`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, tasks, err := taskgroup.Load(args[0])
		if err != nil {
			return err
		}

		plan, err := dag.Validate(tasks)
		if err != nil {
			return err
		}

		fmt.Printf("task group %q: %d task(s), %d batch(es)\n", doc.GroupID, len(tasks), plan.Depth())
		for i, batch := range plan.Batches {
			fmt.Printf("  batch %d: %v\n", i+1, batch)
		}
		return nil
	},
}
