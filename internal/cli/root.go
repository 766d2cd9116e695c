// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package cli implements the scheduler command-line front end: run,
// validate and verify-agents, wired with cobra the way mj1618's
// swarm-cli wires its own subcommands.
package cli

import (
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Multi-agent DAG task scheduler",
	Long: `scheduler runs a dependency graph of tasks across external agent
CLIs (claude, codex, gemini), batching independent tasks together and
injecting each upstream task's result into its dependents' prompts.`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a scheduler config YAML file")
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(verifyAgentsCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
