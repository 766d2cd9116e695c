// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/TaliesinYang/multi-agent-scheduler/internal/agentcli"
)

var verifyAgentsCmd = &cobra.Command{
	Use:   "verify-agents",
	Short: "Check that claude, codex and gemini are installed and respond",
	Long: `verify-agents shells out to each configured agent CLI with --version
(falling back to --help) to confirm it is reachable on PATH before a run
starts, mirroring verify_cli_setup.py's preflight check.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		results := agentcli.CheckAll(agentcli.DefaultSpecs())

		anyAvailable := false
		for _, r := range results {
			status := "unavailable"
			if r.Available {
				status = "ok"
				anyAvailable = true
			}
			fmt.Printf("%-8s %-10s %-12s %s\n", r.Agent, r.Binary, status, r.Detail)
		}

		if !anyAvailable {
			fmt.Fprintln(os.Stderr, "no configured agent CLI is reachable")
			os.Exit(1)
		}
		return nil
	},
}
