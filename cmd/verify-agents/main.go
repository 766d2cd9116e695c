// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// verify-agents is a standalone preflight binary: it checks that every
// agent CLI the scheduler knows how to dispatch to (claude, codex,
// gemini) is installed and responsive, without touching any task graph.
// Mirrors original_source/scripts/verify_cli_setup.py.
package main

import (
	"fmt"
	"os"

	"github.com/TaliesinYang/multi-agent-scheduler/internal/agentcli"
)

func main() {
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
}
