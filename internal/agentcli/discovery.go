// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package agentcli

import (
	"fmt"
	"strings"

	"github.com/bitfield/script"
)

// CheckResult reports whether one configured agent binary is reachable
// and responsive, mirroring scripts/verify_cli_setup.py's preflight.
type CheckResult struct {
	Agent     string
	Binary    string
	Available bool
	Detail    string
}

// CheckAvailable shells out to `<binary> --version` (falling back to
// `--help` when a CLI doesn't support --version) to confirm the agent is
// on PATH and responds, without running an actual prompt.
func CheckAvailable(spec AgentSpec) CheckResult {
	res := CheckResult{Agent: spec.Name, Binary: spec.Binary}

	out, err := script.Exec(fmt.Sprintf("%s --version", spec.Binary)).String()
	if err == nil {
		res.Available = true
		res.Detail = strings.TrimSpace(out)
		return res
	}

	out, err = script.Exec(fmt.Sprintf("%s --help", spec.Binary)).String()
	if err == nil {
		res.Available = true
		res.Detail = strings.TrimSpace(firstLine(out))
		return res
	}

	res.Available = false
	res.Detail = err.Error()
	return res
}

// CheckAll runs CheckAvailable for every spec in the closed agent set.
func CheckAll(specs map[string]AgentSpec) []CheckResult {
	results := make([]CheckResult, 0, len(specs))
	for _, name := range []string{Claude, Codex, Gemini} {
		spec, ok := specs[name]
		if !ok {
			continue
		}
		results = append(results, CheckAvailable(spec))
	}
	return results
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
