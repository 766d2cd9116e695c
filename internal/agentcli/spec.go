// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package agentcli encapsulates the closed set of agent CLI invocation
// conventions the scheduler knows how to dispatch to. Each agent name is
// a tagged variant holding only the flags particular to that CLI — no
// shared interface beyond "build argv for one prompt" is needed.
package agentcli

import "fmt"

// The closed set of agent names the scheduler recognizes. An AgentRunner
// asked for anything else reports TaskResult{Success: false, Error:
// "unknown agent"} rather than attempting to exec an arbitrary binary.
const (
	Claude = "claude"
	Codex  = "codex"
	Gemini = "gemini"
)

// AgentSpec is the per-agent configuration resolved before a process is
// spawned: which binary to run, which model to request, and whether to
// grant the agent automatic tool-use permission.
type AgentSpec struct {
	Name        string
	Binary      string
	Model       string
	AutoApprove bool
	ExtraArgs   []string
}

// defaultSpecs mirrors cli_agent_adapter.py's concrete defaults: only
// claude ships a named default model in the source this was distilled
// from, so codex/gemini are left without one here rather than inventing
// plausible-looking version strings; callers fill Model via config.
func defaultSpecs() map[string]AgentSpec {
	return map[string]AgentSpec{
		Claude: {Name: Claude, Binary: "claude", Model: "sonnet"},
		Codex:  {Name: Codex, Binary: "codex"},
		Gemini: {Name: Gemini, Binary: "gemini"},
	}
}

// Resolve returns the default AgentSpec for a recognized agent name, or
// an error for anything outside the closed set.
func Resolve(name string) (AgentSpec, error) {
	spec, ok := defaultSpecs()[name]
	if !ok {
		return AgentSpec{}, fmt.Errorf("unknown agent %q", name)
	}
	return spec, nil
}

// DefaultSpecs exposes the closed agent set's default specs for callers
// doing a startup preflight (verify-agents) across every known CLI.
func DefaultSpecs() map[string]AgentSpec {
	return defaultSpecs()
}

// Override carries the subset of an AgentSpec a configuration file may
// customize. Zero fields leave the resolved default untouched.
type Override struct {
	Binary      string
	Model       string
	ExtraArgs   []string
	AutoApprove bool
}

// Apply layers a non-zero override field onto spec, leaving the agent's
// identity (Name) untouched.
func (o Override) Apply(spec AgentSpec) AgentSpec {
	if o.Binary != "" {
		spec.Binary = o.Binary
	}
	if o.Model != "" {
		spec.Model = o.Model
	}
	if len(o.ExtraArgs) > 0 {
		spec.ExtraArgs = o.ExtraArgs
	}
	if o.AutoApprove {
		spec.AutoApprove = true
	}
	return spec
}

// ResolveWithOverrides resolves the default spec for name and layers the
// matching override (if any) on top of it.
func ResolveWithOverrides(name string, overrides map[string]Override) (AgentSpec, error) {
	spec, err := Resolve(name)
	if err != nil {
		return AgentSpec{}, err
	}
	if o, ok := overrides[name]; ok {
		spec = o.Apply(spec)
	}
	return spec, nil
}

// BuildArgs constructs the argv (excluding the binary itself) for one
// prompt invocation, following the per-agent conventions fixed in
// cli_agent_adapter.py (claude) and analogized for codex/gemini.
func BuildArgs(spec AgentSpec, prompt string) ([]string, error) {
	switch spec.Name {
	case Claude:
		return buildClaudeArgs(spec, prompt), nil
	case Codex:
		return buildCodexArgs(spec, prompt), nil
	case Gemini:
		return buildGeminiArgs(spec, prompt), nil
	default:
		return nil, fmt.Errorf("unknown agent %q", spec.Name)
	}
}

// buildClaudeArgs matches cli_agent_adapter.py's CLIClaudeAgent.call():
// `claude -p --output-format json --model <model> [--tools Bash,Read,Write
// --dangerously-skip-permissions] <prompt>`.
func buildClaudeArgs(spec AgentSpec, prompt string) []string {
	args := []string{"-p", "--output-format", "json"}
	if spec.Model != "" {
		args = append(args, "--model", spec.Model)
	}
	if spec.AutoApprove {
		args = append(args, "--tools", "Bash,Read,Write", "--dangerously-skip-permissions")
	}
	args = append(args, spec.ExtraArgs...)
	return append(args, prompt)
}

// buildCodexArgs analogizes the same conventions to the codex CLI's
// non-interactive `exec` subcommand.
func buildCodexArgs(spec AgentSpec, prompt string) []string {
	args := []string{"exec", "--skip-git-repo-check"}
	if spec.Model != "" {
		args = append(args, "--model", spec.Model)
	}
	if spec.AutoApprove {
		args = append(args, "--dangerously-bypass-approvals-and-sandbox")
	}
	args = append(args, spec.ExtraArgs...)
	return append(args, prompt)
}

// buildGeminiArgs analogizes the same conventions to the gemini CLI.
func buildGeminiArgs(spec AgentSpec, prompt string) []string {
	var args []string
	if spec.Model != "" {
		args = append(args, "-m", spec.Model)
	}
	if spec.AutoApprove {
		args = append(args, "--yolo")
	}
	args = append(args, spec.ExtraArgs...)
	return append(args, "-p", prompt)
}
