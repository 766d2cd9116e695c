// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package config loads the scheduler's YAML configuration: scheduler
// defaults, per-agent CLI settings, and MetaAgent scoring overrides.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the complete scheduler configuration document.
type Config struct {
	Scheduler SchedulerConfig     `yaml:"scheduler"`
	Agents    map[string]AgentCLI `yaml:"agents"`
	MetaAgent MetaAgentConfig     `yaml:"meta_agent"`
	Sandbox   SandboxConfig       `yaml:"sandbox"`
}

// SchedulerConfig mirrors the DAGScheduler's execute_dag options.
type SchedulerConfig struct {
	DefaultAgent          string  `yaml:"default_agent"`
	UseMetaAgent          bool    `yaml:"use_meta_agent"`
	ExtractData           bool    `yaml:"extract_data"`
	MaxConcurrentPerBatch int     `yaml:"max_concurrent_per_batch"`
	TimeoutSeconds        float64 `yaml:"timeout_seconds"`
	FailurePolicy         string  `yaml:"failure_policy"`
	Verbose               bool    `yaml:"verbose"`
	AddSummaryTask        bool    `yaml:"add_summary_task"`
}

// AgentCLI configures one agent CLI's binary, extra flags, model and
// auto-approve policy.
type AgentCLI struct {
	Binary      string   `yaml:"binary"`
	Model       string   `yaml:"model"`
	ExtraArgs   []string `yaml:"extra_args"`
	AutoApprove bool     `yaml:"auto_approve"`
}

// MetaAgentConfig overrides the complexity analyzer's weights and
// threshold. When every weight is zero the analyzer's default weights
// are used; once any weight is set, the unset ones count as zero. A zero
// threshold falls back to the analyzer's default threshold.
type MetaAgentConfig struct {
	DependencyCountWeight int `yaml:"dependency_count_weight"`
	TaskTypeWeight        int `yaml:"task_type_weight"`
	PromptLengthHiWeight  int `yaml:"prompt_length_hi_weight"`
	PromptLengthLoWeight  int `yaml:"prompt_length_lo_weight"`
	KeywordsWeight        int `yaml:"keywords_weight"`
	Threshold             int `yaml:"threshold"`
}

// SandboxConfig controls the optional Docker sandbox for os-type tasks.
type SandboxConfig struct {
	Enabled bool   `yaml:"enabled"`
	Image   string `yaml:"image"`
}

// defaultScheduler holds the baseline scheduler settings: a zero
// max_concurrent_per_batch (the scheduler then caps each batch at its
// built-in limit of 8 concurrent tasks), fail_fast failure policy.
func defaultScheduler() SchedulerConfig {
	return SchedulerConfig{
		DefaultAgent:          "claude",
		UseMetaAgent:          true,
		ExtractData:           true,
		MaxConcurrentPerBatch: 0,
		TimeoutSeconds:        120,
		FailurePolicy:         "fail_fast",
	}
}

// Load reads and parses a scheduler configuration file, applying
// defaults to any zero-value field left unset by the document.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyDefaults(&cfg)

	return &cfg, nil
}

// Default returns a fully defaulted Config for callers running without a
// configuration file on disk.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	defaults := defaultScheduler()
	if cfg.Scheduler.DefaultAgent == "" {
		cfg.Scheduler.DefaultAgent = defaults.DefaultAgent
	}
	if cfg.Scheduler.TimeoutSeconds == 0 {
		cfg.Scheduler.TimeoutSeconds = defaults.TimeoutSeconds
	}
	if cfg.Scheduler.FailurePolicy == "" {
		cfg.Scheduler.FailurePolicy = defaults.FailurePolicy
	}
	if cfg.Agents == nil {
		cfg.Agents = map[string]AgentCLI{}
	}
	if cfg.Sandbox.Image == "" {
		cfg.Sandbox.Image = "ubuntu:22.04"
	}
}

// Validate checks that the configuration describes a runnable scheduler.
func (c *Config) Validate() error {
	if c.Scheduler.DefaultAgent == "" {
		return fmt.Errorf("scheduler.default_agent is required")
	}

	switch c.Scheduler.FailurePolicy {
	case "fail_fast", "skip_downstream", "continue_partial":
	default:
		return fmt.Errorf("scheduler.failure_policy must be one of fail_fast, skip_downstream, continue_partial, got %q", c.Scheduler.FailurePolicy)
	}

	if c.Scheduler.TimeoutSeconds <= 0 {
		return fmt.Errorf("scheduler.timeout_seconds must be positive")
	}

	if c.Scheduler.MaxConcurrentPerBatch < 0 {
		return fmt.Errorf("scheduler.max_concurrent_per_batch must not be negative")
	}

	return nil
}
