// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/TaliesinYang/multi-agent-scheduler/internal/agentcli"
	"github.com/TaliesinYang/multi-agent-scheduler/internal/config"
	"github.com/TaliesinYang/multi-agent-scheduler/internal/metaagent"
	"github.com/TaliesinYang/multi-agent-scheduler/internal/progress"
	"github.com/TaliesinYang/multi-agent-scheduler/internal/runner"
	"github.com/TaliesinYang/multi-agent-scheduler/internal/sandbox"
	"github.com/TaliesinYang/multi-agent-scheduler/internal/taskgroup"
	"github.com/TaliesinYang/multi-agent-scheduler/pkg/scheduler"
)

var runVerbose bool

var runCmd = &cobra.Command{
	Use:   "run <task-group-file>",
	Short: "Execute a task group to completion",
	Long: `run loads a task group document, validates its dependency graph, and
executes every task batch by batch against the configured agent CLIs,
printing a JSON summary of every task's result on completion.`,
	Example: `  scheduler run tasks.yaml --config scheduler.yaml -v`,
	Args:    cobra.ExactArgs(1),
	RunE:    runExecute,
}

func init() {
	runCmd.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "print colored per-task progress to stdout")
}

func runExecute(cmd *cobra.Command, args []string) error {
	_, tasks, err := taskgroup.Load(args[0])
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	overrides := make(map[string]agentcli.Override, len(cfg.Agents))
	for name, a := range cfg.Agents {
		overrides[name] = agentcli.Override{Binary: a.Binary, Model: a.Model, ExtraArgs: a.ExtraArgs, AutoApprove: a.AutoApprove}
	}

	logger := slog.Default()
	agentRunner := runner.New(nil, logger, overrides)

	if cfg.Sandbox.Enabled {
		mgr, err := sandbox.NewManager(cfg.Sandbox.Image)
		if err != nil {
			return fmt.Errorf("failed to initialize sandbox: %w", err)
		}
		defer mgr.Close()
		agentRunner = agentRunner.WithSandbox(mgr)
	}

	verbose := runVerbose || cfg.Scheduler.Verbose
	sched := scheduler.New(agentRunner, logger)

	autoApprove := make(map[string]bool, len(cfg.Agents))
	for name, a := range cfg.Agents {
		autoApprove[name] = a.AutoApprove
	}

	opts := scheduler.Options{
		DefaultAgent:   cfg.Scheduler.DefaultAgent,
		AutoApprove:    autoApprove,
		UseMetaAgent:   cfg.Scheduler.UseMetaAgent,
		AddSummaryTask: cfg.Scheduler.AddSummaryTask,
		MetaWeights: metaagent.Weights{
			DependencyCount: cfg.MetaAgent.DependencyCountWeight,
			TaskType:        cfg.MetaAgent.TaskTypeWeight,
			PromptLengthHi:  cfg.MetaAgent.PromptLengthHiWeight,
			PromptLengthLo:  cfg.MetaAgent.PromptLengthLoWeight,
			Keywords:        cfg.MetaAgent.KeywordsWeight,
		},
		MetaThreshold:         cfg.MetaAgent.Threshold,
		ExtractData:           cfg.Scheduler.ExtractData,
		MaxConcurrentPerBatch: cfg.Scheduler.MaxConcurrentPerBatch,
		TimeoutSeconds:        cfg.Scheduler.TimeoutSeconds,
		FailurePolicy:         scheduler.FailurePolicy(cfg.Scheduler.FailurePolicy),
		Verbose:               verbose,
	}

	result, err := sched.Execute(context.Background(), tasks, opts)
	if err != nil {
		return err
	}

	reporter := progress.New(verbose)
	reporter.RunFinished(result.Completed, result.Failed, result.Total, result.SuccessRate)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("failed to encode run result: %w", err)
	}

	if result.Failed > 0 {
		os.Exit(1)
	}
	return nil
}

func loadConfig() (*config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	return config.Load(configPath)
}
