// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/TaliesinYang/multi-agent-scheduler/internal/cli"
	"github.com/TaliesinYang/multi-agent-scheduler/internal/telemetry"
)

func main() {
	ctx := context.Background()

	if shutdown := initTracing(ctx); shutdown != nil {
		defer shutdown()
	}

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

// initTracing registers a real OTLP tracer provider when an exporter
// endpoint is configured, so the spans opened throughout the scheduler
// and meta agent packages go somewhere. It stays a no-op without the
// endpoint: the global provider otel ships by default already discards
// everything, so there is nothing to set up for the common case.
func initTracing(ctx context.Context) func() {
	endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if endpoint == "" {
		return nil
	}

	cfg := telemetry.DefaultConfig()
	cfg.CollectorURL = endpoint

	tp, err := telemetry.NewTracerProvider(ctx, cfg)
	if err != nil {
		slog.Default().Warn("tracing disabled: failed to start tracer provider", "error", err)
		return nil
	}

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			slog.Default().Warn("tracer provider shutdown failed", "error", err)
		}
	}
}
