// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package sandbox provisions an ephemeral Docker container for
// "os"-type tasks, so a spawned agent CLI's shell tool-use runs inside
// an isolated workdir rather than directly on the scheduler's host.
// Adapted from docker_executor.py's container lifecycle; Go-idiomatic,
// not a line-for-line translation.
package sandbox

import (
	"context"
	"fmt"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
)

const containerStopTimeout = 10 * time.Second

// DefaultImage matches docker_executor.py's default sandbox image.
const DefaultImage = "ubuntu:22.04"

// Handle identifies a provisioned sandbox container and the environment
// variable an AgentRunner should set so the spawned CLI knows its
// sandboxed workdir.
type Handle struct {
	ContainerID string
	WorkDir     string
}

// Manager provisions and tears down sandbox containers for os-type
// tasks. The zero Manager is not usable; build one with NewManager.
type Manager struct {
	client *client.Client
	image  string
}

// NewManager creates a Manager using the same client construction as the
// teacher's DockerManager: environment-derived host, negotiated API
// version.
func NewManager(image string) (*Manager, error) {
	if image == "" {
		image = DefaultImage
	}
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create Docker client: %w", err)
	}
	return &Manager{client: cli, image: image}, nil
}

// Close closes the underlying Docker client connection.
func (m *Manager) Close() error {
	if m.client != nil {
		return m.client.Close()
	}
	return nil
}

// Provision creates and starts a fresh container for one task, returning
// a Handle the caller tears down with Teardown once the task settles.
func (m *Manager) Provision(ctx context.Context, taskID string) (*Handle, error) {
	workDir := "/workspace"

	created, err := m.client.ContainerCreate(ctx,
		&container.Config{
			Image:      m.image,
			Cmd:        []string{"/bin/sleep", "infinity"},
			WorkingDir: workDir,
			Labels:     map[string]string{"scheduler.task_id": taskID},
		},
		&container.HostConfig{AutoRemove: false},
		nil, nil,
		fmt.Sprintf("scheduler-sandbox-%s", taskID),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sandbox container for task %s: %w", taskID, err)
	}

	if err := m.client.ContainerStart(ctx, created.ID, container.StartOptions{}); err != nil {
		return nil, fmt.Errorf("failed to start sandbox container for task %s: %w", taskID, err)
	}

	return &Handle{ContainerID: created.ID, WorkDir: workDir}, nil
}

// Teardown stops and removes the container. It is idempotent: a missing
// container is not an error.
func (m *Manager) Teardown(ctx context.Context, h *Handle) error {
	if h == nil || h.ContainerID == "" {
		return nil
	}

	timeout := int(containerStopTimeout.Seconds())
	_ = m.client.ContainerStop(ctx, h.ContainerID, container.StopOptions{Timeout: &timeout})

	if err := m.client.ContainerRemove(ctx, h.ContainerID, container.RemoveOptions{
		Force:         true,
		RemoveVolumes: true,
	}); err != nil {
		if client.IsErrNotFound(err) {
			return nil
		}
		return fmt.Errorf("failed to remove sandbox container %s: %w", h.ContainerID, err)
	}
	return nil
}
