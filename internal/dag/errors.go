// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package dag

import "fmt"

// ConfigError reports a problem with the task graph discovered before any
// task is run: a duplicate id, a dangling dependency, or a cycle.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("dag config error: %s", e.Reason)
}

func newConfigError(format string, args ...any) error {
	return &ConfigError{Reason: fmt.Sprintf(format, args...)}
}
