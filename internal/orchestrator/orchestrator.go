// Package orchestrator composes the cgroup, rootfs, pivot, capability and
// seccomp packages into the end-to-end run described by the system
// overview: build a cgroup, assemble a rootfs, pivot into it, drop
// privileges, install the syscall filter, exec the target, wait, and
// report its exit code.
package orchestrator

import (
	"fmt"
	"time"
)

// RunConfig holds the resource limits applied to the sandboxed process
// tree. The zero value is not directly usable; call DefaultRunConfig.
type RunConfig struct {
	MemoryLimitBytes uint64
	PidsLimit        uint32
	CPUs             uint32
	Timeout          time.Duration
}

// DefaultRunConfig returns the limits the orchestrator contract names: a
// 1 GiB memory cap, a 100-process pids cap, and a single CPU, with no
// deadline on the child wait.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		MemoryLimitBytes: 1 << 30,
		PidsLimit:        100,
		CPUs:             1,
	}
}

// Kind enumerates the Child{ExecFailed, WaitFailed} error taxonomy entry,
// the only failure class this package itself introduces (everything else
// it returns is a typed error from the package that produced it).
type Kind int

const (
	ExecFailed Kind = iota
	WaitFailed
)

// Error is the Child error kind.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Kind == ExecFailed {
		return fmt.Sprintf("orchestrator: exec failed: %v", e.Err)
	}
	return fmt.Sprintf("orchestrator: wait failed: %v", e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
