// Package cgroup builds and tears down a cgroup-v2 control group used to
// bound the memory, pids and cpu set available to a sandboxed process tree.
package cgroup

import (
	"fmt"
	"strings"
)

// Root is the cgroup-v2 unified hierarchy mount point on every supported
// host. mymoulette does not support cgroup-v1 or alternate mount points.
const Root = "/sys/fs/cgroup"

// Spec is the builder input for Create. It mirrors the CgroupSpec record:
// a name, the PIDs to attach, and the optional limits to apply.
type Spec struct {
	name           string
	pids           []int
	maxMemoryBytes uint64
	maxPids        uint32
	cpus           uint32

	hasMemory bool
	hasPids   bool
	hasCPUs   bool
}

// NewSpec starts a builder for a cgroup named name. name must be non-empty
// and must not contain a path separator, since it becomes a direct child
// directory of Root.
func NewSpec(name string) *Spec {
	return &Spec{name: name}
}

// WithPIDs records the process IDs to attach once the group exists.
func (s *Spec) WithPIDs(pids ...int) *Spec {
	s.pids = append(s.pids, pids...)
	return s
}

// WithMemoryLimit sets memory.max to limitBytes.
func (s *Spec) WithMemoryLimit(limitBytes uint64) *Spec {
	s.maxMemoryBytes = limitBytes
	s.hasMemory = true
	return s
}

// WithPIDsLimit sets pids.max to limit.
func (s *Spec) WithPIDsLimit(limit uint32) *Spec {
	s.maxPids = limit
	s.hasPids = true
	return s
}

// WithCPUs sets cpuset.cpus to the range "0-(n-1)" ("0" when n is 1); with
// n == 0 cpuset.cpus is not written.
func (s *Spec) WithCPUs(n uint32) *Spec {
	s.cpus = n
	s.hasCPUs = true
	return s
}

func (s *Spec) validate() error {
	if s.name == "" {
		return &Error{Kind: InvalidName, Path: s.name, Err: fmt.Errorf("name is empty")}
	}
	if strings.ContainsRune(s.name, '/') {
		return &Error{Kind: InvalidName, Path: s.name, Err: fmt.Errorf("name contains a path separator")}
	}
	return nil
}

// Cgroup is a handle owning the on-disk cgroup-v2 directory created by
// Create. Destroy must be called exactly once; a second call is a no-op.
type Cgroup struct {
	Name string
	Path string

	destroyed bool
}

// Kind enumerates the abstract failure classes from the error taxonomy.
type Kind int

const (
	// InvalidName indicates the Spec's name was empty or contained '/'.
	InvalidName Kind = iota
	// IOFailure wraps any filesystem operation failure.
	IOFailure
)

// Error is the Cgroup{InvalidName, IO} error kind.
type Error struct {
	Kind Kind
	Path string
	Err  error
}

func (e *Error) Error() string {
	switch e.Kind {
	case InvalidName:
		return fmt.Sprintf("cgroup: invalid name %q: %v", e.Path, e.Err)
	default:
		return fmt.Sprintf("cgroup: io failure at %q: %v", e.Path, e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }
