//go:build !linux

package cgroup

import "errors"

// ErrUnsupported is returned by Create on platforms without cgroup-v2.
var ErrUnsupported = errors.New("cgroup: not supported on this platform")

// Create always fails outside Linux.
func Create(spec *Spec) (*Cgroup, error) {
	if err := spec.validate(); err != nil {
		return nil, err
	}
	return nil, &Error{Kind: IOFailure, Path: Root, Err: ErrUnsupported}
}

// Destroy is a nil-safe no-op on unsupported platforms.
func (c *Cgroup) Destroy() error { return nil }

// AddPID is a nil-safe no-op on unsupported platforms.
func (c *Cgroup) AddPID(pid int) error { return nil }
