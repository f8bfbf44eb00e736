//go:build linux

package capabilities

import (
	capability "github.com/moby/sys/capability"
)

// DropBoundingAndInheritable empties the bounding and inheritable capability
// sets of the calling thread. The effective, permitted and ambient sets are
// left alone; they collapse to empty on the child's exec because the
// bounding set is what gates the permitted set on an exec of a binary with
// no file capabilities.
func DropBoundingAndInheritable() error {
	caps, err := capability.NewPid2(0)
	if err != nil {
		return &Error{Op: "new", Err: err}
	}
	if err := caps.Load(); err != nil {
		return &Error{Op: "load", Err: err}
	}

	caps.Clear(capability.BOUNDING)
	caps.Clear(capability.INHERITABLE)

	if err := caps.Apply(capability.BOUNDING | capability.INHERITABLE); err != nil {
		return &Error{Op: "apply", Err: err}
	}
	return nil
}
