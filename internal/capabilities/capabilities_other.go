//go:build !linux

package capabilities

import "errors"

// ErrUnsupported is returned on platforms without Linux capability sets.
var ErrUnsupported = errors.New("capabilities: not supported on this platform")

// DropBoundingAndInheritable always fails outside Linux.
func DropBoundingAndInheritable() error {
	return &Error{Op: "new", Err: ErrUnsupported}
}
