//go:build !linux

package pivot

import (
	"errors"

	"github.com/18AX/mymoulette/internal/rootfs"
)

// ErrUnsupported is returned on platforms without pivot_root and Linux
// namespaces.
var ErrUnsupported = errors.New("pivot: not supported on this platform")

// Execute always fails outside Linux.
func Execute(plan *rootfs.Plan, hostname string) error {
	return &Error{Step: StepUnshareMount, Err: ErrUnsupported}
}
