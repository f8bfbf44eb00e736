//go:build !linux

package orchestrator

import (
	"context"
	"errors"

	"github.com/18AX/mymoulette/internal/cliargs"
)

// ErrUnsupported is returned on platforms without the Linux namespace and
// cgroup primitives this runtime depends on.
var ErrUnsupported = errors.New("orchestrator: mymoulette requires Linux")

// Run always fails outside Linux.
func Run(ctx context.Context, args cliargs.Arguments, cfg RunConfig) (int, error) {
	return 0, ErrUnsupported
}
