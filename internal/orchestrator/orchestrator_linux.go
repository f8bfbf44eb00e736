//go:build linux

package orchestrator

import (
	"context"
	"errors"
	"log"
	"os"
	"os/exec"
	"runtime"

	"github.com/18AX/mymoulette/internal/capabilities"
	"github.com/18AX/mymoulette/internal/cgroup"
	"github.com/18AX/mymoulette/internal/cliargs"
	"github.com/18AX/mymoulette/internal/pivot"
	"github.com/18AX/mymoulette/internal/rootfs"
	"github.com/18AX/mymoulette/internal/seccomp"
)

// Run executes the full pipeline for args under cfg. On a normal run it
// returns the child's own exit code and a nil err. If the sandbox could not
// be built, or the child could not be started or waited on, it returns 0
// together with a non-nil err; the caller chooses the exit code for that
// case.
func Run(ctx context.Context, args cliargs.Arguments, cfg RunConfig) (int, error) {
	if err := args.Validate(); err != nil {
		return 0, err
	}

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	// unshare, capability and seccomp state below are per-thread; the
	// thread that performs them must be the same thread that execs the
	// child, so the goroutine must never migrate to another OS thread
	// for the remainder of the process.
	runtime.LockOSThread()

	hostname, err := pivot.RandomHostname()
	if err != nil {
		return 0, err
	}

	spec := cgroup.NewSpec(hostname).
		WithPIDs(os.Getpid()).
		WithMemoryLimit(cfg.MemoryLimitBytes).
		WithPIDsLimit(cfg.PidsLimit).
		WithCPUs(cfg.CPUs)

	cg, err := cgroup.Create(spec)
	// The cgroup handle must stay reachable until after the final
	// waitpid even on a setup failure, so cleanup is deferred here
	// rather than unwound by the caller.
	defer func() {
		if derr := cg.Destroy(); derr != nil {
			log.Printf("mymoulette: cgroup cleanup: %v", derr)
		}
	}()
	if err != nil {
		return 0, err
	}

	plan, err := rootfs.Build(args.RootfsSpec, args.Workdir)
	defer func() {
		// Once pivot.Execute succeeds, plan.TempDir is no longer
		// reachable by host path (it became "/"); RemoveAll on a
		// vanished path is harmless. plan is non-nil on every Build
		// return, including its mkdtemp-failure path.
		if plan != nil {
			_ = os.RemoveAll(plan.TempDir)
		}
	}()
	if err != nil {
		return 0, err
	}

	if err := pivot.Execute(plan, hostname); err != nil {
		return 0, err
	}

	if err := capabilities.DropBoundingAndInheritable(); err != nil {
		return 0, err
	}

	if err := seccomp.InstallDefault(); err != nil {
		return 0, err
	}

	return runChild(ctx, args)
}

func runChild(ctx context.Context, args cliargs.Arguments) (int, error) {
	cmd := exec.CommandContext(ctx, args.BinaryName, args.BinaryArgs...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}

	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
		return 0, &Error{Kind: ExecFailed, Err: err}
	}
	return 0, &Error{Kind: WaitFailed, Err: err}
}
