// Package pivot implements the namespace-unshare and mount-pivot state
// machine that turns the calling process into the root of a new container:
// it isolates mount propagation, bind-mounts the assembled rootfs onto
// itself, swaps it in with pivot_root, gives the container its own procfs
// and /dev, and detaches the old root. This is the single most delicate
// part of the pipeline — see the ordering notes on Execute.
package pivot

import "fmt"

// Step names the specific kernel operation that failed, for the Mount,
// Umount, PivotRoot and Namespace error kinds in the error taxonomy.
type Step string

const (
	StepUnshareMount  Step = "unshare-mount"
	StepMountPrivate  Step = "mount-private"
	StepBindSelf      Step = "bind-self"
	StepBindWorkdir   Step = "bind-workdir"
	StepMkdirOldroot  Step = "mkdir-oldrootfs"
	StepChdirNew      Step = "chdir-new-root"
	StepPivotRoot     Step = "pivot-root"
	StepChdirRoot     Step = "chdir-root"
	StepUnshareRest   Step = "unshare-rest"
	StepMountProc     Step = "mount-proc"
	StepMoveDev       Step = "move-dev"
	StepSethostname   Step = "sethostname"
	StepDetachOldroot Step = "detach-oldrootfs"
	StepRemoveOldroot Step = "remove-oldrootfs"
)

// Error wraps a failed kernel operation at a specific Step with the errno
// (or equivalent) the kernel returned.
type Error struct {
	Step Step
	Err  error
}

func (e *Error) Error() string { return fmt.Sprintf("pivot: %s: %v", e.Step, e.Err) }
func (e *Error) Unwrap() error { return e.Err }
