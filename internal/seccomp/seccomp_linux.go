//go:build linux

package seccomp

import (
	libseccomp "github.com/seccomp/libseccomp-golang"
	"golang.org/x/sys/unix"
)

// Context is a builder-scoped handle over a kernel seccomp filter under
// construction: New → AddDenyRule* → Load. Load is terminal; the
// underlying kernel filter persists (and is inherited across exec) after
// the Context itself is released.
type Context struct {
	filter *libseccomp.ScmpFilter
}

// New creates a filter context whose default action, applied to every
// syscall not covered by an explicit rule, is always ActAllow, turning the
// policy into an allow-all-but-denylist. The caller cannot choose another
// default action.
func New() (*Context, error) {
	filter, err := libseccomp.NewFilter(libseccomp.ActAllow)
	if err != nil {
		return nil, &Error{Kind: InitFailed, Err: err}
	}
	return &Context{filter: filter}, nil
}

// AddDenyRule adds a rule returning EPERM for the named syscall on the
// host's native ABI.
func (c *Context) AddDenyRule(name string) error {
	call, err := libseccomp.GetSyscallFromName(name)
	if err != nil {
		return &Error{Kind: RuleAddFailed, Syscall: name, Err: err}
	}
	action := libseccomp.ActErrno.SetReturnCode(int16(unix.EPERM))
	if err := c.filter.AddRule(call, action); err != nil {
		return &Error{Kind: RuleAddFailed, Syscall: name, Err: err}
	}
	return nil
}

// AddDenylist adds every syscall in names, stopping at the first failure.
func (c *Context) AddDenylist(names []string) error {
	for _, name := range names {
		if err := c.AddDenyRule(name); err != nil {
			return err
		}
	}
	return nil
}

// Load installs the filter on the calling thread and all its future
// children. Once this returns successfully the policy cannot be removed.
// PR_SET_NO_NEW_PRIVS is set first so the load succeeds even when the
// calling thread is unprivileged, matching the point in the pipeline where
// capabilities have already been dropped.
func (c *Context) Load() error {
	if err := unix.Prctl(unix.PR_SET_NO_NEW_PRIVS, 1, 0, 0, 0); err != nil {
		return &Error{Kind: LoadFailed, Err: err}
	}
	if err := c.filter.Load(); err != nil {
		return &Error{Kind: LoadFailed, Err: err}
	}
	return nil
}

// Release frees the builder's userspace resources. It does not affect the
// kernel filter once Load has succeeded.
func (c *Context) Release() {
	if c.filter != nil {
		c.filter.Release()
	}
}

// InstallDefault builds a Context with DefaultDenylist and loads it. This is
// the single call the orchestrator makes.
func InstallDefault() error {
	ctx, err := New()
	if err != nil {
		return err
	}
	defer ctx.Release()

	if err := ctx.AddDenylist(DefaultDenylist); err != nil {
		return err
	}
	return ctx.Load()
}
