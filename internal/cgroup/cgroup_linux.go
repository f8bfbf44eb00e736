//go:build linux

package cgroup

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// controllers are enabled on Root's subtree_control one at a time: the
// kernel rejects a subtree_control write that names more than one
// controller per line in some configurations, so each is its own write.
var controllers = []string{"cpu", "cpuset", "memory", "pids"}

// Create materialises the cgroup described by spec and returns its handle.
// See the package doc and the algorithm this mirrors: enable controllers on
// the root, create the child directory, attach pids, then write limits.
func Create(spec *Spec) (*Cgroup, error) {
	if err := spec.validate(); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(Root, 0755); err != nil {
		return nil, &Error{Kind: IOFailure, Path: Root, Err: err}
	}

	if err := enableControllers(Root); err != nil {
		return nil, err
	}

	path := filepath.Join(Root, spec.name)
	if info, err := os.Stat(path); err == nil {
		if !info.IsDir() {
			return nil, &Error{Kind: IOFailure, Path: path, Err: fmt.Errorf("exists and is not a directory")}
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, &Error{Kind: IOFailure, Path: path, Err: err}
	} else if err := os.Mkdir(path, 0755); err != nil {
		return nil, &Error{Kind: IOFailure, Path: path, Err: err}
	}

	cg := &Cgroup{Name: spec.name, Path: path}

	for _, pid := range spec.pids {
		if err := writeFile(filepath.Join(path, "cgroup.procs"), strconv.Itoa(pid)); err != nil {
			return cg, err
		}
	}

	if spec.hasCPUs && spec.cpus > 0 {
		rangeStr := "0"
		if spec.cpus > 1 {
			rangeStr = fmt.Sprintf("0-%d", spec.cpus-1)
		}
		if err := writeFile(filepath.Join(path, "cpuset.cpus"), rangeStr); err != nil {
			return cg, err
		}
	}

	if spec.hasMemory {
		if err := writeFile(filepath.Join(path, "memory.max"), strconv.FormatUint(spec.maxMemoryBytes, 10)); err != nil {
			return cg, err
		}
	}

	if spec.hasPids {
		if err := writeFile(filepath.Join(path, "pids.max"), strconv.FormatUint(uint64(spec.maxPids), 10)); err != nil {
			return cg, err
		}
	}

	return cg, nil
}

// Destroy removes the cgroup directory. Safe to call on a nil receiver or
// more than once.
func (c *Cgroup) Destroy() error {
	if c == nil || c.destroyed {
		return nil
	}
	c.destroyed = true
	if err := os.Remove(c.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return &Error{Kind: IOFailure, Path: c.Path, Err: err}
	}
	return nil
}

// AddPID attaches an additional process to an already-created group, for
// orchestrators that learn the child PID after Create has run.
func (c *Cgroup) AddPID(pid int) error {
	if c == nil {
		return nil
	}
	return writeFile(filepath.Join(c.Path, "cgroup.procs"), strconv.Itoa(pid))
}

func enableControllers(root string) error {
	scPath := filepath.Join(root, "cgroup.subtree_control")
	available, err := os.ReadFile(filepath.Join(root, "cgroup.controllers"))
	if err != nil {
		return &Error{Kind: IOFailure, Path: root, Err: err}
	}
	haveSet := make(map[string]bool)
	for _, c := range strings.Fields(string(available)) {
		haveSet[c] = true
	}

	for _, c := range controllers {
		if !haveSet[c] {
			continue
		}
		if err := writeFile(scPath, "+"+c); err != nil {
			var cgErr *Error
			if errors.As(err, &cgErr) && errors.Is(cgErr.Err, os.ErrPermission) {
				continue
			}
			return err
		}
	}
	return nil
}

func writeFile(path, value string) error {
	if err := os.WriteFile(path, []byte(value), 0644); err != nil {
		return &Error{Kind: IOFailure, Path: path, Err: err}
	}
	return nil
}
