//go:build linux

package cgroup

import (
	"os"
	"strconv"
	"strings"
	"testing"
)

func skipUnlessCgroupV2(t *testing.T) {
	t.Helper()
	if _, err := os.Stat("/sys/fs/cgroup/cgroup.controllers"); err != nil {
		t.Skip("cgroup-v2 not available in this environment")
	}
	if os.Geteuid() != 0 {
		t.Skip("cgroup directory creation requires root")
	}
}

func TestCreateAttachesEveryPID(t *testing.T) {
	skipUnlessCgroupV2(t)

	spec := NewSpec("mymoulette-test-attach").WithPIDs(os.Getpid())
	cg, err := Create(spec)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer cg.Destroy()

	data, err := os.ReadFile(cg.Path + "/cgroup.procs")
	if err != nil {
		t.Fatalf("read cgroup.procs: %v", err)
	}
	want := strconv.Itoa(os.Getpid())
	found := false
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if line == want {
			found = true
		}
	}
	if !found {
		t.Errorf("cgroup.procs = %q, want to contain %q", data, want)
	}
}

func TestCreateDestroyLeavesNoDirectory(t *testing.T) {
	skipUnlessCgroupV2(t)

	spec := NewSpec("mymoulette-test-destroy")
	cg, err := Create(spec)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	path := cg.Path
	if err := cg.Destroy(); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("directory %q still exists after Destroy", path)
	}
}

func TestDestroyIsIdempotent(t *testing.T) {
	skipUnlessCgroupV2(t)

	spec := NewSpec("mymoulette-test-idempotent")
	cg, err := Create(spec)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := cg.Destroy(); err != nil {
		t.Fatalf("first Destroy: %v", err)
	}
	if err := cg.Destroy(); err != nil {
		t.Fatalf("second Destroy should be a no-op, got: %v", err)
	}
}

func TestNilCgroupIsSafe(t *testing.T) {
	var cg *Cgroup
	if err := cg.Destroy(); err != nil {
		t.Errorf("nil Destroy: %v", err)
	}
	if err := cg.AddPID(1); err != nil {
		t.Errorf("nil AddPID: %v", err)
	}
}

func TestSpecValidation(t *testing.T) {
	tests := []struct {
		name    string
		spec    string
		wantErr bool
	}{
		{"empty", "", true},
		{"slash", "a/b", true},
		{"ok", "valid-name", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewSpec(tt.spec).validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("validate(%q) err = %v, wantErr %v", tt.spec, err, tt.wantErr)
			}
		})
	}
}
