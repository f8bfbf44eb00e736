//go:build linux

package pivot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/18AX/mymoulette/internal/rootfs"
)

// TestExecuteLeavesNoOldRootfs exercises the full pivot against a throwaway
// rootfs tree. It needs CAP_SYS_ADMIN and forks no child of its own, so it
// permanently alters the test binary's mount/PID/UTS namespaces; run it in
// isolation (e.g. via `go test -run TestExecuteLeavesNoOldRootfs`) rather
// than as part of a full suite on a developer machine.
func TestExecuteLeavesNoOldRootfs(t *testing.T) {
	if os.Getenv("MYMOULETTE_RUN_PIVOT_TEST") == "" {
		t.Skip("set MYMOULETTE_RUN_PIVOT_TEST=1 to run; this test pivots the test process's own root")
	}
	if os.Geteuid() != 0 {
		t.Skip("pivot_root requires root (or a user namespace with CAP_SYS_ADMIN)")
	}

	src := t.TempDir()
	if err := os.MkdirAll(filepath.Join(src, "bin"), 0755); err != nil {
		t.Fatal(err)
	}

	plan, err := rootfs.Build(src, "")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	hostname, err := RandomHostname()
	if err != nil {
		t.Fatalf("RandomHostname: %v", err)
	}
	if err := Execute(plan, hostname); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if _, err := os.Stat("/oldrootfs"); !os.IsNotExist(err) {
		t.Errorf("/oldrootfs still present after Execute: %v", err)
	}
}
