package rootfs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCopyHostDirTreeCompare(t *testing.T) {
	src := t.TempDir()
	if err := os.WriteFile(filepath.Join(src, "file.txt"), []byte("hello"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(src, "sub"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(src, "sub", "nested.txt"), []byte("world"), 0644); err != nil {
		t.Fatal(err)
	}

	dst := t.TempDir()
	if err := copyHostDir(src, dst); err != nil {
		t.Fatalf("copyHostDir: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(dst, "file.txt"))
	if err != nil || string(got) != "hello" {
		t.Errorf("file.txt = %q, %v; want %q", got, err, "hello")
	}
	got, err = os.ReadFile(filepath.Join(dst, "sub", "nested.txt"))
	if err != nil || string(got) != "world" {
		t.Errorf("sub/nested.txt = %q, %v; want %q", got, err, "world")
	}
}

func TestCopyHostDirRejectsFile(t *testing.T) {
	src := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(src, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := copyHostDir(src, t.TempDir()); err == nil {
		t.Error("expected error copying a non-directory")
	}
}

func TestBuildReturnsNonNilPlanOnMkdirTempFailure(t *testing.T) {
	// Point TMPDIR at a path that cannot be a directory so MkdirTemp fails,
	// exercising Build's first error return without touching the real
	// temp filesystem.
	blocked := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(blocked, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TMPDIR", blocked)

	plan, err := Build("", "")
	if err == nil {
		t.Fatal("expected an error when TMPDIR is not a directory")
	}
	if plan == nil {
		t.Fatal("Build must return a non-nil *Plan even on its mkdtemp-failure path, so callers can defer cleanup unconditionally")
	}
}

func TestBuildRecordsWorkdirWithoutCopying(t *testing.T) {
	plan, err := Build("", "/some/host/workdir")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer os.RemoveAll(plan.TempDir)

	if plan.Workdir != "/some/host/workdir" {
		t.Errorf("Workdir = %q, want /some/host/workdir", plan.Workdir)
	}
	if _, err := os.Stat(filepath.Join(plan.TempDir, "home")); !os.IsNotExist(err) {
		t.Error("Build must not copy the workdir into the tree; pivot bind-mounts it instead")
	}
}
