package rootfs

import (
	"fmt"
	"os"

	archive "github.com/moby/go-archive"

	"github.com/18AX/mymoulette/internal/image"
)

// Build materialises a Plan: create a unique "moulinette*" temporary
// directory, then either unpack rootfsSpec as a Docker image reference or,
// if that fails for any reason, copy it as a host directory. workdir, if
// set, is recorded on the returned Plan for the pivot step to bind-mount;
// this package never copies the workdir into the tree, since a copy would
// defeat write-back to the host.
func Build(rootfsSpec, workdir string) (*Plan, error) {
	tempDir, err := os.MkdirTemp("", "moulinette")
	if err != nil {
		return &Plan{Workdir: workdir}, &Error{Op: "mkdtemp", Path: tempDir, Err: err}
	}

	plan := &Plan{TempDir: tempDir, Workdir: workdir}

	if rootfsSpec != "" {
		if err := image.Download(rootfsSpec, tempDir); err != nil {
			// Any fetcher failure, including a malformed reference, is
			// treated as "this was a host directory all along".
			if copyErr := copyHostDir(rootfsSpec, tempDir); copyErr != nil {
				return plan, copyErr
			}
		}
	}

	return plan, nil
}

func copyHostDir(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return &Error{Op: "stat", Path: src, Err: err}
	}
	if !info.IsDir() {
		return &Error{Op: "stat", Path: src, Err: fmt.Errorf("not a directory")}
	}

	archiver := archive.NewDefaultArchiver()
	if err := archiver.CopyWithTar(src, dst); err != nil {
		return &Error{Op: "copy", Path: src, Err: err}
	}
	return nil
}
