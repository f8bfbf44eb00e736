// Command mymoulette runs a single untrusted program inside a throwaway
// Linux container: a private mount/UTS/PID/NET/IPC/CGROUP namespace set, a
// cgroup-v2 resource cap, an emptied capability set, and a seccomp
// denylist.
package main

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/18AX/mymoulette/internal/cliargs"
	"github.com/18AX/mymoulette/internal/logger"
	"github.com/18AX/mymoulette/internal/orchestrator"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		workdir     string
		rootfsSpec  string
		logLevel    string
		memoryLimit uint64
		pidsLimit   uint32
		cpus        uint32
		timeout     time.Duration
	)

	root := &cobra.Command{
		Use:   "mymoulette [-v <workdir>] [-I <rootfs-spec>] <program> [<arg>...]",
		Short: "Run a program inside an isolated Linux sandbox",
		Args:  cobra.MinimumNArgs(1),
	}

	// Flags only apply before the program name: once the first positional
	// argument is seen, everything after it (including further dashes)
	// belongs to the sandboxed program, not to mymoulette itself.
	def := orchestrator.DefaultRunConfig()
	root.SetOut(os.Stdout)
	// spec §6.1: a missing <program> prints help to stdout, not stderr.
	root.SetErr(os.Stdout)
	root.Flags().SetInterspersed(false)
	root.Flags().StringVarP(&workdir, "workdir", "v", "", "host directory to mount at /home/student")
	root.Flags().StringVarP(&rootfsSpec, "rootfs", "I", "", "rootfs directory or image reference (name:tag)")
	root.Flags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	root.Flags().Uint64Var(&memoryLimit, "memory-limit", def.MemoryLimitBytes, "memory.max in bytes")
	root.Flags().Uint32Var(&pidsLimit, "pids-limit", def.PidsLimit, "pids.max for the sandboxed process tree")
	root.Flags().Uint32Var(&cpus, "cpus", def.CPUs, "number of CPUs in cpuset.cpus")
	root.Flags().DurationVar(&timeout, "timeout", def.Timeout, "deadline for the sandboxed program, 0 for none")

	var exitCode int

	root.RunE = func(cmd *cobra.Command, positional []string) error {
		if err := logger.Init(logLevel, ""); err != nil {
			return err
		}

		args := cliargs.Arguments{
			BinaryName: positional[0],
			BinaryArgs: positional[1:],
			Workdir:    workdir,
			RootfsSpec: rootfsSpec,
		}
		cfg := orchestrator.RunConfig{
			MemoryLimitBytes: memoryLimit,
			PidsLimit:        pidsLimit,
			CPUs:             cpus,
			Timeout:          timeout,
		}

		code, err := orchestrator.Run(context.Background(), args, cfg)
		exitCode = code
		if err != nil {
			logger.Error("sandbox setup failed", "error", err)
			exitCode = 125
			return nil
		}
		return nil
	}

	if err := root.Execute(); err != nil {
		// cobra already printed usage/help to stdout for argument errors
		// (e.g. the missing <program> case).
		return 1
	}
	return exitCode
}
