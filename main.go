package main

import (
	"fmt"
	"os"
	"runtime"

	"todo-desktop/internal/cli"
)

func init() {
	// The native window must run on the main OS thread.
	runtime.LockOSThread()
}

func main() {
	cmd, opts := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	os.Exit(opts.ExitCode)
}
