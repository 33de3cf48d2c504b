//go:build !windows

package cli

import (
	"os"
	"syscall"
)

// shutdownSignals end the app through the normal teardown. The dev server
// runs in its own process group and never sees a terminal hangup itself.
var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT}
