package frontend

import "syscall"

// setDeathSignal kills the dev server if this process dies without running
// its teardown. The signal is tied to the thread that starts the process,
// which is the locked main thread in the desktop app.
func setDeathSignal(attr *syscall.SysProcAttr) {
	attr.Pdeathsig = syscall.SIGKILL
}
