//go:build !windows

package frontend

import (
	"errors"
	"fmt"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// setProcAttr puts the dev server in its own process group so the group id
// equals its pid and every descendant can be signalled at once.
func setProcAttr(cmd *exec.Cmd) {
	attr := &syscall.SysProcAttr{Setpgid: true}
	setDeathSignal(attr)
	cmd.SysProcAttr = attr
}

// terminateTree asks the process group to exit. The group is signalled even
// when the leader is gone, since its children may still be running.
func terminateTree(pgid int, _ bool) error {
	return signalGroup(pgid, unix.SIGTERM)
}

func killTree(pgid int) error {
	return signalGroup(pgid, unix.SIGKILL)
}

func signalGroup(pgid int, sig syscall.Signal) error {
	err := unix.Kill(-pgid, sig)
	if err == nil || errors.Is(err, unix.ESRCH) {
		return nil
	}
	return fmt.Errorf("failed to send %s to process group %d: %w", unix.SignalName(sig), pgid, err)
}
