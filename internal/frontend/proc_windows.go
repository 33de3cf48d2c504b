//go:build windows

package frontend

import (
	"fmt"
	"os/exec"
	"strconv"
	"syscall"
)

func setProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP}
}

// terminateTree kills the process and its descendants with taskkill. Windows
// has no group signal, so this is already forceful.
func terminateTree(pid int, leaderExited bool) error {
	if leaderExited {
		return nil
	}
	out, err := exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).CombinedOutput()
	if err != nil {
		return fmt.Errorf("taskkill %d: %w: %s", pid, err, out)
	}
	return nil
}

// killTree is a no-op: terminateTree already used /F.
func killTree(int) error {
	return nil
}
