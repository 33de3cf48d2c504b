//go:build !linux && !windows

package frontend

import "syscall"

func setDeathSignal(*syscall.SysProcAttr) {}
