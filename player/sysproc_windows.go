//go:build windows

package player

import (
	"os/exec"
	"syscall"
	"time"
)

const createNoWindow = 0x08000000

func sysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{CreationFlags: createNoWindow}
}

// terminate kills the process outright. Windows has no SIGTERM to try first.
func terminate(cmd *exec.Cmd, exited <-chan struct{}, _ time.Duration) {
	if cmd == nil || cmd.Process == nil {
		return
	}

	_ = cmd.Process.Kill()
	<-exited
}
