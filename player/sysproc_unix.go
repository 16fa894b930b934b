//go:build !windows

package player

import (
	"os/exec"
	"syscall"
	"time"
)

// mpv gets its own process group so a terminal interrupt aimed at us does
// not reach it before Close has a chance to quit it over IPC.
func sysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setpgid: true}
}

// terminate signals the process group with SIGTERM and escalates to SIGKILL
// if the process has not exited within grace.
func terminate(cmd *exec.Cmd, exited <-chan struct{}, grace time.Duration) {
	if cmd == nil || cmd.Process == nil {
		return
	}

	pgid := -cmd.Process.Pid
	_ = syscall.Kill(pgid, syscall.SIGTERM)

	select {
	case <-exited:
	case <-time.After(grace):
		_ = syscall.Kill(pgid, syscall.SIGKILL)
		_ = cmd.Process.Kill()
	}
}
