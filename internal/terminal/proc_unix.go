//go:build !windows

package terminal

import (
	"os/exec"
	"syscall"
)

// detachProcess puts the spawned terminal in its own session so it survives
// independently of this process and can be signaled as a group.
func detachProcess(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
}

// processAlive reports whether pid still exists (signal 0 probe).
func processAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	return syscall.Kill(pid, 0) == nil
}

// terminateProcess sends SIGTERM to pid's process group, then to pid
// itself. Both are best-effort: the agent's trap handler removes its own
// pipe and ready file on the way out.
func terminateProcess(pid int) error {
	if pid <= 0 {
		return nil
	}
	if pgid, err := syscall.Getpgid(pid); err == nil {
		syscall.Kill(-pgid, syscall.SIGTERM)
	}
	return syscall.Kill(pid, syscall.SIGTERM)
}
