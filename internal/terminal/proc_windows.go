//go:build windows

package terminal

import (
	"os"
	"os/exec"
)

func detachProcess(cmd *exec.Cmd) {
	// start/wt.exe already detach the spawned console window.
}

func processAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	// FindProcess always succeeds on Windows; the windows launcher tracks
	// liveness through its marker file instead of the pid.
	_, err := os.FindProcess(pid)
	return err == nil
}

func terminateProcess(pid int) error {
	if pid <= 0 {
		return nil
	}
	p, err := os.FindProcess(pid)
	if err != nil {
		return nil
	}
	return p.Kill()
}
