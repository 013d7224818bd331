//go:build !windows

package terminal

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// makeFIFO creates the named pipe the agent script reads commands from.
func makeFIFO(path string) error {
	if err := unix.Mkfifo(path, 0o600); err != nil {
		return fmt.Errorf("mkfifo %s: %w", path, err)
	}
	return nil
}

// writeFIFO opens the pipe's write end non-blocking and writes one payload.
// Opening non-blocking fails with ENXIO when no reader is attached, which
// surfaces a dead agent immediately instead of blocking the caller forever.
func writeFIFO(path, payload string) error {
	fd, err := unix.Open(path, unix.O_WRONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return fmt.Errorf("open pipe: %w", err)
	}
	f := os.NewFile(uintptr(fd), path)
	defer f.Close()

	if _, err := f.WriteString(payload); err != nil {
		return fmt.Errorf("write pipe: %w", err)
	}
	return nil
}
