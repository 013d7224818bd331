//go:build windows

package terminal

import (
	"os"
	"syscall"
)

func raise(sig syscall.Signal) {
	os.Exit(1)
}
