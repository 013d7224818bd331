//go:build !windows

package terminal

import "syscall"

func raise(sig syscall.Signal) {
	syscall.Kill(syscall.Getpid(), sig)
}
