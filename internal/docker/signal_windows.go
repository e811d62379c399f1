//go:build windows

// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package docker

import (
	"os"
	"syscall"
)

func sysProcAttr() *syscall.SysProcAttr {
	return nil
}

// terminate stops the process. Windows offers no graceful stop signal,
// so termination is immediately forceful.
func terminate(process *os.Process) error {
	return process.Kill()
}

// forceKill stops the process immediately.
func forceKill(process *os.Process) error {
	return process.Kill()
}
