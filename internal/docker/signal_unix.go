//go:build !windows

// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package docker

import (
	"os"
	"syscall"
)

// sysProcAttr makes the child a process group leader so that stop
// signals reach any grandchildren still holding the output pipes.
func sysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setpgid: true}
}

// terminate asks the process group to exit gracefully.
func terminate(process *os.Process) error {
	return syscall.Kill(-process.Pid, syscall.SIGTERM)
}

// forceKill stops the process group immediately.
func forceKill(process *os.Process) error {
	return syscall.Kill(-process.Pid, syscall.SIGKILL)
}
