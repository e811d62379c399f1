// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package docker

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/kballard/go-shellquote"
)

// termGrace is how long a timed out command is given to exit after the
// graceful stop signal before it is killed outright.
const termGrace = 2 * time.Second

// RunParams describes a single invocation of an external command.
type RunParams struct {
	// Commands is the complete command line to execute.
	Commands string

	// Timeout bounds how long the command may run for. Zero means no
	// bound.
	Timeout time.Duration

	// CheckExit turns a non-zero exit code into an *ExitError.
	CheckExit bool
}

// ExecResponse holds the captured output of a completed command.
type ExecResponse struct {
	Stdout string
	Stderr string
	Code   int
}

// Runner runs commands on the host.
type Runner interface {
	// Run executes the command described by params, blocking until it
	// completes, fails or times out. A timeout is reported as an error
	// satisfying errors.IsTimeout after the process has been stopped.
	Run(params RunParams) (*ExecResponse, error)
}

// ExitError reports a command that ran to completion with a non-zero
// exit code, carrying whatever the command wrote while it ran.
type ExitError struct {
	Commands string
	Code     int
	Stdout   string
	Stderr   string
}

// Error is part of the error interface.
func (e *ExitError) Error() string {
	message := fmt.Sprintf("command %q exited %d", e.Commands, e.Code)
	if detail := strings.TrimSpace(e.Stderr); detail != "" {
		message += ": " + detail
	}
	return message
}

// IsExitError reports whether err was caused by a command exiting with
// a non-zero code.
func IsExitError(err error) bool {
	_, ok := errors.Cause(err).(*ExitError)
	return ok
}

// NewRunner returns a Runner executing commands directly on the host,
// timing them against clk.
func NewRunner(clk clock.Clock) Runner {
	return &runner{clock: clk}
}

type runner struct {
	clock clock.Clock
}

// Run is part of the Runner interface.
func (r *runner) Run(params RunParams) (*ExecResponse, error) {
	args, err := shellquote.Split(params.Commands)
	if err != nil {
		return nil, errors.Annotatef(err, "splitting command %q", params.Commands)
	}
	if len(args) == 0 {
		return nil, errors.NotValidf("empty command")
	}

	command := exec.Command(args[0], args[1:]...)
	command.SysProcAttr = sysProcAttr()
	var stdout, stderr bytes.Buffer
	command.Stdout = &stdout
	command.Stderr = &stderr
	if err := command.Start(); err != nil {
		return nil, errors.Trace(err)
	}

	done := make(chan error, 1)
	go func() {
		done <- command.Wait()
	}()

	var timedOut <-chan time.Time
	if params.Timeout > 0 {
		timer := r.clock.NewTimer(params.Timeout)
		defer timer.Stop()
		timedOut = timer.Chan()
	}

	var waitErr error
	select {
	case waitErr = <-done:
	case <-timedOut:
		r.kill(command.Process, done)
		return nil, errors.Timeoutf("command %q", params.Commands)
	}

	response := &ExecResponse{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if waitErr != nil {
		exitErr, ok := waitErr.(*exec.ExitError)
		if !ok {
			return nil, errors.Trace(waitErr)
		}
		response.Code = exitErr.ExitCode()
	}
	if params.CheckExit && response.Code != 0 {
		return nil, &ExitError{
			Commands: params.Commands,
			Code:     response.Code,
			Stdout:   response.Stdout,
			Stderr:   response.Stderr,
		}
	}
	return response, nil
}

// kill escalates from the graceful stop signal to a hard kill if the
// process has not exited within termGrace.
func (r *runner) kill(process *os.Process, done <-chan error) {
	if err := terminate(process); err != nil {
		logger.Debugf("stopping timed out command: %v", err)
	}
	select {
	case <-done:
		return
	case <-r.clock.After(termGrace):
	}
	if err := forceKill(process); err != nil {
		logger.Debugf("killing timed out command: %v", err)
	}
	<-done
}
