// Package executor runs shell commands on the host and captures their output.
package executor

import "context"

// Executor executes commands on the host system.
type Executor interface {
	Execute(ctx context.Context, req ExecuteRequest) ExecuteResponse
}

// ExecuteRequest contains the command execution parameters.
type ExecuteRequest struct {
	// Script is passed to the shell as `-c` argument.
	Script string
	// Env is added on top of the server's own environment.
	Env map[string]string
}

// ExecuteResponse contains the result of command execution.
type ExecuteResponse struct {
	Status   string // "completed", "canceled", "error"
	ExitCode int
	Stdout   string
	Stderr   string
	Error    string
}

// Status constants for ExecuteResponse.Status.
const (
	// StatusCompleted means the process ran and exited; see ExitCode.
	StatusCompleted = "completed"
	// StatusCanceled means the context ended and the process was killed.
	StatusCanceled = "canceled"
	// StatusError means the process could not be started.
	StatusError = "error"
)

// Success reports whether the process ran and exited with status zero.
func (r ExecuteResponse) Success() bool {
	return r.Status == StatusCompleted && r.ExitCode == 0
}
