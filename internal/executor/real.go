package executor

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"sort"
	"time"
)

// DefaultShell runs every script.
const DefaultShell = "sh"

// DefaultWaitDelay bounds how long output pipes are drained after the shell
// exits, so background grandchildren holding stdout cannot pin a caller.
const DefaultWaitDelay = 5 * time.Second

// RealExecutor executes scripts using os/exec.
type RealExecutor struct {
	// Shell is the interpreter invoked as `<Shell> -c <script>`.
	Shell string
	// WaitDelay is passed to exec.Cmd.WaitDelay.
	WaitDelay time.Duration
}

// NewRealExecutor creates a RealExecutor using DefaultShell.
func NewRealExecutor() *RealExecutor {
	return &RealExecutor{Shell: DefaultShell, WaitDelay: DefaultWaitDelay}
}

// Execute runs the script and returns once the process has exited.
// Cancelling ctx kills the whole process group.
func (e *RealExecutor) Execute(ctx context.Context, req ExecuteRequest) ExecuteResponse {
	shell := e.Shell
	if shell == "" {
		shell = DefaultShell
	}

	cmd := exec.CommandContext(ctx, shell, "-c", req.Script)
	configureProcess(cmd)
	cmd.WaitDelay = e.WaitDelay

	if len(req.Env) > 0 {
		cmd.Env = mergeEnv(os.Environ(), req.Env)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	if err != nil && ctx.Err() != nil {
		return ExecuteResponse{
			Status:   StatusCanceled,
			ExitCode: -1,
			Stdout:   stdout.String(),
			Stderr:   stderr.String(),
			Error:    "command canceled: " + ctx.Err().Error(),
		}
	}

	if err != nil && !errors.Is(err, exec.ErrWaitDelay) {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return ExecuteResponse{
				Status:   StatusCompleted,
				ExitCode: exitErr.ExitCode(),
				Stdout:   stdout.String(),
				Stderr:   stderr.String(),
			}
		}

		// Shell missing, permission denied, bad workdir.
		return ExecuteResponse{
			Status: StatusError,
			Stdout: stdout.String(),
			Stderr: stderr.String(),
			Error:  err.Error(),
		}
	}

	exitCode := 0
	if cmd.ProcessState != nil {
		exitCode = cmd.ProcessState.ExitCode()
	}
	return ExecuteResponse{
		Status:   StatusCompleted,
		ExitCode: exitCode,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}
}

// mergeEnv appends extra to base in key order. Later entries win in exec.
func mergeEnv(base []string, extra map[string]string) []string {
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	env := make([]string, 0, len(base)+len(keys))
	env = append(env, base...)
	for _, k := range keys {
		env = append(env, k+"="+extra[k])
	}
	return env
}
