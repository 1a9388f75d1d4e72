package action

import (
	"fmt"
	"strings"
)

// Error reports a command that ran but exited non-zero.
type Error struct {
	ExitCode int
	// Stderr is the complete captured standard error.
	Stderr string
}

func (e *Error) Error() string {
	detail := strings.TrimRight(e.Stderr, "\r\n")
	if detail == "" {
		return fmt.Sprintf("action failed with exit code %d", e.ExitCode)
	}
	return "action failed: " + detail
}

// LaunchError reports a command that could not be started at all.
type LaunchError struct {
	Err error
}

func (e *LaunchError) Error() string {
	return "launch action: " + e.Err.Error()
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}
