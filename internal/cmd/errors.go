package cmd

import (
	"errors"
	"fmt"

	"github.com/xdg/multihook/internal/term"
)

// ExitCodeError carries the process exit code for a failed command whose
// message has already been shown.
type ExitCodeError struct {
	Code int
}

// NewExitCodeError returns an ExitCodeError with code.
func NewExitCodeError(code int) *ExitCodeError {
	return &ExitCodeError{Code: code}
}

func (e *ExitCodeError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// reportError prints err unless it only carries an exit code.
func reportError(err error) {
	var exitErr *ExitCodeError
	if errors.As(err, &exitErr) {
		return
	}
	term.Error("%v", err)
}
