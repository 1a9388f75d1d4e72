//go:build !unix

package executor

import "os/exec"

func configureProcess(_ *exec.Cmd) {}
