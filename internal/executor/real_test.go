package executor

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// TestRealExecutorInterface verifies RealExecutor implements Executor.
func TestRealExecutorInterface(_ *testing.T) {
	var _ Executor = &RealExecutor{}
	var _ Executor = NewRealExecutor()
}

// TestRealExecutorEchoHello verifies basic script execution.
func TestRealExecutorEchoHello(t *testing.T) {
	resp := NewRealExecutor().Execute(context.Background(), ExecuteRequest{Script: "echo hello"})

	if resp.Status != StatusCompleted {
		t.Errorf("Status: got %q, want %q", resp.Status, StatusCompleted)
	}
	if resp.ExitCode != 0 {
		t.Errorf("ExitCode: got %d, want 0", resp.ExitCode)
	}
	if strings.TrimSpace(resp.Stdout) != "hello" {
		t.Errorf("Stdout: got %q, want hello", resp.Stdout)
	}
}

// TestRealExecutorMissingShell verifies launch failures are reported as errors.
func TestRealExecutorMissingShell(t *testing.T) {
	e := &RealExecutor{Shell: "this-shell-definitely-does-not-exist-anywhere"}
	resp := e.Execute(context.Background(), ExecuteRequest{Script: "true"})

	if resp.Status != StatusError {
		t.Errorf("Status: got %q, want %q", resp.Status, StatusError)
	}
	if resp.Error == "" {
		t.Error("Error should describe the launch failure")
	}
}

// TestRealExecutorExitCode verifies non-zero exit codes are captured.
func TestRealExecutorExitCode(t *testing.T) {
	resp := NewRealExecutor().Execute(context.Background(), ExecuteRequest{Script: "echo oops >&2; exit 42"})

	if resp.Status != StatusCompleted {
		t.Errorf("Status: got %q, want %q", resp.Status, StatusCompleted)
	}
	if resp.ExitCode != 42 {
		t.Errorf("ExitCode: got %d, want 42", resp.ExitCode)
	}
	if !strings.Contains(resp.Stderr, "oops") {
		t.Errorf("Stderr should contain 'oops', got: %q", resp.Stderr)
	}
}

// TestRealExecutorEnv verifies extra variables are added to the inherited environment.
func TestRealExecutorEnv(t *testing.T) {
	t.Setenv("EXECUTOR_TEST_INHERITED", "inherited_value")

	resp := NewRealExecutor().Execute(context.Background(), ExecuteRequest{
		Script: `echo "$EXECUTOR_TEST_INHERITED $HOOK_NAME"`,
		Env:    map[string]string{"HOOK_NAME": "deploy"},
	})

	if strings.TrimSpace(resp.Stdout) != "inherited_value deploy" {
		t.Errorf("Stdout: got %q, want %q", resp.Stdout, "inherited_value deploy")
	}
}

// TestRealExecutorContextCancelled verifies cancellation kills the process.
func TestRealExecutorContextCancelled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	resp := NewRealExecutor().Execute(ctx, ExecuteRequest{Script: "sleep 10"})

	if resp.Status != StatusCanceled {
		t.Errorf("Status: got %q, want %q", resp.Status, StatusCanceled)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("cancellation took %v, process was not killed", elapsed)
	}
}

// TestRealExecutorCancelKillsChildren verifies grandchildren die with the shell.
func TestRealExecutorCancelKillsChildren(t *testing.T) {
	marker := filepath.Join(t.TempDir(), "survived")

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	script := "(sleep 1; touch " + marker + ") & wait"
	resp := NewRealExecutor().Execute(ctx, ExecuteRequest{Script: script})
	if resp.Status != StatusCanceled {
		t.Fatalf("Status: got %q, want %q", resp.Status, StatusCanceled)
	}

	time.Sleep(1500 * time.Millisecond)
	if _, err := os.Stat(marker); err == nil {
		t.Error("background child survived cancellation")
	}
}
