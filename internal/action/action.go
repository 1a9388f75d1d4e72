// Package action runs one templated shell command behind a concurrency gate.
package action

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/semaphore"

	"github.com/xdg/multihook/internal/executor"
	"github.com/xdg/multihook/internal/mlog"
	"github.com/xdg/multihook/internal/template"
)

// MaxConcurrency is the gate size of an action that allows parallel runs.
const MaxConcurrency = 256

// Action couples a compiled command template with its own concurrency gate.
// The gate is never shared between actions. An Action is safe for
// concurrent use.
type Action struct {
	name     string
	tmpl     *template.Template
	gate     *semaphore.Weighted
	capacity int64
	exec     executor.Executor
}

// Option configures an Action.
type Option func(*Action)

// WithExecutor replaces the default shell executor.
func WithExecutor(e executor.Executor) Option {
	return func(a *Action) {
		a.exec = e
	}
}

// WithName sets the label used in log lines.
func WithName(name string) Option {
	return func(a *Action) {
		a.name = name
	}
}

// New compiles command and sizes the gate: 1 slot (serialized) unless
// allowParallel, in which case MaxConcurrency slots.
func New(command string, allowParallel bool, opts ...Option) *Action {
	capacity := int64(1)
	if allowParallel {
		capacity = MaxConcurrency
	}

	a := &Action{
		name:     "action",
		tmpl:     template.Compile(command),
		gate:     semaphore.NewWeighted(capacity),
		capacity: capacity,
		exec:     executor.NewRealExecutor(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Name returns the log label.
func (a *Action) Name() string {
	return a.name
}

// Command returns the uncompiled command template.
func (a *Action) Command() string {
	return a.tmpl.Source()
}

// Capacity returns the number of runs allowed to overlap.
func (a *Action) Capacity() int64 {
	return a.capacity
}

// Run evaluates the command against doc, waits for a gate slot and executes
// the command under a shell with env added to the environment. The slot is
// held only while the process is alive.
//
// A non-zero exit returns *Error; a process that could not be started
// returns *LaunchError. Cancelling ctx while waiting for a slot or while the
// process runs returns an error wrapping ctx.Err(); the process is killed.
func (a *Action) Run(ctx context.Context, doc template.Document, env map[string]string) error {
	command := a.tmpl.Evaluate(doc)

	mlog.Debug("%s: acquiring gate (%d slots)", a.name, a.capacity)
	if err := a.gate.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("%s: acquire gate: %w", a.name, err)
	}
	mlog.Debug("%s: gate acquired, running command", a.name)

	resp := a.exec.Execute(ctx, executor.ExecuteRequest{Script: command, Env: env})
	a.gate.Release(1)
	mlog.Debug("%s: command finished, gate released", a.name)

	if resp.Stdout != "" {
		mlog.Debug("%s: command output: %s", a.name, resp.Stdout)
	}

	switch resp.Status {
	case executor.StatusError:
		return &LaunchError{Err: errors.New(resp.Error)}
	case executor.StatusCanceled:
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%s: %w", a.name, err)
		}
		return fmt.Errorf("%s: %s", a.name, resp.Error)
	}

	if !resp.Success() {
		mlog.Error("%s: errors occurred during command execution: %s", a.name, resp.Stderr)
		return &Error{ExitCode: resp.ExitCode, Stderr: resp.Stderr}
	}
	if resp.Stderr != "" {
		mlog.Debug("%s: command stderr: %s", a.name, resp.Stderr)
	}
	return nil
}
