// Package endpoint dispatches one webhook request through an endpoint's
// hooks and action.
//
// For a request, Execute runs, in order:
//
//	validate secret -> decode body -> global pre-hook -> endpoint pre-hook
//	-> action -> global post-hook -> endpoint post-hook      (action succeeded)
//	          -> global error-hook -> endpoint error-hook    (action failed)
//
// Hook failures are logged and never change the outcome. The action's
// error is the request's error.
package endpoint

import (
	"context"
	"maps"
	"net/http"
	"sync"
	"sync/atomic"
	"unicode/utf8"

	"github.com/xdg/multihook/internal/action"
	"github.com/xdg/multihook/internal/mlog"
	"github.com/xdg/multihook/internal/secret"
	"github.com/xdg/multihook/internal/template"
)

// Environment variables passed to every command.
const (
	EnvName  = "HOOK_NAME"
	EnvBody  = "HOOK_BODY"
	EnvError = "HOOK_ERROR"
)

// HookSet holds optional actions run around the main action. Nil entries
// are skipped.
type HookSet struct {
	Pre   *action.Action
	Post  *action.Action
	Error *action.Action
}

// Options configures an Endpoint.
type Options struct {
	Name     string
	Path     string
	Action   *action.Action
	Global   HookSet
	Local    HookSet
	Detached bool
	// Secret enables request authentication when non-nil.
	Secret *secret.Config
}

// Endpoint is one configured webhook route. Its actions are fixed at
// construction and shared by all concurrent requests, so their gates are
// shared too.
type Endpoint struct {
	name     string
	path     string
	action   *action.Action
	global   HookSet
	local    HookSet
	detached bool
	secret   *secret.Config

	wg      sync.WaitGroup
	running atomic.Int64
}

// New creates an Endpoint from opts.
func New(opts Options) *Endpoint {
	return &Endpoint{
		name:     opts.Name,
		path:     opts.Path,
		action:   opts.Action,
		global:   opts.Global,
		local:    opts.Local,
		detached: opts.Detached,
		secret:   opts.Secret,
	}
}

// Name returns the endpoint name.
func (e *Endpoint) Name() string {
	return e.name
}

// Path returns the route path, without a leading slash.
func (e *Endpoint) Path() string {
	return e.path
}

// Detached reports whether Execute returns before the action finishes.
func (e *Endpoint) Detached() bool {
	return e.detached
}

// Execute authenticates and runs one request.
//
// ErrInvalidSecret and ErrBodyDecode are returned before any command runs.
// For a detached endpoint Execute returns nil as soon as the run has been
// started; the outcome of that run is only logged. Otherwise the main
// action's error, if any, is returned after the error hooks have run.
func (e *Endpoint) Execute(ctx context.Context, headers http.Header, body []byte) error {
	if e.secret != nil && !e.secret.Validate(headers, body) {
		return ErrInvalidSecret
	}
	if !utf8.Valid(body) {
		return ErrBodyDecode
	}

	if !e.detached {
		return e.run(ctx, body)
	}

	runCtx := context.WithoutCancel(ctx)
	e.running.Add(1)
	e.wg.Go(func() {
		defer e.running.Add(-1)
		if err := e.run(runCtx, body); err != nil {
			mlog.Error("%s: detached hook failed: %v", e.name, err)
		}
	})
	return nil
}

// Running returns the number of detached runs that have not finished.
func (e *Endpoint) Running() int {
	return int(e.running.Load())
}

// Wait blocks until all detached runs started by Execute have finished.
func (e *Endpoint) Wait() {
	e.wg.Wait()
}

func (e *Endpoint) run(ctx context.Context, body []byte) error {
	doc := template.ParseDocument(body)
	if !doc.Valid() {
		mlog.Debug("%s: body is not JSON, placeholders expand to nothing", e.name)
	}
	env := map[string]string{
		EnvName: e.name,
		EnvBody: string(body),
	}

	e.runHook(ctx, e.global.Pre, "global pre-hook", doc, env)
	e.runHook(ctx, e.local.Pre, "endpoint pre-hook", doc, env)

	err := e.action.Run(ctx, doc, env)
	if err != nil {
		errEnv := maps.Clone(env)
		errEnv[EnvError] = err.Error()

		e.runHook(ctx, e.global.Error, "global error-hook", doc, errEnv)
		e.runHook(ctx, e.local.Error, "endpoint error-hook", doc, errEnv)
		return err
	}

	e.runHook(ctx, e.global.Post, "global post-hook", doc, env)
	e.runHook(ctx, e.local.Post, "endpoint post-hook", doc, env)
	return nil
}

func (e *Endpoint) runHook(ctx context.Context, hook *action.Action, slot string, doc template.Document, env map[string]string) {
	if hook == nil {
		return
	}
	if err := hook.Run(ctx, doc, env); err != nil {
		mlog.Error("%s: %s failed: %v", e.name, slot, err)
	}
}
