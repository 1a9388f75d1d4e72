package endpoint

import (
	"fmt"
	"sort"

	"github.com/xdg/multihook/internal/action"
	"github.com/xdg/multihook/internal/config"
	"github.com/xdg/multihook/internal/mlog"
	"github.com/xdg/multihook/internal/pathutil"
	"github.com/xdg/multihook/internal/secret"
)

// FromConfig builds the Endpoint named name. Global hooks always allow
// parallel runs; the action and the endpoint's own hooks follow
// AllowParallel. Every command value that names a readable file is replaced
// by that file's contents.
func FromConfig(name string, global *config.HooksConfig, cfg config.EndpointConfig, opts ...action.Option) (*Endpoint, error) {
	command, err := loadCommand(name, "action", cfg.Action)
	if err != nil {
		return nil, err
	}
	act := action.New(command, cfg.AllowParallel, append([]action.Option{action.WithName(name)}, opts...)...)

	globalHooks, err := buildHooks(name, "global", global, true, opts)
	if err != nil {
		return nil, err
	}
	localHooks, err := buildHooks(name, "endpoint", cfg.Hooks, cfg.AllowParallel, opts)
	if err != nil {
		return nil, err
	}

	var sc *secret.Config
	if cfg.Secret != nil {
		format, err := secret.ParseFormat(cfg.Secret.Format)
		if err != nil {
			return nil, fmt.Errorf("endpoint %s: %w", name, err)
		}
		sc = &secret.Config{Value: cfg.Secret.Value, Format: format}
	}

	return New(Options{
		Name:     name,
		Path:     cfg.Path,
		Action:   act,
		Global:   globalHooks,
		Local:    localHooks,
		Detached: cfg.RunDetached,
		Secret:   sc,
	}), nil
}

// BuildAll builds every endpoint in cfg, sorted by name.
func BuildAll(cfg *config.Config, opts ...action.Option) ([]*Endpoint, error) {
	names := make([]string, 0, len(cfg.Endpoints))
	for name := range cfg.Endpoints {
		names = append(names, name)
	}
	sort.Strings(names)

	endpoints := make([]*Endpoint, 0, len(names))
	for _, name := range names {
		ep, err := FromConfig(name, cfg.Hooks, cfg.Endpoints[name], opts...)
		if err != nil {
			return nil, err
		}
		mlog.Debug("endpoint %s: registered at /%s", name, ep.Path())
		endpoints = append(endpoints, ep)
	}
	return endpoints, nil
}

func buildHooks(name, scope string, cfg *config.HooksConfig, allowParallel bool, opts []action.Option) (HookSet, error) {
	var hooks HookSet
	if cfg == nil {
		return hooks, nil
	}

	slots := []struct {
		label  string
		source string
		dst    **action.Action
	}{
		{scope + " pre-hook", cfg.PreAction, &hooks.Pre},
		{scope + " post-hook", cfg.PostAction, &hooks.Post},
		{scope + " error-hook", cfg.ErrAction, &hooks.Error},
	}
	for _, slot := range slots {
		if slot.source == "" {
			continue
		}
		command, err := loadCommand(name, slot.label, slot.source)
		if err != nil {
			return HookSet{}, err
		}
		label := name + " " + slot.label
		*slot.dst = action.New(command, allowParallel, append([]action.Option{action.WithName(label)}, opts...)...)
	}
	return hooks, nil
}

func loadCommand(name, label, source string) (string, error) {
	command, fromFile, err := pathutil.ReadSource(source)
	if err != nil {
		return "", fmt.Errorf("endpoint %s: load %s: %w", name, label, err)
	}
	if fromFile {
		mlog.Debug("endpoint %s: %s loaded from %s", name, label, source)
	}
	return command, nil
}
