package config

import (
	"strings"
	"time"
)

// Defaults applied to unset settings.
const (
	DefaultAddress         = "127.0.0.1:8080"
	DefaultMaxBodyBytes    = 32 * 1024 * 1024
	DefaultShutdownTimeout = "30s"
	DefaultLogLevel        = "info"
	DefaultSecretFormat    = "hmac"
)

// ApplyDefaults fills unset server, log and secret format settings and
// normalizes endpoint paths by trimming leading slashes.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Address == "" {
		cfg.Server.Address = DefaultAddress
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.Server.ShutdownTimeout == "" {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}

	for name, ep := range cfg.Endpoints {
		ep.Path = strings.TrimLeft(strings.TrimSpace(ep.Path), "/")
		if ep.Secret != nil && ep.Secret.Format == "" {
			s := *ep.Secret
			s.Format = DefaultSecretFormat
			ep.Secret = &s
		}
		cfg.Endpoints[name] = ep
	}
}

// ShutdownTimeoutDuration returns the parsed graceful shutdown timeout, or the
// default when the value is empty or invalid.
func (s ServerConfig) ShutdownTimeoutDuration() time.Duration {
	if d, err := time.ParseDuration(s.ShutdownTimeout); err == nil {
		return d
	}
	d, _ := time.ParseDuration(DefaultShutdownTimeout)
	return d
}

// defaultConfigTemplate is written on first run.
const defaultConfigTemplate = `# multihook configuration
#
# Every *.yaml, *.yml, *.json and *.jsonc file in this directory is merged in
# name order, then ./.multihook.yaml, then the file given with --config.

server:
  # Address the webhook listener binds to.
  address: "127.0.0.1:8080"
  # Requests with larger bodies are rejected with 413.
  max_body_bytes: 33554432
  # How long shutdown waits for running hooks.
  shutdown_timeout: "30s"

log:
  # debug, info, warn or error. MULTIHOOK_LOG overrides.
  level: info
  # file: ~/.local/state/multihook/multihook.log
  # audit_file: ~/.local/state/multihook/audit.log

# Hooks run around every endpoint's action. Each value is a shell command or a
# path to a script. Global hooks run before the endpoint's own hooks.
# hooks:
#   pre_action: echo "starting $HOOK_NAME"
#   post_action: echo "finished $HOOK_NAME"
#   err_action: echo "$HOOK_NAME failed: $HOOK_ERROR" >&2

# Endpoints are served at http://<address>/<path> and accept POST only.
# {{ $.json.path }} placeholders are replaced with values from the request
# body. Values are NOT shell-escaped.
endpoints: {}
#  deploy:
#    path: deploy
#    action: ~/bin/deploy.sh {{ $.ref }}
#    allow_parallel: false
#    run_detached: false
#    secret:
#      value: change-me
#      format: hmac        # hmac, github or gitlab
#    hooks:
#      err_action: ~/bin/notify-failure.sh
`
