package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/xdg/multihook/internal/mlog"
	"github.com/xdg/multihook/internal/secret"
)

// Validate checks a merged Config. It validates:
//   - server.address is host:port with a port in 0-65535
//   - server.shutdown_timeout is a parseable duration
//   - server.max_body_bytes is non-negative
//   - log.level is a known level (if non-empty)
//   - every endpoint has a path and an action, and paths are unique
//   - every secret has a value and a known format
//
// Endpoints are checked in name order so errors are reproducible.
func Validate(cfg *Config) error {
	if cfg.Server.Address != "" {
		if err := validateListenAddr(cfg.Server.Address, "server.address"); err != nil {
			return err
		}
	}
	if cfg.Server.ShutdownTimeout != "" {
		if err := validateDuration(cfg.Server.ShutdownTimeout, "server.shutdown_timeout"); err != nil {
			return err
		}
	}
	if cfg.Server.MaxBodyBytes < 0 {
		return fmt.Errorf("server.max_body_bytes: must be non-negative, got %d", cfg.Server.MaxBodyBytes)
	}

	if cfg.Log.Level != "" {
		if _, ok := mlog.LookupLevel(cfg.Log.Level); !ok {
			return fmt.Errorf("log.level: invalid value %q, must be one of: debug, info, warn, error", cfg.Log.Level)
		}
	}

	names := make([]string, 0, len(cfg.Endpoints))
	for name := range cfg.Endpoints {
		names = append(names, name)
	}
	sort.Strings(names)

	paths := make(map[string]string, len(names))
	for _, name := range names {
		ep := cfg.Endpoints[name]
		field := "endpoints." + name
		path := strings.TrimLeft(strings.TrimSpace(ep.Path), "/")
		if path == "" {
			return fmt.Errorf("%s.path: must not be empty", field)
		}
		if other, ok := paths[path]; ok {
			return fmt.Errorf("%s.path: %q already used by endpoint %q", field, path, other)
		}
		paths[path] = name

		if strings.TrimSpace(ep.Action) == "" {
			return fmt.Errorf("%s.action: must not be empty", field)
		}
		if ep.Secret != nil {
			if err := validateSecret(ep.Secret, field+".secret"); err != nil {
				return err
			}
		}
	}

	return nil
}

func validateSecret(s *SecretConfig, field string) error {
	if s.Value == "" {
		return fmt.Errorf("%s.value: must not be empty", field)
	}
	if _, err := secret.ParseFormat(s.Format); err != nil {
		return fmt.Errorf("%s.format: %w", field, err)
	}
	return nil
}

// validateListenAddr validates a listen address in the format ":port" or "host:port".
// Port must be in the range 0-65535; 0 picks an ephemeral port.
func validateListenAddr(addr, field string) error {
	colonIdx := strings.LastIndex(addr, ":")
	if colonIdx == -1 {
		return fmt.Errorf("%s: invalid format %q, expected host:port or :port", field, addr)
	}

	portStr := addr[colonIdx+1:]
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return fmt.Errorf("%s: invalid port %q in %q", field, portStr, addr)
	}
	if port < 0 || port > 65535 {
		return fmt.Errorf("%s: invalid port number %d, must be 0-65535", field, port)
	}

	return nil
}

// validateDuration validates that a duration string can be parsed by time.ParseDuration.
func validateDuration(d, field string) error {
	_, err := time.ParseDuration(d)
	if err != nil {
		return fmt.Errorf("%s: invalid duration %q", field, d)
	}
	return nil
}
