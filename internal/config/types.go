// Package config provides configuration types for multihook. These types
// map to YAML (or JSONC) configuration files.
package config

// Config represents the merged multihook configuration.
// It is typically stored at ~/.config/multihook/config.yaml.
type Config struct {
	Server    ServerConfig              `yaml:"server,omitempty"`
	Log       LogConfig                 `yaml:"log,omitempty"`
	Hooks     *HooksConfig              `yaml:"hooks,omitempty"`
	Endpoints map[string]EndpointConfig `yaml:"endpoints,omitempty"`

	// Sources lists the files that were merged into this config, in order.
	Sources []string `yaml:"-"`
}

// ServerConfig contains HTTP listener settings.
type ServerConfig struct {
	Address         string `yaml:"address,omitempty"`
	MaxBodyBytes    int64  `yaml:"max_body_bytes,omitempty"`
	ShutdownTimeout string `yaml:"shutdown_timeout,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level     string `yaml:"level,omitempty"`
	File      string `yaml:"file,omitempty"`
	AuditFile string `yaml:"audit_file,omitempty"`
}

// HooksConfig holds the optional pre, post and error hook commands. Each
// value is a command or a path to a script file.
type HooksConfig struct {
	PreAction  string `yaml:"pre_action,omitempty"`
	PostAction string `yaml:"post_action,omitempty"`
	ErrAction  string `yaml:"err_action,omitempty"`
}

// EndpointConfig configures one webhook route.
type EndpointConfig struct {
	Path          string        `yaml:"path"`
	Action        string        `yaml:"action"`
	Hooks         *HooksConfig  `yaml:"hooks,omitempty"`
	AllowParallel bool          `yaml:"allow_parallel,omitempty"`
	RunDetached   bool          `yaml:"run_detached,omitempty"`
	Secret        *SecretConfig `yaml:"secret,omitempty"`
}

// SecretConfig is a shared secret and the signature format senders use.
type SecretConfig struct {
	Value  string `yaml:"value"`
	Format string `yaml:"format"`
}
