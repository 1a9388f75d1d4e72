package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xdg/multihook/internal/mlog"
	"github.com/xdg/multihook/internal/pathutil"
)

// Environment variables that override file settings.
const (
	EnvAddress  = "MULTIHOOK_ADDRESS"
	EnvLogLevel = "MULTIHOOK_LOG"
)

// LoadOptions selects configuration sources.
type LoadOptions struct {
	// Dir is the configuration directory; empty means Dir().
	Dir string
	// LocalFile is merged after Dir when it exists; empty means
	// ./.multihook.yaml. Set to "-" to skip it.
	LocalFile string
	// File is an explicit config file merged last. It must exist.
	File string
	// Getenv reads overrides; nil means os.Getenv.
	Getenv func(string) string
}

// Load reads, merges, defaults and validates the configuration.
//
// If the configuration directory does not exist and no explicit file was
// given, it is created with a commented default config.yaml.
func Load(opts LoadOptions) (*Config, error) {
	dir := opts.Dir
	if dir == "" {
		dir = Dir()
	}
	localFile := opts.LocalFile
	if localFile == "" {
		localFile = LocalConfigName
	}
	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	if opts.File == "" {
		if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
			mlog.Info("config: %s not found, creating defaults", dir)
			if err := WriteDefaultConfig(dir); err != nil {
				mlog.Warn("config: failed to create default config: %v", err)
			}
		}
	}

	files, err := ConfigFiles(dir)
	if err != nil {
		return nil, err
	}
	if localFile != "-" {
		if _, err := os.Stat(localFile); err == nil {
			files = append(files, localFile)
		}
	}
	if opts.File != "" {
		files = append(files, opts.File)
	}

	cfg := &Config{}
	for _, path := range files {
		fileCfg, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		Merge(cfg, fileCfg)
	}

	if v := getenv(EnvAddress); v != "" {
		cfg.Server.Address = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}

	ApplyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	cfg.Log.File = pathutil.ExpandHome(cfg.Log.File)
	cfg.Log.AuditFile = pathutil.ExpandHome(cfg.Log.AuditFile)
	return cfg, nil
}

// LoadFile reads and parses a single configuration file.
func LoadFile(path string) (*Config, error) {
	mlog.Debug("config: loading %s", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg, err := Parse(data, filepath.Base(path))
	if err != nil {
		return nil, err
	}
	cfg.Sources = []string{path}
	return cfg, nil
}
