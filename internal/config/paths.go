package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/xdg/multihook/internal/pathutil"
)

// LocalConfigName is merged from the working directory when present.
const LocalConfigName = ".multihook.yaml"

// Dir returns the multihook configuration directory path.
// By default, this is ~/.config/multihook. If the XDG_CONFIG_HOME
// environment variable is set, it uses $XDG_CONFIG_HOME/multihook instead.
func Dir() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		base = "~/.config"
	}
	return filepath.Join(pathutil.ExpandHome(base), "multihook")
}

// EnsureDir creates dir with 0700 permissions if it doesn't exist.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("ensure config dir: %w", err)
	}
	return nil
}

// DefaultConfigPath returns the path of the file written on first run.
func DefaultConfigPath(dir string) string {
	return filepath.Join(dir, "config.yaml")
}

// ConfigFiles lists the configuration files directly inside dir, sorted by
// name. A missing directory yields no files.
func ConfigFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read config dir: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !isConfigFile(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}
