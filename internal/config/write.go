package config

import (
	"errors"
	"fmt"
	"os"
)

// WriteDefaultConfig creates dir and a commented default config.yaml in it.
// An existing file is left untouched. The file is written with 0600
// permissions because endpoint secrets live in it.
func WriteDefaultConfig(dir string) error {
	path := DefaultConfigPath(dir)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat config file: %w", err)
	}

	if err := EnsureDir(dir); err != nil {
		return err
	}

	if err := os.WriteFile(path, []byte(defaultConfigTemplate), 0o600); err != nil {
		return fmt.Errorf("write default config: %w", err)
	}
	return nil
}
