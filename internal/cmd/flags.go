package cmd

import (
	"github.com/spf13/pflag"

	"github.com/xdg/multihook/internal/config"
)

// configFile is an explicit config file merged after the config directory.
var configFile string

func addGlobalFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&configFile, "config", "c", "", "additional config file, merged last")
	fs.BoolVarP(&silent, "silent", "s", false, "suppress normal output")
}

// loadOptions returns the config sources selected by the global flags.
func loadOptions() config.LoadOptions {
	return config.LoadOptions{File: configFile}
}

// watchPaths lists the locations whose changes trigger a reload.
func watchPaths(opts config.LoadOptions) []string {
	dir := opts.Dir
	if dir == "" {
		dir = config.Dir()
	}
	paths := []string{dir}
	if opts.LocalFile != "-" {
		local := opts.LocalFile
		if local == "" {
			local = config.LocalConfigName
		}
		paths = append(paths, local)
	}
	if opts.File != "" {
		paths = append(paths, opts.File)
	}
	return paths
}
