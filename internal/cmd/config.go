package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xdg/multihook/internal/config"
	"github.com/xdg/multihook/internal/endpoint"
	"github.com/xdg/multihook/internal/term"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `Manage multihook's configuration.

Every *.yaml, *.yml, *.json and *.jsonc file in ~/.config/multihook/
(or $XDG_CONFIG_HOME/multihook/) is merged in name order, then
./.multihook.yaml if present, then the file given with --config.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective config",
	Long:  `Print the merged, defaulted configuration as YAML.`,
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print config directory and files",
	Long: `Print the configuration directory followed by each file that would be
merged, in merge order.`,
	Args: cobra.NoArgs,
	RunE: runConfigPath,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check configuration",
	Long: `Load the configuration, validate it and build every endpoint, including
reading script files. Exits non-zero if anything fails.`,
	Args: cobra.NoArgs,
	RunE: runConfigValidate,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default config file",
	Long: `Create the default configuration file if it doesn't exist.

This creates a commented configuration file with all default values.
If the file already exists, this command does nothing.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configInitCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(loadOptions())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	data, err := config.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	for _, src := range cfg.Sources {
		term.Printf("# source: %s\n", src)
	}
	term.Printf("%s", data)
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	dir := config.Dir()
	term.Println(dir)

	files, err := config.ConfigFiles(dir)
	if err != nil {
		return err
	}
	for _, f := range files {
		term.Printf("  %s\n", f)
	}
	if configFile != "" {
		term.Printf("  %s\n", configFile)
	}
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(loadOptions())
	if err != nil {
		term.Error("%v", err)
		return NewExitCodeError(1)
	}

	eps, err := endpoint.BuildAll(cfg)
	if err != nil {
		term.Error("%v", err)
		return NewExitCodeError(1)
	}

	names := make([]string, 0, len(eps))
	for _, ep := range eps {
		names = append(names, ep.Name())
	}
	term.OK("%d endpoint(s) from %d file(s)", len(eps), len(cfg.Sources))
	if len(names) > 0 {
		term.Printf("  %s\n", strings.Join(names, ", "))
	}
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	dir := config.Dir()
	path := config.DefaultConfigPath(dir)

	if err := config.WriteDefaultConfig(dir); err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}

	term.Printf("Config file: %s\n", path)
	return nil
}
