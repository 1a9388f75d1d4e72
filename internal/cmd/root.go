// Package cmd implements the CLI commands for multihook.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/xdg/multihook/internal/term"
	"github.com/xdg/multihook/internal/version"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "multihook",
	Short: "Run shell commands from webhooks",
	Long: `Multihook is a small webhook server. Each configured endpoint turns an
authenticated POST request into a shell command, with values from the JSON
body substituted into the command, and runs optional hooks before and after it.

Configuration is read from ~/.config/multihook/ (or $XDG_CONFIG_HOME/multihook/).`,
	Version:       version.String(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		term.SetSilent(silent)
	},
}

var silent bool

func init() {
	addGlobalFlags(rootCmd.PersistentFlags())
}

// Execute runs the root command and returns any error.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		reportError(err)
	}
	return err
}
