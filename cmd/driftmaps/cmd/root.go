// Package cmd implements the driftmaps CLI commands.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-drift/maps/cmd/driftmaps/internal/ui"
)

// Version information set at build time.
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	verbose   bool
	noColor   bool
	configDir string
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	flags := &globalFlags{}
	root := &cobra.Command{
		Use:   "driftmaps",
		Short: "Replay declarative map marker scenes",
		Long: `driftmaps drives marker controllers from a YAML scene and prints the
calls they make on the "drift/maps" platform channel.

Use "driftmaps <command> --help" for more information about a command.`,
		Version:       fmt.Sprintf("%s (built %s)", Version, BuildTime),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(*cobra.Command, []string) {
			ui.ConfigureColor(flags.noColor)
		},
	}
	root.PersistentFlags().BoolVar(&flags.verbose, "verbose", false, "Include stack traces in error reports")
	root.PersistentFlags().BoolVar(&flags.noColor, "no-color", false, "Disable colored output")
	root.PersistentFlags().StringVar(&flags.configDir, "config", ".", "Directory containing driftmaps.yaml")

	root.AddCommand(newReplayCmd(flags))
	return root
}

// Execute runs the CLI.
func Execute() error {
	return NewRootCmd().Execute()
}
