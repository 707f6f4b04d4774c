// Package cli holds the goslm root command and the flags every command shares.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/willibrandon/goslm/cmd/goslm/output"
)

var rootCmd = &cobra.Command{
	Use:   "goslm",
	Short: "Solution load manager",
	Long: `goslm manages project load priority profiles for Visual Studio solutions.

Profiles are stored next to the solution in a .slm file, or in a settings
database shared by every solution on the machine.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		// Show help when no command is provided
		_ = cmd.Help()
	},
}

// Console is the global console for CLI commands
var Console *output.Console

// Options holds the persistent flags of the root command
var Options = &GlobalOptions{}

func init() {
	Console = output.DefaultConsole()
	Options.AddFlags(rootCmd)
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// RootCommand returns the root command, for tests and completion
func RootCommand() *cobra.Command {
	return rootCmd
}

// SetupVersion configures version information after variables are set
func SetupVersion() {
	rootCmd.SetVersionTemplate(GetFullVersion() + "\n")
	rootCmd.Version = GetVersion()
}

// AddCommand adds a command to the root command
func AddCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}
