// Command goslm manages project load priority profiles of Visual Studio solutions.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/willibrandon/goslm/cmd/goslm/cli"
	"github.com/willibrandon/goslm/cmd/goslm/commands"
	"github.com/willibrandon/goslm/cmd/goslm/version"
)

// Version information (set via ldflags during build)
var (
	buildVersion = "0.0.0-dev"
	commit       = "unknown"
	date         = "unknown"
)

func main() {
	version.Version = buildVersion
	version.Commit = commit
	version.Date = date

	cli.SetupVersion()

	cli.AddCommand(commands.NewVersionCommand(cli.Console))
	cli.AddCommand(commands.NewProfileCommand(cli.Console, cli.Options))
	cli.AddCommand(commands.NewPriorityCommand(cli.Console, cli.Options))
	cli.AddCommand(commands.NewProjectsCommand(cli.Console, cli.Options))
	cli.AddCommand(commands.NewMigrateCommand(cli.Console, cli.Options))

	// Handle signals for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		os.Exit(130) // 128 + SIGINT
	}()

	if err := cli.Execute(); err != nil {
		// SilenceErrors is set on the root command
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
