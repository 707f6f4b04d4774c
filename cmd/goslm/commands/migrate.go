package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/willibrandon/goslm/cmd/goslm/cli"
	"github.com/willibrandon/goslm/cmd/goslm/config"
	"github.com/willibrandon/goslm/cmd/goslm/output"
	"github.com/willibrandon/goslm/settings"
)

type migrateOptions struct {
	to string
}

// NewMigrateCommand creates the migrate command
func NewMigrateCommand(console *output.Console, opts *cli.GlobalOptions) *cobra.Command {
	migOpts := &migrateOptions{}

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Copy a solution's profiles to another backend",
		Long: `Copy every profile of the solution from the configured backend
(--backend) to the backend given by --to, and activate the same profile
there. Profiles that only exist in the target are kept.

Examples:
  goslm migrate --to settings
  goslm migrate --backend settings --to xml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd.Context(), console, opts, migOpts)
		},
	}

	cmd.Flags().StringVar(&migOpts.to, "to", "", "Target backend: "+strings.Join(config.Backends(), ", "))
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func runMigrate(ctx context.Context, console *output.Console, opts *cli.GlobalOptions, migOpts *migrateOptions) (err error) {
	s, err := openSession(ctx, console, opts, "migrate")
	if err != nil {
		return err
	}
	defer func() { err = s.finish(err) }()

	to := strings.ToLower(migOpts.to)
	if to == s.backend {
		return fmt.Errorf("source and target backend are both %q", to)
	}

	target, err := s.openManager(to)
	if err != nil {
		return fmt.Errorf("open %s backend: %w", to, err)
	}
	if err := settings.CopyEntries(target, s.manager); err != nil {
		return fmt.Errorf("migrate to %s: %w", to, err)
	}

	profiles, err := s.manager.Profiles()
	if err != nil {
		return err
	}
	active, err := target.ActiveProfile()
	if err != nil {
		return err
	}

	if opts.JSON() {
		return output.WriteJSON(console.Out(), output.MigrateOutput{
			SchemaVersion: output.CurrentSchemaVersion,
			From:          s.backend,
			To:            to,
			Profiles:      profiles,
			ActiveProfile: active,
			ElapsedMs:     output.MeasureElapsed(s.start),
		})
	}

	console.Success("Copied %d profile(s) from %s to %s; active profile %q", len(profiles), s.backend, to, active)
	return nil
}
