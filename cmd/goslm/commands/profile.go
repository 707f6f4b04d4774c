package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/willibrandon/goslm/cmd/goslm/cli"
	"github.com/willibrandon/goslm/cmd/goslm/output"
	"github.com/willibrandon/goslm/settings"
)

// NewProfileCommand creates the profile command with its subcommands
func NewProfileCommand(console *output.Console, opts *cli.GlobalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage load priority profiles",
		Long: `Lists, creates, removes, renames and activates the load priority
profiles of a solution.

Examples:
  goslm profile list
  goslm profile add Fast --copy-from Default
  goslm profile use Fast
  goslm profile rename Fast Minimal
  goslm profile show Minimal
  goslm profile remove Minimal`,
	}

	cmd.AddCommand(newProfileListCommand(console, opts))
	cmd.AddCommand(newProfileAddCommand(console, opts))
	cmd.AddCommand(newProfileRemoveCommand(console, opts))
	cmd.AddCommand(newProfileRenameCommand(console, opts))
	cmd.AddCommand(newProfileUseCommand(console, opts))
	cmd.AddCommand(newProfileShowCommand(console, opts))

	return cmd
}

func newProfileListCommand(console *output.Console, opts *cli.GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List profiles, marking the active one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProfileList(cmd.Context(), console, opts)
		},
	}
}

func runProfileList(ctx context.Context, console *output.Console, opts *cli.GlobalOptions) (err error) {
	s, err := openSession(ctx, console, opts, "profile.list")
	if err != nil {
		return err
	}
	defer func() { err = s.finish(err) }()

	names, err := s.manager.Profiles()
	if err != nil {
		return err
	}
	active, err := s.manager.ActiveProfile()
	if err != nil {
		return err
	}

	result := output.ProfileListOutput{
		SchemaVersion: output.CurrentSchemaVersion,
		Solution:      s.solutionName(),
		Backend:       s.backend,
		ActiveProfile: active,
		Profiles:      make([]output.ProfileSummary, 0, len(names)),
	}
	for _, name := range names {
		entries, err := s.manager.ProjectEntries(name)
		if err != nil {
			return err
		}
		result.Profiles = append(result.Profiles, output.ProfileSummary{
			Name:     name,
			Active:   name == active,
			Projects: len(entries),
		})
	}

	if opts.JSON() {
		result.ElapsedMs = output.MeasureElapsed(s.start)
		return output.WriteJSON(console.Out(), result)
	}

	for _, p := range result.Profiles {
		marker := " "
		if p.Active {
			marker = "*"
		}
		console.Printf("%s %s\n", marker, p.Name)
		console.Detail("    %d project(s) with a recorded priority", p.Projects)
	}
	return nil
}

type profileAddOptions struct {
	copyFrom string
}

func newProfileAddCommand(console *output.Console, opts *cli.GlobalOptions) *cobra.Command {
	addOpts := &profileAddOptions{}

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a profile",
		Long: `Create a profile. With --copy-from the new profile starts with every
project priority of an existing profile; otherwise it is empty and every
project loads on demand.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProfileAdd(cmd.Context(), console, opts, args[0], addOpts)
		},
	}

	cmd.Flags().StringVar(&addOpts.copyFrom, "copy-from", "", "Profile to copy project priorities from")

	return cmd
}

func runProfileAdd(ctx context.Context, console *output.Console, opts *cli.GlobalOptions, name string, addOpts *profileAddOptions) (err error) {
	s, err := openSession(ctx, console, opts, "profile.add")
	if err != nil {
		return err
	}
	defer func() { err = s.finish(err) }()

	if err := s.manager.AddProfile(name, addOpts.copyFrom); err != nil {
		return err
	}

	if addOpts.copyFrom != "" {
		console.Success("Added profile %q (copied from %q)", name, addOpts.copyFrom)
	} else {
		console.Success("Added profile %q", name)
	}
	return nil
}

func newProfileRemoveCommand(console *output.Console, opts *cli.GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <name>",
		Aliases: []string{"rm"},
		Short:   "Delete a profile",
		Long: `Delete a profile and its project priorities. The last profile of a
solution cannot be removed. Removing the active profile activates the first
remaining one.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProfileRemove(cmd.Context(), console, opts, args[0])
		},
	}
}

func runProfileRemove(ctx context.Context, console *output.Console, opts *cli.GlobalOptions, name string) (err error) {
	s, err := openSession(ctx, console, opts, "profile.remove")
	if err != nil {
		return err
	}
	defer func() { err = s.finish(err) }()

	wasActive, err := s.manager.ActiveProfile()
	if err != nil {
		return err
	}
	if err := s.manager.RemoveProfile(name); err != nil {
		if errors.Is(err, settings.ErrLastProfile) {
			return fmt.Errorf("%w; add another profile first", err)
		}
		return err
	}
	console.Success("Removed profile %q", name)

	if wasActive == name {
		active, err := s.manager.ActiveProfile()
		if err != nil {
			return err
		}
		console.Info("Active profile is now %q", active)
	}
	return nil
}

func newProfileRenameCommand(console *output.Console, opts *cli.GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "rename <old> <new>",
		Aliases: []string{"mv"},
		Short:   "Rename a profile",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProfileRename(cmd.Context(), console, opts, args[0], args[1])
		},
	}
}

func runProfileRename(ctx context.Context, console *output.Console, opts *cli.GlobalOptions, oldName, newName string) (err error) {
	s, err := openSession(ctx, console, opts, "profile.rename")
	if err != nil {
		return err
	}
	defer func() { err = s.finish(err) }()

	if err := s.manager.RenameProfile(oldName, newName); err != nil {
		return err
	}
	console.Success("Renamed profile %q to %q", oldName, newName)
	return nil
}

func newProfileUseCommand(console *output.Console, opts *cli.GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "use <name>",
		Short: "Make a profile the active one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProfileUse(cmd.Context(), console, opts, args[0])
		},
	}
}

func runProfileUse(ctx context.Context, console *output.Console, opts *cli.GlobalOptions, name string) (err error) {
	s, err := openSession(ctx, console, opts, "profile.use")
	if err != nil {
		return err
	}
	defer func() { err = s.finish(err) }()

	if err := s.manager.SetActiveProfile(name); err != nil {
		return err
	}
	console.Success("Active profile is now %q", name)
	return nil
}

func newProfileShowCommand(console *output.Console, opts *cli.GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show [name]",
		Short: "Show the project priorities recorded in a profile",
		Long: `Show the project priorities recorded in a profile, the active profile
when no name is given. Projects without a recorded priority load on demand
and are not listed; use "goslm priority list" to see every project.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			return runProfileShow(cmd.Context(), console, opts, name)
		},
	}
}

func runProfileShow(ctx context.Context, console *output.Console, opts *cli.GlobalOptions, name string) (err error) {
	s, err := openSession(ctx, console, opts, "profile.show")
	if err != nil {
		return err
	}
	defer func() { err = s.finish(err) }()

	profile, err := s.profileOrActive(name)
	if err != nil {
		return err
	}
	entries, err := s.manager.ProjectEntries(profile)
	if err != nil {
		return err
	}
	active, err := s.manager.ActiveProfile()
	if err != nil {
		return err
	}

	names := map[uuid.UUID]string{}
	if len(entries) > 0 {
		names = s.projectNames()
	}

	result := output.ProfileOutput{
		SchemaVersion: output.CurrentSchemaVersion,
		Solution:      s.solutionName(),
		Backend:       s.backend,
		Profile:       profile,
		Active:        profile == active,
		Projects:      make([]output.ProjectPriority, 0, len(entries)),
	}
	for _, e := range entries {
		result.Projects = append(result.Projects, toProjectPriority(e.ProjectID, names[e.ProjectID], e.Priority))
	}

	if opts.JSON() {
		result.ElapsedMs = output.MeasureElapsed(s.start)
		return output.WriteJSON(console.Out(), result)
	}

	header := fmt.Sprintf("Profile %q", profile)
	if result.Active {
		header += " (active)"
	}
	console.Println(output.ColorHeader.Sprint(header))
	if len(result.Projects) == 0 {
		console.Println("  No project priorities recorded; every project loads on demand.")
		return nil
	}
	writePriorityRows(console, result.Projects)
	return nil
}

// writePriorityRows prints one aligned "name  guid  priority" row per project
func writePriorityRows(console *output.Console, rows []output.ProjectPriority) {
	width := 0
	for _, r := range rows {
		width = max(width, len(displayName(r)))
	}

	for _, r := range rows {
		p, _ := settings.ParseLoadPriority(r.Priority)
		console.Printf("  %-*s  %s  %s\n", width, displayName(r), r.ID, output.PriorityColor(p).Sprint(r.Priority))
	}
}

func displayName(r output.ProjectPriority) string {
	if r.Name == "" {
		return "(not in solution)"
	}
	return r.Name
}
