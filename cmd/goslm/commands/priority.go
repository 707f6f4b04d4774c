package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/willibrandon/goslm/cmd/goslm/cli"
	"github.com/willibrandon/goslm/cmd/goslm/output"
	"github.com/willibrandon/goslm/settings"
)

type priorityOptions struct {
	profile string
}

// NewPriorityCommand creates the priority command with get/set/list subcommands
func NewPriorityCommand(console *output.Console, opts *cli.GlobalOptions) *cobra.Command {
	prOpts := &priorityOptions{}

	cmd := &cobra.Command{
		Use:   "priority",
		Short: "Read and change project load priorities",
		Long: `Reads and changes the load priority of projects in a profile, the
active profile unless --profile is given.

Projects are named by GUID or by their name in the solution. Priorities are
DemandLoad, BackgroundLoad, LoadIfNeeded or ExplicitLoadOnly (also accepted:
demand, background, if-needed, explicit, or the codes 0 to 3).

Examples:
  goslm priority set explicit WebApi.Tests DataLayer
  goslm priority get WebApi
  goslm priority list --profile Fast`,
	}

	cmd.PersistentFlags().StringVar(&prOpts.profile, "profile", "", "Profile to use instead of the active one")

	cmd.AddCommand(&cobra.Command{
		Use:   "get <project>...",
		Short: "Show the priority of projects",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPriorityGet(cmd.Context(), console, opts, prOpts, args)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "set <priority> <project>...",
		Short: "Set the priority of projects",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrioritySet(cmd.Context(), console, opts, prOpts, args[0], args[1:])
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Show the priority of every project in the solution",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPriorityList(cmd.Context(), console, opts, prOpts)
		},
	})

	return cmd
}

func runPriorityGet(ctx context.Context, console *output.Console, opts *cli.GlobalOptions, prOpts *priorityOptions, refs []string) (err error) {
	s, err := openSession(ctx, console, opts, "priority.get")
	if err != nil {
		return err
	}
	defer func() { err = s.finish(err) }()

	profile, err := s.profileOrActive(prOpts.profile)
	if err != nil {
		return err
	}
	ids, err := s.resolveProjects(refs)
	if err != nil {
		return err
	}
	names := s.projectNames()

	result := output.PriorityGetOutput{
		SchemaVersion: output.CurrentSchemaVersion,
		Profile:       profile,
		Projects:      make([]output.ProjectPriority, 0, len(ids)),
	}
	for _, id := range ids {
		p, err := s.manager.ProjectLoadPriority(profile, id)
		if err != nil {
			return err
		}
		result.Projects = append(result.Projects, toProjectPriority(id, names[id], p))
	}

	if opts.JSON() {
		result.ElapsedMs = output.MeasureElapsed(s.start)
		return output.WriteJSON(console.Out(), result)
	}
	writePriorityRows(console, result.Projects)
	return nil
}

func runPrioritySet(ctx context.Context, console *output.Console, opts *cli.GlobalOptions, prOpts *priorityOptions, priority string, refs []string) (err error) {
	p, err := settings.ParseLoadPriority(priority)
	if err != nil {
		return err
	}

	s, err := openSession(ctx, console, opts, "priority.set")
	if err != nil {
		return err
	}
	defer func() { err = s.finish(err) }()

	profile, err := s.profileOrActive(prOpts.profile)
	if err != nil {
		return err
	}
	ids, err := s.resolveProjects(refs)
	if err != nil {
		return err
	}

	if err := settings.ApplyPriority(s.manager, profile, ids, p); err != nil {
		return err
	}

	console.Success("Set %s on %d project(s) in profile %q", p, len(ids), profile)
	for _, id := range ids {
		console.Detail("  %s", id)
	}
	return nil
}

func runPriorityList(ctx context.Context, console *output.Console, opts *cli.GlobalOptions, prOpts *priorityOptions) (err error) {
	s, err := openSession(ctx, console, opts, "priority.list")
	if err != nil {
		return err
	}
	defer func() { err = s.finish(err) }()

	sol, err := s.solution()
	if err != nil {
		return err
	}
	profile, err := s.profileOrActive(prOpts.profile)
	if err != nil {
		return err
	}
	active, err := s.manager.ActiveProfile()
	if err != nil {
		return err
	}

	result := output.ProfileOutput{
		SchemaVersion: output.CurrentSchemaVersion,
		Solution:      s.solutionName(),
		Backend:       s.backend,
		Profile:       profile,
		Active:        profile == active,
		Projects:      make([]output.ProjectPriority, 0, len(sol.Projects)),
	}
	for _, proj := range sol.Projects {
		p, err := s.manager.ProjectLoadPriority(profile, proj.ID)
		if err != nil {
			return err
		}
		result.Projects = append(result.Projects, toProjectPriority(proj.ID, proj.Name, p))
	}

	if opts.JSON() {
		result.ElapsedMs = output.MeasureElapsed(s.start)
		return output.WriteJSON(console.Out(), result)
	}

	console.Println(output.ColorHeader.Sprintf("%s, profile %q", result.Solution, profile))
	if len(result.Projects) == 0 {
		console.Println("  The solution has no projects.")
		return nil
	}
	writePriorityRows(console, result.Projects)
	return nil
}
