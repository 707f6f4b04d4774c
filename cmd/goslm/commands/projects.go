package commands

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/willibrandon/goslm/cmd/goslm/cli"
	"github.com/willibrandon/goslm/cmd/goslm/output"
	"github.com/willibrandon/goslm/settings"
	"github.com/willibrandon/goslm/solution"
)

type projectsOptions struct {
	profile string
}

// NewProjectsCommand creates the projects command
func NewProjectsCommand(console *output.Console, opts *cli.GlobalOptions) *cobra.Command {
	projOpts := &projectsOptions{}

	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Show the solution tree with each project's load priority",
		Long: `Show the solution's folders and projects as a tree, each project
colored by its load priority in the active profile (or --profile).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProjects(cmd.Context(), console, opts, projOpts)
		},
	}

	cmd.Flags().StringVar(&projOpts.profile, "profile", "", "Profile to use instead of the active one")

	return cmd
}

func runProjects(ctx context.Context, console *output.Console, opts *cli.GlobalOptions, projOpts *projectsOptions) (err error) {
	s, err := openSession(ctx, console, opts, "projects")
	if err != nil {
		return err
	}
	defer func() { err = s.finish(err) }()

	sol, err := s.solution()
	if err != nil {
		return err
	}

	var (
		profile    string
		priorities map[uuid.UUID]settings.LoadPriority
	)
	if projOpts.profile == "" {
		if profile, err = s.manager.ActiveProfile(); err != nil {
			return err
		}
		priorities, err = settings.ResolvePriorities(s.manager, sol.ProjectIDs())
	} else {
		profile = projOpts.profile
		priorities, err = profilePriorities(s.manager, profile, sol.ProjectIDs())
	}
	if err != nil {
		return err
	}

	tree := solution.BuildTree(sol, priorities)

	if opts.JSON() {
		return output.WriteJSON(console.Out(), output.ProjectTreeOutput{
			SchemaVersion: output.CurrentSchemaVersion,
			Solution:      s.solutionName(),
			Profile:       profile,
			Root:          toTreeNode(tree),
			ElapsedMs:     output.MeasureElapsed(s.start),
		})
	}

	return tree.Walk(func(node *solution.Node, depth int) error {
		indent := strings.Repeat("  ", depth)
		switch node.Kind {
		case solution.RootNode:
			console.Println(output.ColorHeader.Sprintf("%s (profile %q)", node.Name, profile))
		case solution.FolderNode:
			console.Printf("%s%s/\n", indent, output.ColorFolder.Sprint(node.Name))
		case solution.ProjectNode:
			console.Printf("%s%s  %s\n", indent, node.Name, output.PriorityColor(node.Priority).Sprintf("[%s]", node.Priority))
		}
		return nil
	})
}

func profilePriorities(m settings.Manager, profile string, ids []uuid.UUID) (map[uuid.UUID]settings.LoadPriority, error) {
	priorities := make(map[uuid.UUID]settings.LoadPriority, len(ids))
	for _, id := range ids {
		p, err := m.ProjectLoadPriority(profile, id)
		if err != nil {
			return nil, err
		}
		priorities[id] = p
	}
	return priorities, nil
}

func toTreeNode(n *solution.Node) output.TreeNode {
	node := output.TreeNode{Name: n.Name}
	switch n.Kind {
	case solution.RootNode:
		node.Kind = "solution"
	case solution.FolderNode:
		node.Kind = "folder"
		node.ID = n.ID.String()
	case solution.ProjectNode:
		node.Kind = "project"
		node.ID = n.ID.String()
		node.Path = n.Project.Path
		node.Priority = n.Priority.String()
	}
	for _, child := range n.Children {
		node.Children = append(node.Children, toTreeNode(child))
	}
	return node
}
